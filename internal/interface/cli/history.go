package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/aidb-dev/aidb-cli/internal/core/db"
	"github.com/aidb-dev/aidb-cli/internal/core/models"
	"github.com/aidb-dev/aidb-cli/internal/core/query"
)

var (
	historyOffline bool
	historySearch  string
	historyLimit   int
)

var historyCmd = &cobra.Command{
	Use:   "history <project-id>",
	Short: "Browse a project's query history",
	Long: `List the project's past queries, most recent first. Fetched history
is mirrored to a local database so --offline and --search work without
a connection.

Examples:
  aidb history 8f2c41d7
  aidb history 8f2c41d7 --search revenue
  aidb history 8f2c41d7 --offline`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolVar(&historyOffline, "offline", false, "Read the local mirror instead of the server")
	historyCmd.Flags().StringVar(&historySearch, "search", "", "Filter entries whose question or SQL contains the term")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 50, "Maximum entries to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	projectID := args[0]

	e, err := newEnv(ctx)
	if err != nil {
		return err
	}

	mirror, err := db.New(e.cfg.HistoryDBPath)
	if err != nil {
		return fmt.Errorf("open history mirror: %w", err)
	}
	defer func() { _ = mirror.Close() }()

	if !historyOffline {
		if _, _, err := e.requireSignIn(); err != nil {
			return err
		}
		ctl := query.NewController(e.session, e.tiers, e.api, projectID)
		entries, err := ctl.HistoryEntries(ctx)
		if err != nil {
			return err
		}
		if err := mirror.SyncHistory(projectID, entries); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not update local mirror: %v\n", err)
		}
		if historySearch == "" {
			return printHistory(entries, historyLimit)
		}
	}

	var entries []models.Query
	if historySearch != "" {
		entries, err = mirror.SearchHistory(projectID, historySearch, historyLimit)
	} else {
		entries, err = mirror.ListHistory(projectID, historyLimit)
	}
	if err != nil {
		return err
	}
	return printHistory(entries, historyLimit)
}

func printHistory(entries []models.Query, limit int) error {
	if len(entries) == 0 {
		fmt.Println("No history entries.")
		return nil
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	for _, q := range entries {
		when := "unknown time"
		if q.Timestamp != nil {
			when = humanize.Time(*q.Timestamp)
		}
		fmt.Printf("%s  %s", q.ID, when)
		if q.Status != "" {
			fmt.Printf("  [%s]", q.Status)
		}
		fmt.Println()
		if q.NLQuery != "" {
			fmt.Printf("  Q: %s\n", q.NLQuery)
		}
		fmt.Printf("  SQL: %s\n\n", strings.TrimSpace(q.SQLQuery))
	}
	return nil
}
