package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/cbroglie/mustache"
	"github.com/spf13/cobra"

	"github.com/aidb-dev/aidb-cli/internal/core/db"
	"github.com/aidb-dev/aidb-cli/internal/core/models"
	"github.com/aidb-dev/aidb-cli/internal/core/query"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <project-id> <query-id>",
	Short: "Export a history entry as markdown",
	Long: `Render one history entry through the export template. The default
template produces markdown; drop export_template.md into the config
directory to customize it.

Examples:
  aidb export 8f2c41d7 q-4411
  aidb export 8f2c41d7 q-4411 -o query.md`,
	Args: cobra.ExactArgs(2),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	projectID, queryID := args[0], args[1]

	e, err := newEnv(ctx)
	if err != nil {
		return err
	}

	entry, err := findHistoryEntry(cmd, e, projectID, queryID)
	if err != nil {
		return err
	}

	data := map[string]any{
		"id":       entry.ID,
		"nlQuery":  entry.NLQuery,
		"sqlQuery": entry.SQLQuery,
		"status":   entry.Status,
	}
	if entry.Timestamp != nil {
		data["timestamp"] = entry.Timestamp.Format(time.RFC3339)
	}

	rendered, err := mustache.Render(e.cfg.ExportTemplate, data)
	if err != nil {
		return fmt.Errorf("render template: %w", err)
	}

	if exportOutput == "" {
		fmt.Print(rendered)
		if len(rendered) > 0 && rendered[len(rendered)-1] != '\n' {
			fmt.Println()
		}
		return nil
	}
	if err := os.WriteFile(exportOutput, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Printf("Exported query %s to %s\n", queryID, exportOutput)
	return nil
}

// findHistoryEntry checks the local mirror first and falls back to a
// server fetch, so exports work offline for anything already synced.
func findHistoryEntry(cmd *cobra.Command, e *env, projectID, queryID string) (models.Query, error) {
	if mirror, err := db.New(e.cfg.HistoryDBPath); err == nil {
		entries, err := mirror.ListHistory(projectID, 10000)
		_ = mirror.Close()
		if err == nil {
			for _, q := range entries {
				if q.ID == queryID {
					return q, nil
				}
			}
		}
	}

	if _, _, err := e.requireSignIn(); err != nil {
		return models.Query{}, err
	}
	ctl := query.NewController(e.session, e.tiers, e.api, projectID)
	entries, err := ctl.HistoryEntries(cmd.Context())
	if err != nil {
		return models.Query{}, err
	}
	for _, q := range entries {
		if q.ID == queryID {
			return q, nil
		}
	}
	return models.Query{}, fmt.Errorf("query %s not found in project %s history", queryID, projectID)
}
