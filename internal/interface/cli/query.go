package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidb-dev/aidb-cli/internal/core/query"
)

var queryCmd = &cobra.Command{
	Use:   "query <project-id> <sql...>",
	Short: "Execute SQL against a project",
	Long: `Execute a SQL query against the project's tables and print the rows.

Examples:
  aidb query 8f2c41d7 "SELECT region, SUM(amount) FROM sales GROUP BY region"
  aidb query 8f2c41d7 "SELECT * FROM customers LIMIT 10;"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	projectID := args[0]
	sql := strings.Join(args[1:], " ")

	e, err := newEnv(ctx)
	if err != nil {
		return err
	}
	if _, _, err := e.requireSignIn(); err != nil {
		return err
	}

	ctl := query.NewController(e.session, e.tiers, e.api, projectID)
	if err := ctl.FetchTierIfNeeded(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: could not load tier info; limits will be enforced server-side.")
	}

	ctl.Workflow().SetMode(query.ModeSQL)
	ctl.Workflow().SetSQL(sql)
	result, err := ctl.Submit(ctx)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), result)
}
