package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/aidb-dev/aidb-cli/internal/core/query"
)

var (
	translateCopy    bool
	translateExecute bool
)

var translateCmd = &cobra.Command{
	Use:   "translate <project-id> <text...>",
	Short: "Translate natural language into SQL",
	Long: `Translate a plain-English question into SQL against the project's
tables. The generated SQL is printed; pass --execute to also run it.

Examples:
  aidb translate 8f2c41d7 "total sales by region last quarter"
  aidb translate 8f2c41d7 --copy "top ten customers by revenue"
  aidb translate 8f2c41d7 --execute "average order value per month"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)
	translateCmd.Flags().BoolVar(&translateCopy, "copy", false, "Copy the generated SQL to the clipboard")
	translateCmd.Flags().BoolVar(&translateExecute, "execute", false, "Execute the generated SQL and print the rows")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	projectID := args[0]
	text := strings.TrimSpace(strings.Join(args[1:], " "))

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

	ctl.Workflow().SetNL(text)
	q, err := ctl.Translate(ctx)
	if err != nil {
		return err
	}

	fmt.Println(q.SQLQuery)

	if translateCopy {
		if err := clipboard.WriteAll(q.SQLQuery); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not copy to clipboard: %v\n", err)
		} else {
			fmt.Fprintln(os.Stderr, "Copied to clipboard.")
		}
	}

	if translateExecute {
		result, err := ctl.Submit(ctx)
		if err != nil {
			return err
		}
		fmt.Println()
		return printResult(cmd.OutOrStdout(), result)
	}
	return nil
}
