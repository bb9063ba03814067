package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aidb-dev/aidb-cli/internal/core/models"
)

var tierCmd = &cobra.Command{
	Use:   "tier",
	Short: "Show your tier limits and current usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := newEnv(ctx)
		if err != nil {
			return err
		}
		_, token, err := e.requireSignIn()
		if err != nil {
			return err
		}

		if err := e.tiers.FetchIfNeeded(ctx, token); err != nil {
			return err
		}
		t := e.tiers.Tier()
		if t == nil {
			return fmt.Errorf("no tier information available")
		}

		fmt.Printf("Tier: %s\n\n", t.Name)
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Queries\t%s\n", models.FormatLimitDisplay(t.QueryLimitUsage, t.QueryLimit))
		fmt.Fprintf(w, "Translations\t%s\n", models.FormatLimitDisplay(t.TranslationLimitUsage, t.TranslationLimit))
		fmt.Fprintf(w, "Data rows\t%s\n", models.FormatLimitDisplay(t.DataRowLimitUsage, t.DataRowLimit))
		fmt.Fprintf(w, "Projects\t%s\n", models.FormatLimitDisplay(t.ProjectLimitUsage, t.ProjectLimit))
		if models.ParseLimit(t.MaxFileSize) == -1 {
			fmt.Fprintf(w, "Max file size\t∞\n")
		} else {
			fmt.Fprintf(w, "Max file size\t%s MB\n", t.MaxFileSize)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(tierCmd)
}
