package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidb-dev/aidb-cli/internal/core/auth"
	"github.com/aidb-dev/aidb-cli/internal/core/config"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget cached credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := auth.ClearCredentials(cfg.CredentialsPath); err != nil {
			return fmt.Errorf("clear credentials: %w", err)
		}
		fmt.Println("Signed out.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
