package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd.Context())
		if err != nil {
			return err
		}
		user, _, err := e.requireSignIn()
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
