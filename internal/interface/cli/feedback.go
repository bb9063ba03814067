package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidb-dev/aidb-cli/internal/core/auth"
	"github.com/aidb-dev/aidb-cli/internal/core/models"
)

var feedbackType string

var feedbackCmd = &cobra.Command{
	Use:   "feedback <message...>",
	Short: "Send feedback to the AiDB team",
	Long: `Send feedback about AiDB.

Examples:
  aidb feedback "Love the translation quality"
  aidb feedback --type bug "Upload fails on files with merged cells"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := newEnv(ctx)
		if err != nil {
			return err
		}
		user, token, err := e.requireSignIn()
		if err != nil {
			return err
		}

		switch feedbackType {
		case models.FeedbackBug, models.FeedbackFeature, models.FeedbackGeneral:
		default:
			return fmt.Errorf("invalid feedback type %q (expected bug, feature, or general)", feedbackType)
		}

		message := strings.TrimSpace(strings.Join(args, " "))
		if message == "" {
			return fmt.Errorf("feedback message cannot be empty")
		}

		fb := models.Feedback{Type: feedbackType, Message: message}
		ack, err := auth.Guard(user, token, func(token string) (string, error) {
			return e.api.SubmitFeedback(ctx, token, fb)
		})
		if err != nil {
			return err
		}
		if ack == "" {
			ack = "Thank you for your feedback!"
		}
		fmt.Println(ack)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(feedbackCmd)
	feedbackCmd.Flags().StringVar(&feedbackType, "type", models.FeedbackGeneral, "Feedback type: bug, feature, or general")
}
