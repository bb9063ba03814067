package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/aidb-dev/aidb-cli/internal/core/auth"
	"github.com/aidb-dev/aidb-cli/internal/core/models"
	"github.com/aidb-dev/aidb-cli/internal/core/query"
	"github.com/aidb-dev/aidb-cli/internal/interface/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui <project-id>",
	Short: "Launch the interactive query editor",
	Long: `Launch the interactive terminal UI for one project: write questions
in plain English, review the generated SQL, run queries, and browse
history without leaving the terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	projectID := args[0]

	e, err := newEnv(ctx)
	if err != nil {
		return err
	}
	user, token, err := e.requireSignIn()
	if err != nil {
		return err
	}

	// Resolve the project name for the header before entering the
	// alternate screen, so a bad id fails fast with a plain error.
	project, err := auth.Guard(user, token, func(token string) (models.Project, error) {
		p, t, err := e.api.GetProject(ctx, token, projectID)
		e.tiers.UpdateIfNotNull(t)
		return p, err
	})
	if err != nil {
		return err
	}

	ctl := query.NewController(e.session, e.tiers, e.api, projectID)
	model := tui.New(ctx, ctl, e.tiers, project.Name)
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
