package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aidb-dev/aidb-cli/internal/core/auth"
	"github.com/aidb-dev/aidb-cli/internal/core/models"
)

const maxProjectNameLen = 50

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage projects",
	Long: `Manage AiDB projects. A project groups uploaded spreadsheet tables
and the queries run against them.

Examples:
  aidb projects list
  aidb projects create "Q3 sales"
  aidb projects show <project-id>
  aidb projects delete <project-id>`,
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your projects",
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

		projects, err := listProjects(cmd, e, user, token)
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			fmt.Println("No projects yet. Create one with 'aidb projects create <name>'.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tTABLES")
		for _, p := range projects {
			fmt.Fprintf(w, "%s\t%s\t%d\n", p.ID, p.Name, len(p.Tables))
		}
		return w.Flush()
	},
}

var projectsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
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

		name := strings.TrimSpace(args[0])
		if name == "" {
			return fmt.Errorf("project name cannot be empty")
		}
		if len([]rune(name)) > maxProjectNameLen {
			return fmt.Errorf("project name cannot exceed %d characters", maxProjectNameLen)
		}

		// The server enforces uniqueness and the project cap too; checking
		// here gives a clear message without burning a request.
		existing, err := listProjects(cmd, e, user, token)
		if err != nil {
			return err
		}
		for _, p := range existing {
			if strings.EqualFold(p.Name, name) {
				return fmt.Errorf("a project named %q already exists", p.Name)
			}
		}
		if t := e.tiers.Tier(); t != nil && models.IsLimitReached(t.ProjectLimitUsage, t.ProjectLimit) {
			return fmt.Errorf("You have reached your project limit of %s for your %s tier.",
				models.FormatLimit(t.ProjectLimit), t.Name)
		}

		type projectWithTier struct {
			project models.Project
			tier    *models.Tier
		}
		out, err := auth.Guard(user, token, func(token string) (projectWithTier, error) {
			p, t, err := e.api.CreateProject(ctx, token, name)
			return projectWithTier{project: p, tier: t}, err
		})
		if err != nil {
			return err
		}
		e.tiers.UpdateIfNotNull(out.tier)

		fmt.Printf("Created project %s (%s)\n", out.project.Name, out.project.ID)
		return nil
	},
}

var projectsShowCmd = &cobra.Command{
	Use:   "show <project-id>",
	Short: "Show a project's tables",
	Args:  cobra.ExactArgs(1),
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

		type projectWithTier struct {
			project models.Project
			tier    *models.Tier
		}
		out, err := auth.Guard(user, token, func(token string) (projectWithTier, error) {
			p, t, err := e.api.GetProject(ctx, token, args[0])
			return projectWithTier{project: p, tier: t}, err
		})
		if err != nil {
			return err
		}
		e.tiers.UpdateIfNotNull(out.tier)

		p := out.project
		fmt.Printf("%s (%s)\n", p.Name, p.ID)
		if len(p.Tables) == 0 {
			fmt.Println("\nNo tables. Upload a spreadsheet with 'aidb upload'.")
			return nil
		}
		for _, table := range p.Tables {
			fmt.Printf("\n%s (table %s, from %s)\n", table.DisplayName, table.TableName, table.FileName)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, col := range table.Columns {
				fmt.Fprintf(w, "  %s\t%s\n", col.Name, col.Type)
			}
			if err := w.Flush(); err != nil {
				return err
			}
		}
		return nil
	},
}

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete <project-id>",
	Short: "Delete a project and all its tables",
	Args:  cobra.ExactArgs(1),
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

		tier, err := auth.Guard(user, token, func(token string) (*models.Tier, error) {
			return e.api.DeleteProject(ctx, token, args[0])
		})
		if err != nil {
			return err
		}
		e.tiers.UpdateIfNotNull(tier)

		fmt.Printf("Deleted project %s\n", args[0])
		return nil
	},
}

var projectsDropTableCmd = &cobra.Command{
	Use:   "drop-table <project-id> <table-id>",
	Short: "Remove one uploaded table from a project",
	Args:  cobra.ExactArgs(2),
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

		t, err := auth.Guard(user, token, func(token string) (*models.Tier, error) {
			return e.api.DeleteTable(ctx, token, args[0], args[1])
		})
		if err != nil {
			return err
		}
		e.tiers.UpdateIfNotNull(t)

		fmt.Printf("Dropped table %s from project %s\n", args[1], args[0])
		return nil
	},
}

func listProjects(cmd *cobra.Command, e *env, user *auth.User, token string) ([]models.Project, error) {
	type projectsWithTier struct {
		projects []models.Project
		tier     *models.Tier
	}
	out, err := auth.Guard(user, token, func(token string) (projectsWithTier, error) {
		ps, t, err := e.api.ListProjects(cmd.Context(), token)
		return projectsWithTier{projects: ps, tier: t}, err
	})
	if err != nil {
		return nil, err
	}
	e.tiers.UpdateIfNotNull(out.tier)
	return out.projects, nil
}

func init() {
	rootCmd.AddCommand(projectsCmd)
	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsCreateCmd)
	projectsCmd.AddCommand(projectsShowCmd)
	projectsCmd.AddCommand(projectsDeleteCmd)
	projectsCmd.AddCommand(projectsDropTableCmd)
}
