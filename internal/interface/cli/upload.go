package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/aidb-dev/aidb-cli/internal/core/auth"
	"github.com/aidb-dev/aidb-cli/internal/core/models"
)

var uploadExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xls":  true,
}

var uploadCmd = &cobra.Command{
	Use:   "upload <project-id> <file>",
	Short: "Upload a spreadsheet file into a project",
	Long: `Upload a CSV or Excel file. Each sheet becomes a queryable table in
the project.

Examples:
  aidb upload 8f2c41d7 sales.xlsx
  aidb upload 8f2c41d7 data/customers.csv`,
	Args: cobra.ExactArgs(2),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	projectID, path := args[0], args[1]

	ext := strings.ToLower(filepath.Ext(path))
	if !uploadExtensions[ext] {
		return fmt.Errorf("unsupported file type %q (expected .csv, .xlsx, or .xls)", ext)
	}

	e, err := newEnv(ctx)
	if err != nil {
		return err
	}
	user, token, err := e.requireSignIn()
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	// Client-side size gate from the tier; the server revalidates. A max
	// of -1 means unlimited, nil tier means not yet fetched.
	if err := e.tiers.FetchIfNeeded(ctx, token); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: could not load tier info; the server will enforce the size limit.")
	}
	if t := e.tiers.Tier(); t != nil {
		maxMB := models.ParseLimit(t.MaxFileSize)
		if maxMB != -1 && info.Size() > int64(maxMB)*1024*1024 {
			return fmt.Errorf("File size (%.1fMB) exceeds the maximum allowed size of %dMB for your %s tier.",
				float64(info.Size())/(1024*1024), maxMB, t.Name)
		}
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	type projectWithTier struct {
		project models.Project
		tier    *models.Tier
	}
	out, err := auth.Guard(user, token, func(token string) (projectWithTier, error) {
		p, t, err := e.api.UploadFile(ctx, token, projectID, filepath.Base(path), file)
		return projectWithTier{project: p, tier: t}, err
	})
	if err != nil {
		return err
	}
	e.tiers.UpdateIfNotNull(out.tier)

	fmt.Printf("Uploaded %s (%s) to project %s\n",
		filepath.Base(path), humanize.Bytes(uint64(info.Size())), out.project.Name)
	for _, table := range out.project.Tables {
		if table.FileName == filepath.Base(path) {
			fmt.Printf("  table %s (%d columns)\n", table.TableName, len(table.Columns))
		}
	}
	return nil
}
