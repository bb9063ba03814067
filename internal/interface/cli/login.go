package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aidb-dev/aidb-cli/internal/core/api"
	"github.com/aidb-dev/aidb-cli/internal/core/auth"
	"github.com/aidb-dev/aidb-cli/internal/core/models"
)

var (
	loginEmail  string
	loginSignup bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to AiDB",
	Long: `Sign in with email and password. Credentials are cached in the config
directory so later commands reuse the session.

Examples:
  aidb login --email you@example.com
  aidb login --signup --email you@example.com`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email (prompted if omitted)")
	loginCmd.Flags().BoolVar(&loginSignup, "signup", false, "Create a new account instead of signing in")
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := newEnv(ctx)
	if err != nil {
		return err
	}

	email := strings.TrimSpace(loginEmail)
	if email == "" {
		fmt.Print("Email: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}
	if email == "" {
		return fmt.Errorf("email is required")
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	provider := auth.NewRESTProvider(e.cfg.IdentityURL, e.cfg.IdentityAPIKey)

	var id *auth.Identity
	if loginSignup {
		id, err = provider.SignUp(ctx, email, password)
	} else {
		id, err = provider.SignIn(ctx, email, password)
	}
	if err != nil {
		return err
	}

	if err := auth.SaveCredentials(e.cfg.CredentialsPath, id); err != nil {
		return err
	}
	e.session.HandleIdentityChange(id)

	user, token := e.session.Credentials()
	if loginSignup {
		// A fresh identity needs its backend user record.
		type registration struct {
			info api.UserInfo
			tier *models.Tier
		}
		reg, err := auth.Guard(user, token, func(token string) (registration, error) {
			info, t, err := e.api.RegisterUser(ctx, token)
			return registration{info: info, tier: t}, err
		})
		if err != nil {
			return err
		}
		e.tiers.UpdateIfNotNull(reg.tier)
	}

	// Tier refresh happens once per sign-in; a failure never fails login.
	if err := e.tiers.Refresh(ctx, token); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: could not load tier info; run 'aidb tier' to retry.")
	}

	fmt.Printf("Signed in as %s\n", id.User.Email)
	if t := e.tiers.Tier(); t != nil {
		fmt.Printf("Tier: %s (queries %s, translations %s)\n",
			t.Name,
			models.FormatLimitDisplay(t.QueryLimitUsage, t.QueryLimit),
			models.FormatLimitDisplay(t.TranslationLimitUsage, t.TranslationLimit))
	}
	return nil
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}
	// Piped input (tests, scripts)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
