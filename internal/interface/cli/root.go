package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidb-dev/aidb-cli/internal/core/api"
	"github.com/aidb-dev/aidb-cli/internal/core/auth"
	"github.com/aidb-dev/aidb-cli/internal/core/config"
	"github.com/aidb-dev/aidb-cli/internal/core/tier"
)

var versionInfo string

// SetVersion sets the version information from build-time ldflags
func SetVersion(version, commit, date string) {
	versionInfo = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	rootCmd.Version = versionInfo
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "aidb",
	Short: "AiDB terminal client",
	Long: `aidb - upload spreadsheets and query them in plain English or SQL

A terminal client for the AiDB data platform: manage projects, upload
spreadsheet files, translate natural language to SQL, execute queries,
and browse your query history.`,
}

// env bundles the long-lived client state a command needs: config, API
// client, tier store, and the session restored from cached credentials.
type env struct {
	cfg     *config.Config
	api     *api.Client
	session *auth.Session
	tiers   *tier.Store
}

// newEnv loads config and restores the session. Expired cached tokens are
// refreshed through the identity provider when possible; otherwise the
// session comes up signed out and authenticated commands fail at the
// guard.
func newEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	client := api.New(cfg.APIBaseURL)
	tiers := tier.NewStore(client.GetTier)
	session := auth.NewSession(nil)

	creds, err := auth.LoadCredentials(cfg.CredentialsPath)
	if err != nil {
		return nil, err
	}
	switch {
	case creds == nil:
		session.HandleIdentityChange(nil)
	case creds.Expired(time.Now()) && creds.RefreshToken != "":
		provider := auth.NewRESTProvider(cfg.IdentityURL, cfg.IdentityAPIKey)
		id, err := provider.Refresh(ctx, creds.RefreshToken)
		if err != nil {
			session.HandleIdentityChange(nil)
		} else {
			if id.User.Email == "" {
				id.User.Email = creds.Email
			}
			if err := auth.SaveCredentials(cfg.CredentialsPath, id); err != nil {
				return nil, err
			}
			session.HandleIdentityChange(id)
		}
	case creds.Expired(time.Now()):
		session.HandleIdentityChange(nil)
	default:
		session.HandleIdentityChange(creds.Identity())
	}

	return &env{cfg: cfg, api: client, session: session, tiers: tiers}, nil
}

// requireSignIn returns the credentials or a uniform sign-in hint.
func (e *env) requireSignIn() (*auth.User, string, error) {
	user, token := e.session.Credentials()
	if user == nil || token == "" {
		return nil, "", fmt.Errorf("not signed in. Run 'aidb login' first")
	}
	return user, token, nil
}
