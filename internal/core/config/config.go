package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultExportTemplate renders one history entry to markdown. Users can
// replace it by dropping export_template.md into the config directory.
const DefaultExportTemplate = `# Query {{id}}

{{#nlQuery}}**Question:** {{nlQuery}}

{{/nlQuery}}` + "```sql\n{{sqlQuery}}\n```" + `
{{#timestamp}}
_Executed {{timestamp}}_
{{/timestamp}}`

const defaultAPIBaseURL = "https://api.aidb.dev"

type Config struct {
	APIBaseURL     string
	IdentityURL    string
	IdentityAPIKey string
	ExportTemplate string

	// Resolved paths under the config directory.
	CredentialsPath string
	HistoryDBPath   string
}

type tomlConfig struct {
	APIBaseURL     string `toml:"api_base_url"`
	IdentityURL    string `toml:"identity_url"`
	IdentityAPIKey string `toml:"identity_api_key"`
}

// Dir returns the config directory, honoring AIDB_CONFIG_DIR for tests
// and sandboxed installs.
func Dir() string {
	if dir := os.Getenv("AIDB_CONFIG_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".aidb"
	}
	return filepath.Join(home, ".config", "aidb")
}

// Load reads config from the config directory. Missing files mean
// defaults; environment variables AIDB_API_URL / AIDB_IDENTITY_URL /
// AIDB_IDENTITY_KEY override the file.
func Load() (*Config, error) {
	configDir := Dir()

	cfg := &Config{
		APIBaseURL:      defaultAPIBaseURL,
		ExportTemplate:  DefaultExportTemplate,
		CredentialsPath: filepath.Join(configDir, "credentials.json"),
		HistoryDBPath:   filepath.Join(configDir, "history.db"),
	}

	tomlPath := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(tomlPath); err == nil {
		var tc tomlConfig
		if _, err := toml.DecodeFile(tomlPath, &tc); err == nil {
			if tc.APIBaseURL != "" {
				cfg.APIBaseURL = tc.APIBaseURL
			}
			cfg.IdentityURL = tc.IdentityURL
			cfg.IdentityAPIKey = tc.IdentityAPIKey
		}
	}

	// Custom export template, if present
	if data, err := os.ReadFile(filepath.Join(configDir, "export_template.md")); err == nil {
		cfg.ExportTemplate = string(data)
	}

	if v := os.Getenv("AIDB_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("AIDB_IDENTITY_URL"); v != "" {
		cfg.IdentityURL = v
	}
	if v := os.Getenv("AIDB_IDENTITY_KEY"); v != "" {
		cfg.IdentityAPIKey = v
	}

	return cfg, nil
}
