package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AIDB_CONFIG_DIR", dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != defaultAPIBaseURL {
		t.Errorf("base url = %q", cfg.APIBaseURL)
	}
	if cfg.ExportTemplate != DefaultExportTemplate {
		t.Error("default template expected")
	}
	if cfg.CredentialsPath != filepath.Join(dir, "credentials.json") {
		t.Errorf("credentials path = %q", cfg.CredentialsPath)
	}
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AIDB_CONFIG_DIR", dir)

	tomlBody := "api_base_url = \"https://staging.aidb.dev\"\nidentity_url = \"https://id.aidb.dev\"\nidentity_api_key = \"key-1\"\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(tomlBody), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "export_template.md"), []byte("{{sqlQuery}}"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "https://staging.aidb.dev" || cfg.IdentityAPIKey != "key-1" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.ExportTemplate != "{{sqlQuery}}" {
		t.Errorf("template = %q", cfg.ExportTemplate)
	}

	// Environment beats the file.
	t.Setenv("AIDB_API_URL", "https://override.aidb.dev")
	cfg, _ = Load()
	if cfg.APIBaseURL != "https://override.aidb.dev" {
		t.Errorf("env override: base url = %q", cfg.APIBaseURL)
	}
}
