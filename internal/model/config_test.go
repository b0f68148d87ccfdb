package model

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Calendar.Timezone != "Asia/Kolkata" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Archive.Concurrency != 1 || cfg.Server.Addr != ":8080" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Auth.StaticTokens == nil {
		t.Error("static tokens map is nil")
	}
}

func TestLoadConfigFileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `owner: file-owner
database:
  driver: postgres
  dsn: postgres://localhost/taskdesk
archive:
  concurrency: 0
auth:
  mode: static
  static_tokens:
    abc: owner-abc
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TASKDESK_OWNER", "env-owner")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Owner != "env-owner" {
		t.Errorf("Owner = %q, want env-owner", cfg.Owner)
	}
	if cfg.Database.Driver != "postgres" || cfg.Database.DSN != "postgres://localhost/taskdesk" {
		t.Errorf("Database = %+v", cfg.Database)
	}
	if cfg.Archive.Concurrency != 1 {
		t.Errorf("Concurrency = %d, want floor of 1", cfg.Archive.Concurrency)
	}
	if cfg.Auth.StaticTokens["abc"] != "owner-abc" {
		t.Errorf("StaticTokens = %v", cfg.Auth.StaticTokens)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want default info", cfg.Log.Level)
	}
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("database: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}
