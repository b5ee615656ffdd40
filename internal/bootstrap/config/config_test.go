package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoadAppliesFileAndDefaults(t *testing.T) {
	path := writeConfigFile(t, `
database:
  dsn: /tmp/kudos-test.sqlite
github:
  token: test-token
  page_size: 50
`)

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.DSN != "/tmp/kudos-test.sqlite" {
		t.Fatalf("dsn = %q", cfg.Database.DSN)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("driver = %q, want default sqlite", cfg.Database.Driver)
	}
	if cfg.GitHub.Token != "test-token" {
		t.Fatalf("token = %q", cfg.GitHub.Token)
	}
	if cfg.GitHub.PageSize != 50 {
		t.Fatalf("page_size = %d, want 50", cfg.GitHub.PageSize)
	}
	if cfg.GitHub.Timeout != 30*time.Second {
		t.Fatalf("timeout = %s, want default 30s", cfg.GitHub.Timeout)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("http addr = %q, want default :8080", cfg.HTTP.Addr)
	}
}

func TestLoadRejectsBadPageSize(t *testing.T) {
	path := writeConfigFile(t, `
database:
  dsn: /tmp/kudos-test.sqlite
github:
  page_size: 101
`)

	if _, err := Load(context.Background(), path); err == nil {
		t.Fatal("Load() error = nil, want page_size validation failure")
	}
}

func TestLoadRejectsEmptyDSN(t *testing.T) {
	path := writeConfigFile(t, `
database:
  dsn: ""
`)

	if _, err := Load(context.Background(), path); err == nil {
		t.Fatal("Load() error = nil, want dsn validation failure")
	}
}

func TestLoadReadsEnv(t *testing.T) {
	t.Setenv("KUDOS_GITHUB_TOKEN", "env-token")

	path := writeConfigFile(t, `
database:
  dsn: /tmp/kudos-test.sqlite
`)

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.GitHub.Token != "env-token" {
		t.Fatalf("token = %q, want env-token", cfg.GitHub.Token)
	}
}
