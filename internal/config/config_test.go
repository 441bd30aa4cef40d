package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing config file should not be an error: %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Session.Backend != "memory" {
		t.Errorf("expected default session backend memory, got %q", cfg.Session.Backend)
	}
}

func TestLoadConfigParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9100
providers:
  browsing:
    apiKey: file-key
session:
  backend: redis
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("expected port 9100, got %d", cfg.Server.Port)
	}
	if cfg.Providers.Browsing.APIKey != "file-key" {
		t.Errorf("expected browsing key from file, got %q", cfg.Providers.Browsing.APIKey)
	}
	if cfg.Session.Backend != "redis" {
		t.Errorf("expected session backend redis, got %q", cfg.Session.Backend)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
providers:
  browsing:
    apiKey: file-key
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("YUTORI_API_KEY", "env-key")
	t.Setenv("PORT", "7777")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Providers.Browsing.APIKey != "env-key" {
		t.Errorf("env var should win over file value, got %q", cfg.Providers.Browsing.APIKey)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("expected port from PORT env, got %d", cfg.Server.Port)
	}
}

func TestEmptyEnvDoesNotClobber(t *testing.T) {
	t.Setenv("NEO4J_URI", "")

	cfg := DefaultConfig()
	cfg.ApplyEnv()
	if cfg.Databases.Neo4j.Uri != "bolt://localhost:7687" {
		t.Errorf("empty env var must not clobber the default, got %q", cfg.Databases.Neo4j.Uri)
	}
}
