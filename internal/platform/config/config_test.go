package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"pairvote/internal/platform/config"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PAIRVOTE_API_BASE", "")
	cfg, err := config.Load(dir, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage != config.StorageSQLite || cfg.DBPath != filepath.Join(dir, "pairvote.db") {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.RequestTimeout)
	}
}

func TestLoadFileThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := "api_base: http://arena.local\nstorage: file\nrequest_timeout: 3s\ntheme: light\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PAIRVOTE_STORAGE", "memory")
	cfg, err := config.Load(dir, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBase != "http://arena.local" || cfg.Theme != "light" || cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Storage != config.StorageMemory {
		t.Fatalf("env should override storage, got %s", cfg.Storage)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	if _, err := config.Load("", ""); err == nil {
		t.Fatalf("empty state dir must fail")
	}
	if _, err := config.Load(dir, filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("explicit missing config must fail")
	}
	t.Setenv("PAIRVOTE_STORAGE", "redis")
	if _, err := config.Load(dir, ""); err == nil {
		t.Fatalf("unknown storage must fail")
	}
}
