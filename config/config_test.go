package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadConfigSessionAndFilters(t *testing.T) {
	path := writeConfig(t, `
[session]
directory = "/var/log/app"
from = "now-1d"

[filters]
errors = 'WHERE event = "ERROR"'
boot = 'WHERE event = "BOOT"'
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Session.Directory != "/var/log/app" {
		t.Errorf("unexpected directory: %q", cfg.Session.Directory)
	}
	if cfg.Session.From != "now-1d" {
		t.Errorf("unexpected from: %q", cfg.Session.From)
	}

	text, ok := cfg.Filter("errors")
	if !ok || text != `WHERE event = "ERROR"` {
		t.Errorf("unexpected errors filter: %q, ok=%v", text, ok)
	}
	if _, ok := cfg.Filter("missing"); ok {
		t.Error("expected missing preset to be absent")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := writeConfig(t, "[session\ndirectory = \"x\"\n")
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected an error for malformed TOML")
	}
}

func TestLoadConfigEmptyFile(t *testing.T) {
	path := writeConfig(t, "")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Session == nil {
		t.Error("expected Session to be initialized even when absent")
	}
	if len(cfg.Filters) != 0 {
		t.Errorf("expected no filters, got %d", len(cfg.Filters))
	}
}

func TestLoadConfigIgnoresNonStringFilterValues(t *testing.T) {
	path := writeConfig(t, `
[filters]
good = "WHERE a = 1"
bad = 42
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cfg.Filter("good"); !ok {
		t.Error("expected good filter to be present")
	}
	if _, ok := cfg.Filter("bad"); ok {
		t.Error("expected non-string filter value to be skipped")
	}
}
