package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.DefaultDays != 30 || cfg.Budget.Rollover != "calendar" || cfg.Velocity.Period != "month" {
		t.Errorf("defaults = %+v", cfg)
	}
	if Exists() {
		t.Error("Exists() = true before Save")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.General.Currency = "€"
	cfg.Budget.Rollover = "fixed"
	cfg.Appearance.Theme = "tokyo-night"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != cfg {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SPENDWISE_DB_PATH", "/tmp/other.db")
	t.Setenv("SPENDWISE_ROLLOVER", "FIXED")
	t.Setenv("SPENDWISE_CURRENCY", "£")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.DBPath != "/tmp/other.db" {
		t.Errorf("DBPath = %q", cfg.General.DBPath)
	}
	if cfg.Budget.Rollover != "fixed" {
		t.Errorf("Rollover = %q, want fixed", cfg.Budget.Rollover)
	}
	if cfg.General.Currency != "£" {
		t.Errorf("Currency = %q", cfg.General.Currency)
	}
	if DBPath(cfg) != "/tmp/other.db" {
		t.Errorf("DBPath(cfg) = %q", DBPath(cfg))
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path := filepath.Join(dir, "spendwise", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[budget]\nrollover = \"sometimes\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Load()
	if err == nil {
		t.Fatal("invalid rollover accepted")
	}
	if !strings.Contains(err.Error(), "Rollover") {
		t.Errorf("error = %q, want field name", err)
	}
}

func TestDBPath_Default(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DBPath(DefaultConfig()); got != filepath.Join("/data", "spendwise", "spendwise.db") {
		t.Errorf("DBPath = %q", got)
	}
}
