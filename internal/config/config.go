// Package config loads and saves spendwise settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds all spendwise configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Budget     BudgetConfig     `toml:"budget"`
	Velocity   VelocityConfig   `toml:"velocity"`
	Appearance AppearanceConfig `toml:"appearance"`
	TUI        TUIConfig        `toml:"tui"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DefaultDays int    `toml:"default_days" validate:"min=1,max=3650"`
	DBPath      string `toml:"db_path,omitempty"`
	Currency    string `toml:"currency" validate:"required,max=4"`
}

// BudgetConfig controls how budget windows move over time.
type BudgetConfig struct {
	Rollover string `toml:"rollover" validate:"oneof=calendar fixed"`
}

// VelocityConfig sets the default velocity window.
type VelocityConfig struct {
	Period string `toml:"period" validate:"oneof=week month"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// TUIConfig holds dashboard settings.
type TUIConfig struct {
	AutoRefresh        bool `toml:"auto_refresh"`
	RefreshIntervalSec int  `toml:"refresh_interval_sec" validate:"min=5"`
}

// DaemonConfig holds background service settings.
type DaemonConfig struct {
	Addr        string `toml:"addr" validate:"required"`
	IntervalSec int    `toml:"interval_sec" validate:"min=2"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level string `toml:"level" validate:"omitempty,oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
	JSON  bool   `toml:"json"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultDays: 30,
			Currency:    "$",
		},
		Budget:     BudgetConfig{Rollover: "calendar"},
		Velocity:   VelocityConfig{Period: "month"},
		Appearance: AppearanceConfig{Theme: "flexoki-dark"},
		TUI: TUIConfig{
			AutoRefresh:        true,
			RefreshIntervalSec: 30,
		},
		Daemon: DaemonConfig{
			Addr:        "127.0.0.1:8787",
			IntervalSec: 15,
		},
		Log: LogConfig{Level: "info"},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "spendwise")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "spendwise")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "spendwise")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "spendwise")
}

// DBPath returns the configured database path, or the default under DataDir.
func DBPath(cfg Config) string {
	if cfg.General.DBPath != "" {
		return cfg.General.DBPath
	}
	return filepath.Join(DataDir(), "spendwise.db")
}

// Load reads the config file, returning defaults if it doesn't exist.
// SPENDWISE_* environment variables override file values.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// envOverrides maps SPENDWISE_* variables onto config fields.
type envOverrides struct {
	DBPath   string `koanf:"SPENDWISE_DB_PATH"`
	Currency string `koanf:"SPENDWISE_CURRENCY"`
	Rollover string `koanf:"SPENDWISE_ROLLOVER"`
	Theme    string `koanf:"SPENDWISE_THEME"`
	LogLevel string `koanf:"SPENDWISE_LOG_LEVEL"`
}

func applyEnv(cfg *Config) error {
	k := koanf.New(".")
	if err := k.Load(env.Provider("SPENDWISE_", ".", nil), nil); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}

	var ov envOverrides
	if err := k.UnmarshalWithConf("", &ov, koanf.UnmarshalConf{Tag: "koanf", FlatPaths: true}); err != nil {
		return fmt.Errorf("decoding environment: %w", err)
	}

	if ov.DBPath != "" {
		cfg.General.DBPath = ov.DBPath
	}
	if ov.Currency != "" {
		cfg.General.Currency = ov.Currency
	}
	if ov.Rollover != "" {
		cfg.Budget.Rollover = strings.ToLower(ov.Rollover)
	}
	if ov.Theme != "" {
		cfg.Appearance.Theme = ov.Theme
	}
	if ov.LogLevel != "" {
		cfg.Log.Level = ov.LogLevel
	}
	return nil
}

// Validate checks field ranges and enumerations.
func Validate(cfg Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (got %v)", fe.Namespace(), fe.Tag()+" "+fe.Param(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
