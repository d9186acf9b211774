package cmd

import (
	"fmt"

	"github.com/theirongolddev/spendwise/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appConfig

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Default days: %d\n", cfg.General.DefaultDays)
	fmt.Printf("    Currency:     %s\n", cfg.General.Currency)
	fmt.Printf("    Database:     %s\n", config.DBPath(cfg))
	fmt.Println()

	fmt.Println("  [Budget]")
	fmt.Printf("    Rollover: %s\n", cfg.Budget.Rollover)
	fmt.Println()

	fmt.Println("  [Velocity]")
	fmt.Printf("    Period: %s\n", cfg.Velocity.Period)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [TUI]")
	fmt.Printf("    Auto-refresh: %v (every %ds)\n", cfg.TUI.AutoRefresh, cfg.TUI.RefreshIntervalSec)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:  %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Interval: %ds\n", cfg.Daemon.IntervalSec)
	fmt.Println()

	fmt.Println("  [Log]")
	level := cfg.Log.Level
	if level == "" {
		level = "info"
	}
	fmt.Printf("    Level: %s  JSON: %v\n", level, cfg.Log.JSON)
	fmt.Println()

	fmt.Println("  Environment overrides: SPENDWISE_DB_PATH, SPENDWISE_CURRENCY, SPENDWISE_ROLLOVER, SPENDWISE_THEME, SPENDWISE_LOG_LEVEL")
	fmt.Println("  Run `spendwise setup` to reconfigure.")
	return nil
}
