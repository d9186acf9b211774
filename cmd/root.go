// Package cmd implements the spendwise CLI commands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/theirongolddev/spendwise/internal/cli"
	"github.com/theirongolddev/spendwise/internal/config"
	"github.com/theirongolddev/spendwise/internal/logging"
	"github.com/theirongolddev/spendwise/internal/model"
	"github.com/theirongolddev/spendwise/internal/pipeline"
	"github.com/theirongolddev/spendwise/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagDays     int
	flagDBPath   string
	flagQuiet    bool
	flagRollover string
	flagVerbose  bool
)

var (
	appConfig = config.DefaultConfig()
	logger    = logging.Discard()
)

var rootCmd = &cobra.Command{
	Use:               "spendwise",
	Short:             "Personal spending tracker",
	Long:              "Track expenses and budgets: progress, spending velocity, streaks, trends, and levels.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&flagDays, "days", "n", 30, "Time window in days")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Database path (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagRollover, "rollover", "", "Budget rollover policy: calendar or fixed")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
}

// setup loads config, applies it to unset flags and configures logging.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	appConfig = cfg

	lc := logging.DefaultConfig()
	lc.Level = logging.ParseLevel(cfg.Log.Level)
	lc.JSON = cfg.Log.JSON
	switch {
	case flagVerbose:
		lc.Level = slog.LevelDebug
	case flagQuiet:
		lc.Level = slog.LevelError
	}
	logger = logging.Setup(lc)

	if !cmd.Flags().Changed("days") {
		flagDays = cfg.General.DefaultDays
	}
	if flagDBPath == "" {
		flagDBPath = config.DBPath(cfg)
	}
	if flagRollover == "" {
		flagRollover = cfg.Budget.Rollover
	}
	if flagDays < 1 {
		return fmt.Errorf("--days must be at least 1")
	}
	if _, err := rolloverPolicy(); err != nil {
		return err
	}

	cli.SetCurrency(cfg.General.Currency)
	logger.Debug("configured", "db", flagDBPath, "days", flagDays, "rollover", flagRollover)
	return nil
}

func rolloverPolicy() (model.RolloverPolicy, error) {
	switch p := model.RolloverPolicy(flagRollover); p {
	case model.RolloverCalendar, model.RolloverFixed:
		return p, nil
	}
	return "", fmt.Errorf("unknown rollover policy %q (want calendar or fixed)", flagRollover)
}

func openStore() (*store.Store, error) {
	st, err := store.Open(flagDBPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", flagDBPath, err)
	}
	return st, nil
}

// loadData opens the store and reads the full dataset.
func loadData() (*pipeline.Dataset, error) {
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	defer func() { _ = st.Close() }()

	ds, err := pipeline.Load(st)
	if err != nil {
		return nil, err
	}
	logger.Debug("dataset loaded", "expenses", len(ds.Expenses), "budgets", len(ds.Budgets))
	return ds, nil
}

// window returns the [since, until) range covered by --days.
func window(now time.Time) (time.Time, time.Time) {
	return now.AddDate(0, 0, -flagDays), now
}

// recordAchievements re-evaluates achievements after a write and announces
// any that were just unlocked.
func recordAchievements(st *store.Store) {
	ds, err := pipeline.Load(st)
	if err != nil {
		logger.Warn("evaluating achievements", "error", err)
		return
	}
	after := pipeline.EvaluateAchievements(ds.Expenses, ds.Budgets, ds.Achievements, time.Now())
	fresh := pipeline.NewlyUnlocked(ds.Achievements, after)
	if len(fresh) == 0 {
		return
	}
	if err := st.SaveAchievements(after); err != nil {
		logger.Warn("saving achievements", "error", err)
		return
	}
	if flagQuiet {
		return
	}
	for _, a := range fresh {
		fmt.Printf("  Achievement unlocked: %s (%s)\n", a.Title, a.Description)
	}
}
