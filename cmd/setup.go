package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/spendwise/internal/config"
	"github.com/theirongolddev/spendwise/internal/store"
	"github.com/theirongolddev/spendwise/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg := appConfig

	// Count expenses so the welcome note can say what is already there
	count := 0
	if st, err := store.Open(flagDBPath); err == nil {
		if expenses, err := st.GetExpenses(); err == nil {
			count = len(expenses)
		}
		_ = st.Close()
	}

	vals := tui.SetupValuesFrom(cfg)
	if err := tui.NewSetupForm(count, flagDBPath, &vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return err
	}
	vals.Apply(&cfg)

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	logger.Info("config saved", "path", config.ConfigPath())

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `spendwise setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}
