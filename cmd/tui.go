package cmd

import (
	"fmt"

	"github.com/theirongolddev/spendwise/internal/pipeline"
	"github.com/theirongolddev/spendwise/internal/tui"
	"github.com/theirongolddev/spendwise/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	theme.SetActive(appConfig.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	policy, err := rolloverPolicy()
	if err != nil {
		return err
	}
	period, err := pipeline.ParseVelocityPeriod(appConfig.Velocity.Period)
	if err != nil {
		period = pipeline.VelocityMonth
	}

	app := tui.NewApp(tui.Options{
		DBPath:         flagDBPath,
		Days:           flagDays,
		Rollover:       policy,
		VelocityPeriod: period,
		Logger:         logger,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
