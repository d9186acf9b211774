package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/spendwise/internal/config"
	"github.com/theirongolddev/spendwise/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the answers collected by the setup form.
type SetupValues struct {
	Currency string
	Days     int
	Rollover string
	Theme    string
}

// SetupValuesFrom seeds form answers from an existing config.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		Currency: cfg.General.Currency,
		Days:     cfg.General.DefaultDays,
		Rollover: cfg.Budget.Rollover,
		Theme:    cfg.Appearance.Theme,
	}
}

// Apply copies the answers onto cfg.
func (v SetupValues) Apply(cfg *config.Config) {
	if c := strings.TrimSpace(v.Currency); c != "" {
		cfg.General.Currency = c
	}
	if v.Days > 0 {
		cfg.General.DefaultDays = v.Days
	}
	if v.Rollover != "" {
		cfg.Budget.Rollover = v.Rollover
	}
	if v.Theme != "" {
		cfg.Appearance.Theme = v.Theme
	}
}

func validateCurrency(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("currency symbol is required")
	}
	if len([]rune(s)) > 4 {
		return errors.New("use at most 4 characters")
	}
	return nil
}

// NewSetupForm builds the first-run form. Answers are written into vals.
func NewSetupForm(expenseCount int, dbPath string, vals *SetupValues) *huh.Form {
	intro := "No expenses yet. Add one with `spendwise expense add` or import a folder."
	if expenseCount > 0 {
		intro = fmt.Sprintf("Found %d expenses in %s.", expenseCount, dbPath)
	}

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to spendwise").
				Description(intro+"\n\nA few settings, then the dashboard."),
			huh.NewInput().
				Title("Currency symbol").
				Placeholder("$").
				Value(&vals.Currency).
				Validate(validateCurrency),
			huh.NewSelect[int]().
				Title("Default time range").
				Options(
					huh.NewOption("7 days", 7),
					huh.NewOption("30 days", 30),
					huh.NewOption("90 days", 90),
				).
				Value(&vals.Days),
			huh.NewSelect[string]().
				Title("Budget periods").
				Description("How budget windows move over time").
				Options(
					huh.NewOption("Follow the calendar month/week", "calendar"),
					huh.NewOption("Stay pinned to the start date", "fixed"),
				).
				Value(&vals.Rollover),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	).WithShowHelp(true)
}

// saveSetupConfig persists the form answers and applies them to the app.
func (a *App) saveSetupConfig() error {
	cfg := loadConfigOrDefault()
	a.setupVals.Apply(&cfg)

	a.days = cfg.General.DefaultDays
	a.rollover = rolloverOf(cfg)
	theme.SetActive(cfg.Appearance.Theme)

	if err := config.Save(cfg); err != nil {
		a.log.Warn("saving setup config", "error", err)
		return err
	}
	return nil
}
