// Package tui provides the interactive Bubble Tea dashboard for spendwise.
package tui

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/spendwise/internal/config"
	"github.com/theirongolddev/spendwise/internal/logging"
	"github.com/theirongolddev/spendwise/internal/model"
	"github.com/theirongolddev/spendwise/internal/pipeline"
	"github.com/theirongolddev/spendwise/internal/store"
	"github.com/theirongolddev/spendwise/internal/tui/components"
	"github.com/theirongolddev/spendwise/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// DataLoadedMsg is sent when the initial dataset load finishes.
type DataLoadedMsg struct {
	Dataset  *pipeline.Dataset
	LoadTime time.Duration
	Err      error
}

// RefreshDataMsg is sent when a background data refresh completes.
type RefreshDataMsg struct {
	Dataset  *pipeline.Dataset
	LoadTime time.Duration
	Err      error
}

// Options configures a new dashboard.
type Options struct {
	DBPath         string
	Days           int
	Rollover       model.RolloverPolicy
	VelocityPeriod pipeline.VelocityPeriod
	Logger         *slog.Logger
}

// budgetRow pairs a budget with its progress for display.
type budgetRow struct {
	Budget   model.Budget
	Progress model.BudgetProgress
	Label    string
}

// categoriesState is the Categories tab selection.
type categoriesState struct {
	cursor int
	window pipeline.TrendWindow
	list   []model.CategorySpend
	report pipeline.CategoryReport
}

// App is the root Bubble Tea model.
type App struct {
	// Data
	ds       *pipeline.Dataset
	loaded   bool
	loadErr  error
	loadTime time.Duration

	// Auto-refresh state
	autoRefresh     bool
	refreshInterval time.Duration
	lastRefresh     time.Time
	refreshing      bool

	// Pre-computed for the current window
	summary      model.SpendingSummary
	prevSummary  model.SpendingSummary
	daily        []model.PeriodTotal
	categories   []model.CategorySpend
	budgets      []budgetRow
	velocity     pipeline.VelocityReport
	streak       model.StreakData
	level        model.LevelInfo
	achievements []model.Achievement
	monthPct     float64 // overall monthly budget used, -1 without one

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	cats      categoriesState

	// Filter state
	days           int
	rollover       model.RolloverPolicy
	velocityPeriod pipeline.VelocityPeriod
	dbPath         string

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals SetupValues
	needSetup bool

	spinner spinner.Model
	log     *slog.Logger
	now     func() time.Time
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minContentHeight = 5
)

// loadConfigOrDefault loads config, returning defaults on error.
// The TUI can always start even if config is corrupted.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

func rolloverOf(cfg config.Config) model.RolloverPolicy {
	if cfg.Budget.Rollover == string(model.RolloverFixed) {
		return model.RolloverFixed
	}
	return model.RolloverCalendar
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	cfg := loadConfigOrDefault()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	refreshInterval := time.Duration(cfg.TUI.RefreshIntervalSec) * time.Second
	if refreshInterval < 10*time.Second {
		refreshInterval = 30 * time.Second
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	if opts.Days < 1 {
		opts.Days = cfg.General.DefaultDays
	}
	if opts.Rollover == "" {
		opts.Rollover = rolloverOf(cfg)
	}
	if opts.VelocityPeriod == "" {
		opts.VelocityPeriod = pipeline.VelocityMonth
	}

	return App{
		dbPath:          opts.DBPath,
		days:            opts.Days,
		rollover:        opts.Rollover,
		velocityPeriod:  opts.VelocityPeriod,
		needSetup:       !config.Exists(),
		setupVals:       SetupValuesFrom(cfg),
		autoRefresh:     cfg.TUI.AutoRefresh,
		refreshInterval: refreshInterval,
		spinner:         sp,
		cats:            categoriesState{window: pipeline.Window6Months},
		log:             logger.With("component", "tui"),
		now:             time.Now,
		monthPct:        -1,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.dbPath),
		a.spinner.Tick,
		tickCmd(),
	)
}

// setDataset replaces the dataset and recomputes every view.
func (a *App) setDataset(ds *pipeline.Dataset) {
	if ds == nil {
		ds = &pipeline.Dataset{}
	}
	a.ds = ds
	a.recompute()
}

func (a *App) recompute() {
	if a.ds == nil {
		return
	}
	now := a.now()
	since := now.AddDate(0, 0, -a.days)
	expenses := a.ds.Expenses

	a.summary = pipeline.Summarize(expenses, since, now)
	a.prevSummary = pipeline.Summarize(expenses, since.AddDate(0, 0, -a.days), since)
	a.daily = pipeline.SpendingByPeriod(expenses, since, now, pipeline.ByDay)
	a.categories = pipeline.SpendingByCategory(expenses, since, now)
	a.velocity = pipeline.AnalyzeVelocity(expenses, a.ds.Budgets, a.velocityPeriod, now)
	a.streak = pipeline.CalculateStreak(expenses, now)
	a.achievements = pipeline.EvaluateAchievements(expenses, a.ds.Budgets, a.ds.Achievements, now)
	a.level = pipeline.CalculateLevel(expenses, a.achievements, now)

	active := a.ds.ActiveBudgets()
	a.budgets = make([]budgetRow, 0, len(active))
	a.monthPct = -1
	for _, b := range active {
		p := pipeline.BudgetProgressFor(b, expenses, now, a.rollover)
		row := budgetRow{Budget: b, Progress: p, Label: "All spending"}
		if b.CategoryID != nil {
			row.Label = *b.CategoryID
			if c, ok := a.ds.Category(*b.CategoryID); ok {
				row.Label = c.Name
			}
		} else if b.Period == model.PeriodMonthly && a.monthPct < 0 {
			a.monthPct = p.Percentage
		}
		a.budgets = append(a.budgets, row)
	}

	a.recomputeCategory()
}

// recomputeCategory refreshes the Categories tab for its window and cursor.
func (a *App) recomputeCategory() {
	now := a.now()
	since, until := a.cats.window.Bounds(now)
	a.cats.list = pipeline.SpendingByCategory(a.ds.Expenses, since, until)

	if a.cats.cursor >= len(a.cats.list) {
		a.cats.cursor = len(a.cats.list) - 1
	}
	if a.cats.cursor < 0 {
		a.cats.cursor = 0
	}

	id := ""
	if len(a.cats.list) > 0 {
		id = a.cats.list[a.cats.cursor].Category.ID
	}
	a.cats.report = pipeline.AnalyzeCategory(a.ds.Expenses, id, a.cats.window, now)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}

		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabCategories {
				a.moveCategoryCursor(-1)
			}
		case tea.MouseButtonWheelDown:
			if a.activeTab == tabCategories {
				a.moveCategoryCursor(1)
			}
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.lastRefresh = a.now()
		a.loadErr = msg.Err
		if msg.Err != nil {
			a.log.Warn("loading data", "error", msg.Err)
		}
		a.setDataset(msg.Dataset)

		if a.needSetup {
			a.setupForm = NewSetupForm(len(a.ds.Expenses), a.dbPath, &a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && a.autoRefresh && !a.refreshing {
			if a.now().Sub(a.lastRefresh) >= a.refreshInterval {
				a.refreshing = true
				cmds = append(cmds, refreshDataCmd(a.dbPath))
			}
		}
		return a, tea.Batch(cmds...)

	case RefreshDataMsg:
		a.refreshing = false
		a.lastRefresh = a.now()
		a.loadErr = msg.Err
		if msg.Err != nil {
			a.log.Warn("refreshing data", "error", msg.Err)
			return a, nil
		}
		a.loadTime = msg.LoadTime
		a.setDataset(msg.Dataset)
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}

	// First-run setup wizard intercepts all keys
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	if a.activeTab == tabCategories {
		switch key {
		case "j", "down":
			a.moveCategoryCursor(1)
			return a, nil
		case "k", "up":
			a.moveCategoryCursor(-1)
			return a, nil
		case "w":
			a.cycleCategoryWindow()
			return a, nil
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, refreshDataCmd(a.dbPath)
		}
	case "R":
		a.autoRefresh = !a.autoRefresh
		cfg := loadConfigOrDefault()
		cfg.TUI.AutoRefresh = a.autoRefresh
		if err := config.Save(cfg); err != nil {
			a.log.Warn("saving auto-refresh setting", "error", err)
		}
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	default:
		if len(msg.Runes) == 1 {
			if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		_ = a.saveSetupConfig()
		a.recompute()
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a *App) moveCategoryCursor(delta int) {
	next := a.cats.cursor + delta
	if next < 0 || next >= len(a.cats.list) {
		return
	}
	a.cats.cursor = next
	a.recomputeCategory()
}

var categoryWindows = []pipeline.TrendWindow{
	pipeline.Window7Days, pipeline.Window30Days, pipeline.Window90Days,
	pipeline.Window3Months, pipeline.Window6Months, pipeline.Window12Months,
}

func (a *App) cycleCategoryWindow() {
	next := 0
	for i, w := range categoryWindows {
		if w == a.cats.window {
			next = (i + 1) % len(categoryWindows)
			break
		}
	}
	a.cats.window = categoryWindows[next]
	a.recomputeCategory()
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  spendwise needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	spinnerStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ spendwise"))
	b.WriteString(subtitleStyle.Render(" · Personal Spending"))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(" Loading expenses..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	section := func(b *strings.Builder, title string, binds []struct{ key, desc string }) {
		b.WriteString(sectionStyle.Render(title))
		b.WriteString("\n")
		for _, bind := range binds {
			fmt.Fprintf(b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	section(&b, "Navigation", []struct{ key, desc string }{
		{"o b v s c", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Select category"},
		{"w", "Cycle category window"},
	})
	b.WriteString("\n")
	section(&b, "Actions", []struct{ key, desc string }{
		{"r", "Refresh data"},
		{"R", "Toggle auto-refresh"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	})
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

const (
	tabOverview = iota
	tabBudgets
	tabVelocity
	tabStreak
	tabCategories
)

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar + filter pill
	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pillAccent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	filterStr := pillStyle.Render(" ") +
		pillAccent.Render(fmt.Sprintf("%dd", a.days)) +
		pillStyle.Render(" │ rollover ") + pillAccent.Render(string(a.rollover)) +
		pillStyle.Render(" │ velocity ") + pillAccent.Render(string(a.velocityPeriod))
	if a.loadErr != nil {
		errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
		filterStr += pillStyle.Render(" │ ") + errStyle.Render(truncStr(a.loadErr.Error(), 60))
	}

	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		lipgloss.NewStyle().Background(t.Surface).Width(w).Render(filterStr)

	// 2. Status bar
	statusBar := components.RenderStatusBar(w, components.StatusInfo{
		DataAge:     fmt.Sprintf("%.1fs", a.loadTime.Seconds()),
		Refreshing:  a.refreshing,
		AutoRefresh: a.autoRefresh,
		BudgetPct:   a.monthPct,
		Streak:      a.streak.CurrentStreak,
	})

	// 3. Content zone height
	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	// 4. Tab content
	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabBudgets:
		content = a.renderBudgetsTab(cw)
	case tabVelocity:
		content = a.renderVelocityTab(cw)
	case tabStreak:
		content = a.renderStreakTab(cw)
	case tabCategories:
		content = a.renderCategoriesTab(cw)
	}

	// 5. Truncate + pad to exactly contentH lines, fill backgrounds
	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadDataset opens the store, reads every collection, and closes it again
// so the CLI can write while the dashboard is open.
func loadDataset(dbPath string) (*pipeline.Dataset, time.Duration, error) {
	start := time.Now()
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, time.Since(start), err
	}
	defer func() { _ = st.Close() }()

	ds, err := pipeline.Load(st)
	return ds, time.Since(start), err
}

func loadDataCmd(dbPath string) tea.Cmd {
	return func() tea.Msg {
		ds, took, err := loadDataset(dbPath)
		return DataLoadedMsg{Dataset: ds, LoadTime: took, Err: err}
	}
}

func refreshDataCmd(dbPath string) tea.Cmd {
	return func() tea.Msg {
		ds, took, err := loadDataset(dbPath)
		return RefreshDataMsg{Dataset: ds, LoadTime: took, Err: err}
	}
}

// chartDateLabels builds compact X-axis labels for a chronological series.
// First label and month boundaries show the month, everything else the day.
func chartDateLabels(series []model.PeriodTotal) []string {
	labels := make([]string, len(series))
	prevMonth := time.Month(0)
	for i, p := range series {
		m := p.Start.Month()
		switch {
		case i == 0, m != prevMonth && i != len(series)-1:
			labels[i] = p.Start.Format("Jan")
		default:
			labels[i] = strconv.Itoa(p.Start.Day())
		}
		prevMonth = m
	}
	return labels
}

func seriesValues(series []model.PeriodTotal) []float64 {
	vals := make([]float64, len(series))
	for i, p := range series {
		vals[i] = p.Total.InexactFloat64()
	}
	return vals
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
