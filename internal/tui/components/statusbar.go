package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/spendwise/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the bottom bar shows besides key hints.
type StatusInfo struct {
	DataAge     string
	Refreshing  bool
	AutoRefresh bool
	// BudgetPct is month-to-date spend against budget, or negative for none.
	BudgetPct float64
	Streak    int
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	left := " [?]help  [r]efresh  [q]uit"

	var middle string
	if info.BudgetPct >= 0 {
		middle = CompactBudgetBar("budget", info.BudgetPct, 24)
	}
	if info.Streak > 0 {
		middle += accent.Render(fmt.Sprintf("  🔥 %d", info.Streak))
	}

	var right []string
	switch {
	case info.Refreshing:
		right = append(right, accent.Render("refreshing…"))
	case info.AutoRefresh:
		right = append(right, dim.Render("auto"))
	}
	if info.DataAge != "" {
		right = append(right, fmt.Sprintf("Data: %s", info.DataAge))
	}
	rightStr := strings.Join(right, "  ") + " "

	padding := width - lipgloss.Width(left) - lipgloss.Width(middle) - lipgloss.Width(rightStr)
	if padding < 1 {
		middle = ""
		padding = width - lipgloss.Width(left) - lipgloss.Width(rightStr)
	}
	if padding < 0 {
		padding = 0
	}
	lead := padding / 2
	spacer := lipgloss.NewStyle().Background(t.Surface)

	return style.Render(left +
		spacer.Render(strings.Repeat(" ", lead)) +
		middle +
		spacer.Render(strings.Repeat(" ", padding-lead)) +
		rightStr)
}
