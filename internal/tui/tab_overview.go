package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/spendwise/internal/cli"
	"github.com/theirongolddev/spendwise/internal/tui/components"
	"github.com/theirongolddev/spendwise/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	stats := a.summary
	prev := a.prevSummary
	var b strings.Builder

	// Row 1: Metric cards
	perDay := cli.FormatMoney(stats.PerDay) + "/day"
	perDayTone := components.ToneNeutral
	if prev.PerDay.IsPositive() {
		perDay += " (" + cli.FormatDelta(stats.PerDay, prev.PerDay) + ")"
		if stats.PerDay.GreaterThan(prev.PerDay) {
			perDayTone = components.ToneWarn
		} else {
			perDayTone = components.ToneGood
		}
	}

	budgetValue, budgetDelta, budgetTone := "none", "no monthly budget", components.ToneNeutral
	if a.monthPct >= 0 {
		budgetValue = cli.FormatPercent(a.monthPct)
		budgetDelta = "of monthly budget"
		switch {
		case a.monthPct >= 100:
			budgetTone = components.ToneBad
		case a.monthPct >= 90:
			budgetTone = components.ToneWarn
		default:
			budgetTone = components.ToneGood
		}
	}

	streakTone := components.ToneNeutral
	streakDelta := fmt.Sprintf("best %s", cli.FormatDays(a.streak.LongestStreak))
	if a.streak.IsActiveToday {
		streakTone = components.ToneGood
	} else if a.streak.CurrentStreak > 0 {
		streakTone = components.ToneWarn
		streakDelta = "log today to keep it"
	}

	metrics := []components.Metric{
		{Label: "Spent", Value: cli.FormatMoney(stats.Total), Delta: perDay, Tone: perDayTone},
		{Label: "Expenses", Value: cli.FormatNumber(int64(stats.Count)), Delta: fmt.Sprintf("%d active days", stats.ActiveDays)},
		{Label: "Budget", Value: budgetValue, Delta: budgetDelta, Tone: budgetTone},
		{Label: "Streak", Value: cli.FormatDays(a.streak.CurrentStreak), Delta: streakDelta, Tone: streakTone},
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	// Row 2: Daily spend chart
	if len(a.daily) > 0 {
		chartH := 10
		if a.isCompactLayout() {
			chartH = 7
		}
		opts := components.ChartOptions{
			Values: seriesValues(a.daily),
			Labels: chartDateLabels(a.daily),
			Color:  t.Blue,
			Width:  components.CardInnerWidth(cw),
			Height: chartH,
		}
		title := fmt.Sprintf("Daily Spend · %s", cli.FormatMoney(stats.Total))
		if v := a.velocity.Velocity; v.HasBudget {
			opts.Limit = v.OptimalVelocity.InexactFloat64()
			title += fmt.Sprintf(" · budget pace %s/day", cli.FormatMoney(v.OptimalVelocity))
		}
		chartBody := components.BarChart(opts)
		b.WriteString(components.ContentCard(title, chartBody, cw))
		b.WriteString("\n")
	}

	// Row 3: Top categories + recent expenses
	var catBody strings.Builder
	if len(a.categories) == 0 {
		catBody.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("No expenses in this window"))
	} else {
		limit := 6
		if len(a.categories) < limit {
			limit = len(a.categories)
		}
		bars := make([]components.Bar, 0, limit)
		for _, c := range a.categories[:limit] {
			bars = append(bars, components.Bar{
				Label: c.Category.Name,
				Value: c.Total.InexactFloat64(),
				Text:  fmt.Sprintf("%s %s", cli.FormatMoney(c.Total), cli.FormatPercent(c.Percentage)),
				Color: t.CategoryColor(c.Category),
			})
		}
		innerW := components.CardInnerWidth(cw)
		if !a.isCompactLayout() {
			innerW = components.CardInnerWidth(cw / 2)
		}
		catBody.WriteString(components.HorizontalBars(bars, 16, innerW))
	}

	recentBody := a.renderRecentExpenses(8)

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Top Categories", catBody.String(), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Recent Expenses", recentBody, cw))
	} else {
		widths := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Top Categories", catBody.String(), widths[0]),
			components.ContentCard("Recent Expenses", recentBody, widths[1]),
		}))
	}

	return b.String()
}

// renderRecentExpenses lists the newest expenses, newest first.
func (a App) renderRecentExpenses(limit int) string {
	t := theme.Active
	dateStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	descStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	amountStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	space := lipgloss.NewStyle().Background(t.Surface)

	if a.ds == nil || len(a.ds.Expenses) == 0 {
		return dateStyle.Render("No expenses recorded yet")
	}

	// Dataset expenses are sorted newest first.
	expenses := a.ds.Expenses
	if len(expenses) > limit {
		expenses = expenses[:limit]
	}

	lines := make([]string, 0, len(expenses))
	for _, e := range expenses {
		lines = append(lines,
			dateStyle.Render(fmt.Sprintf("%-6s", cli.FormatDateShort(e.Date)))+
				space.Render(" ")+
				descStyle.Render(fmt.Sprintf("%-24s", truncStr(e.Category.Emoji+" "+e.Description, 24)))+
				space.Render(" ")+
				amountStyle.Render(fmt.Sprintf("%10s", cli.FormatMoney(e.Amount))))
	}
	return strings.Join(lines, "\n")
}
