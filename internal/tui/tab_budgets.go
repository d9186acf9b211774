package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/spendwise/internal/cli"
	"github.com/theirongolddev/spendwise/internal/tui/components"
	"github.com/theirongolddev/spendwise/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderBudgetsTab(cw int) string {
	t := theme.Active
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	if len(a.budgets) == 0 {
		body := dimStyle.Render("No active budgets.") + "\n" +
			dimStyle.Render("Create one with `spendwise budget add 500 --period monthly`.")
		return components.ContentCard("Budgets", body, cw)
	}

	var b strings.Builder

	// Row 1: totals across active budgets
	var over, warn int
	for _, row := range a.budgets {
		switch {
		case row.Progress.IsOverBudget:
			over++
		case row.Progress.Percentage >= 90:
			warn++
		}
	}
	overTone := components.ToneGood
	if over > 0 {
		overTone = components.ToneBad
	}
	warnTone := components.ToneGood
	if warn > 0 {
		warnTone = components.ToneWarn
	}
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Active Budgets", Value: fmt.Sprintf("%d", len(a.budgets)), Delta: "rollover " + string(a.rollover)},
		{Label: "Over Budget", Value: fmt.Sprintf("%d", over), Tone: overTone},
		{Label: "Above 90%", Value: fmt.Sprintf("%d", warn), Tone: warnTone},
	}, cw))
	b.WriteString("\n")

	// Row 2: one bar per budget
	innerW := components.CardInnerWidth(cw)
	labelW := 20
	barW := innerW - labelW - 18
	if barW < 10 {
		barW = 10
	}

	amountStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	overStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
	leftStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)

	var body strings.Builder
	for i, row := range a.budgets {
		p := row.Progress
		label := fmt.Sprintf("%s (%s)", row.Label, row.Budget.Period)
		body.WriteString(components.BudgetBar(label, p.Percentage, p.DaysRemaining, labelW, barW))
		body.WriteString("\n")

		detail := amountStyle.Render(fmt.Sprintf("%-*s %s of %s · %s – %s ",
			labelW, "", cli.FormatMoney(p.TotalSpent), cli.FormatMoney(row.Budget.Amount),
			cli.FormatDateShort(p.WindowStart), cli.FormatDateShort(p.WindowEnd.AddDate(0, 0, -1))))
		if p.IsOverBudget {
			detail += overStyle.Render("over by " + cli.FormatMoney(p.RemainingAmount.Neg()))
		} else {
			detail += leftStyle.Render(cli.FormatMoney(p.RemainingAmount) + " left")
		}
		body.WriteString(detail)
		if i < len(a.budgets)-1 {
			body.WriteString("\n\n")
		}
	}
	b.WriteString(components.ContentCard("Budget Progress", body.String(), cw))

	return b.String()
}
