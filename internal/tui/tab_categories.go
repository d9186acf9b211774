package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/spendwise/internal/cli"
	"github.com/theirongolddev/spendwise/internal/model"
	"github.com/theirongolddev/spendwise/internal/pipeline"
	"github.com/theirongolddev/spendwise/internal/tui/components"
	"github.com/theirongolddev/spendwise/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderCategoriesTab(cw int) string {
	t := theme.Active
	cs := a.cats
	var b strings.Builder

	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	title := fmt.Sprintf("Categories · %s [w]", cs.window)

	if len(cs.list) == 0 {
		return components.ContentCard(title, dimStyle.Render("No expenses in this window"), cw)
	}

	leftW, rightW := cw, cw
	if !a.isCompactLayout() {
		widths := components.LayoutRow(cw, 3)
		leftW = widths[0]
		rightW = widths[1] + widths[2]
	}

	// Left: category list with the selection highlighted
	rowStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)
	innerW := components.CardInnerWidth(leftW)

	var list strings.Builder
	for i, c := range cs.list {
		amount := cli.FormatMoneyShort(c.Total)
		nameW := innerW - len(amount) - 3
		if nameW < 4 {
			nameW = 4
		}
		line := fmt.Sprintf(" %-*s %s ", nameW, truncStr(c.Category.Name, nameW), amount)
		if i == cs.cursor {
			list.WriteString(selStyle.Render(line))
		} else {
			list.WriteString(rowStyle.Render(line))
		}
		if i < len(cs.list)-1 {
			list.WriteString("\n")
		}
	}
	listCard := components.ContentCard(title, list.String(), leftW)

	detail := a.renderCategoryDetail(cs.report, rightW)

	if a.isCompactLayout() {
		b.WriteString(listCard)
		b.WriteString("\n")
		b.WriteString(detail)
	} else {
		b.WriteString(components.CardRow([]string{listCard, detail}))
	}
	return b.String()
}

func (a App) renderCategoryDetail(r pipeline.CategoryReport, w int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	trendStyle := lipgloss.NewStyle().Foreground(t.TrendColor(r.Trend)).Background(t.Surface).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)
	innerW := components.CardInnerWidth(w)

	var body strings.Builder

	// Headline
	body.WriteString(valueStyle.Render(cli.FormatMoney(r.Total)))
	body.WriteString(labelStyle.Render(fmt.Sprintf(" · %s of spend · %d expenses · avg %s · ",
		cli.FormatPercent(r.Percentage), r.Count, cli.FormatMoney(r.Average))))
	body.WriteString(trendStyle.Render(string(r.Trend)))
	body.WriteString("\n\n")

	// Monthly sparkline
	if len(r.Monthly) > 0 {
		vals := make([]float64, len(r.Monthly))
		for i, m := range r.Monthly {
			vals[i] = m.Total.InexactFloat64()
		}
		body.WriteString(labelStyle.Render("Monthly  "))
		body.WriteString(components.Sparkline(vals, t.CategoryColor(r.Category)))
		body.WriteString(dimStyle.Render(fmt.Sprintf("  %s → %s", r.Monthly[0].Label, r.Monthly[len(r.Monthly)-1].Label)))
		body.WriteString("\n\n")
	}

	// Weekday pattern
	if len(r.Weekdays) > 0 {
		bars := make([]components.Bar, 0, len(r.Weekdays))
		for _, d := range r.Weekdays {
			bars = append(bars, components.Bar{
				Label: cli.FormatDayOfWeek(d.Day),
				Value: d.Total.InexactFloat64(),
				Text:  fmt.Sprintf("%s (%d)", cli.FormatMoneyShort(d.Total), d.Count),
				Color: t.CategoryColor(r.Category),
			})
		}
		body.WriteString(components.HorizontalBars(bars, 4, innerW))
		body.WriteString("\n\n")
	}

	// Top and recent expenses
	writeList := func(heading string, expenses []model.Expense) {
		body.WriteString(labelStyle.Render(heading))
		if len(expenses) == 0 {
			body.WriteString("\n" + dimStyle.Render("  none"))
		}
		for _, e := range expenses {
			body.WriteString("\n")
			body.WriteString(dimStyle.Render(fmt.Sprintf("  %-6s", cli.FormatDateShort(e.Date))) +
				space.Render(" ") +
				labelStyle.Render(fmt.Sprintf("%-24s", truncStr(e.Description, 24))) +
				space.Render(" ") +
				valueStyle.Render(fmt.Sprintf("%10s", cli.FormatMoney(e.Amount))))
		}
	}
	writeList("Largest", r.TopExpenses)
	body.WriteString("\n\n")
	writeList("Recent", r.RecentExpenses)

	title := fmt.Sprintf("%s %s", r.Category.Emoji, r.Category.Name)
	return components.ContentCard(strings.TrimSpace(title), body.String(), w)
}
