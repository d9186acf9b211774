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

func riskTone(level model.RiskLevel) components.Tone {
	switch level {
	case model.RiskCritical, model.RiskHigh:
		return components.ToneBad
	case model.RiskModerate:
		return components.ToneWarn
	default:
		return components.ToneGood
	}
}

func (a App) renderVelocityTab(cw int) string {
	t := theme.Active
	r := a.velocity
	v := r.Velocity
	var b strings.Builder

	// Row 1: headline velocity
	ratio, overage := "n/a", "no budget"
	overTone := components.ToneNeutral
	if v.HasBudget {
		ratio = cli.FormatRatio(v.VelocityRatio)
		if v.ProjectedOverage.IsPositive() {
			overage = "+" + cli.FormatMoney(v.ProjectedOverage)
			overTone = components.ToneBad
		} else {
			overage = "on track"
			overTone = components.ToneGood
		}
	}

	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Velocity", Value: cli.FormatMoney(v.CurrentVelocity) + "/day", Delta: fmt.Sprintf("last %d days", r.Period.Days())},
		{Label: "Optimal", Value: cli.FormatMoney(v.OptimalVelocity) + "/day", Delta: "budget " + cli.FormatMoney(v.MonthlyBudget) + "/mo"},
		{Label: "Ratio", Value: ratio, Delta: string(v.RiskLevel), Tone: riskTone(v.RiskLevel)},
		{Label: "Projected Overage", Value: overage, Delta: string(v.Trend), Tone: overTone},
	}, cw))
	b.WriteString("\n")

	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	// Row 2: weekly breakdown + category shares
	var weekBody strings.Builder
	if len(r.Weekly) == 0 {
		weekBody.WriteString(dimStyle.Render("No spending yet"))
	}
	for i, w := range r.Weekly {
		ratioStyle := lipgloss.NewStyle().Foreground(t.RiskColor(weekRisk(w.Ratio, v.HasBudget))).Background(t.Surface)
		weekBody.WriteString(labelStyle.Render(fmt.Sprintf("%-14s", w.Label)) +
			space.Render(" ") +
			valueStyle.Render(fmt.Sprintf("%10s", cli.FormatMoney(w.Total))) +
			space.Render(" ") +
			dimStyle.Render(fmt.Sprintf("%10s/d", cli.FormatMoney(w.Velocity))) +
			space.Render(" ") +
			ratioStyle.Render(fmt.Sprintf("%7s", cli.FormatRatio(w.Ratio))))
		if i < len(r.Weekly)-1 {
			weekBody.WriteString("\n")
		}
	}

	var catBody strings.Builder
	if len(r.Categories) == 0 {
		catBody.WriteString(dimStyle.Render("No spending in this window"))
	} else {
		bars := make([]components.Bar, 0, len(r.Categories))
		for _, c := range r.Categories {
			bars = append(bars, components.Bar{
				Label: c.Category.Name,
				Value: c.Share,
				Text:  fmt.Sprintf("%s %s", cli.FormatPercent(c.Share), cli.FormatMoney(c.Velocity)+"/d"),
				Color: t.RiskColor(c.Risk),
			})
		}
		innerW := components.CardInnerWidth(cw)
		if !a.isCompactLayout() {
			innerW = components.CardInnerWidth(cw / 2)
		}
		catBody.WriteString(components.HorizontalBars(bars, 16, innerW))
	}

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Weekly Velocity", weekBody.String(), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Category Share", catBody.String(), cw))
	} else {
		widths := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Weekly Velocity", weekBody.String(), widths[0]),
			components.ContentCard("Category Share", catBody.String(), widths[1]),
		}))
	}

	return b.String()
}

// weekRisk grades a weekly ratio with the headline thresholds.
func weekRisk(ratio float64, hasBudget bool) model.RiskLevel {
	if !hasBudget {
		return model.RiskLow
	}
	return pipeline.ClassifyRisk(ratio)
}
