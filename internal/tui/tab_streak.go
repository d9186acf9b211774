package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/spendwise/internal/cli"
	"github.com/theirongolddev/spendwise/internal/tui/components"
	"github.com/theirongolddev/spendwise/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderStreakTab(cw int) string {
	t := theme.Active
	s := a.streak
	var b strings.Builder

	todayDelta, todayTone := "not yet logged today", components.ToneWarn
	if s.IsActiveToday {
		todayDelta, todayTone = "logged today", components.ToneGood
	} else if s.CurrentStreak == 0 {
		todayDelta, todayTone = fmt.Sprintf("%s since last log", cli.FormatDays(s.DaysWithoutLogging)), components.ToneBad
	}

	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Current Streak", Value: cli.FormatDays(s.CurrentStreak), Delta: todayDelta, Tone: todayTone},
		{Label: "Longest Streak", Value: cli.FormatDays(s.LongestStreak), Delta: "last log " + cli.FormatDateShort(s.LastLoggedDate)},
		{Label: "This Month", Value: fmt.Sprintf("%d / %d days", s.Monthly.LoggedDays, s.Monthly.TotalDays), Delta: cli.FormatPercent(s.Monthly.Percentage)},
		{Label: "Level", Value: fmt.Sprintf("%d %s", a.level.Level, a.level.Title), Delta: fmt.Sprintf("%d XP", a.level.TotalXP)},
	}, cw))
	b.WriteString("\n")

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	onStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface).Bold(true)
	offStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	// Row 2: last seven days + level progress
	now := a.now()
	var week strings.Builder
	for i, logged := range s.WeeklyProgress {
		day := now.AddDate(0, 0, i-len(s.WeeklyProgress)+1)
		mark := offStyle.Render("○")
		if logged {
			mark = onStyle.Render("●")
		}
		week.WriteString(labelStyle.Render(cli.FormatDayOfWeek(day.Weekday())) + space.Render(" ") + mark)
		if i < len(s.WeeklyProgress)-1 {
			week.WriteString(space.Render("   "))
		}
	}

	var levelBody strings.Builder
	lv := a.level
	levelBody.WriteString(valueStyle.Render(fmt.Sprintf("Level %d · %s", lv.Level, lv.Title)))
	levelBody.WriteString("\n")
	if lv.XPToNext > 0 {
		span := lv.XP + lv.XPToNext
		innerW := components.CardInnerWidth(cw)
		if !a.isCompactLayout() {
			innerW = components.CardInnerWidth(cw / 2)
		}
		barW := innerW - 20
		if barW < 10 {
			barW = 10
		}
		levelBody.WriteString(components.ProgressBar(float64(lv.XP)/float64(span), barW))
		levelBody.WriteString(labelStyle.Render(fmt.Sprintf(" %d/%d XP", lv.XP, span)))
	} else {
		levelBody.WriteString(onStyle.Render("Max level reached"))
	}
	for _, benefit := range lv.Benefits {
		levelBody.WriteString("\n")
		levelBody.WriteString(labelStyle.Render("· " + benefit))
	}

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Last 7 Days", week.String(), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Level", levelBody.String(), cw))
	} else {
		widths := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Last 7 Days", week.String(), widths[0]),
			components.ContentCard("Level", levelBody.String(), widths[1]),
		}))
	}
	b.WriteString("\n")

	// Row 3: achievements
	var ach strings.Builder
	unlocked := 0
	for i, item := range a.achievements {
		mark := offStyle.Render("☐ ")
		title := offStyle.Render(item.Title)
		when := ""
		if item.Unlocked() {
			unlocked++
			mark = onStyle.Render("☑ ")
			title = valueStyle.Render(item.Title)
			when = labelStyle.Render("  " + cli.FormatDateShort(*item.UnlockedAt))
		}
		ach.WriteString(mark + title + labelStyle.Render(" · "+item.Description) + when)
		if i < len(a.achievements)-1 {
			ach.WriteString("\n")
		}
	}
	title := fmt.Sprintf("Achievements · %d/%d", unlocked, len(a.achievements))
	b.WriteString(components.ContentCard(title, ach.String(), cw))

	return b.String()
}
