package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/spendwise/internal/cli"
	"github.com/theirongolddev/spendwise/internal/pipeline"

	"github.com/spf13/cobra"
)

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Logging streak and this month's consistency",
	RunE:  runStreak,
}

func init() {
	rootCmd.AddCommand(streakCmd)
}

func runStreak(_ *cobra.Command, _ []string) error {
	ds, err := loadData()
	if err != nil {
		return err
	}
	s := pipeline.CalculateStreak(ds.Expenses, time.Now())

	fmt.Println()
	fmt.Println(cli.RenderTitle("STREAK"))
	fmt.Println()

	today := "not yet"
	if s.IsActiveToday {
		today = "logged"
	}
	rows := [][]string{
		{"Current", cli.FormatDays(s.CurrentStreak)},
		{"Longest", cli.FormatDays(s.LongestStreak)},
		{"Started", cli.FormatDate(s.StreakStartDate)},
		{"Last Logged", cli.FormatDate(s.LastLoggedDate)},
		{"Today", today},
		{"Last 7 Days", cli.RenderWeek(s.WeeklyProgress)},
		{"---"},
		{"This Month", fmt.Sprintf("%d / %d days  %s",
			s.Monthly.LoggedDays, s.Monthly.TotalDays, cli.FormatPercent(s.Monthly.Percentage))},
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if !s.IsActiveToday && s.CurrentStreak > 0 {
		fmt.Println()
		fmt.Println(cli.Warn(fmt.Sprintf("  Log an expense today to keep your %s streak.", cli.FormatDays(s.CurrentStreak))))
	} else if s.DaysWithoutLogging > 1 {
		fmt.Println()
		fmt.Println(cli.Muted(fmt.Sprintf("  %s since the last expense.", cli.FormatDays(s.DaysWithoutLogging))))
	}
	return nil
}
