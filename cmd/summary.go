package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/spendwise/internal/cli"
	"github.com/theirongolddev/spendwise/internal/pipeline"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Spending summary with budgets and streak",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	ds, err := loadData()
	if err != nil {
		return err
	}

	if len(ds.Expenses) == 0 {
		fmt.Println("\n  No expenses recorded yet.")
		fmt.Println("  Add one with `spendwise expense add 12.50 \"Lunch\"`.")
		return nil
	}

	now := time.Now()
	since, until := window(now)
	stats := pipeline.Summarize(ds.Expenses, since, until)

	// Compute previous period for comparison
	prevStats := pipeline.Summarize(ds.Expenses, since.Add(-until.Sub(since)), since)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SPENDING  Last %dd", flagDays)))
	fmt.Println()

	rows := [][]string{
		{"Expenses", cli.FormatNumber(int64(stats.Count))},
		{"Active Days", cli.FormatNumber(int64(stats.ActiveDays))},
		{"Categories", cli.FormatNumber(int64(stats.Categories))},
		{"---"},
		{"Total", cli.FormatMoney(stats.Total)},
		{"Average", cli.FormatMoney(stats.Average)},
	}

	perDay := fmt.Sprintf("%s/day", cli.FormatMoney(stats.PerDay))
	if prevStats.PerDay.IsPositive() {
		perDay += fmt.Sprintf("  (%s vs prev %dd)", cli.FormatDelta(stats.PerDay, prevStats.PerDay), flagDays)
	}
	rows = append(rows, []string{"Per Active Day", perDay})
	if stats.Largest != nil {
		rows = append(rows, []string{"Largest", fmt.Sprintf("%s  %s",
			cli.FormatMoney(stats.Largest.Amount), cli.Truncate(stats.Largest.Description, 30))})
	}

	streak := pipeline.CalculateStreak(ds.Expenses, now)
	level := pipeline.CalculateLevel(ds.Expenses, ds.Achievements, now)
	rows = append(rows,
		[]string{"---"},
		[]string{"Streak", fmt.Sprintf("%s  %s", cli.FormatDays(streak.CurrentStreak), cli.RenderWeek(streak.WeeklyProgress))},
		[]string{"Level", fmt.Sprintf("%d %s (%d XP)", level.Level, level.Title, level.TotalXP)},
	)

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	policy, _ := rolloverPolicy()
	progress := pipeline.BudgetProgressAll(ds.Budgets, ds.Expenses, now, policy)
	if len(progress) > 0 {
		fmt.Println()
		fmt.Print(renderBudgetTable(ds, progress))
	}

	cats := pipeline.SpendingByCategory(ds.Expenses, since, until)
	if len(cats) > 0 {
		fmt.Println()
		fmt.Println(cli.RenderTitle("Top Categories"))
		maxTotal := cats[0].Total.InexactFloat64()
		for i, c := range cats {
			if i == 5 {
				break
			}
			fmt.Println(cli.RenderHorizontalBar(
				fmt.Sprintf("%-18s %10s", cli.Truncate(c.Category.Name, 18), cli.FormatMoney(c.Total)),
				c.Total.InexactFloat64(), maxTotal, 24))
		}
	}

	return nil
}
