package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/spendwise/internal/cli"
	"github.com/theirongolddev/spendwise/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagTrendsBy string

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Spending per day, week or month",
	RunE:  runTrends,
}

func init() {
	trendsCmd.Flags().StringVarP(&flagTrendsBy, "by", "b", string(pipeline.ByDay), "Bucket size: day, week, or month")
	rootCmd.AddCommand(trendsCmd)
}

func runTrends(_ *cobra.Command, _ []string) error {
	g, err := pipeline.ParseGranularity(flagTrendsBy)
	if err != nil {
		return err
	}
	ds, err := loadData()
	if err != nil {
		return err
	}
	if len(ds.Expenses) == 0 {
		fmt.Println("\n  No expenses recorded yet.")
		return nil
	}

	since, until := window(time.Now())
	buckets := pipeline.SpendingByPeriod(ds.Expenses, since, until, g)
	if len(buckets) == 0 {
		fmt.Println("\n  No data for the selected period.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SPENDING BY %s  Last %dd", flagTrendsBy, flagDays)))
	fmt.Println()

	values := make([]float64, len(buckets))
	for i, b := range buckets {
		values[i] = b.Total.InexactFloat64()
	}
	fmt.Printf("  %s\n\n", cli.RenderSparkline(values))

	// Most recent first
	rows := make([][]string, 0, len(buckets))
	for i := len(buckets) - 1; i >= 0; i-- {
		b := buckets[i]
		label := b.Label
		if g == pipeline.ByDay {
			label = fmt.Sprintf("%s %s", cli.FormatDate(b.Start), cli.FormatDayOfWeek(b.Start.Weekday()))
		}
		rows = append(rows, []string{label, cli.FormatNumber(int64(b.Count)), cli.FormatMoney(b.Total)})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Period", "Expenses", "Spent"},
		Rows:    rows,
	}))
	return nil
}
