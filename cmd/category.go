package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/spendwise/internal/cli"
	"github.com/theirongolddev/spendwise/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagCategoryWindow string

var categoryCmd = &cobra.Command{
	Use:   "category [id]",
	Short: "Drill into one category (default: the biggest)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCategory,
}

func init() {
	categoryCmd.Flags().StringVarP(&flagCategoryWindow, "window", "w", string(pipeline.Window6Months), "Window: 3m, 6m, 12m, 7d, 30d, 90d")
	rootCmd.AddCommand(categoryCmd)
}

func runCategory(_ *cobra.Command, args []string) error {
	win, err := pipeline.ParseTrendWindow(flagCategoryWindow)
	if err != nil {
		return err
	}
	ds, err := loadData()
	if err != nil {
		return err
	}

	id := ""
	if len(args) == 1 {
		cat, err := findCategory(ds.Categories, args[0])
		if err != nil {
			return err
		}
		id = cat.ID
	}

	r := pipeline.AnalyzeCategory(ds.Expenses, id, win, time.Now())
	if r.Category.ID == "" {
		fmt.Println("\n  No spending in the selected window.")
		return nil
	}
	if c, ok := ds.Category(r.Category.ID); ok && r.Category.Name == "" {
		r.Category = c
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("%s %s  %s", r.Category.Emoji, r.Category.Name, r.Window)))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total", cli.FormatMoney(r.Total)},
			{"Share of Spend", cli.FormatPercent(r.Percentage)},
			{"Expenses", cli.FormatNumber(int64(r.Count))},
			{"Average", cli.FormatMoney(r.Average)},
			{"Trend", string(r.Trend)},
		},
	}))

	values := make([]float64, len(r.Monthly))
	monthRows := make([][]string, 0, len(r.Monthly))
	for i, m := range r.Monthly {
		values[i] = m.Total.InexactFloat64()
		monthRows = append(monthRows, []string{m.Label, cli.FormatNumber(int64(m.Count)), cli.FormatMoney(m.Total)})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Monthly  " + cli.RenderSparkline(values),
		Headers: []string{"Month", "Count", "Total"},
		Rows:    monthRows,
	}))

	fmt.Println()
	fmt.Println(cli.RenderTitle("By Weekday"))
	var maxDay float64
	for _, d := range r.Weekdays {
		if v := d.Total.InexactFloat64(); v > maxDay {
			maxDay = v
		}
	}
	for _, d := range r.Weekdays {
		fmt.Println(cli.RenderHorizontalBar(
			fmt.Sprintf("%s %10s", cli.FormatDayOfWeek(d.Day), cli.FormatMoney(d.Total)),
			d.Total.InexactFloat64(), maxDay, 24))
	}

	if len(r.TopExpenses) > 0 {
		rows := make([][]string, 0, len(r.TopExpenses))
		for _, e := range r.TopExpenses {
			rows = append(rows, []string{cli.FormatDate(e.Date), cli.Truncate(e.Description, 32), cli.FormatMoney(e.Amount)})
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:     "Largest",
			Headers:   []string{"Date", "Description", "Amount"},
			Rows:      rows,
			LeftAlign: []bool{true, true, false},
		}))
	}
	return nil
}
