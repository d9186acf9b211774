package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/spendwise/internal/cli"
	"github.com/theirongolddev/spendwise/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagVelocityPeriod string

var velocityCmd = &cobra.Command{
	Use:   "velocity",
	Short: "Spending velocity against your budget pace",
	RunE:  runVelocity,
}

func init() {
	velocityCmd.Flags().StringVarP(&flagVelocityPeriod, "period", "p", "", "Look-back window: week or month (default from config)")
	rootCmd.AddCommand(velocityCmd)
}

func runVelocity(_ *cobra.Command, _ []string) error {
	if flagVelocityPeriod == "" {
		flagVelocityPeriod = appConfig.Velocity.Period
	}
	period, err := pipeline.ParseVelocityPeriod(flagVelocityPeriod)
	if err != nil {
		return err
	}

	ds, err := loadData()
	if err != nil {
		return err
	}
	r := pipeline.AnalyzeVelocity(ds.Expenses, ds.Budgets, period, time.Now())
	v := r.Velocity

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("VELOCITY  Last %d days", period.Days())))
	fmt.Println()

	rows := [][]string{
		{"Spent", cli.FormatMoney(r.Spent)},
		{"Current Pace", cli.FormatMoney(v.CurrentVelocity) + "/day"},
	}
	if v.HasBudget {
		rows = append(rows,
			[]string{"Monthly Budget", cli.FormatMoney(v.MonthlyBudget)},
			[]string{"Optimal Pace", cli.FormatMoney(v.OptimalVelocity) + "/day"},
			[]string{"Ratio", cli.FormatRatio(v.VelocityRatio)},
			[]string{"Risk", cli.RenderRisk(string(v.RiskLevel))},
			[]string{"Projected Overage", cli.FormatMoney(v.ProjectedOverage)},
		)
	} else {
		rows = append(rows, []string{"Budget", cli.Muted("none active")})
	}
	rows = append(rows, []string{"Trend", string(v.Trend)})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if len(r.Weekly) > 0 {
		weekRows := make([][]string, 0, len(r.Weekly))
		for _, w := range r.Weekly {
			ratio := "-"
			if v.HasBudget {
				ratio = cli.FormatRatio(w.Ratio)
			}
			weekRows = append(weekRows, []string{
				w.Label,
				cli.FormatMoney(w.Total),
				cli.FormatMoney(w.Velocity) + "/day",
				ratio,
			})
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Weekly",
			Headers: []string{"Week", "Spent", "Pace", "Ratio"},
			Rows:    weekRows,
		}))
	}

	if len(r.Categories) > 0 {
		catRows := make([][]string, 0, len(r.Categories))
		for _, c := range r.Categories {
			catRows = append(catRows, []string{
				cli.Truncate(c.Category.Name, 20),
				cli.FormatMoney(c.Total),
				cli.FormatPercent(c.Share),
				cli.FormatMoney(c.Velocity) + "/day",
				cli.RenderRisk(string(c.Risk)),
			})
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:     "Top Categories",
			Headers:   []string{"Category", "Spent", "Share", "Pace", "Risk"},
			Rows:      catRows,
			LeftAlign: []bool{true, false, false, false, true},
		}))
	}
	return nil
}
