package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/spendwise/internal/cli"
	"github.com/theirongolddev/spendwise/internal/pipeline"

	"github.com/spf13/cobra"
)

var levelCmd = &cobra.Command{
	Use:   "level",
	Short: "Level, XP and achievements",
	RunE:  runLevel,
}

func init() {
	rootCmd.AddCommand(levelCmd)
}

func runLevel(_ *cobra.Command, _ []string) error {
	ds, err := loadData()
	if err != nil {
		return err
	}
	now := time.Now()
	achievements := pipeline.EvaluateAchievements(ds.Expenses, ds.Budgets, ds.Achievements, now)
	info := pipeline.CalculateLevel(ds.Expenses, achievements, now)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("LEVEL %d  %s", info.Level, info.Title)))
	fmt.Println()

	next := "max level"
	if info.XPToNext > 0 {
		next = fmt.Sprintf("%s XP to level %d", cli.FormatNumber(int64(info.XPToNext)), info.Level+1)
		fmt.Printf("  %s\n\n", cli.RenderProgressBar(info.XP, info.XP+info.XPToNext, 30))
	}
	rows := [][]string{
		{"Total XP", cli.FormatNumber(int64(info.TotalXP))},
		{"Next", next},
	}
	for _, b := range info.Benefits {
		rows = append(rows, []string{"Benefit", b})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:   []string{"Metric", "Value"},
		Rows:      rows,
		LeftAlign: []bool{true, true},
	}))

	achRows := make([][]string, 0, len(achievements))
	for _, a := range achievements {
		status := cli.Muted("locked")
		if a.Unlocked() {
			status = cli.FormatDate(*a.UnlockedAt)
		}
		achRows = append(achRows, []string{a.Title, a.Description, status})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:     "Achievements",
		Headers:   []string{"Achievement", "Goal", "Unlocked"},
		Rows:      achRows,
		LeftAlign: []bool{true, true, true},
	}))
	return nil
}
