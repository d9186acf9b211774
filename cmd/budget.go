package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/spendwise/internal/cli"
	"github.com/theirongolddev/spendwise/internal/model"
	"github.com/theirongolddev/spendwise/internal/pipeline"
	"github.com/theirongolddev/spendwise/internal/source"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagBudgetPeriod   string
	flagBudgetCategory string
	flagBudgetStart    string
	flagBudgetAll      bool
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Manage budgets and show their progress",
	RunE:  runBudgetList,
}

var budgetAddCmd = &cobra.Command{
	Use:   "add <amount>",
	Short: "Create a weekly or monthly budget",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetAdd,
}

var budgetListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show budget progress for the current period",
	RunE:    runBudgetList,
}

var budgetRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a budget",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetRm,
}

var budgetDeactivateCmd = &cobra.Command{
	Use:   "deactivate <id>",
	Short: "Stop tracking a budget without deleting it",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetDeactivate,
}

func init() {
	budgetAddCmd.Flags().StringVarP(&flagBudgetPeriod, "period", "p", "monthly", "Budget period: weekly or monthly")
	budgetAddCmd.Flags().StringVarP(&flagBudgetCategory, "category", "c", "", "Limit to one category (default: all spending)")
	budgetAddCmd.Flags().StringVar(&flagBudgetStart, "start", "", "Start date (default today)")

	budgetListCmd.Flags().BoolVarP(&flagBudgetAll, "all", "a", false, "Include inactive budgets")

	budgetCmd.AddCommand(budgetAddCmd, budgetListCmd, budgetRmCmd, budgetDeactivateCmd)
	rootCmd.AddCommand(budgetCmd)
}

func runBudgetAdd(_ *cobra.Command, args []string) error {
	amount, err := decimal.NewFromString(args[0])
	if err != nil {
		return fmt.Errorf("invalid amount %q", args[0])
	}

	start := time.Now()
	if flagBudgetStart != "" {
		if start, err = source.ParseDate(flagBudgetStart); err != nil {
			return err
		}
	}
	y, m, d := start.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, start.Location())

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	b := model.Budget{
		Amount:    amount,
		Period:    model.BudgetPeriod(strings.ToLower(flagBudgetPeriod)),
		StartDate: start,
		IsActive:  true,
	}
	label := "all spending"
	if flagBudgetCategory != "" {
		cats, err := st.GetCategories()
		if err != nil {
			return err
		}
		cat, err := findCategory(cats, flagBudgetCategory)
		if err != nil {
			return err
		}
		b.CategoryID = &cat.ID
		label = cat.Name
	}
	if err := model.Validate(b); err != nil {
		return err
	}

	saved, err := st.SaveBudget(b)
	if err != nil {
		return fmt.Errorf("saving budget: %w", err)
	}
	logger.Info("budget added", "id", saved.ID, "amount", saved.Amount.String(), "period", saved.Period)
	if !flagQuiet {
		fmt.Printf("  Added %s %s budget for %s  [%s]\n",
			cli.FormatMoney(saved.Amount), saved.Period, label, cli.ShortID(saved.ID))
	}
	recordAchievements(st)
	return nil
}

func runBudgetList(_ *cobra.Command, _ []string) error {
	ds, err := loadData()
	if err != nil {
		return err
	}
	if len(ds.Budgets) == 0 {
		fmt.Println("\n  No budgets yet. Create one with `spendwise budget add 500`.")
		return nil
	}

	policy, err := rolloverPolicy()
	if err != nil {
		return err
	}

	budgets := ds.Budgets
	if !flagBudgetAll {
		budgets = ds.ActiveBudgets()
	}
	progress := make([]model.BudgetProgress, 0, len(budgets))
	now := time.Now()
	for _, b := range budgets {
		progress = append(progress, pipeline.BudgetProgressFor(b, ds.Expenses, now, policy))
	}

	fmt.Println()
	fmt.Print(renderBudgetTable(ds, progress))

	for _, p := range progress {
		if p.IsOverBudget {
			fmt.Println()
			fmt.Println(cli.Warn(fmt.Sprintf("  Over budget by %s on %s",
				cli.FormatMoney(p.RemainingAmount.Neg()), cli.ShortID(p.BudgetID))))
		}
	}
	return nil
}

// renderBudgetTable renders one row per progress entry.
func renderBudgetTable(ds *pipeline.Dataset, progress []model.BudgetProgress) string {
	byID := make(map[string]model.Budget, len(ds.Budgets))
	for _, b := range ds.Budgets {
		byID[b.ID] = b
	}

	rows := make([][]string, 0, len(progress))
	for _, p := range progress {
		b := byID[p.BudgetID]
		scope := "All"
		if b.CategoryID != nil {
			scope = *b.CategoryID
			if c, ok := ds.Category(*b.CategoryID); ok {
				scope = c.Name
			}
		}
		if !b.IsActive {
			scope += " (inactive)"
		}
		rows = append(rows, []string{
			cli.ShortID(b.ID),
			cli.Truncate(scope, 20),
			string(b.Period),
			fmt.Sprintf("%s / %s", cli.FormatMoney(p.TotalSpent), cli.FormatMoney(b.Amount)),
			cli.RenderBudgetBar(p.Percentage, 12) + " " + cli.FormatPercent(p.Percentage),
			cli.FormatDays(p.DaysRemaining),
		})
	}

	return cli.RenderTable(cli.Table{
		Title:     "Budgets",
		Headers:   []string{"ID", "Scope", "Period", "Spent", "Progress", "Left"},
		Rows:      rows,
		LeftAlign: []bool{true, true, true, false, true, false},
	})
}

func runBudgetRm(_ *cobra.Command, args []string) error {
	return withBudget(args[0], func(id string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		if err := st.DeleteBudget(id); err != nil {
			return err
		}
		logger.Info("budget deleted", "id", id)
		if !flagQuiet {
			fmt.Printf("  Deleted budget %s\n", cli.ShortID(id))
		}
		return nil
	})
}

func runBudgetDeactivate(_ *cobra.Command, args []string) error {
	return withBudget(args[0], func(id string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		if err := st.DeactivateBudget(id); err != nil {
			return err
		}
		logger.Info("budget deactivated", "id", id)
		if !flagQuiet {
			fmt.Printf("  Deactivated budget %s\n", cli.ShortID(id))
		}
		return nil
	})
}

// withBudget resolves an ID prefix to a full budget ID before calling fn.
func withBudget(prefix string, fn func(id string) error) error {
	ds, err := loadData()
	if err != nil {
		return err
	}
	var matches []string
	for _, b := range ds.Budgets {
		if b.ID == prefix {
			return fn(b.ID)
		}
		if strings.HasPrefix(b.ID, prefix) {
			matches = append(matches, b.ID)
		}
	}
	switch len(matches) {
	case 0:
		return fmt.Errorf("no budget with id %q", prefix)
	case 1:
		return fn(matches[0])
	default:
		return fmt.Errorf("id %q is ambiguous (%d matches)", prefix, len(matches))
	}
}
