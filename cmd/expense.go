package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/spendwise/internal/cli"
	"github.com/theirongolddev/spendwise/internal/model"
	"github.com/theirongolddev/spendwise/internal/pipeline"
	"github.com/theirongolddev/spendwise/internal/source"
	"github.com/theirongolddev/spendwise/internal/store"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// Flag variables are per subcommand: registration writes each default into its variable.
var (
	flagAddCategory string
	flagAddDate     string
	flagAddNote     string

	flagListCategory string
	flagListLimit    int

	flagEditAmount      string
	flagEditDescription string
	flagEditCategory    string
	flagEditDate        string
	flagEditNote        string
)

var expenseCmd = &cobra.Command{
	Use:     "expense",
	Aliases: []string{"exp"},
	Short:   "Add, list, edit and remove expenses",
}

var expenseAddCmd = &cobra.Command{
	Use:   "add <amount> <description>",
	Short: "Record an expense",
	Args:  cobra.ExactArgs(2),
	RunE:  runExpenseAdd,
}

var expenseListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recent expenses",
	RunE:    runExpenseList,
}

var expenseRmCmd = &cobra.Command{
	Use:   "rm <id>...",
	Short: "Delete expenses by ID or ID prefix",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExpenseRm,
}

var expenseEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of an expense",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpenseEdit,
}

var expenseRecategorizeCmd = &cobra.Command{
	Use:   "recategorize <category> <id>...",
	Short: "Move expenses to another category in one step",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runExpenseRecategorize,
}

func init() {
	expenseAddCmd.Flags().StringVarP(&flagAddCategory, "category", "c", "other", "Category ID or name")
	expenseAddCmd.Flags().StringVar(&flagAddDate, "date", "", "Date (YYYY-MM-DD or RFC 3339, default now)")
	expenseAddCmd.Flags().StringVar(&flagAddNote, "note", "", "Optional note")

	expenseListCmd.Flags().StringVarP(&flagListCategory, "category", "c", "", "Only this category")
	expenseListCmd.Flags().IntVarP(&flagListLimit, "limit", "l", 20, "Maximum rows (0 for all)")

	expenseEditCmd.Flags().StringVar(&flagEditAmount, "amount", "", "New amount")
	expenseEditCmd.Flags().StringVar(&flagEditDescription, "description", "", "New description")
	expenseEditCmd.Flags().StringVarP(&flagEditCategory, "category", "c", "", "New category")
	expenseEditCmd.Flags().StringVar(&flagEditDate, "date", "", "New date")
	expenseEditCmd.Flags().StringVar(&flagEditNote, "note", "", "New note")

	expenseCmd.AddCommand(expenseAddCmd, expenseListCmd, expenseRmCmd, expenseEditCmd, expenseRecategorizeCmd)
	rootCmd.AddCommand(expenseCmd)
}

func runExpenseAdd(_ *cobra.Command, args []string) error {
	amount, err := decimal.NewFromString(args[0])
	if err != nil {
		return fmt.Errorf("invalid amount %q", args[0])
	}

	date := time.Now()
	if flagAddDate != "" {
		if date, err = source.ParseDate(flagAddDate); err != nil {
			return err
		}
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	cats, err := st.GetCategories()
	if err != nil {
		return err
	}
	cat, err := findCategory(cats, flagAddCategory)
	if err != nil {
		return err
	}

	e := model.Expense{
		Amount:      amount,
		Description: strings.TrimSpace(args[1]),
		Category:    cat,
		Date:        date,
		Note:        flagAddNote,
	}
	if err := model.Validate(e); err != nil {
		return err
	}

	saved, err := st.SaveExpense(e)
	if err != nil {
		return fmt.Errorf("saving expense: %w", err)
	}
	logger.Info("expense added", "id", saved.ID, "amount", saved.Amount.String(), "category", cat.ID)

	if !flagQuiet {
		fmt.Printf("  Added %s  %s  %s %s  [%s]\n",
			cli.FormatMoney(saved.Amount), saved.Description, cat.Emoji, cat.Name, cli.ShortID(saved.ID))
	}
	recordAchievements(st)
	return nil
}

func runExpenseList(_ *cobra.Command, _ []string) error {
	ds, err := loadData()
	if err != nil {
		return err
	}

	since, until := window(time.Now())
	expenses := pipeline.FilterByTime(ds.Expenses, since, until.Add(time.Nanosecond))
	if flagListCategory != "" {
		cat, err := findCategory(ds.Categories, flagListCategory)
		if err != nil {
			return err
		}
		expenses = pipeline.FilterByCategory(expenses, cat.ID)
	}

	if len(expenses) == 0 {
		fmt.Println("\n  No expenses in the selected period.")
		return nil
	}

	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	shown := expenses
	if flagListLimit > 0 && len(shown) > flagListLimit {
		shown = shown[:flagListLimit]
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("EXPENSES  Last %dd", flagDays)))
	fmt.Println()

	rows := make([][]string, 0, len(shown)+2)
	for _, e := range shown {
		rows = append(rows, []string{
			cli.ShortID(e.ID),
			cli.FormatDate(e.Date),
			cli.Truncate(e.Description, 32),
			cli.Truncate(e.Category.Name, 18),
			cli.FormatMoney(e.Amount),
		})
	}
	rows = append(rows, []string{"---"}, []string{"", "", fmt.Sprintf("%d expenses", len(expenses)), "Total", cli.FormatMoney(total)})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers:   []string{"ID", "Date", "Description", "Category", "Amount"},
		Rows:      rows,
		LeftAlign: []bool{true, true, true, true, false},
	}))

	if len(shown) < len(expenses) {
		fmt.Printf("\n  Showing %d of %d. Use --limit 0 to see all.\n", len(shown), len(expenses))
	}
	return nil
}

func runExpenseRm(_ *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	expenses, err := st.GetExpenses()
	if err != nil {
		return err
	}

	for _, arg := range args {
		e, err := resolveExpense(expenses, arg)
		if err != nil {
			return err
		}
		if err := st.DeleteExpense(e.ID); err != nil {
			return fmt.Errorf("deleting %s: %w", cli.ShortID(e.ID), err)
		}
		logger.Info("expense deleted", "id", e.ID)
		if !flagQuiet {
			fmt.Printf("  Deleted %s  %s  %s\n", cli.ShortID(e.ID), cli.FormatMoney(e.Amount), e.Description)
		}
	}
	return nil
}

func runExpenseEdit(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	expenses, err := st.GetExpenses()
	if err != nil {
		return err
	}
	e, err := resolveExpense(expenses, args[0])
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("amount") {
		if e.Amount, err = decimal.NewFromString(flagEditAmount); err != nil {
			return fmt.Errorf("invalid amount %q", flagEditAmount)
		}
	}
	if flags.Changed("description") {
		e.Description = strings.TrimSpace(flagEditDescription)
	}
	if flags.Changed("category") {
		cats, err := st.GetCategories()
		if err != nil {
			return err
		}
		if e.Category, err = findCategory(cats, flagEditCategory); err != nil {
			return err
		}
	}
	if flags.Changed("date") {
		if e.Date, err = source.ParseDate(flagEditDate); err != nil {
			return err
		}
	}
	if flags.Changed("note") {
		e.Note = flagEditNote
	}
	if err := model.Validate(e); err != nil {
		return err
	}

	if _, err := st.SaveExpense(e); err != nil {
		return fmt.Errorf("saving expense: %w", err)
	}
	logger.Info("expense updated", "id", e.ID)
	if !flagQuiet {
		fmt.Printf("  Updated %s  %s  %s  %s\n",
			cli.ShortID(e.ID), cli.FormatMoney(e.Amount), e.Description, e.Category.Name)
	}
	recordAchievements(st)
	return nil
}

func runExpenseRecategorize(_ *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	cats, err := st.GetCategories()
	if err != nil {
		return err
	}
	cat, err := findCategory(cats, args[0])
	if err != nil {
		return err
	}
	expenses, err := st.GetExpenses()
	if err != nil {
		return err
	}

	batch := make([]model.Expense, 0, len(args)-1)
	for _, arg := range args[1:] {
		e, err := resolveExpense(expenses, arg)
		if err != nil {
			return err
		}
		e.Category = cat
		batch = append(batch, e)
	}

	if err := st.BulkUpdateExpenses(batch); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("an expense was deleted concurrently; nothing changed")
		}
		return err
	}
	logger.Info("expenses recategorized", "count", len(batch), "category", cat.ID)
	if !flagQuiet {
		fmt.Printf("  Moved %d expenses to %s %s\n", len(batch), cat.Emoji, cat.Name)
	}
	recordAchievements(st)
	return nil
}

// findCategory matches a category by ID or name, case-insensitively.
func findCategory(categories []model.Category, s string) (model.Category, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, c := range categories {
		if strings.ToLower(c.ID) == key {
			return c, nil
		}
	}
	for _, c := range categories {
		if strings.ToLower(c.Name) == key {
			return c, nil
		}
	}

	ids := make([]string, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}
	return model.Category{}, fmt.Errorf("unknown category %q (have: %s)", s, strings.Join(ids, ", "))
}

// resolveExpense finds the single expense whose ID starts with prefix.
func resolveExpense(expenses []model.Expense, prefix string) (model.Expense, error) {
	var (
		found model.Expense
		n     int
	)
	for _, e := range expenses {
		if e.ID == prefix {
			return e, nil
		}
		if strings.HasPrefix(e.ID, prefix) {
			found = e
			n++
		}
	}
	switch n {
	case 0:
		return model.Expense{}, fmt.Errorf("no expense with id %q", prefix)
	case 1:
		return found, nil
	default:
		return model.Expense{}, fmt.Errorf("id %q is ambiguous (%d matches)", prefix, n)
	}
}
