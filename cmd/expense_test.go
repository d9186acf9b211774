package cmd

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/theirongolddev/spendwise/internal/model"
	"github.com/theirongolddev/spendwise/internal/store"
)

// resetFlags restores every flag in the command tree to its default, so
// each run starts from a clean slate.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// newCLIEnv isolates config and data under a temp dir and returns a db path.
func newCLIEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return filepath.Join(dir, "spendwise.db")
}

func runCLI(t *testing.T, dbPath string, args ...string) {
	t.Helper()
	resetFlags(rootCmd)
	rootCmd.SetArgs(append([]string{"--db", dbPath, "-q"}, args...))
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("spendwise %v: %v", args, err)
	}
}

func storedExpenses(t *testing.T, dbPath string) []model.Expense {
	t.Helper()
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer func() { _ = st.Close() }()
	expenses, err := st.GetExpenses()
	if err != nil {
		t.Fatalf("GetExpenses: %v", err)
	}
	return expenses
}

func TestExpenseFlagDefaults(t *testing.T) {
	resetFlags(rootCmd)
	if flagAddCategory != "other" {
		t.Errorf("add --category = %q, want other", flagAddCategory)
	}
	if got := expenseAddCmd.Flags().Lookup("category").DefValue; got != "other" {
		t.Errorf("add --category default = %q, want other", got)
	}
	if flagListCategory != "" || flagEditCategory != "" {
		t.Errorf("list/edit --category = %q/%q, want empty", flagListCategory, flagEditCategory)
	}
}

func TestExpenseAdd_DefaultCategory(t *testing.T) {
	db := newCLIEnv(t)
	runCLI(t, db, "expense", "add", "12.50", "lunch")

	expenses := storedExpenses(t, db)
	if len(expenses) != 1 {
		t.Fatalf("got %d expenses, want 1", len(expenses))
	}
	e := expenses[0]
	if e.Category.ID != "other" {
		t.Errorf("category = %q, want other", e.Category.ID)
	}
	if !e.Amount.Equal(decimal.RequireFromString("12.50")) {
		t.Errorf("amount = %s, want 12.50", e.Amount)
	}
	if e.Description != "lunch" {
		t.Errorf("description = %q, want lunch", e.Description)
	}
}

func TestExpenseAdd_FlagsDoNotCarryOver(t *testing.T) {
	db := newCLIEnv(t)
	runCLI(t, db, "expense", "add", "8", "coffee", "-c", "food", "--note", "oat", "--date", "2024-03-01")
	runCLI(t, db, "expense", "add", "3", "bus")

	byDesc := map[string]model.Expense{}
	for _, e := range storedExpenses(t, db) {
		byDesc[e.Description] = e
	}
	if c := byDesc["coffee"]; c.Category.ID != "food" || c.Note != "oat" || c.Date.Day() != 1 {
		t.Errorf("coffee = %+v", c)
	}
	if b := byDesc["bus"]; b.Category.ID != "other" || b.Note != "" {
		t.Errorf("bus = %+v, want category other and no note", b)
	}
}

func TestExpenseEdit(t *testing.T) {
	db := newCLIEnv(t)
	runCLI(t, db, "expense", "add", "10", "dinner")
	id := storedExpenses(t, db)[0].ID

	runCLI(t, db, "expense", "edit", id[:8], "--category", "food", "--amount", "20")

	e := storedExpenses(t, db)[0]
	if e.Category.ID != "food" {
		t.Errorf("category = %q, want food", e.Category.ID)
	}
	if !e.Amount.Equal(decimal.NewFromInt(20)) {
		t.Errorf("amount = %s, want 20", e.Amount)
	}
	if e.Description != "dinner" {
		t.Errorf("description changed to %q", e.Description)
	}
}

func TestBudgetAddList(t *testing.T) {
	db := newCLIEnv(t)
	runCLI(t, db, "budget", "add", "500")
	runCLI(t, db, "budget", "add", "100", "-p", "weekly", "-c", "food")
	runCLI(t, db, "expense", "add", "25", "groceries run", "-c", "food")
	runCLI(t, db, "budget", "list")

	st, err := store.Open(db)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer func() { _ = st.Close() }()
	budgets, err := st.GetBudgets()
	if err != nil {
		t.Fatalf("GetBudgets: %v", err)
	}
	if len(budgets) != 2 {
		t.Fatalf("got %d budgets, want 2", len(budgets))
	}

	var overall, food int
	for _, b := range budgets {
		if !b.IsActive {
			t.Errorf("budget %s should be active", b.ID)
		}
		switch {
		case b.CategoryID == nil:
			overall++
			if b.Period != model.PeriodMonthly || !b.Amount.Equal(decimal.NewFromInt(500)) {
				t.Errorf("overall budget = %+v", b)
			}
		case *b.CategoryID == "food":
			food++
			if b.Period != model.PeriodWeekly || !b.Amount.Equal(decimal.NewFromInt(100)) {
				t.Errorf("food budget = %+v", b)
			}
		}
	}
	if overall != 1 || food != 1 {
		t.Errorf("overall=%d food=%d, want 1 each", overall, food)
	}
}
