package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/spendwise/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "spendwise.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func food() model.Category {
	return model.DefaultCategories()[0]
}

func TestOpen_SeedsDefaultCategories(t *testing.T) {
	s := openTestStore(t)

	cats, err := s.GetCategories()
	if err != nil {
		t.Fatalf("GetCategories: %v", err)
	}
	want := model.DefaultCategories()
	if len(cats) != len(want) {
		t.Fatalf("got %d categories, want %d", len(cats), len(want))
	}
	for i := range want {
		if cats[i] != want[i] {
			t.Errorf("category %d = %+v, want %+v", i, cats[i], want[i])
		}
	}
}

func TestSaveCategory_Upsert(t *testing.T) {
	s := openTestStore(t)

	pets := model.Category{ID: "pets", Name: "Pets", Emoji: "🐶", Color: "#AABBCC", Icon: model.IconOther}
	if err := s.SaveCategory(pets); err != nil {
		t.Fatalf("SaveCategory: %v", err)
	}
	pets.Name = "Pet care"
	if err := s.SaveCategory(pets); err != nil {
		t.Fatalf("SaveCategory update: %v", err)
	}

	cats, _ := s.GetCategories()
	last := cats[len(cats)-1]
	if last.ID != "pets" || last.Name != "Pet care" {
		t.Errorf("last category = %+v", last)
	}
}

func TestExpenses_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	date := time.Date(2024, 1, 5, 12, 30, 0, 0, time.FixedZone("EST", -5*3600))
	saved, err := s.SaveExpense(model.Expense{
		Amount:      decimal.RequireFromString("12.34"),
		Description: "Lunch",
		Category:    food(),
		Date:        date,
		Note:        "with team",
	})
	if err != nil {
		t.Fatalf("SaveExpense: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("SaveExpense did not assign an ID")
	}

	got, err := s.GetExpense(saved.ID)
	if err != nil {
		t.Fatalf("GetExpense: %v", err)
	}
	if !got.Amount.Equal(decimal.RequireFromString("12.34")) {
		t.Errorf("amount = %s, want 12.34", got.Amount)
	}
	if !got.Date.Equal(date) {
		t.Errorf("date = %v, want %v", got.Date, date)
	}
	if got.Category != food() {
		t.Errorf("category = %+v, want %+v", got.Category, food())
	}
	if got.Note != "with team" {
		t.Errorf("note = %q", got.Note)
	}

	n, err := s.ExpenseCount()
	if err != nil || n != 1 {
		t.Errorf("ExpenseCount = %d, %v; want 1", n, err)
	}
}

func TestGetExpenses_NewestFirst(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	batch := []model.Expense{
		{ID: "a", Amount: decimal.NewFromInt(1), Description: "a", Category: food(), Date: base},
		{ID: "c", Amount: decimal.NewFromInt(3), Description: "c", Category: food(), Date: base.AddDate(0, 0, 2)},
		{ID: "b", Amount: decimal.NewFromInt(2), Description: "b", Category: food(), Date: base.AddDate(0, 0, 1)},
	}
	if err := s.SaveExpenses(batch); err != nil {
		t.Fatalf("SaveExpenses: %v", err)
	}

	got, err := s.GetExpenses()
	if err != nil {
		t.Fatalf("GetExpenses: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d expenses, want 3", len(got))
	}
	for i, id := range []string{"c", "b", "a"} {
		if got[i].ID != id {
			t.Errorf("expenses[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestDeleteExpense_NotFound(t *testing.T) {
	s := openTestStore(t)

	if err := s.DeleteExpense("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteExpense(missing) = %v, want ErrNotFound", err)
	}
	if _, err := s.GetExpense("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetExpense(missing) = %v, want ErrNotFound", err)
	}
}

func TestBulkUpdateExpenses_AllOrNothing(t *testing.T) {
	s := openTestStore(t)

	e, err := s.SaveExpense(model.Expense{
		Amount: decimal.NewFromInt(10), Description: "Taxi", Category: food(),
		Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("SaveExpense: %v", err)
	}

	transport := model.DefaultCategories()[1]
	e.Category = transport
	ghost := e
	ghost.ID = "ghost"

	if err := s.BulkUpdateExpenses([]model.Expense{e, ghost}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("BulkUpdateExpenses with unknown id = %v, want ErrNotFound", err)
	}
	got, _ := s.GetExpense(e.ID)
	if got.Category.ID != food().ID {
		t.Errorf("partial update applied: category = %q", got.Category.ID)
	}

	if err := s.BulkUpdateExpenses([]model.Expense{e}); err != nil {
		t.Fatalf("BulkUpdateExpenses: %v", err)
	}
	got, _ = s.GetExpense(e.ID)
	if got.Category.ID != transport.ID {
		t.Errorf("category = %q, want %q", got.Category.ID, transport.ID)
	}
}

func TestBudgets_Lifecycle(t *testing.T) {
	s := openTestStore(t)

	foodID := "food"
	b, err := s.SaveBudget(model.Budget{
		Amount:     decimal.NewFromInt(200),
		Period:     model.PeriodMonthly,
		CategoryID: &foodID,
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:   true,
	})
	if err != nil {
		t.Fatalf("SaveBudget: %v", err)
	}
	if _, err := s.SaveBudget(model.Budget{
		Amount:    decimal.NewFromInt(50),
		Period:    model.PeriodWeekly,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}); err != nil {
		t.Fatalf("SaveBudget overall: %v", err)
	}

	budgets, err := s.GetBudgets()
	if err != nil {
		t.Fatalf("GetBudgets: %v", err)
	}
	if len(budgets) != 2 {
		t.Fatalf("got %d budgets, want 2", len(budgets))
	}
	var found bool
	for _, got := range budgets {
		if got.ID != b.ID {
			if got.CategoryID != nil {
				t.Errorf("overall budget has category %q", *got.CategoryID)
			}
			continue
		}
		found = true
		if got.CategoryID == nil || *got.CategoryID != "food" {
			t.Errorf("category = %v, want food", got.CategoryID)
		}
		if !got.Amount.Equal(decimal.NewFromInt(200)) || got.Period != model.PeriodMonthly || !got.IsActive {
			t.Errorf("budget = %+v", got)
		}
	}
	if !found {
		t.Fatalf("budget %s not returned", b.ID)
	}

	if err := s.DeactivateBudget(b.ID); err != nil {
		t.Fatalf("DeactivateBudget: %v", err)
	}
	budgets, _ = s.GetBudgets()
	for _, got := range budgets {
		if got.ID == b.ID && got.IsActive {
			t.Error("budget still active after DeactivateBudget")
		}
	}

	if err := s.DeleteBudget(b.ID); err != nil {
		t.Fatalf("DeleteBudget: %v", err)
	}
	if err := s.DeleteBudget(b.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteBudget = %v, want ErrNotFound", err)
	}
	if err := s.DeactivateBudget("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeactivateBudget(missing) = %v, want ErrNotFound", err)
	}
}

func TestAchievements_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	in := []model.Achievement{
		{ID: "first_expense", Title: "First Step", Description: "Log your first expense", UnlockedAt: &at},
		{ID: "ten_expenses", Title: "Getting Serious", Description: "Log 10 expenses"},
	}
	if err := s.SaveAchievements(in); err != nil {
		t.Fatalf("SaveAchievements: %v", err)
	}

	got, err := s.GetAchievements()
	if err != nil {
		t.Fatalf("GetAchievements: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d achievements, want 2", len(got))
	}
	if !got[0].Unlocked() || !got[0].UnlockedAt.Equal(at) {
		t.Errorf("first achievement = %+v", got[0])
	}
	if got[1].Unlocked() {
		t.Errorf("second achievement unexpectedly unlocked")
	}
}

func TestCorruptTimestamps_Surface(t *testing.T) {
	s := openTestStore(t)

	e, err := s.SaveExpense(model.Expense{
		Amount:      decimal.NewFromInt(5),
		Description: "Snack",
		Category:    food(),
		Date:        time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("SaveExpense: %v", err)
	}
	if _, err := s.SaveBudget(model.Budget{
		Amount:    decimal.NewFromInt(100),
		Period:    model.PeriodMonthly,
		StartDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}); err != nil {
		t.Fatalf("SaveBudget: %v", err)
	}

	if _, err := s.db.Exec("UPDATE expenses SET date = 'not-a-date'"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetExpenses(); err == nil {
		t.Error("GetExpenses accepted a corrupt date")
	}
	if _, err := s.GetExpense(e.ID); err == nil {
		t.Error("GetExpense accepted a corrupt date")
	}

	if _, err := s.db.Exec("UPDATE budgets SET start_date = '2024-13-45'"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetBudgets(); err == nil {
		t.Error("GetBudgets accepted a corrupt start_date")
	}
}

func TestTrackFile(t *testing.T) {
	s := openTestStore(t)

	if err := s.TrackFile("/tmp/a.csv", 123, 456); err != nil {
		t.Fatalf("TrackFile: %v", err)
	}
	if err := s.TrackFile("/tmp/a.csv", 789, 456); err != nil {
		t.Fatalf("TrackFile again: %v", err)
	}

	tracked, err := s.GetTrackedFiles()
	if err != nil {
		t.Fatalf("GetTrackedFiles: %v", err)
	}
	fi, ok := tracked["/tmp/a.csv"]
	if !ok || fi.MtimeNs != 789 || fi.SizeBytes != 456 {
		t.Errorf("tracked = %+v", tracked)
	}
}

func TestIsBusy(t *testing.T) {
	if !isBusy(errors.New("database is locked (5) (SQLITE_BUSY)")) {
		t.Error("busy error not recognized")
	}
	if isBusy(errors.New("no such table: expenses")) {
		t.Error("schema error treated as busy")
	}
}
