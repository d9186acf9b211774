package pipeline

import (
	"testing"
	"time"

	"github.com/theirongolddev/spendwise/internal/model"
)

func TestEvaluateAchievements(t *testing.T) {
	now := day(2024, 2, 1)
	var expenses []model.Expense
	for i := 0; i < 10; i++ {
		expenses = append(expenses, expense("1", now.AddDate(0, 0, -i), "food"))
	}

	got := EvaluateAchievements(expenses, nil, nil, now)
	if len(got) != len(achievementCatalogue) {
		t.Fatalf("got %d achievements, want full catalogue of %d", len(got), len(achievementCatalogue))
	}

	unlocked := map[string]bool{}
	for _, a := range got {
		unlocked[a.ID] = a.Unlocked()
		if a.Unlocked() && !a.UnlockedAt.Equal(now) {
			t.Errorf("%s unlocked at %v, want now", a.ID, a.UnlockedAt)
		}
	}
	for _, id := range []string{"first_expense", "ten_expenses", "week_streak"} {
		if !unlocked[id] {
			t.Errorf("%s should be unlocked", id)
		}
	}
	for _, id := range []string{"hundred_expenses", "month_streak", "category_explorer", "first_budget"} {
		if unlocked[id] {
			t.Errorf("%s should be locked", id)
		}
	}
}

func TestEvaluateAchievements_KeepsEarlierUnlock(t *testing.T) {
	earlier := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	existing := []model.Achievement{{ID: "first_budget", UnlockedAt: &earlier}}

	// The budget was since deleted, but an unlock is permanent.
	got := EvaluateAchievements(nil, nil, existing, day(2024, 2, 1))
	for _, a := range got {
		if a.ID != "first_budget" {
			continue
		}
		if !a.Unlocked() || !a.UnlockedAt.Equal(earlier) {
			t.Errorf("first_budget = %+v, want unlocked at %v", a, earlier)
		}
	}
}

func TestNewlyUnlocked(t *testing.T) {
	now := day(2024, 2, 1)
	before := EvaluateAchievements(nil, nil, nil, now)
	after := EvaluateAchievements([]model.Expense{expense("1", now, "food")}, []model.Budget{{ID: "b"}}, before, now)

	fresh := NewlyUnlocked(before, after)
	if len(fresh) != 2 {
		t.Fatalf("got %d newly unlocked, want 2: %+v", len(fresh), fresh)
	}
	if fresh[0].ID != "first_expense" || fresh[1].ID != "first_budget" {
		t.Errorf("newly unlocked = %s, %s", fresh[0].ID, fresh[1].ID)
	}
}
