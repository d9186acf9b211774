package pipeline

import (
	"time"

	"github.com/theirongolddev/spendwise/internal/model"
)

type achievementStats struct {
	expenses      int
	longestStreak int
	categories    int
	budgets       int
}

type achievementRule struct {
	id          string
	title       string
	description string
	met         func(achievementStats) bool
}

var achievementCatalogue = []achievementRule{
	{"first_expense", "First Step", "Log your first expense",
		func(s achievementStats) bool { return s.expenses >= 1 }},
	{"ten_expenses", "Getting Serious", "Log 10 expenses",
		func(s achievementStats) bool { return s.expenses >= 10 }},
	{"hundred_expenses", "Centurion", "Log 100 expenses",
		func(s achievementStats) bool { return s.expenses >= 100 }},
	{"week_streak", "Week Warrior", "Log expenses 7 days in a row",
		func(s achievementStats) bool { return s.longestStreak >= 7 }},
	{"month_streak", "Habit Formed", "Log expenses 30 days in a row",
		func(s achievementStats) bool { return s.longestStreak >= 30 }},
	{"category_explorer", "Explorer", "Spend in 5 different categories",
		func(s achievementStats) bool { return s.categories >= 5 }},
	{"first_budget", "Planner", "Create your first budget",
		func(s achievementStats) bool { return s.budgets >= 1 }},
}

// EvaluateAchievements returns the full catalogue with unlock state applied.
// Entries already unlocked in existing keep their time; newly met ones get now.
func EvaluateAchievements(expenses []model.Expense, budgets []model.Budget, existing []model.Achievement, now time.Time) []model.Achievement {
	prior := make(map[string]*time.Time, len(existing))
	for _, a := range existing {
		if a.Unlocked() {
			prior[a.ID] = a.UnlockedAt
		}
	}

	stats := achievementStats{
		expenses:      len(expenses),
		longestStreak: longestRun(newLoggedDays(expenses, now.Location()).sorted()),
		categories:    distinctCategories(expenses),
		budgets:       len(budgets),
	}

	out := make([]model.Achievement, 0, len(achievementCatalogue))
	for _, r := range achievementCatalogue {
		a := model.Achievement{ID: r.id, Title: r.title, Description: r.description}
		if at, ok := prior[r.id]; ok {
			t := *at
			a.UnlockedAt = &t
		} else if r.met(stats) {
			t := now
			a.UnlockedAt = &t
		}
		out = append(out, a)
	}
	return out
}

// NewlyUnlocked lists achievements unlocked in after but not in before.
func NewlyUnlocked(before, after []model.Achievement) []model.Achievement {
	had := make(map[string]bool, len(before))
	for _, a := range before {
		had[a.ID] = a.Unlocked()
	}
	var out []model.Achievement
	for _, a := range after {
		if a.Unlocked() && !had[a.ID] {
			out = append(out, a)
		}
	}
	return out
}
