package pipeline

import (
	"time"

	"github.com/theirongolddev/spendwise/internal/model"
)

// XP awarded per unit of activity.
const (
	xpPerExpense     = 5
	xpPerStreakDay   = 2
	xpPerAchievement = 50
	xpPerCategory    = 10
)

var levelThresholds = []int{0, 100, 250, 500, 1000, 2000, 3500, 5500, 8000, 12000, 17000}

var levelTitles = []string{
	"Newcomer", "Tracker", "Saver", "Budgeter", "Planner", "Strategist",
	"Analyst", "Expert", "Master", "Guru", "Legend",
}

var levelBenefits = [][]string{
	{"Expense logging", "Default categories"},
	{"Category breakdowns"},
	{"Weekly spending summary"},
	{"Budget progress alerts"},
	{"Velocity tracking", "Risk levels"},
	{"Trend analysis"},
	{"Custom categories"},
	{"Spending forecasts"},
	{"Achievement showcase"},
	{"Expert insights"},
	{"Legendary status"},
}

// TotalXP scores logging activity.
func TotalXP(expenseCount, streakDays, unlockedAchievements, distinctCategories int) int {
	return xpPerExpense*expenseCount +
		xpPerStreakDay*streakDays +
		xpPerAchievement*unlockedAchievements +
		xpPerCategory*distinctCategories
}

// LevelForXP maps a total XP score to its level. Thresholds are inclusive
// at the lower bound.
func LevelForXP(totalXP int) model.LevelInfo {
	level := 0
	for i, th := range levelThresholds {
		if totalXP >= th {
			level = i
		}
	}

	info := model.LevelInfo{
		Level:    level,
		Title:    levelTitles[clampIndex(level, len(levelTitles))],
		XP:       totalXP - levelThresholds[level],
		TotalXP:  totalXP,
		Benefits: levelBenefits[clampIndex(level, len(levelBenefits))],
	}
	if level+1 < len(levelThresholds) {
		info.XPToNext = levelThresholds[level+1] - totalXP
	}
	return info
}

// CalculateLevel scores expenses, the current streak, unlocked achievements
// and category variety.
func CalculateLevel(expenses []model.Expense, achievements []model.Achievement, now time.Time) model.LevelInfo {
	streak, _ := newLoggedDays(expenses, now.Location()).currentRun(startOfDay(now))

	unlocked := 0
	for _, a := range achievements {
		if a.Unlocked() {
			unlocked++
		}
	}

	return LevelForXP(TotalXP(len(expenses), streak, unlocked, distinctCategories(expenses)))
}

func distinctCategories(expenses []model.Expense) int {
	seen := make(map[string]struct{})
	for _, e := range expenses {
		seen[e.Category.ID] = struct{}{}
	}
	return len(seen)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
