package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RiskLevel grades how fast money is leaving relative to budgets.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Trend is the direction spending moved between two halves of a window.
type Trend string

const (
	TrendAccelerating Trend = "accelerating"
	TrendDecelerating Trend = "decelerating"
	TrendStable       Trend = "stable"
)

// VelocityData compares the current daily spend rate to the rate budgets allow.
// HasBudget is false when no active budget exists; the ratio is then 0.
type VelocityData struct {
	CurrentVelocity  decimal.Decimal `json:"current_velocity"`
	OptimalVelocity  decimal.Decimal `json:"optimal_velocity"`
	VelocityRatio    float64         `json:"velocity_ratio"`
	MonthlyBudget    decimal.Decimal `json:"monthly_budget"`
	ProjectedOverage decimal.Decimal `json:"projected_overage"`
	RiskLevel        RiskLevel       `json:"risk_level"`
	Trend            Trend           `json:"trend"`
	HasBudget        bool            `json:"has_budget"`
}

// MonthlyStats is logging consistency for the current calendar month.
type MonthlyStats struct {
	LoggedDays int     `json:"logged_days"`
	TotalDays  int     `json:"total_days"`
	Percentage float64 `json:"percentage"`
}

// StreakData describes consecutive-day logging behaviour.
type StreakData struct {
	CurrentStreak      int          `json:"current_streak"`
	LongestStreak      int          `json:"longest_streak"`
	LastLoggedDate     time.Time    `json:"last_logged_date"`
	StreakStartDate    time.Time    `json:"streak_start_date"`
	IsActiveToday      bool         `json:"is_active_today"`
	DaysWithoutLogging int          `json:"days_without_logging"`
	WeeklyProgress     [7]bool      `json:"weekly_progress"` // oldest first, last entry is today
	Monthly            MonthlyStats `json:"monthly"`
}

// CategorySpend holds aggregated spend for a single category.
type CategorySpend struct {
	Category   Category        `json:"category"`
	Total      decimal.Decimal `json:"total"`
	Percentage float64         `json:"percentage"`
	Count      int             `json:"count"`
}

// PeriodTotal is spend inside one time bucket.
type PeriodTotal struct {
	Start time.Time       `json:"start"`
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// WeekdayBucket counts expenses falling on one day of the week.
type WeekdayBucket struct {
	Day   time.Weekday    `json:"day"`
	Name  string          `json:"name"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// LevelInfo is the gamified score derived from logging activity.
type LevelInfo struct {
	Level    int      `json:"level"`
	Title    string   `json:"title"`
	XP       int      `json:"xp"`
	XPToNext int      `json:"xp_to_next"`
	TotalXP  int      `json:"total_xp"`
	Benefits []string `json:"benefits"`
}

// SpendingSummary is the headline view of spend inside a time range.
type SpendingSummary struct {
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	ActiveDays int             `json:"active_days"`
	Categories int             `json:"categories"`
	Average    decimal.Decimal `json:"average"`
	PerDay     decimal.Decimal `json:"per_day"`
	Largest    *Expense        `json:"largest,omitempty"`
}
