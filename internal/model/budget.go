package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetPeriod is the recurring window a budget amount applies to.
type BudgetPeriod string

const (
	PeriodWeekly  BudgetPeriod = "weekly"
	PeriodMonthly BudgetPeriod = "monthly"
)

// Budget caps spending for one category, or for everything when CategoryID is nil.
type Budget struct {
	ID         string          `json:"id"`
	Amount     decimal.Decimal `json:"amount" validate:"gt=0"`
	Period     BudgetPeriod    `json:"period" validate:"oneof=weekly monthly"`
	CategoryID *string         `json:"category_id,omitempty"`
	StartDate  time.Time       `json:"start_date" validate:"required"`
	IsActive   bool            `json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`
}

// AppliesTo reports whether an expense in categoryID counts against the budget.
func (b Budget) AppliesTo(categoryID string) bool {
	return b.CategoryID == nil || *b.CategoryID == categoryID
}

// RolloverPolicy decides how a budget window moves once its first period has elapsed.
type RolloverPolicy string

const (
	// RolloverCalendar restarts the budget each period: monthly budgets follow the
	// calendar month containing "now", weekly budgets step forward in 7-day blocks.
	RolloverCalendar RolloverPolicy = "calendar"
	// RolloverFixed pins the window to the period that contains StartDate.
	RolloverFixed RolloverPolicy = "fixed"
)

// BudgetProgress is the spend-to-date view of one budget for its current window.
type BudgetProgress struct {
	BudgetID        string          `json:"budget_id"`
	TotalSpent      decimal.Decimal `json:"total_spent"`
	Percentage      float64         `json:"percentage"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	IsOverBudget    bool            `json:"is_over_budget"`
	DaysRemaining   int             `json:"days_remaining"`
	WindowStart     time.Time       `json:"window_start"`
	WindowEnd       time.Time       `json:"window_end"`
}
