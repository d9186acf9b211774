package pipeline

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/spendwise/internal/model"
)

var hundred = decimal.NewFromInt(100)

// BudgetWindow returns the half-open [start, end) period a budget currently covers.
func BudgetWindow(b model.Budget, now time.Time, policy model.RolloverPolicy) (time.Time, time.Time) {
	anchor := startOfDay(b.StartDate.In(now.Location()))

	if b.Period == model.PeriodWeekly {
		start := anchor
		if policy != model.RolloverFixed && now.After(anchor) {
			elapsed := calendarDaysBetween(anchor, now)
			start = anchor.AddDate(0, 0, (elapsed/7)*7)
		}
		return start, start.AddDate(0, 0, 7)
	}

	ref := anchor
	if policy != model.RolloverFixed && now.After(anchor) {
		ref = now
	}
	start := startOfMonth(ref)
	return start, start.AddDate(0, 1, 0)
}

// BudgetProgressFor computes spend-to-date for one budget over its current window.
// Percentage is not capped; callers clamp it for display.
func BudgetProgressFor(b model.Budget, expenses []model.Expense, now time.Time, policy model.RolloverPolicy) model.BudgetProgress {
	start, end := BudgetWindow(b, now, policy)

	spent := decimal.Zero
	for _, e := range expenses {
		if !b.AppliesTo(e.Category.ID) {
			continue
		}
		if e.Date.Before(start) || !e.Date.Before(end) {
			continue
		}
		spent = spent.Add(e.Amount)
	}

	p := model.BudgetProgress{
		BudgetID:        b.ID,
		TotalSpent:      spent,
		RemainingAmount: b.Amount.Sub(spent),
		IsOverBudget:    spent.GreaterThan(b.Amount),
		WindowStart:     start,
		WindowEnd:       end,
	}
	if b.Amount.IsPositive() {
		p.Percentage = spent.Div(b.Amount).Mul(hundred).InexactFloat64()
	}

	days := int(math.Floor(end.Sub(now).Hours() / 24))
	if days > 0 {
		p.DaysRemaining = days
	}

	return p
}

// BudgetProgressAll computes progress for every active budget, keeping input order.
func BudgetProgressAll(budgets []model.Budget, expenses []model.Expense, now time.Time, policy model.RolloverPolicy) []model.BudgetProgress {
	out := make([]model.BudgetProgress, 0, len(budgets))
	for _, b := range budgets {
		if !b.IsActive {
			continue
		}
		out = append(out, BudgetProgressFor(b, expenses, now, policy))
	}
	return out
}
