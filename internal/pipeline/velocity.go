package pipeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/spendwise/internal/model"
)

// VelocityPeriod selects the trailing window velocity is measured over.
type VelocityPeriod string

const (
	VelocityWeek  VelocityPeriod = "week"
	VelocityMonth VelocityPeriod = "month"
)

// Days returns the window length in days.
func (p VelocityPeriod) Days() int {
	if p == VelocityWeek {
		return 7
	}
	return 30
}

// ParseVelocityPeriod accepts "week" or "month".
func ParseVelocityPeriod(s string) (VelocityPeriod, error) {
	switch VelocityPeriod(s) {
	case VelocityWeek, VelocityMonth:
		return VelocityPeriod(s), nil
	}
	return "", fmt.Errorf("unknown velocity period %q (want week or month)", s)
}

// weeksPerMonth approximates the number of weeks in a month.
var weeksPerMonth = decimal.RequireFromString("4.33")

const trendThreshold = 0.2

// WeekVelocity is spend for one 7-day block of the breakdown.
type WeekVelocity struct {
	Start    time.Time       `json:"start"`
	End      time.Time       `json:"end"`
	Label    string          `json:"label"`
	Total    decimal.Decimal `json:"total"`
	Velocity decimal.Decimal `json:"velocity"`
	Ratio    float64         `json:"ratio"`
}

// CategoryVelocity is one category's share of spend in the velocity window.
type CategoryVelocity struct {
	Category model.Category  `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Share    float64         `json:"share"`
	Velocity decimal.Decimal `json:"velocity"`
	Risk     model.RiskLevel `json:"risk"`
}

// VelocityReport bundles the headline velocity with its breakdowns.
type VelocityReport struct {
	Period     VelocityPeriod     `json:"period"`
	Since      time.Time          `json:"since"`
	Until      time.Time          `json:"until"`
	Spent      decimal.Decimal    `json:"spent"`
	Velocity   model.VelocityData `json:"velocity"`
	Weekly     []WeekVelocity     `json:"weekly"`
	Categories []CategoryVelocity `json:"categories"`
}

// MonthlyBudgetTotal sums active budgets as monthly equivalents.
func MonthlyBudgetTotal(budgets []model.Budget) decimal.Decimal {
	total := decimal.Zero
	for _, b := range budgets {
		if !b.IsActive {
			continue
		}
		if b.Period == model.PeriodWeekly {
			total = total.Add(b.Amount.Mul(weeksPerMonth))
		} else {
			total = total.Add(b.Amount)
		}
	}
	return total
}

// ClassifyRisk grades a velocity ratio. Thresholds are strict, so a ratio of
// exactly 2.0 is high rather than critical.
func ClassifyRisk(ratio float64) model.RiskLevel {
	switch {
	case ratio > 2.0:
		return model.RiskCritical
	case ratio > 1.5:
		return model.RiskHigh
	case ratio > 1.1:
		return model.RiskModerate
	default:
		return model.RiskLow
	}
}

// CategoryRisk grades a category by its percentage share of spend.
func CategoryRisk(share float64) model.RiskLevel {
	switch {
	case share > 40:
		return model.RiskHigh
	case share > 25:
		return model.RiskModerate
	default:
		return model.RiskLow
	}
}

// CompareTrend classifies the change from an earlier average to a later one.
func CompareTrend(before, after decimal.Decimal) model.Trend {
	if !before.IsPositive() {
		if after.IsPositive() {
			return model.TrendAccelerating
		}
		return model.TrendStable
	}
	change := after.Sub(before).Div(before).InexactFloat64()
	switch {
	case change > trendThreshold:
		return model.TrendAccelerating
	case change < -trendThreshold:
		return model.TrendDecelerating
	default:
		return model.TrendStable
	}
}

// AnalyzeVelocity measures spend per day over the trailing period ending at now
// and compares it with what active budgets allow.
func AnalyzeVelocity(expenses []model.Expense, budgets []model.Budget, period VelocityPeriod, now time.Time) VelocityReport {
	days := period.Days()
	since := now.AddDate(0, 0, -days)
	daysDec := decimal.NewFromInt(int64(days))

	var window []model.Expense
	spent := decimal.Zero
	for _, e := range expenses {
		if e.Date.Before(since) || e.Date.After(now) {
			continue
		}
		window = append(window, e)
		spent = spent.Add(e.Amount)
	}

	monthDays := decimal.NewFromInt(int64(daysInMonth(now)))
	monthly := MonthlyBudgetTotal(budgets)

	v := model.VelocityData{
		CurrentVelocity:  spent.Div(daysDec),
		OptimalVelocity:  decimal.Zero,
		MonthlyBudget:    monthly,
		ProjectedOverage: decimal.Zero,
	}
	if monthly.IsPositive() {
		v.HasBudget = true
		v.OptimalVelocity = monthly.Div(monthDays)
		v.VelocityRatio = v.CurrentVelocity.Div(v.OptimalVelocity).InexactFloat64()
		if over := v.CurrentVelocity.Mul(monthDays).Sub(monthly); over.IsPositive() {
			v.ProjectedOverage = over
		}
	}
	v.RiskLevel = ClassifyRisk(v.VelocityRatio)
	v.Trend = halfTrend(window, since, days)

	return VelocityReport{
		Period:     period,
		Since:      since,
		Until:      now,
		Spent:      spent,
		Velocity:   v,
		Weekly:     weeklyVelocity(expenses, now, v.OptimalVelocity),
		Categories: categoryVelocity(window, spent, daysDec),
	}
}

// halfTrend compares the average daily spend of the two halves of the window.
func halfTrend(window []model.Expense, since time.Time, days int) model.Trend {
	half := days / 2
	mid := since.AddDate(0, 0, half)

	first, second := decimal.Zero, decimal.Zero
	for _, e := range window {
		if e.Date.Before(mid) {
			first = first.Add(e.Amount)
		} else {
			second = second.Add(e.Amount)
		}
	}

	return CompareTrend(
		first.Div(decimal.NewFromInt(int64(half))),
		second.Div(decimal.NewFromInt(int64(days-half))),
	)
}

// weeklyVelocity splits the 28 days ending at now into four (start, end] blocks.
func weeklyVelocity(expenses []model.Expense, now time.Time, optimal decimal.Decimal) []WeekVelocity {
	seven := decimal.NewFromInt(7)
	weeks := make([]WeekVelocity, 4)
	for i := range weeks {
		end := now.AddDate(0, 0, -7*(3-i))
		start := end.AddDate(0, 0, -7)
		weeks[i] = WeekVelocity{
			Start: start,
			End:   end,
			Label: start.AddDate(0, 0, 1).Format("Jan 2"),
			Total: decimal.Zero,
		}
	}

	for _, e := range expenses {
		for i := range weeks {
			if e.Date.After(weeks[i].Start) && !e.Date.After(weeks[i].End) {
				weeks[i].Total = weeks[i].Total.Add(e.Amount)
				break
			}
		}
	}

	for i := range weeks {
		weeks[i].Velocity = weeks[i].Total.Div(seven)
		if optimal.IsPositive() {
			weeks[i].Ratio = weeks[i].Velocity.Div(optimal).InexactFloat64()
		}
	}
	return weeks
}

func categoryVelocity(window []model.Expense, spent, days decimal.Decimal) []CategoryVelocity {
	byID := make(map[string]*CategoryVelocity)
	for _, e := range window {
		cv, ok := byID[e.Category.ID]
		if !ok {
			cv = &CategoryVelocity{Category: e.Category, Total: decimal.Zero}
			byID[e.Category.ID] = cv
		}
		cv.Total = cv.Total.Add(e.Amount)
	}

	out := make([]CategoryVelocity, 0, len(byID))
	for _, cv := range byID {
		if spent.IsPositive() {
			cv.Share = cv.Total.Div(spent).Mul(hundred).InexactFloat64()
		}
		cv.Velocity = cv.Total.Div(days)
		cv.Risk = CategoryRisk(cv.Share)
		out = append(out, *cv)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Category.ID < out[j].Category.ID
	})
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}
