// Package pipeline turns stored expenses into budget, velocity, streak, trend
// and level summaries. Analyzers are pure: they take an explicit "now" and
// never touch storage.
package pipeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/spendwise/internal/model"
)

// FilterByTime returns expenses dated within [since, until). A zero bound is open.
func FilterByTime(expenses []model.Expense, since, until time.Time) []model.Expense {
	var out []model.Expense
	for _, e := range expenses {
		if !since.IsZero() && e.Date.Before(since) {
			continue
		}
		if !until.IsZero() && !e.Date.Before(until) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterByCategory returns expenses whose category snapshot has the given ID.
func FilterByCategory(expenses []model.Expense, categoryID string) []model.Expense {
	var out []model.Expense
	for _, e := range expenses {
		if e.Category.ID == categoryID {
			out = append(out, e)
		}
	}
	return out
}

// Summarize computes headline statistics for expenses within [since, until).
// Active days are calendar days in until's location.
func Summarize(expenses []model.Expense, since, until time.Time) model.SpendingSummary {
	filtered := FilterByTime(expenses, since, until)
	loc := until.Location()

	s := model.SpendingSummary{Total: decimal.Zero, Average: decimal.Zero, PerDay: decimal.Zero}
	activeDays := make(map[string]struct{})
	for i, e := range filtered {
		s.Count++
		s.Total = s.Total.Add(e.Amount)
		activeDays[dayKey(e.Date.In(loc))] = struct{}{}
		if s.Largest == nil || e.Amount.GreaterThan(s.Largest.Amount) {
			s.Largest = &filtered[i]
		}
	}
	s.ActiveDays = len(activeDays)
	s.Categories = distinctCategories(filtered)

	if s.Count > 0 {
		s.Average = s.Total.Div(decimal.NewFromInt(int64(s.Count)))
	}
	if !since.IsZero() && !until.IsZero() {
		if days := calendarDaysBetween(since, until); days > 0 {
			s.PerDay = s.Total.Div(decimal.NewFromInt(int64(days)))
		}
	}
	return s
}

// SpendingByCategory totals spend per category within [since, until),
// sorted by total descending.
func SpendingByCategory(expenses []model.Expense, since, until time.Time) []model.CategorySpend {
	filtered := FilterByTime(expenses, since, until)

	catMap := make(map[string]*model.CategorySpend)
	total := decimal.Zero
	for _, e := range filtered {
		cs, ok := catMap[e.Category.ID]
		if !ok {
			cs = &model.CategorySpend{Category: e.Category, Total: decimal.Zero}
			catMap[e.Category.ID] = cs
		}
		cs.Total = cs.Total.Add(e.Amount)
		cs.Count++
		total = total.Add(e.Amount)
	}

	cats := make([]model.CategorySpend, 0, len(catMap))
	for _, cs := range catMap {
		if total.IsPositive() {
			cs.Percentage = cs.Total.Div(total).Mul(hundred).InexactFloat64()
		}
		cats = append(cats, *cs)
	}
	sort.Slice(cats, func(i, j int) bool {
		if !cats[i].Total.Equal(cats[j].Total) {
			return cats[i].Total.GreaterThan(cats[j].Total)
		}
		return cats[i].Category.ID < cats[j].Category.ID
	})

	return cats
}

// Granularity is the bucket size for SpendingByPeriod.
type Granularity string

const (
	ByDay   Granularity = "day"
	ByWeek  Granularity = "week"
	ByMonth Granularity = "month"
)

// ParseGranularity accepts "day", "week" or "month".
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case ByDay, ByWeek, ByMonth:
		return Granularity(s), nil
	}
	return "", fmt.Errorf("unknown granularity %q (want day, week, or month)", s)
}

func (g Granularity) bucketStart(t time.Time) time.Time {
	switch g {
	case ByWeek:
		return startOfWeek(t)
	case ByMonth:
		return startOfMonth(t)
	default:
		return startOfDay(t)
	}
}

func (g Granularity) next(t time.Time) time.Time {
	switch g {
	case ByWeek:
		return t.AddDate(0, 0, 7)
	case ByMonth:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

func (g Granularity) label(t time.Time) string {
	if g == ByMonth {
		return t.Format("Jan 2006")
	}
	return t.Format("Jan 2")
}

// SpendingByPeriod buckets spend within [since, until) oldest first. Every
// bucket the range touches is present, empty ones with a zero total.
// Zero bounds are taken from the data.
func SpendingByPeriod(expenses []model.Expense, since, until time.Time, g Granularity) []model.PeriodTotal {
	filtered := FilterByTime(expenses, since, until)

	if since.IsZero() || until.IsZero() {
		if len(filtered) == 0 {
			return nil
		}
		lo, hi := filtered[0].Date, filtered[0].Date
		for _, e := range filtered[1:] {
			if e.Date.Before(lo) {
				lo = e.Date
			}
			if e.Date.After(hi) {
				hi = e.Date
			}
		}
		if since.IsZero() {
			since = lo
		}
		if until.IsZero() {
			until = hi.Add(time.Nanosecond)
		}
	}

	loc := until.Location()
	var buckets []model.PeriodTotal
	index := make(map[string]int)
	for b := g.bucketStart(since.In(loc)); b.Before(until); b = g.next(b) {
		index[dayKey(b)] = len(buckets)
		buckets = append(buckets, model.PeriodTotal{Start: b, Label: g.label(b), Total: decimal.Zero})
	}

	for _, e := range filtered {
		i, ok := index[dayKey(g.bucketStart(e.Date.In(loc)))]
		if !ok {
			continue
		}
		buckets[i].Total = buckets[i].Total.Add(e.Amount)
		buckets[i].Count++
	}

	return buckets
}

// TrendWindow is the look-back range of a category report.
type TrendWindow string

const (
	Window3Months  TrendWindow = "3m"
	Window6Months  TrendWindow = "6m"
	Window12Months TrendWindow = "12m"
	Window7Days    TrendWindow = "7d"
	Window30Days   TrendWindow = "30d"
	Window90Days   TrendWindow = "90d"
)

var trendWindows = []TrendWindow{Window3Months, Window6Months, Window12Months, Window7Days, Window30Days, Window90Days}

// ParseTrendWindow accepts 3m, 6m, 12m, 7d, 30d or 90d.
func ParseTrendWindow(s string) (TrendWindow, error) {
	for _, w := range trendWindows {
		if string(w) == s {
			return w, nil
		}
	}
	return "", fmt.Errorf("unknown window %q (want 3m, 6m, 12m, 7d, 30d, or 90d)", s)
}

// Bounds returns the half-open [since, until) range ending after today.
// Month windows start on the first of the month.
func (w TrendWindow) Bounds(now time.Time) (time.Time, time.Time) {
	today := startOfDay(now)
	until := today.AddDate(0, 0, 1)
	switch w {
	case Window3Months:
		return startOfMonth(today).AddDate(0, -2, 0), until
	case Window12Months:
		return startOfMonth(today).AddDate(0, -11, 0), until
	case Window7Days:
		return today.AddDate(0, 0, -6), until
	case Window30Days:
		return today.AddDate(0, 0, -29), until
	case Window90Days:
		return today.AddDate(0, 0, -89), until
	default:
		return startOfMonth(today).AddDate(0, -5, 0), until
	}
}

// CategoryReport is the drill-down view of one category over a window.
type CategoryReport struct {
	Category       model.Category        `json:"category"`
	Window         TrendWindow           `json:"window"`
	Since          time.Time             `json:"since"`
	Until          time.Time             `json:"until"`
	Total          decimal.Decimal       `json:"total"`
	Percentage     float64               `json:"percentage"`
	Count          int                   `json:"count"`
	Average        decimal.Decimal       `json:"average"`
	Monthly        []model.PeriodTotal   `json:"monthly"`
	Weekdays       []model.WeekdayBucket `json:"weekdays"`
	TopExpenses    []model.Expense       `json:"top_expenses"`
	RecentExpenses []model.Expense       `json:"recent_expenses"`
	Trend          model.Trend           `json:"trend"`
}

// AnalyzeCategory reports on one category within the window ending today.
// An empty categoryID selects the category with the most spend in the window.
func AnalyzeCategory(expenses []model.Expense, categoryID string, window TrendWindow, now time.Time) CategoryReport {
	since, until := window.Bounds(now)
	inWindow := FilterByTime(expenses, since, until)

	r := CategoryReport{
		Window:  window,
		Since:   since,
		Until:   until,
		Total:   decimal.Zero,
		Average: decimal.Zero,
		Trend:   model.TrendStable,
	}

	if categoryID == "" {
		if top := SpendingByCategory(inWindow, time.Time{}, time.Time{}); len(top) > 0 {
			categoryID = top[0].Category.ID
		}
	}
	r.Category = model.Category{ID: categoryID}
	for _, e := range expenses {
		if e.Category.ID == categoryID {
			r.Category = e.Category
			break
		}
	}

	filtered := FilterByCategory(inWindow, categoryID)
	all := decimal.Zero
	for _, e := range inWindow {
		all = all.Add(e.Amount)
	}

	r.Weekdays = make([]model.WeekdayBucket, 7)
	for d := range r.Weekdays {
		r.Weekdays[d] = model.WeekdayBucket{Day: time.Weekday(d), Name: time.Weekday(d).String(), Total: decimal.Zero}
	}

	for _, e := range filtered {
		r.Total = r.Total.Add(e.Amount)
		r.Count++
		wd := e.Date.In(now.Location()).Weekday()
		r.Weekdays[wd].Count++
		r.Weekdays[wd].Total = r.Weekdays[wd].Total.Add(e.Amount)
	}
	if r.Count > 0 {
		r.Average = r.Total.Div(decimal.NewFromInt(int64(r.Count)))
	}
	if all.IsPositive() {
		r.Percentage = r.Total.Div(all).Mul(hundred).InexactFloat64()
	}

	r.Monthly = SpendingByPeriod(filtered, since, until, ByMonth)
	r.Trend = seriesTrend(r.Monthly)

	r.TopExpenses = topExpenses(filtered, 5, func(a, b model.Expense) bool {
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.GreaterThan(b.Amount)
		}
		return a.Date.After(b.Date)
	})
	r.RecentExpenses = topExpenses(filtered, 10, func(a, b model.Expense) bool {
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.ID < b.ID
	})

	return r
}

// seriesTrend compares the average of the first half of a series with the second.
func seriesTrend(series []model.PeriodTotal) model.Trend {
	if len(series) < 2 {
		return model.TrendStable
	}
	half := len(series) / 2
	first, second := decimal.Zero, decimal.Zero
	for i, p := range series {
		if i < half {
			first = first.Add(p.Total)
		} else {
			second = second.Add(p.Total)
		}
	}
	return CompareTrend(
		first.Div(decimal.NewFromInt(int64(half))),
		second.Div(decimal.NewFromInt(int64(len(series)-half))),
	)
}

func topExpenses(expenses []model.Expense, n int, less func(a, b model.Expense) bool) []model.Expense {
	sorted := make([]model.Expense, len(expenses))
	copy(sorted, expenses)
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
