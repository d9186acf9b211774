package pipeline

import (
	"sort"
	"time"

	"github.com/theirongolddev/spendwise/internal/model"
)

// loggedDays is the set of calendar dates with at least one expense,
// keyed by "2006-01-02" in the caller's location.
type loggedDays map[string]time.Time

func newLoggedDays(expenses []model.Expense, loc *time.Location) loggedDays {
	days := make(loggedDays, len(expenses))
	for _, e := range expenses {
		d := startOfDay(e.Date.In(loc))
		days[dayKey(d)] = d
	}
	return days
}

func (l loggedDays) has(d time.Time) bool {
	_, ok := l[dayKey(d)]
	return ok
}

func (l loggedDays) sorted() []time.Time {
	out := make([]time.Time, 0, len(l))
	for _, d := range l {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// currentRun walks backward from today, or yesterday when today is empty.
// It returns the run length and the earliest day reached.
func (l loggedDays) currentRun(today time.Time) (int, time.Time) {
	cursor := today
	if !l.has(cursor) {
		cursor = cursor.AddDate(0, 0, -1)
	}
	n := 0
	var start time.Time
	for l.has(cursor) {
		n++
		start = cursor
		cursor = cursor.AddDate(0, 0, -1)
	}
	return n, start
}

func longestRun(sorted []time.Time) int {
	longest, run := 0, 0
	for i, d := range sorted {
		if i > 0 && calendarDaysBetween(sorted[i-1], d) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// CalculateStreak derives consecutive-day logging stats as of now.
func CalculateStreak(expenses []model.Expense, now time.Time) model.StreakData {
	today := startOfDay(now)
	total := daysInMonth(today)

	var s model.StreakData
	s.Monthly.TotalDays = total
	if len(expenses) == 0 {
		return s
	}

	days := newLoggedDays(expenses, now.Location())
	sorted := days.sorted()

	s.IsActiveToday = days.has(today)
	s.CurrentStreak, s.StreakStartDate = days.currentRun(today)
	s.LongestStreak = longestRun(sorted)

	// Future-dated entries do not count as "last logged".
	for i := len(sorted) - 1; i >= 0; i-- {
		if !sorted[i].After(today) {
			s.LastLoggedDate = sorted[i]
			break
		}
	}
	if !s.IsActiveToday && !s.LastLoggedDate.IsZero() {
		s.DaysWithoutLogging = calendarDaysBetween(s.LastLoggedDate, today)
	}

	for i := range s.WeeklyProgress {
		s.WeeklyProgress[i] = days.has(today.AddDate(0, 0, i-6))
	}

	for _, d := range sorted {
		if d.Year() == today.Year() && d.Month() == today.Month() {
			s.Monthly.LoggedDays++
		}
	}
	s.Monthly.Percentage = float64(s.Monthly.LoggedDays) / float64(total) * 100

	return s
}
