package pipeline

import (
	"math"
	"time"
)

const dayKeyLayout = "2006-01-02"

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the Sunday that begins t's week.
func startOfWeek(t time.Time) time.Time {
	d := startOfDay(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

func daysInMonth(t time.Time) int {
	return startOfMonth(t).AddDate(0, 1, -1).Day()
}

// calendarDaysBetween counts calendar days from a to b in a's location.
// Rounding absorbs DST shifts of an hour either way.
func calendarDaysBetween(a, b time.Time) int {
	a0 := startOfDay(a)
	b0 := startOfDay(b.In(a.Location()))
	return int(math.Round(b0.Sub(a0).Hours() / 24))
}

func dayKey(t time.Time) string {
	return t.Format(dayKeyLayout)
}
