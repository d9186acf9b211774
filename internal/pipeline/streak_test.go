package pipeline

import (
	"math/rand"
	"testing"
	"time"

	"github.com/theirongolddev/spendwise/internal/model"
)

var streakNow = time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)

func onDays(offsets ...int) []model.Expense {
	var out []model.Expense
	for _, off := range offsets {
		out = append(out, expense("1", streakNow.AddDate(0, 0, -off), "food"))
	}
	return out
}

func TestCalculateStreak_ThreeDays(t *testing.T) {
	s := CalculateStreak(onDays(0, 1, 2), streakNow)

	if s.CurrentStreak != 3 {
		t.Errorf("CurrentStreak = %d, want 3", s.CurrentStreak)
	}
	if !s.IsActiveToday {
		t.Error("IsActiveToday = false")
	}
	if s.DaysWithoutLogging != 0 {
		t.Errorf("DaysWithoutLogging = %d, want 0", s.DaysWithoutLogging)
	}
	if want := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC); !s.StreakStartDate.Equal(want) {
		t.Errorf("StreakStartDate = %v, want %v", s.StreakStartDate, want)
	}
	if s.LongestStreak != 3 {
		t.Errorf("LongestStreak = %d, want 3", s.LongestStreak)
	}
}

func TestCalculateStreak_GapBeforeToday(t *testing.T) {
	s := CalculateStreak(onDays(2), streakNow)

	if s.CurrentStreak != 0 {
		t.Errorf("CurrentStreak = %d, want 0", s.CurrentStreak)
	}
	if s.DaysWithoutLogging != 2 {
		t.Errorf("DaysWithoutLogging = %d, want 2", s.DaysWithoutLogging)
	}
	if s.IsActiveToday {
		t.Error("IsActiveToday = true")
	}
	if s.LongestStreak != 1 {
		t.Errorf("LongestStreak = %d, want 1", s.LongestStreak)
	}
}

func TestCalculateStreak_ContinuesFromYesterday(t *testing.T) {
	s := CalculateStreak(onDays(1, 2), streakNow)
	if s.CurrentStreak != 2 {
		t.Errorf("CurrentStreak = %d, want 2", s.CurrentStreak)
	}
	if s.DaysWithoutLogging != 1 {
		t.Errorf("DaysWithoutLogging = %d, want 1", s.DaysWithoutLogging)
	}
}

func TestCalculateStreak_Longest(t *testing.T) {
	// Jan 1-4 and Jan 9-10, with two entries on Jan 9.
	s := CalculateStreak(onDays(9, 8, 7, 6, 1, 1, 0), streakNow)

	if s.LongestStreak != 4 {
		t.Errorf("LongestStreak = %d, want 4", s.LongestStreak)
	}
	if s.CurrentStreak != 2 {
		t.Errorf("CurrentStreak = %d, want 2", s.CurrentStreak)
	}
	if s.Monthly.LoggedDays != 6 || s.Monthly.TotalDays != 31 {
		t.Errorf("Monthly = %+v, want 6 of 31", s.Monthly)
	}
}

func TestCalculateStreak_WeeklyProgress(t *testing.T) {
	s := CalculateStreak(onDays(0, 6, 7), streakNow)
	want := [7]bool{true, false, false, false, false, false, true}
	if s.WeeklyProgress != want {
		t.Errorf("WeeklyProgress = %v, want %v", s.WeeklyProgress, want)
	}
}

func TestCalculateStreak_Empty(t *testing.T) {
	s := CalculateStreak(nil, streakNow)
	if s.CurrentStreak != 0 || s.LongestStreak != 0 || s.IsActiveToday || s.DaysWithoutLogging != 0 {
		t.Errorf("empty streak = %+v", s)
	}
	if s.WeeklyProgress != [7]bool{} {
		t.Errorf("WeeklyProgress = %v", s.WeeklyProgress)
	}
	if !s.LastLoggedDate.IsZero() {
		t.Errorf("LastLoggedDate = %v", s.LastLoggedDate)
	}
}

func TestCalculateStreak_UsesCallerLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, tokyo)
	// 20:00 UTC on Jan 9 is 05:00 on Jan 10 in Tokyo.
	expenses := []model.Expense{expense("1", time.Date(2024, 1, 9, 20, 0, 0, 0, time.UTC), "food")}

	s := CalculateStreak(expenses, now)
	if !s.IsActiveToday || s.CurrentStreak != 1 {
		t.Errorf("streak in JST = %+v, want active today", s)
	}
}

func TestCalculateStreak_LongestAtLeastCurrent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		var offsets []int
		for j := 0; j < rng.Intn(30); j++ {
			offsets = append(offsets, rng.Intn(40))
		}
		s := CalculateStreak(onDays(offsets...), streakNow)
		if s.LongestStreak < s.CurrentStreak {
			t.Fatalf("offsets %v: longest %d < current %d", offsets, s.LongestStreak, s.CurrentStreak)
		}
	}
}
