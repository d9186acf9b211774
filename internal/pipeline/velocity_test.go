package pipeline

import (
	"reflect"
	"testing"
	"time"

	"github.com/theirongolddev/spendwise/internal/model"
)

func TestClassifyRisk(t *testing.T) {
	tests := []struct {
		ratio float64
		want  model.RiskLevel
	}{
		{0, model.RiskLow},
		{1.1, model.RiskLow},
		{1.1001, model.RiskModerate},
		{1.5, model.RiskModerate},
		{1.5001, model.RiskHigh},
		{2.0, model.RiskHigh},
		{2.0001, model.RiskCritical},
		{10, model.RiskCritical},
	}
	for _, tt := range tests {
		if got := ClassifyRisk(tt.ratio); got != tt.want {
			t.Errorf("ClassifyRisk(%v) = %s, want %s", tt.ratio, got, tt.want)
		}
	}
}

func TestCompareTrend(t *testing.T) {
	tests := []struct {
		before, after string
		want          model.Trend
	}{
		{"0", "0", model.TrendStable},
		{"0", "5", model.TrendAccelerating},
		{"100", "115", model.TrendStable},
		{"100", "120", model.TrendStable},
		{"100", "121", model.TrendAccelerating},
		{"100", "80", model.TrendStable},
		{"100", "79", model.TrendDecelerating},
	}
	for _, tt := range tests {
		if got := CompareTrend(dec(tt.before), dec(tt.after)); got != tt.want {
			t.Errorf("CompareTrend(%s, %s) = %s, want %s", tt.before, tt.after, got, tt.want)
		}
	}
}

func TestMonthlyBudgetTotal(t *testing.T) {
	budgets := []model.Budget{
		{Amount: dec("100"), Period: model.PeriodWeekly, IsActive: true},
		{Amount: dec("200"), Period: model.PeriodMonthly, IsActive: true},
		{Amount: dec("1000"), Period: model.PeriodMonthly, IsActive: false},
	}
	if got := MonthlyBudgetTotal(budgets); !got.Equal(dec("633")) {
		t.Errorf("MonthlyBudgetTotal = %s, want 633", got)
	}
}

// dailySpend logs amount once a day for n days ending at now.
func dailySpend(amount string, now time.Time, n int) []model.Expense {
	var out []model.Expense
	for i := 0; i < n; i++ {
		out = append(out, expense(amount, now.AddDate(0, 0, -i), "food"))
	}
	return out
}

func TestAnalyzeVelocity_Critical(t *testing.T) {
	now := day(2024, 1, 31)
	budgets := []model.Budget{{Amount: dec("3100"), Period: model.PeriodMonthly, IsActive: true}}

	r := AnalyzeVelocity(dailySpend("300", now, 7), budgets, VelocityWeek, now)
	v := r.Velocity

	if !v.HasBudget {
		t.Fatal("HasBudget = false")
	}
	if !v.CurrentVelocity.Equal(dec("300")) {
		t.Errorf("CurrentVelocity = %s, want 300", v.CurrentVelocity)
	}
	if !v.OptimalVelocity.Equal(dec("100")) {
		t.Errorf("OptimalVelocity = %s, want 100", v.OptimalVelocity)
	}
	if v.VelocityRatio != 3 {
		t.Errorf("VelocityRatio = %v, want 3", v.VelocityRatio)
	}
	if v.RiskLevel != model.RiskCritical {
		t.Errorf("RiskLevel = %s, want critical", v.RiskLevel)
	}
	if !v.ProjectedOverage.Equal(dec("6200")) {
		t.Errorf("ProjectedOverage = %s, want 6200", v.ProjectedOverage)
	}
	if v.Trend != model.TrendAccelerating {
		t.Errorf("Trend = %s, want accelerating", v.Trend)
	}
}

func TestAnalyzeVelocity_OnPace(t *testing.T) {
	now := day(2024, 1, 31)
	budgets := []model.Budget{{Amount: dec("3100"), Period: model.PeriodMonthly, IsActive: true}}

	v := AnalyzeVelocity(dailySpend("100", now, 7), budgets, VelocityWeek, now).Velocity
	if v.VelocityRatio != 1 {
		t.Errorf("VelocityRatio = %v, want 1", v.VelocityRatio)
	}
	if !v.ProjectedOverage.IsZero() {
		t.Errorf("ProjectedOverage = %s, want 0", v.ProjectedOverage)
	}
	if v.RiskLevel != model.RiskLow {
		t.Errorf("RiskLevel = %s, want low", v.RiskLevel)
	}
}

func TestAnalyzeVelocity_NoBudget(t *testing.T) {
	now := day(2024, 1, 31)
	v := AnalyzeVelocity(dailySpend("50", now, 3), nil, VelocityMonth, now).Velocity

	if v.HasBudget {
		t.Error("HasBudget = true without budgets")
	}
	if v.VelocityRatio != 0 {
		t.Errorf("VelocityRatio = %v, want 0", v.VelocityRatio)
	}
	if v.RiskLevel != model.RiskLow {
		t.Errorf("RiskLevel = %s, want low", v.RiskLevel)
	}
	if !v.ProjectedOverage.IsZero() {
		t.Errorf("ProjectedOverage = %s, want 0", v.ProjectedOverage)
	}
	if !v.CurrentVelocity.Equal(dec("5")) {
		t.Errorf("CurrentVelocity = %s, want 5", v.CurrentVelocity)
	}
}

func TestAnalyzeVelocity_Empty(t *testing.T) {
	r := AnalyzeVelocity(nil, nil, VelocityWeek, day(2024, 1, 31))
	if !r.Velocity.CurrentVelocity.IsZero() || r.Velocity.Trend != model.TrendStable {
		t.Errorf("empty velocity = %+v", r.Velocity)
	}
	if len(r.Weekly) != 4 {
		t.Errorf("Weekly has %d entries, want 4", len(r.Weekly))
	}
	if len(r.Categories) != 0 {
		t.Errorf("Categories = %+v, want none", r.Categories)
	}
}

func TestAnalyzeVelocity_Weekly(t *testing.T) {
	now := day(2024, 1, 31)
	expenses := []model.Expense{
		expense("70", now.AddDate(0, 0, -10), "food"),
		expense("14", now.AddDate(0, 0, -1), "food"),
		expense("99", now.AddDate(0, 0, -40), "food"),
	}

	weeks := AnalyzeVelocity(expenses, nil, VelocityMonth, now).Weekly
	if len(weeks) != 4 {
		t.Fatalf("got %d weeks, want 4", len(weeks))
	}
	if !weeks[3].End.Equal(now) {
		t.Errorf("last week ends %v, want now", weeks[3].End)
	}
	if !weeks[2].Total.Equal(dec("70")) || !weeks[2].Velocity.Equal(dec("10")) {
		t.Errorf("weeks[2] = %+v", weeks[2])
	}
	if !weeks[3].Total.Equal(dec("14")) || !weeks[3].Velocity.Equal(dec("2")) {
		t.Errorf("weeks[3] = %+v", weeks[3])
	}
	if !weeks[0].Total.IsZero() || !weeks[1].Total.IsZero() {
		t.Errorf("older weeks should be empty: %+v %+v", weeks[0], weeks[1])
	}
	for i := 1; i < len(weeks); i++ {
		if !weeks[i].Start.Equal(weeks[i-1].End) {
			t.Errorf("week %d does not follow week %d", i, i-1)
		}
	}
}

func TestAnalyzeVelocity_Categories(t *testing.T) {
	now := day(2024, 1, 31)
	expenses := []model.Expense{
		expense("50", now, "food"),
		expense("30", now, "transport"),
		expense("5", now, "shopping"),
		expense("5", now, "bills"),
		expense("5", now, "health"),
		expense("5", now, "travel"),
	}

	cats := AnalyzeVelocity(expenses, nil, VelocityWeek, now).Categories
	if len(cats) != 5 {
		t.Fatalf("got %d categories, want 5", len(cats))
	}
	wantIDs := []string{"food", "transport", "bills", "health", "shopping"}
	for i, id := range wantIDs {
		if cats[i].Category.ID != id {
			t.Errorf("cats[%d] = %s, want %s", i, cats[i].Category.ID, id)
		}
	}
	if cats[0].Share != 50 || cats[0].Risk != model.RiskHigh {
		t.Errorf("food = share %v risk %s", cats[0].Share, cats[0].Risk)
	}
	if cats[1].Share != 30 || cats[1].Risk != model.RiskModerate {
		t.Errorf("transport = share %v risk %s", cats[1].Share, cats[1].Risk)
	}
	if cats[2].Risk != model.RiskLow {
		t.Errorf("bills risk = %s, want low", cats[2].Risk)
	}
	if !cats[0].Velocity.Equal(dec("50").Div(dec("7"))) {
		t.Errorf("food velocity = %s", cats[0].Velocity)
	}
}

func TestAnalyzeVelocity_Deterministic(t *testing.T) {
	now := day(2024, 1, 31)
	expenses := append(dailySpend("12.5", now, 20), expense("40", now, "transport"), expense("40", now, "shopping"))
	budgets := []model.Budget{{Amount: dec("75"), Period: model.PeriodWeekly, IsActive: true}}

	a := AnalyzeVelocity(expenses, budgets, VelocityMonth, now)
	b := AnalyzeVelocity(expenses, budgets, VelocityMonth, now)
	if !reflect.DeepEqual(a, b) {
		t.Error("repeated AnalyzeVelocity differs")
	}
}

func TestParseVelocityPeriod(t *testing.T) {
	if p, err := ParseVelocityPeriod("week"); err != nil || p.Days() != 7 {
		t.Errorf("week = %v, %v", p, err)
	}
	if p, err := ParseVelocityPeriod("month"); err != nil || p.Days() != 30 {
		t.Errorf("month = %v, %v", p, err)
	}
	if _, err := ParseVelocityPeriod("year"); err == nil {
		t.Error("year accepted")
	}
}
