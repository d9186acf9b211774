package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/theirongolddev/spendwise/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Errorf("joined height = %d, want %d", len(lines), tallLines)
	}

	for i, line := range lines[shortLines:] {
		if !strings.Contains(line, "\x1b[") {
			t.Errorf("padding line %d has no ANSI styling: %q", shortLines+i, line)
		}
	}
}

func TestCardRowWidthConsistency(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "A", 30)
	tallCard := ContentCard("Tall", "A\nB\nC\nD\nE\nF", 20)

	joined := CardRow([]string{tallCard, shortCard})
	want := lipgloss.Width(tallCard) + lipgloss.Width(shortCard)
	for i, line := range strings.Split(joined, "\n") {
		if got := lipgloss.Width(line); got != want {
			t.Errorf("line %d width = %d, want %d", i, got, want)
		}
	}
}

func TestLayoutRow(t *testing.T) {
	widths := LayoutRow(100, 3)
	if len(widths) != 3 || widths[0] != 34 || widths[1] != 33 || widths[2] != 33 {
		t.Fatalf("LayoutRow(100, 3) = %v", widths)
	}
	if LayoutRow(10, 0) != nil {
		t.Error("LayoutRow with n=0 should be nil")
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")

	row := MetricCardRow([]Metric{
		{Label: "Spent", Value: "$1,204.50", Delta: "+$12.00", Tone: ToneBad},
		{Label: "Streak", Value: "12 days", Tone: ToneGood},
		{Label: "Level", Value: "4 Budgeter"},
	}, 90)

	for i, line := range strings.Split(row, "\n") {
		if got := lipgloss.Width(line); got != 90 {
			t.Errorf("line %d width = %d, want 90", i, got)
		}
	}
	if !strings.Contains(row, "$1,204.50") {
		t.Error("metric value missing from card row")
	}
}

func TestColorForPct(t *testing.T) {
	theme.SetActive("flexoki-dark")
	th := theme.Active

	cases := []struct {
		pct  float64
		want lipgloss.Color
	}{
		{0, th.Green},
		{69.9, th.Green},
		{70, th.Yellow},
		{90, th.Orange},
		{100, th.Red},
		{250, th.Red},
	}
	for _, tc := range cases {
		if got := ColorForPct(tc.pct); got != tc.want {
			t.Errorf("ColorForPct(%v) = %s, want %s", tc.pct, got, tc.want)
		}
	}
}

func TestBudgetBarShowsOverspend(t *testing.T) {
	theme.SetActive("terminal")
	defer theme.SetActive("flexoki-dark")

	out := BudgetBar("Groceries", 135, 3, 12, 20)
	if !strings.Contains(out, "135%") {
		t.Errorf("BudgetBar should print uncapped percentage: %q", out)
	}
	if !strings.Contains(out, "3d left") {
		t.Errorf("BudgetBar missing days left: %q", out)
	}
}

func TestHorizontalBars(t *testing.T) {
	theme.SetActive("flexoki-dark")

	out := HorizontalBars([]Bar{
		{Label: "Food", Value: 300, Text: "$300.00"},
		{Label: "Transport", Value: 150, Text: "$150.00"},
		{Label: "Other", Value: 0, Text: "$0.00"},
	}, 10, 40)

	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	full := strings.Count(lines[0], "█")
	half := strings.Count(lines[1], "█")
	if full == 0 || half*2 > full+1 || half*2 < full-1 {
		t.Errorf("bar lengths not proportional: %d vs %d", full, half)
	}
	if strings.Contains(lines[2], "█") {
		t.Error("zero value should render no bar")
	}
}

func TestFormatChartLabel(t *testing.T) {
	cases := map[float64]string{
		0.5:     "0.50",
		40:      "40",
		1000:    "1k",
		1500:    "1.5k",
		2000000: "2M",
	}
	for v, want := range cases {
		if got := formatChartLabel(v); got != want {
			t.Errorf("formatChartLabel(%v) = %q, want %q", v, got, want)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	for i, tab := range Tabs {
		if got := TabIdxByKey(tab.Key); got != i {
			t.Errorf("TabIdxByKey(%q) = %d, want %d", tab.Key, got, i)
		}
	}
	if TabIdxByKey('z') != -1 {
		t.Error("unknown key should return -1")
	}
}

func TestTabBarContainsEveryTab(t *testing.T) {
	theme.SetActive("flexoki-dark")
	bar := RenderTabBar(1, 100)
	for _, tab := range Tabs {
		// Inactive tabs split the shortcut letter into its own span.
		if !strings.Contains(bar, tab.Name[1:]) {
			t.Errorf("tab bar missing %q", tab.Name)
		}
	}
	if got := lipgloss.Width(bar); got != 100 {
		t.Errorf("tab bar width = %d, want 100", got)
	}
}

func TestNewChartScaleCoversLimit(t *testing.T) {
	s := newChartScale(10, 30, 10)
	if s.ceiling < 30 {
		t.Errorf("ceiling = %v, want >= limit 30", s.ceiling)
	}
	if s.rows() > 10 || s.rowsPerTick < 2 {
		t.Errorf("rows = %d, rowsPerTick = %d for height 10", s.rows(), s.rowsPerTick)
	}
}

func TestFitBarsDownsamples(t *testing.T) {
	values := make([]float64, 100)
	vals, labels, barW := fitBars(values, nil, 30)
	if len(vals) != 10 || barW != 2 || labels != nil {
		t.Errorf("fitBars = %d values, barW %d, labels %v", len(vals), barW, labels)
	}
	if axis := len(vals)*barW + len(vals) - 1; axis > 30 {
		t.Errorf("axis %d exceeds chart width 30", axis)
	}
}

func TestBarChartHeight(t *testing.T) {
	theme.SetActive("flexoki-dark")
	out := BarChart(ChartOptions{
		Values: []float64{10, 50, 20, 5},
		Labels: []string{"Jan", "2", "3", "4"},
		Color:  theme.Active.Blue,
		Width:  40,
		Height: 8,
	})
	if lines := strings.Count(out, "\n") + 1; lines != 8 {
		t.Errorf("chart has %d lines, want 8 (6 rows, axis, labels)", lines)
	}
	if strings.Contains(out, "┄") {
		t.Error("limit line drawn without a limit")
	}
}

func TestBarChartLimitLine(t *testing.T) {
	theme.SetActive("flexoki-dark")
	out := BarChart(ChartOptions{
		Values: []float64{10, 50, 20, 5},
		Color:  theme.Active.Blue,
		Width:  40,
		Height: 8,
		Limit:  25,
	})
	if !strings.Contains(out, "┄") {
		t.Error("limit line missing")
	}
}

func TestBarChartFallsBackToSparkline(t *testing.T) {
	out := BarChart(ChartOptions{Values: []float64{1, 2, 3}, Width: 10, Height: 8})
	if strings.Contains(out, "\n") {
		t.Errorf("narrow chart should be a one-line sparkline, got %q", out)
	}
}

func TestXAxisLabels(t *testing.T) {
	got := xAxisLabels([]string{"Jan", "2", "3", "4"}, 2, 11)
	if got != "Jan   3  4" {
		t.Errorf("xAxisLabels = %q", got)
	}
}
