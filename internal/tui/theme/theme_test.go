package theme

import (
	"testing"

	"github.com/theirongolddev/spendwise/internal/model"
)

func TestByNameFallsBack(t *testing.T) {
	if got := ByName("tokyo-night").Name; got != "tokyo-night" {
		t.Errorf("ByName(tokyo-night) = %s", got)
	}
	if got := ByName("no-such-theme").Name; got != FlexokiDark.Name {
		t.Errorf("unknown theme should fall back to %s, got %s", FlexokiDark.Name, got)
	}
}

func TestSetActive(t *testing.T) {
	defer SetActive(FlexokiDark.Name)
	SetActive("terminal")
	if Active.Name != "terminal" {
		t.Errorf("Active = %s, want terminal", Active.Name)
	}
}

func TestNamesMatchesAll(t *testing.T) {
	names := Names()
	if len(names) != len(All) {
		t.Fatalf("Names() has %d entries, want %d", len(names), len(All))
	}
	for i, n := range names {
		if ByName(n).Name != All[i].Name {
			t.Errorf("Names()[%d] = %s does not round-trip", i, n)
		}
	}
}

func TestRiskColor(t *testing.T) {
	th := FlexokiDark
	cases := map[model.RiskLevel]string{
		model.RiskLow:      string(th.Green),
		model.RiskModerate: string(th.Yellow),
		model.RiskHigh:     string(th.Orange),
		model.RiskCritical: string(th.Red),
	}
	for level, want := range cases {
		if got := string(th.RiskColor(level)); got != want {
			t.Errorf("RiskColor(%s) = %s, want %s", level, got, want)
		}
	}
}

func TestCategoryColor(t *testing.T) {
	th := FlexokiDark
	if got := th.CategoryColor(model.Category{Color: "#FF6B6B"}); got != "#FF6B6B" {
		t.Errorf("CategoryColor with own color = %s", got)
	}
	if got := th.CategoryColor(model.Category{}); got != th.Accent {
		t.Errorf("CategoryColor fallback = %s, want accent", got)
	}
}
