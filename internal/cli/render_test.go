package cli

import (
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(s string) string { return ansiRE.ReplaceAllString(s, "") }

func TestRenderTable(t *testing.T) {
	out := plain(RenderTable(Table{
		Title:   "Categories",
		Headers: []string{"Category", "Spent"},
		Rows: [][]string{
			{"food", "$12.50"},
			{"---"},
			{"Total", "$1,012.50"},
		},
	}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// title, top, header, separator, row, separator, row, bottom
	if len(lines) != 8 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "Categories") {
		t.Errorf("title line = %q", lines[0])
	}
	width := lipgloss.Width(lines[1])
	for i, l := range lines[1:] {
		if w := lipgloss.Width(l); w != width {
			t.Errorf("line %d width %d, want %d: %q", i+1, w, width, l)
		}
	}
	if !strings.HasPrefix(lines[1], "╭") || !strings.HasPrefix(lines[7], "╰") {
		t.Errorf("borders: %q / %q", lines[1], lines[7])
	}
	// Numeric columns are right-aligned.
	if !strings.Contains(lines[4], "│    $12.50 │") {
		t.Errorf("row = %q", lines[4])
	}
	if !strings.Contains(lines[4], "│ food     │") {
		t.Errorf("first column should be left-aligned: %q", lines[4])
	}
}

func TestRenderTable_Empty(t *testing.T) {
	if got := RenderTable(Table{}); got != "" {
		t.Errorf("empty table = %q", got)
	}
}

func TestRenderTable_LeftAlign(t *testing.T) {
	out := plain(RenderTable(Table{
		Headers:   []string{"ID", "Note", "Amount"},
		Rows:      [][]string{{"a1", "x", "$1.00"}, {"b2", "longer", "$10.00"}},
		LeftAlign: []bool{false, true, false},
	}))
	if !strings.Contains(out, "│ x      │") {
		t.Errorf("note column should be left-aligned:\n%s", out)
	}
	if !strings.Contains(out, "│  $1.00 │") {
		t.Errorf("amount column should be right-aligned:\n%s", out)
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline([]float64{0, 5, 10}); got != "▁▄█" {
		t.Errorf("sparkline = %q", got)
	}
	if got := RenderSparkline(nil); got != "" {
		t.Errorf("empty sparkline = %q", got)
	}
}
