package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/spendwise/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 4) // UTF-8 block chars are up to 3 bytes
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		buf.WriteRune(blocks[idx]) //nolint:gosec // bounds checked above
	}

	return style.Render(buf.String())
}

// ChartOptions configures BarChart.
type ChartOptions struct {
	Values []float64
	Labels []string // one per value, optional
	Color  lipgloss.Color
	Width  int
	Height int
	// Limit draws a dashed reference line and colors bars above it red.
	// Zero means no line.
	Limit float64
}

// chartScale is the Y axis of a bar chart.
type chartScale struct {
	ceiling     float64
	step        float64
	intervals   int
	rowsPerTick int
}

func (s chartScale) rows() int { return s.rowsPerTick * s.intervals }

// newChartScale picks a tick step that fits height rows with at least two
// rows per tick, and a ceiling that covers both peak and limit.
func newChartScale(peak, limit float64, height int) chartScale {
	top := math.Max(peak, limit)
	if top <= 0 {
		top = 1
	}
	step := chartTickStep(top)
	maxIntervals := max(2, height/2)
	for int(math.Ceil(top/step)) > maxIntervals {
		step *= 2
	}
	ceiling := math.Ceil(top/step) * step
	intervals := max(1, int(math.Round(ceiling/step)))
	return chartScale{
		ceiling:     ceiling,
		step:        step,
		intervals:   intervals,
		rowsPerTick: max(2, height/intervals),
	}
}

// fitBars returns the bar width for n bars in chartW columns, downsampling
// values and labels when even two-column bars do not fit.
func fitBars(values []float64, labels []string, chartW int) ([]float64, []string, int) {
	n := len(values)
	if n == 1 {
		return values, labels, min(chartW, 6)
	}
	barW := (chartW - (n - 1)) / n
	if barW >= 2 {
		return values, labels, min(barW, 6)
	}

	keep := max(2, (chartW+1)/3)
	sampled := make([]float64, keep)
	var sampledLabels []string
	if len(labels) == n {
		sampledLabels = make([]string, keep)
	}
	for i := range sampled {
		src := i * (n - 1) / (keep - 1)
		sampled[i] = values[src]
		if sampledLabels != nil {
			sampledLabels[i] = labels[src]
		}
	}
	return sampled, sampledLabels, 2
}

// BarChart renders a bar chart with a labeled Y axis, optional X labels and
// an optional limit line. Narrow or short areas fall back to a sparkline.
func BarChart(opts ChartOptions) string {
	values := opts.Values
	if len(values) == 0 {
		return ""
	}
	if opts.Width < 15 || opts.Height < 3 {
		return Sparkline(values, opts.Color)
	}
	t := theme.Active

	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, v)
	}
	scale := newChartScale(peak, opts.Limit, opts.Height)
	chartH := scale.rows()

	yLabelW := max(4, len(formatChartLabel(scale.ceiling))+1)
	values, labels, barW := fitBars(values, opts.Labels, max(5, opts.Width-yLabelW-1))
	n := len(values)
	axisLen := n*barW + (n - 1)

	// Row holding the limit line, 0 when there is none.
	limitRow := 0
	if opts.Limit > 0 {
		limitRow = max(1, int(math.Round(opts.Limit/scale.ceiling*float64(chartH))))
	}

	axis := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)
	limitStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	under := lipgloss.NewStyle().Foreground(opts.Color).Background(t.Surface)
	over := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	partials := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		top := scale.ceiling * float64(row) / float64(chartH)
		bottom := scale.ceiling * float64(row-1) / float64(chartH)

		label := ""
		if row%scale.rowsPerTick == 0 {
			label = formatChartLabel(scale.step * float64(row/scale.rowsPerTick))
		}
		b.WriteString(axis.Render(fmt.Sprintf("%*s│", yLabelW, label)))

		for i, v := range values {
			gapCell, empty := " ", strings.Repeat(" ", barW)
			if row == limitRow {
				gapCell, empty = "┄", strings.Repeat("┄", barW)
			}
			if i > 0 {
				if row == limitRow {
					b.WriteString(limitStyle.Render(gapCell))
				} else {
					b.WriteString(blank.Render(gapCell))
				}
			}

			style := under
			if opts.Limit > 0 && v > opts.Limit {
				style = over
			}
			switch {
			case v >= top:
				b.WriteString(style.Render(strings.Repeat("█", barW)))
			case v > bottom:
				idx := int((v - bottom) / (top - bottom) * 8)
				idx = min(max(idx, 1), 8)
				b.WriteString(style.Render(strings.Repeat(string(partials[idx]), barW)))
			case row == limitRow:
				b.WriteString(limitStyle.Render(empty))
			default:
				b.WriteString(blank.Render(empty))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axis.Render(fmt.Sprintf("%*s└", yLabelW, "0")))
	b.WriteString(axis.Render(strings.Repeat("─", axisLen)))

	if len(labels) == n {
		b.WriteString("\n")
		b.WriteString(blank.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(axis.Render(xAxisLabels(labels, barW, axisLen)))
	}
	return b.String()
}

// xAxisLabels spaces labels under their bars without overlap. The last label
// is always shown when it fits.
func xAxisLabels(labels []string, barW, axisLen int) string {
	buf := []rune(strings.Repeat(" ", axisLen))
	n := len(labels)
	step := max(1, (n*8)/(axisLen+1))

	place := func(pos int, lbl string) int {
		r := []rune(lbl)
		end := min(pos+len(r), axisLen)
		copy(buf[pos:end], r[:end-pos])
		return end
	}

	lastEnd := -1
	for i := 0; i < n; i += step {
		pos := i * (barW + 1)
		if pos <= lastEnd || axisLen-pos < 3 {
			continue
		}
		lastEnd = place(pos, labels[i]) + 1
	}
	if n > 1 {
		lbl := labels[n-1]
		pos := min((n-1)*(barW+1), axisLen-len([]rune(lbl)))
		if pos >= 0 && pos > lastEnd {
			place(pos, lbl)
		}
	}
	return strings.TrimRight(string(buf), " ")
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

// formatChartLabel renders an axis amount compactly, e.g. 1500 -> "1.5k".
func formatChartLabel(v float64) string {
	switch {
	case v >= 1e6:
		if v == math.Trunc(v/1e6)*1e6 {
			return fmt.Sprintf("%.0fM", v/1e6)
		}
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		if v == math.Trunc(v/1e3)*1e3 {
			return fmt.Sprintf("%.0fk", v/1e3)
		}
		return fmt.Sprintf("%.1fk", v/1e3)
	case v >= 1:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// Bar is one row of a horizontal bar list.
type Bar struct {
	Label string
	Value float64
	Text  string // right-hand annotation, e.g. a formatted amount
	Color lipgloss.Color
}

// HorizontalBars renders labeled bars scaled to the largest value.
// Rows with no color use the accent color.
func HorizontalBars(bars []Bar, labelW, width int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active

	peak := 0.0
	textW := 0
	for _, b := range bars {
		if b.Value > peak {
			peak = b.Value
		}
		if w := lipgloss.Width(b.Text); w > textW {
			textW = w
		}
	}
	if peak == 0 {
		peak = 1
	}
	barW := width - labelW - textW - 2
	if barW < 4 {
		barW = 4
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	rows := make([]string, 0, len(bars))
	for _, b := range bars {
		color := b.Color
		if color == "" {
			color = t.Accent
		}
		n := int(b.Value / peak * float64(barW))
		if n < 0 {
			n = 0
		}
		if b.Value > 0 && n == 0 {
			n = 1
		}
		bar := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(strings.Repeat("█", n))
		rows = append(rows, labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncate(b.Label, labelW)))+
			space.Render(" ")+
			textStyle.Render(fmt.Sprintf("%*s", textW, b.Text))+
			space.Render(" ")+
			bar)
	}
	return strings.Join(rows, "\n")
}
