package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/amishk599/datajobs/internal/page"
)

const (
	maxTextBins   = 20
	maxLabelWidth = 28
	minBarWidth   = 10
	heatCellWidth = 7
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00BF48"))
	axisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00BF48"))
)

// RenderText draws c for a terminal at most width cells wide.
func RenderText(c page.Chart, width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(c.Title))
	b.WriteString("\n")
	if c.XLabel != "" || c.YLabel != "" {
		b.WriteString(axisStyle.Render(fmt.Sprintf("x: %s  y: %s", c.XLabel, c.YLabel)))
		b.WriteString("\n")
	}

	switch c.Kind {
	case page.ChartBar:
		b.WriteString(bars(c.Labels, c.Values, formatValues(c.Values), width))
	case page.ChartHist:
		labels, counts := histogram(c.Values, min(binsOrDefault(c.Bins), maxTextBins))
		b.WriteString(bars(labels, counts, formatValues(counts), width))
	case page.ChartPie:
		b.WriteString(pieText(c, width))
	case page.ChartHeatmap:
		b.WriteString(heatText(c))
	default:
		fmt.Fprintf(&b, "unknown chart kind %q\n", c.Kind)
	}
	return b.String()
}

func bars(labels []string, values []float64, shown []string, width int) string {
	if len(values) == 0 {
		return axisStyle.Render("(no data)") + "\n"
	}
	labelW, valueW := 0, 0
	for i := range values {
		labelW = max(labelW, len([]rune(truncate(labelAt(labels, i), maxLabelWidth))))
		valueW = max(valueW, len(shown[i]))
	}
	barW := max(width-labelW-valueW-4, minBarWidth)
	top := maxOf(values)

	var b strings.Builder
	for i, v := range values {
		n := 0
		if v > 0 {
			n = int(math.Round(v / top * float64(barW)))
		}
		fmt.Fprintf(&b, "%-*s │%s %s\n",
			labelW, truncate(labelAt(labels, i), maxLabelWidth),
			barStyle.Render(strings.Repeat("█", n)), shown[i])
	}
	return b.String()
}

func pieText(c page.Chart, width int) string {
	total := 0.0
	for _, v := range c.Values {
		total += v
	}
	if total <= 0 {
		return axisStyle.Render("(no data)") + "\n"
	}
	shares := make([]float64, len(c.Values))
	shown := make([]string, len(c.Values))
	for i, v := range c.Values {
		shares[i] = v / total
		shown[i] = fmt.Sprintf("%.1f%%", shares[i]*100)
	}
	return bars(c.Labels, shares, shown, width)
}

func heatText(c page.Chart) string {
	var b strings.Builder
	labelW := 0
	for _, l := range c.Labels {
		labelW = max(labelW, len(l))
	}
	fmt.Fprintf(&b, "%-*s", labelW, "")
	for _, l := range c.Labels {
		fmt.Fprintf(&b, " %*s", heatCellWidth, truncate(l, heatCellWidth))
	}
	b.WriteString("\n")
	for i, row := range c.Matrix {
		fmt.Fprintf(&b, "%-*s", labelW, labelAt(c.Labels, i))
		for _, v := range row {
			fmt.Fprintf(&b, " %*.2f", heatCellWidth, v)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// histogram buckets vals into n equal-width bins over their range. The last
// bin includes the maximum.
func histogram(vals []float64, n int) ([]string, []float64) {
	if len(vals) == 0 {
		return nil, nil
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if lo == hi {
		return []string{formatValue(lo)}, []float64{float64(len(vals))}
	}

	step := (hi - lo) / float64(n)
	counts := make([]float64, n)
	for _, v := range vals {
		i := int((v - lo) / step)
		if i >= n {
			i = n - 1
		}
		counts[i]++
	}
	labels := make([]string, n)
	for i := range labels {
		from := lo + step*float64(i)
		labels[i] = fmt.Sprintf("%s-%s", formatValue(math.Round(from)), formatValue(math.Round(from+step)))
	}
	return labels, counts
}

func binsOrDefault(n int) int {
	if n <= 0 {
		return 10
	}
	return n
}

func formatValues(vals []float64) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = formatValue(v)
	}
	return out
}

// formatValue prints whole numbers with thousands separators and everything
// else with two decimals.
func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return humanize.Comma(int64(v))
	}
	return humanize.CommafWithDigits(v, 2)
}

func labelAt(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
