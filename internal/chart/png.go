// Package chart draws page charts as PNG images and as terminal text.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/amishk599/datajobs/internal/page"
)

// Green is the bar colour used across the dashboard.
var Green = color.RGBA{R: 0, G: 128, B: 0, A: 255}

// RenderPNG draws c as a PNG of width x height inches.
func RenderPNG(w io.Writer, c page.Chart, width, height float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("render chart %q: size must be positive, got %vx%v", c.Title, width, height)
	}
	p, err := Plot(c)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(vg.Length(width)*vg.Inch, vg.Length(height)*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("render chart %q: %w", c.Title, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write chart %q: %w", c.Title, err)
	}
	return nil
}

// Plot builds the gonum plot for c.
func Plot(c page.Chart) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = c.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel

	var err error
	switch c.Kind {
	case page.ChartBar:
		err = addBars(p, c)
	case page.ChartHist:
		err = addHist(p, c)
	case page.ChartPie:
		err = addPie(p, c)
	case page.ChartHeatmap:
		err = addHeatmap(p, c)
	default:
		err = fmt.Errorf("unknown chart kind %q", c.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("plot %q: %w", c.Title, err)
	}
	return p, nil
}

func addBars(p *plot.Plot, c page.Chart) error {
	if len(c.Values) == 0 {
		return addNoData(p)
	}
	if len(c.Labels) != len(c.Values) {
		return fmt.Errorf("%d labels for %d values", len(c.Labels), len(c.Values))
	}

	bars, err := plotter.NewBarChart(plotter.Values(c.Values), vg.Points(18))
	if err != nil {
		return err
	}
	bars.Color = Green
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	p.NominalX(c.Labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	p.Y.Min = 0
	p.Y.Max = maxOf(c.Values) * 1.1

	if c.ShowValues {
		xys := make(plotter.XYs, len(c.Values))
		labels := make([]string, len(c.Values))
		for i, v := range c.Values {
			xys[i] = plotter.XY{X: float64(i), Y: v}
			labels[i] = formatValue(v)
		}
		l, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
		if err != nil {
			return err
		}
		for i := range l.TextStyle {
			l.TextStyle[i].XAlign = draw.XCenter
		}
		p.Add(l)
	}
	return nil
}

func addHist(p *plot.Plot, c page.Chart) error {
	if len(c.Values) == 0 {
		return addNoData(p)
	}
	bins := c.Bins
	if bins <= 0 {
		bins = 10
	}
	h, err := plotter.NewHist(plotter.Values(c.Values), bins)
	if err != nil {
		return err
	}
	h.FillColor = Green
	h.LineStyle.Width = vg.Length(0)
	p.Add(h)
	return nil
}

func addHeatmap(p *plot.Plot, c page.Chart) error {
	n := len(c.Matrix)
	if n == 0 {
		return addNoData(p)
	}
	if len(c.Labels) != n {
		return fmt.Errorf("%d labels for a %dx%d matrix", len(c.Labels), n, n)
	}
	for i, row := range c.Matrix {
		if len(row) != n {
			return fmt.Errorf("matrix row %d has %d values, want %d", i, len(row), n)
		}
	}

	hm := plotter.NewHeatMap(grid(c.Matrix), palette.Heat(12, 1))
	hm.Min, hm.Max = -1, 1
	p.Add(hm)

	p.NominalX(c.Labels...)
	p.NominalY(c.Labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	return nil
}

// addNoData leaves the title in place and writes "no data" where the chart
// would be. Filters that match no rows produce such charts.
func addNoData(p *plot.Plot) error {
	l, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: 0, Y: 0}},
		Labels: []string{"no data"},
	})
	if err != nil {
		return err
	}
	l.TextStyle[0].XAlign = draw.XCenter
	l.TextStyle[0].YAlign = draw.YCenter
	l.TextStyle[0].Font.Size = vg.Points(16)
	p.Add(l)
	p.X.Min, p.X.Max = -1, 1
	p.Y.Min, p.Y.Max = -1, 1
	p.HideAxes()
	return nil
}

// grid exposes a square matrix as a plotter.GridXYZ. Column c, row r is
// Matrix[r][c].
type grid [][]float64

func (g grid) Dims() (c, r int)   { return len(g), len(g) }
func (g grid) Z(c, r int) float64 { return g[r][c] }
func (g grid) X(c int) float64    { return float64(c) }
func (g grid) Y(r int) float64    { return float64(r) }

func maxOf(vals []float64) float64 {
	m := 0.0
	for _, v := range vals {
		m = math.Max(m, v)
	}
	if m == 0 {
		return 1
	}
	return m
}
