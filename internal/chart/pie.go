package chart

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/amishk599/datajobs/internal/page"
)

// pieSegments is the number of polygon edges used for a full circle.
const pieSegments = 180

// pieLabelRadius places wedge labels just outside the pie.
const pieLabelRadius = 1.2

// pie is a plot.Plotter drawing a pie chart centred on the origin with
// radius 1 in data coordinates.
type pie struct {
	labels []string
	values []float64
	total  float64
}

func newPie(labels []string, values []float64) (*pie, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("no values")
	}
	if len(labels) != len(values) {
		return nil, fmt.Errorf("%d labels for %d values", len(labels), len(values))
	}
	total := 0.0
	for _, v := range values {
		if v < 0 || math.IsNaN(v) {
			return nil, fmt.Errorf("pie values must be non-negative, got %v", v)
		}
		total += v
	}
	if total == 0 {
		return nil, fmt.Errorf("pie values sum to zero")
	}
	return &pie{labels: labels, values: values, total: total}, nil
}

// Shares returns each value's fraction of the total.
func (pc *pie) Shares() []float64 {
	out := make([]float64, len(pc.values))
	for i, v := range pc.values {
		out[i] = v / pc.total
	}
	return out
}

// Plot implements plot.Plotter. Wedges start at twelve o'clock and run
// counter-clockwise.
func (pc *pie) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	cx, cy := trX(0), trY(0)
	radius := min(trX(1)-cx, trY(1)-cy)

	sty := plt.X.Tick.Label
	sty.XAlign = draw.XCenter
	sty.YAlign = draw.YCenter

	start := math.Pi / 2
	for i, share := range pc.Shares() {
		sweep := share * 2 * math.Pi
		steps := max(int(share*pieSegments), 2)

		pts := []vg.Point{{X: cx, Y: cy}}
		for s := 0; s <= steps; s++ {
			a := start + sweep*float64(s)/float64(steps)
			pts = append(pts, vg.Point{
				X: cx + radius*vg.Length(math.Cos(a)),
				Y: cy + radius*vg.Length(math.Sin(a)),
			})
		}
		c.FillPolygon(plotutil.Color(i), pts)

		mid := start + sweep/2
		c.FillText(sty, vg.Point{
			X: cx + radius*pieLabelRadius*vg.Length(math.Cos(mid)),
			Y: cy + radius*pieLabelRadius*vg.Length(math.Sin(mid)),
		}, fmt.Sprintf("%s (%.1f%%)", pc.labels[i], share*100))

		start += sweep
	}
}

// DataRange implements plot.DataRanger, leaving room for the labels.
func (pc *pie) DataRange() (xmin, xmax, ymin, ymax float64) {
	r := pieLabelRadius + 0.3
	return -r, r, -r, r
}

func addPie(p *plot.Plot, c page.Chart) error {
	if len(c.Values) == 0 {
		return addNoData(p)
	}
	pc, err := newPie(c.Labels, c.Values)
	if err != nil {
		return err
	}
	p.Add(pc)
	p.HideAxes()
	return nil
}
