package page

import "fmt"

// Header is shown above every page.
const Header = "Research about Jobs and Salaries in Data Science"

// Page is a rendered menu page: a title and an ordered list of blocks.
type Page struct {
	ID       ID      `json:"id"`
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle"`
	Blocks   []Block `json:"blocks"`
}

// BlockKind says which field of a Block is populated.
type BlockKind string

const (
	KindHeading  BlockKind = "heading"
	KindText     BlockKind = "text"
	KindCode     BlockKind = "code" // preformatted text
	KindMarkdown BlockKind = "markdown"
	KindTable    BlockKind = "table"
	KindChart    BlockKind = "chart"
)

// Block is one element of a page. Text is set for heading, text, code and
// markdown blocks; Table and Chart for their kinds.
type Block struct {
	Kind  BlockKind `json:"kind"`
	Text  string    `json:"text,omitempty"`
	Table *Table    `json:"table,omitempty"`
	Chart *Chart    `json:"chart,omitempty"`
}

// Table is a grid of preformatted cells.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Total   int        `json:"total"` // rows before truncation
}

// Truncate returns a copy keeping at most n rows. n <= 0 keeps everything.
func (t Table) Truncate(n int) Table {
	if n <= 0 || n >= len(t.Rows) {
		return t
	}
	t.Rows = t.Rows[:n]
	return t
}

// Note describes truncation, e.g. "showing 20 of 9355 rows", or is empty when
// every row is shown.
func (t Table) Note() string {
	if t.Total <= len(t.Rows) {
		return ""
	}
	return fmt.Sprintf("showing %d of %d rows", len(t.Rows), t.Total)
}

// ChartKind selects how a chart is drawn.
type ChartKind string

const (
	ChartBar     ChartKind = "bar"
	ChartHist    ChartKind = "hist"
	ChartPie     ChartKind = "pie"
	ChartHeatmap ChartKind = "heatmap"
)

// Chart is a renderer-independent chart description. Bar and pie charts pair
// Labels with Values. Histograms bin the raw samples in Values into Bins
// buckets. Heatmaps use Matrix, with Labels naming both axes.
type Chart struct {
	Kind       ChartKind   `json:"kind"`
	Title      string      `json:"title"`
	XLabel     string      `json:"x_label,omitempty"`
	YLabel     string      `json:"y_label,omitempty"`
	Labels     []string    `json:"labels,omitempty"`
	Values     []float64   `json:"values,omitempty"`
	Bins       int         `json:"bins,omitempty"`
	Matrix     [][]float64 `json:"matrix,omitempty"`
	ShowValues bool        `json:"show_values,omitempty"`
}

// Charts returns the charts of p in page order.
func (p Page) Charts() []Chart {
	var out []Chart
	for _, b := range p.Blocks {
		if b.Kind == KindChart && b.Chart != nil {
			out = append(out, *b.Chart)
		}
	}
	return out
}

// TruncateTables returns a copy of p with every table cut to n rows.
func (p Page) TruncateTables(n int) Page {
	blocks := make([]Block, len(p.Blocks))
	for i, b := range p.Blocks {
		if b.Kind == KindTable && b.Table != nil {
			t := b.Table.Truncate(n)
			b.Table = &t
		}
		blocks[i] = b
	}
	p.Blocks = blocks
	return p
}

func heading(s string) Block { return Block{Kind: KindHeading, Text: s} }

func text(format string, args ...any) Block {
	return Block{Kind: KindText, Text: fmt.Sprintf(format, args...)}
}

func table(t Table) Block { return Block{Kind: KindTable, Table: &t} }

func chart(c Chart) Block { return Block{Kind: KindChart, Chart: &c} }
