package page

import (
	_ "embed"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/go-gota/gota/dataframe"

	"github.com/amishk599/datajobs/internal/dataset"
	"github.com/amishk599/datajobs/internal/model"
)

// DatasetURL is where the CSV was published.
const DatasetURL = "https://www.kaggle.com/datasets/hummaamqaasim/jobs-in-data/data"

const (
	salaryBins      = 100
	headRows        = 5
	topTitles       = 5
	topCorrelations = 5
)

//go:embed readme.md
var readme string

// Build assembles page id from a.
func Build(id ID, a *dataset.Analysis) (Page, error) {
	p := Page{ID: id, Title: Header, Subtitle: id.Title()}
	var err error
	switch id {
	case Explore:
		p.Blocks, err = explore(a)
	case Clean:
		p.Blocks, err = clean(a)
	case Plots:
		p.Blocks, err = plots(a)
	case Models:
		p.Blocks, err = models(a)
	case Readme:
		p.Blocks = []Block{{Kind: KindMarkdown, Text: readme}}
	default:
		return Page{}, fmt.Errorf("build page: unknown page %q", id)
	}
	if err != nil {
		return Page{}, fmt.Errorf("build page %s: %w", id, err)
	}
	return p, nil
}

func explore(a *dataset.Analysis) ([]Block, error) {
	raw := a.Raw
	rows, cols := dataset.Shape(raw)

	blocks := []Block{
		text("We will work with this dataset, published on Kaggle: %s", DatasetURL),
		text("The dataset has %d columns and %d rows.", cols, rows),
		heading("Let's see the first 5 rows:"),
		table(frameTable(dataset.Head(raw, headRows))),
		heading("Summary statistics"),
		table(describeTable(dataset.Describe(raw))),
		heading("Check for missing values:"),
		table(countTable([]string{"column", "missing"}, dataset.MissingCounts(raw))),
	}

	salaries, err := dataset.Floats(raw, model.ColSalaryUSD)
	if err != nil {
		return nil, err
	}
	blocks = append(blocks,
		heading("Salary schedule:"),
		chart(Chart{
			Kind:   ChartHist,
			Title:  "Salary in USD",
			XLabel: "Salary (USD)",
			YLabel: "Number",
			Values: salaries,
			Bins:   salaryBins,
		}),
	)

	lo, hi, err := dataset.MinMax(raw, model.ColSalaryUSD)
	if err != nil {
		return nil, err
	}
	blocks = append(blocks,
		heading("Maximum and minimum salary in USD:"),
		text("Maximum = %s USD", humanize.Commaf(hi)),
		text("Minimum = %s USD", humanize.Commaf(lo)),
		heading("Some info"),
		Block{Kind: KindCode, Text: dataset.Info(raw)},
	)

	bars := []struct {
		heading string
		col     string
		byLabel bool
		chart   Chart
	}{
		{"Job categories", model.ColJobCategory, false,
			Chart{Title: "Info about job categories", XLabel: "Category", YLabel: "Number"}},
		{"Experience level", model.ColExperienceLevel, true,
			Chart{Title: "Experience Levels", XLabel: "Level", YLabel: "Number"}},
		{"Employment type", model.ColEmploymentType, true,
			Chart{Title: "Employment type", XLabel: "Type", YLabel: "Number", ShowValues: true}},
		{"Work years", model.ColWorkYear, true,
			Chart{Title: "Work years", XLabel: "Year", YLabel: "Number"}},
	}
	for _, b := range bars {
		var counts []dataset.Count
		if b.byLabel {
			counts, err = dataset.ValueCountsByLabel(raw, b.col)
		} else {
			counts, err = dataset.ValueCounts(raw, b.col)
		}
		if err != nil {
			return nil, err
		}
		c := b.chart
		c.Kind = ChartBar
		c.Labels, c.Values = countSeries(counts)
		blocks = append(blocks, heading(b.heading), chart(c))
	}

	means, err := dataset.MeanBy(raw, model.ColWorkYear, model.ColSalaryUSD)
	if err != nil {
		return nil, err
	}
	blocks = append(blocks,
		heading("Average salaries"),
		table(meanTable([]string{model.ColWorkYear, model.ColSalaryUSD}, means)),
	)
	return blocks, nil
}

func clean(a *dataset.Analysis) ([]Block, error) {
	rows, cols := dataset.Shape(a.EU)
	return []Block{
		heading(fmt.Sprintf(
			"Let's remove the columns we won't use: %s, %s and %s. Salaries are converted to euro at %s EUR per USD, so here is the new dataset:",
			model.ColSalary, model.ColSalaryUSD, model.ColSalaryCurrency, strconv.FormatFloat(a.ExchangeRate, 'f', -1, 64))),
		table(frameTable(a.Clean)),
		heading("I want to work only with EU countries, so every row for a company outside the European Union is removed."),
		table(frameTable(a.EU)),
		text("Now the dataset has %d columns and %d rows.", cols, rows),
	}, nil
}

func plots(a *dataset.Analysis) ([]Block, error) {
	means, err := dataset.MeanBy(a.EU, model.ColWorkYear, model.ColSalaryEUR)
	if err != nil {
		return nil, err
	}
	pie := Chart{Kind: ChartPie, Title: "Average Salary Per Year"}
	for _, m := range means {
		pie.Labels = append(pie.Labels, m.Label)
		pie.Values = append(pie.Values, m.Mean)
	}

	counts, err := dataset.ValueCounts(a.EU, model.ColJobTitle)
	if err != nil {
		return nil, err
	}
	bar := Chart{Kind: ChartBar, Title: "Top 5 Job Titles", XLabel: "Job Title", YLabel: "Count"}
	bar.Labels, bar.Values = countSeries(dataset.TopN(counts, topTitles))

	return []Block{
		heading("Average Salary Per Year"),
		chart(pie),
		heading("Top 5 Job Titles"),
		chart(bar),
	}, nil
}

func models(a *dataset.Analysis) ([]Block, error) {
	m := a.Correlation
	blocks := []Block{
		heading("Correlation between columns"),
		text("Text columns are encoded as category codes, numbered in label order, before correlating."),
		chart(Chart{Kind: ChartHeatmap, Title: "Correlation matrix", Labels: m.Names, Matrix: m.Values}),
	}

	pairs, err := m.StrongestWith(model.ColSalaryEUR, topCorrelations)
	if err != nil {
		return nil, err
	}
	t := Table{Columns: []string{"column", "r"}, Total: len(pairs)}
	for _, p := range pairs {
		t.Rows = append(t.Rows, []string{p.Name, strconv.FormatFloat(p.R, 'f', 3, 64)})
	}
	blocks = append(blocks, heading("Strongest correlations with "+model.ColSalaryEUR), table(t))

	means, err := dataset.MeanBy(a.EU, model.ColExperienceLevel, model.ColSalaryEUR)
	if err != nil {
		return nil, err
	}
	blocks = append(blocks,
		heading("Average salary in euro per experience level (EU)"),
		table(meanTable([]string{model.ColExperienceLevel, model.ColSalaryEUR, "jobs"}, means)),
	)
	return blocks, nil
}

// frameTable renders every row of df.
func frameTable(df dataframe.DataFrame) Table {
	header, rows := dataset.Rows(df, 0)
	return Table{Columns: header, Rows: rows, Total: df.Nrow()}
}

func describeTable(summaries []dataset.ColumnSummary) Table {
	t := Table{
		Columns: []string{"column", "dtype", "count", "unique", "top", "freq", "mean", "std", "min", "25%", "50%", "75%", "max"},
		Total:   len(summaries),
	}
	for _, s := range summaries {
		row := []string{s.Name, s.Type, strconv.Itoa(s.Count), strconv.Itoa(s.Unique), s.Top, strconv.Itoa(s.Freq)}
		if s.Numeric {
			for _, v := range []float64{s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max} {
				row = append(row, dataset.FormatFloat(v))
			}
		} else {
			row = append(row, "", "", "", "", "", "", "")
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func countTable(columns []string, counts []dataset.Count) Table {
	t := Table{Columns: columns, Total: len(counts)}
	for _, c := range counts {
		t.Rows = append(t.Rows, []string{c.Label, strconv.Itoa(c.Count)})
	}
	return t
}

// meanTable renders group means; a third column, when named, holds the group size.
func meanTable(columns []string, means []dataset.GroupMean) Table {
	t := Table{Columns: columns, Total: len(means)}
	for _, m := range means {
		row := []string{m.Label, dataset.FormatFloat(m.Mean)}
		if len(columns) > 2 {
			row = append(row, strconv.Itoa(m.Count))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func countSeries(counts []dataset.Count) ([]string, []float64) {
	labels := make([]string, len(counts))
	values := make([]float64, len(counts))
	for i, c := range counts {
		labels[i] = c.Label
		values[i] = float64(c.Count)
	}
	return labels, values
}
