package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"
)

// Count is one bucket of a value count.
type Count struct {
	Label string
	Count int
}

// GroupMean is the mean of a numeric column for one group.
type GroupMean struct {
	Label string
	Mean  float64
	Count int
}

// ColumnSummary describes one column, combining what pandas shows for object
// columns (count, unique, top, freq) with the numeric quantiles.
type ColumnSummary struct {
	Name    string
	Type    string
	Count   int
	Missing int
	Unique  int
	Top     string
	Freq    int
	Numeric bool
	Mean    float64
	Std     float64
	Min     float64
	Q25     float64
	Median  float64
	Q75     float64
	Max     float64
}

// Shape returns (rows, columns).
func Shape(df dataframe.DataFrame) (int, int) {
	return df.Nrow(), df.Ncol()
}

// Head returns the first n rows.
func Head(df dataframe.DataFrame, n int) dataframe.DataFrame {
	if n >= df.Nrow() {
		return df
	}
	if n < 0 {
		n = 0
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return df.Subset(idx)
}

// Rows renders up to limit rows of df as strings, header first. limit <= 0
// renders every row. Floats are printed with at most two decimals.
func Rows(df dataframe.DataFrame, limit int) ([]string, [][]string) {
	header := df.Names()
	n := df.Nrow()
	if limit > 0 && limit < n {
		n = limit
	}
	cols := make([]series.Series, len(header))
	for j, name := range header {
		cols[j] = df.Col(name)
	}
	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(cols))
		for j, s := range cols {
			row[j] = FormatElem(s.Elem(i))
		}
		rows[i] = row
	}
	return header, rows
}

// FormatElem renders a single cell.
func FormatElem(e series.Element) string {
	if e.IsNA() {
		return "NaN"
	}
	if e.Type() == series.Float {
		return FormatFloat(e.Float())
	}
	return e.String()
}

// FormatFloat prints v with up to two decimals and no trailing zeros.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// MissingCounts returns the number of missing cells per column, in column order.
func MissingCounts(df dataframe.DataFrame) []Count {
	out := make([]Count, 0, df.Ncol())
	for _, name := range df.Names() {
		n := 0
		for _, na := range df.Col(name).IsNaN() {
			if na {
				n++
			}
		}
		out = append(out, Count{Label: name, Count: n})
	}
	return out
}

// Describe summarises every column of df.
func Describe(df dataframe.DataFrame) []ColumnSummary {
	out := make([]ColumnSummary, 0, df.Ncol())
	for _, name := range df.Names() {
		out = append(out, describeSeries(df.Col(name)))
	}
	return out
}

func describeSeries(s series.Series) ColumnSummary {
	cs := ColumnSummary{Name: s.Name, Type: string(s.Type())}

	counts := make(map[string]int)
	nas := s.IsNaN()
	labels := s.Records()
	for i, na := range nas {
		if na {
			cs.Missing++
			continue
		}
		cs.Count++
		counts[labels[i]]++
	}
	cs.Unique = len(counts)
	for label, c := range counts {
		if c > cs.Freq || (c == cs.Freq && label < cs.Top) {
			cs.Top, cs.Freq = label, c
		}
	}

	if s.Type() != series.Int && s.Type() != series.Float {
		return cs
	}
	vals := finite(s.Float())
	if len(vals) == 0 {
		return cs
	}
	sort.Float64s(vals)
	cs.Numeric = true
	cs.Mean = stat.Mean(vals, nil)
	if len(vals) > 1 {
		cs.Std = stat.StdDev(vals, nil)
	}
	cs.Min = vals[0]
	cs.Max = vals[len(vals)-1]
	cs.Q25 = stat.Quantile(0.25, stat.LinInterp, vals, nil)
	cs.Median = stat.Quantile(0.5, stat.LinInterp, vals, nil)
	cs.Q75 = stat.Quantile(0.75, stat.LinInterp, vals, nil)
	return cs
}

// Info returns a pandas-style overview: entry count followed by one line per
// column with its non-null count and type.
func Info(df dataframe.DataFrame) string {
	var b strings.Builder
	fmt.Fprintf(&b, "RangeIndex: %d entries, 0 to %d\n", df.Nrow(), max(df.Nrow()-1, 0))
	fmt.Fprintf(&b, "Data columns (total %d columns):\n", df.Ncol())
	fmt.Fprintf(&b, " #   %-20s %-16s %s\n", "Column", "Non-Null Count", "Dtype")
	fmt.Fprintf(&b, "---  %-20s %-16s %s\n", "------", "--------------", "-----")
	missing := MissingCounts(df)
	types := df.Types()
	typeCounts := make(map[string]int)
	for i, name := range df.Names() {
		nonNull := df.Nrow() - missing[i].Count
		fmt.Fprintf(&b, " %-3d %-20s %-16s %s\n", i, name, fmt.Sprintf("%d non-null", nonNull), types[i])
		typeCounts[string(types[i])]++
	}
	keys := make([]string, 0, len(typeCounts))
	for k := range typeCounts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s(%d)", k, typeCounts[k])
	}
	fmt.Fprintf(&b, "dtypes: %s\n", strings.Join(parts, ", "))
	return b.String()
}

// ValueCounts counts the distinct values of col, most frequent first. Ties are
// broken by label so the output is stable.
func ValueCounts(df dataframe.DataFrame, col string) ([]Count, error) {
	counts, err := countValues(df, col)
	if err != nil {
		return nil, err
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Label < counts[j].Label
	})
	return counts, nil
}

// ValueCountsByLabel counts the distinct values of col ordered by label, the
// equivalent of value_counts().sort_index().
func ValueCountsByLabel(df dataframe.DataFrame, col string) ([]Count, error) {
	counts, err := countValues(df, col)
	if err != nil {
		return nil, err
	}
	sort.Slice(counts, func(i, j int) bool { return lessLabel(counts[i].Label, counts[j].Label) })
	return counts, nil
}

// TopN returns the first n counts.
func TopN(counts []Count, n int) []Count {
	if n < len(counts) {
		return counts[:n]
	}
	return counts
}

func countValues(df dataframe.DataFrame, col string) ([]Count, error) {
	if err := RequireColumns(df, col); err != nil {
		return nil, err
	}
	s := df.Col(col)
	nas := s.IsNaN()
	idx := make(map[string]int)
	var counts []Count
	for i, label := range s.Records() {
		if nas[i] {
			continue
		}
		j, ok := idx[label]
		if !ok {
			j = len(counts)
			idx[label] = j
			counts = append(counts, Count{Label: label})
		}
		counts[j].Count++
	}
	return counts, nil
}

// MeanBy groups df by group and averages value within each group, ordered by
// group label. Missing values are skipped.
func MeanBy(df dataframe.DataFrame, group, value string) ([]GroupMean, error) {
	if err := RequireColumns(df, group, value); err != nil {
		return nil, err
	}
	labels := df.Col(group).Records()
	nas := df.Col(group).IsNaN()
	vals := df.Col(value).Float()

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i, label := range labels {
		if nas[i] || math.IsNaN(vals[i]) {
			continue
		}
		sums[label] += vals[i]
		counts[label]++
	}

	out := make([]GroupMean, 0, len(sums))
	for label, sum := range sums {
		out = append(out, GroupMean{Label: label, Mean: sum / float64(counts[label]), Count: counts[label]})
	}
	sort.Slice(out, func(i, j int) bool { return lessLabel(out[i].Label, out[j].Label) })
	return out, nil
}

// MinMax returns the smallest and largest non-missing value of col.
func MinMax(df dataframe.DataFrame, col string) (float64, float64, error) {
	if err := RequireColumns(df, col); err != nil {
		return 0, 0, err
	}
	vals := finite(df.Col(col).Float())
	if len(vals) == 0 {
		return 0, 0, fmt.Errorf("column %s has no values", col)
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, nil
}

// Floats returns the non-missing values of a numeric column.
func Floats(df dataframe.DataFrame, col string) ([]float64, error) {
	if err := RequireColumns(df, col); err != nil {
		return nil, err
	}
	return finite(df.Col(col).Float()), nil
}

func finite(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// lessLabel orders numeric labels numerically and everything else lexically.
func lessLabel(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return fa < fb
	}
	return a < b
}
