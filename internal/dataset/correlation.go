package dataset

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"
)

// Matrix is a square, symmetric correlation matrix.
type Matrix struct {
	Names  []string
	Values [][]float64
}

// Pair is one off-diagonal entry of a Matrix.
type Pair struct {
	Name string
	R    float64
}

// Encoded holds every column of a frame as floats. String columns are replaced
// by category codes: distinct labels are sorted and numbered from zero, and
// missing cells become -1.
type Encoded struct {
	Names   []string
	Columns [][]float64
	Codes   map[string][]string // column -> labels, index is the code
}

// Encode re-encodes df for numeric analysis.
func Encode(df dataframe.DataFrame) Encoded {
	enc := Encoded{Codes: make(map[string][]string)}
	for _, name := range df.Names() {
		s := df.Col(name)
		enc.Names = append(enc.Names, name)
		if s.Type() == series.Int || s.Type() == series.Float {
			enc.Columns = append(enc.Columns, s.Float())
			continue
		}
		codes, labels := categoryCodes(s)
		enc.Columns = append(enc.Columns, codes)
		enc.Codes[name] = labels
	}
	return enc
}

func categoryCodes(s series.Series) ([]float64, []string) {
	records := s.Records()
	nas := s.IsNaN()

	seen := make(map[string]bool)
	var labels []string
	for i, r := range records {
		if !nas[i] && !seen[r] {
			seen[r] = true
			labels = append(labels, r)
		}
	}
	sort.Strings(labels)
	index := make(map[string]float64, len(labels))
	for i, l := range labels {
		index[l] = float64(i)
	}

	codes := make([]float64, len(records))
	for i, r := range records {
		if nas[i] {
			codes[i] = -1
			continue
		}
		codes[i] = index[r]
	}
	return codes, labels
}

// CorrelationMatrix computes the Pearson correlation between every pair of
// encoded columns of df. Rows where either value is missing are skipped for
// that pair. A pair with no variance gets 0; the diagonal is always 1.
func CorrelationMatrix(df dataframe.DataFrame) Matrix {
	enc := Encode(df)
	n := len(enc.Names)
	m := Matrix{Names: enc.Names, Values: make([][]float64, n)}
	for i := range m.Values {
		m.Values[i] = make([]float64, n)
		m.Values[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := pearson(enc.Columns[i], enc.Columns[j])
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

func pearson(x, y []float64) float64 {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return 0
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// Index returns the position of name in the matrix, or -1.
func (m Matrix) Index(name string) int {
	for i, n := range m.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// At returns the correlation between two named columns.
func (m Matrix) At(a, b string) (float64, error) {
	i, j := m.Index(a), m.Index(b)
	if i < 0 || j < 0 {
		return 0, fmt.Errorf("correlation between %q and %q: unknown column", a, b)
	}
	return m.Values[i][j], nil
}

// StrongestWith returns up to n columns ordered by the absolute value of their
// correlation with target, strongest first.
func (m Matrix) StrongestWith(target string, n int) ([]Pair, error) {
	t := m.Index(target)
	if t < 0 {
		return nil, fmt.Errorf("strongest correlations: unknown column %q", target)
	}
	pairs := make([]Pair, 0, len(m.Names)-1)
	for i, name := range m.Names {
		if i == t {
			continue
		}
		pairs = append(pairs, Pair{Name: name, R: m.Values[t][i]})
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return math.Abs(pairs[i].R) > math.Abs(pairs[j].R)
	})
	if n > 0 && n < len(pairs) {
		pairs = pairs[:n]
	}
	return pairs, nil
}
