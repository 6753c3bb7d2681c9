// Package dataset loads the jobs CSV into a data frame and derives the tables
// every page is built from.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/amishk599/datajobs/internal/model"
)

// columnTypes pins the numeric columns; everything else is read as a string so
// that codes like "M" or "FT" are never mistaken for something else.
var columnTypes = map[string]series.Type{
	model.ColWorkYear:  series.Int,
	model.ColSalary:    series.Float,
	model.ColSalaryUSD: series.Float,
	model.ColSalaryEUR: series.Float,
}

// nanValues are the cell values treated as missing.
var nanValues = []string{"", "NA", "NaN", "N/A", "<nil>"}

// ErrNoRows is returned for a CSV that has a header row and nothing else.
var ErrNoRows = errors.New("dataset has a header but no rows")

// Read parses a CSV with a header row into a data frame and checks that every
// raw column is present.
func Read(r io.Reader) (dataframe.DataFrame, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read csv: %w", err)
	}
	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(columnTypes),
		dataframe.NaNValues(nanValues),
	)
	if df.Err != nil {
		if headerOnly(data) {
			return df, fmt.Errorf("read csv: %w", ErrNoRows)
		}
		return df, fmt.Errorf("read csv: %w", df.Err)
	}
	if err := RequireColumns(df, model.RawColumns...); err != nil {
		return df, err
	}
	return df, nil
}

// headerOnly reports whether data holds exactly one CSV record.
func headerOnly(data []byte) bool {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	if _, err := cr.Read(); err != nil {
		return false
	}
	_, err := cr.Read()
	return errors.Is(err, io.EOF)
}

// RequireColumns returns a *model.ColumnError naming every column in cols that
// df does not have.
func RequireColumns(df dataframe.DataFrame, cols ...string) error {
	have := make(map[string]bool, df.Ncol())
	for _, n := range df.Names() {
		have[n] = true
	}
	var missing []string
	for _, c := range cols {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &model.ColumnError{Missing: missing}
	}
	return nil
}

// HasColumn reports whether df has a column named col.
func HasColumn(df dataframe.DataFrame, col string) bool {
	for _, n := range df.Names() {
		if n == col {
			return true
		}
	}
	return false
}
