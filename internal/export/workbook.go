// Package export writes the analysed dataset to files: an Excel workbook with
// one sheet per table and PNG images of every chart.
package export

import (
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"

	"github.com/amishk599/datajobs/internal/dataset"
)

// Sheet names, in workbook order.
const (
	SheetRaw         = "Raw"
	SheetClean       = "Clean"
	SheetEU          = "EU"
	SheetDescribe    = "Describe"
	SheetCorrelation = "Correlation"
)

// Sheets lists every sheet the workbook contains.
var Sheets = []string{SheetRaw, SheetClean, SheetEU, SheetDescribe, SheetCorrelation}

// WriteWorkbook writes the workbook for a to w.
func WriteWorkbook(w io.Writer, a *dataset.Analysis) error {
	f, err := buildWorkbook(a)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveWorkbook writes the workbook for a to path.
func SaveWorkbook(path string, a *dataset.Analysis) error {
	f, err := buildWorkbook(a)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func buildWorkbook(a *dataset.Analysis) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetRaw); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range Sheets[1:] {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#C6EFCE"}},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	w := sheetWriter{f: f, header: header}
	w.frame(SheetRaw, a.Raw)
	w.frame(SheetClean, a.Clean)
	w.frame(SheetEU, a.EU)
	w.describe(dataset.Describe(a.Raw))
	w.correlation(a.Correlation)
	if w.err != nil {
		f.Close()
		return nil, fmt.Errorf("build workbook: %w", w.err)
	}
	return f, nil
}

// sheetWriter remembers the first error so the sheet builders read straight.
type sheetWriter struct {
	f      *excelize.File
	header int
	err    error
}

func (w *sheetWriter) row(sheet string, r int, values []any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, r)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("sheet %s row %d: %w", sheet, r, err)
	}
}

func (w *sheetWriter) headerRow(sheet string, names []string) {
	values := make([]any, len(names))
	for i, n := range names {
		values[i] = n
	}
	w.row(sheet, 1, values)
	if w.err != nil {
		return
	}
	if err := w.f.SetRowStyle(sheet, 1, 1, w.header); err != nil {
		w.err = err
		return
	}
	last, err := excelize.ColumnNumberToName(max(len(names), 1))
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetColWidth(sheet, "A", last, 18); err != nil {
		w.err = err
	}
}

// frame writes df with typed cells: numbers stay numeric, missing cells stay empty.
func (w *sheetWriter) frame(sheet string, df dataframe.DataFrame) {
	names := df.Names()
	w.headerRow(sheet, names)

	cols := make([]series.Series, len(names))
	for j, name := range names {
		cols[j] = df.Col(name)
	}
	for i := 0; i < df.Nrow(); i++ {
		values := make([]any, len(cols))
		for j, s := range cols {
			e := s.Elem(i)
			switch {
			case e.IsNA():
				values[j] = nil
			case s.Type() == series.Int:
				n, err := e.Int()
				if err != nil {
					values[j] = e.String()
					continue
				}
				values[j] = n
			case s.Type() == series.Float:
				values[j] = e.Float()
			default:
				values[j] = e.String()
			}
		}
		w.row(sheet, i+2, values)
	}
}

func (w *sheetWriter) describe(summaries []dataset.ColumnSummary) {
	w.headerRow(SheetDescribe, []string{"column", "dtype", "count", "missing", "unique", "top", "freq",
		"mean", "std", "min", "25%", "50%", "75%", "max"})
	for i, s := range summaries {
		values := []any{s.Name, s.Type, s.Count, s.Missing, s.Unique, s.Top, s.Freq}
		if s.Numeric {
			values = append(values, s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max)
		}
		w.row(SheetDescribe, i+2, values)
	}
}

func (w *sheetWriter) correlation(m dataset.Matrix) {
	w.headerRow(SheetCorrelation, append([]string{""}, m.Names...))
	for i, name := range m.Names {
		values := []any{name}
		for _, v := range m.Values[i] {
			values = append(values, v)
		}
		w.row(SheetCorrelation, i+2, values)
	}
}
