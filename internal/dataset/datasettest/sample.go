// Package datasettest provides a small jobs CSV and a ready-built Analysis
// for tests in other packages.
package datasettest

import (
	_ "embed"
	"testing"

	"github.com/amishk599/datajobs/internal/dataset"
)

// SampleCSV has eight rows, five of them at companies in the EU.
//
//go:embed sample.csv
var SampleCSV []byte

// Analysis builds an Analysis over SampleCSV with default options.
func Analysis(t testing.TB) *dataset.Analysis {
	t.Helper()
	return AnalysisFor(t, nil)
}

// AnalysisFor builds an Analysis over SampleCSV that keeps only companies in
// countries. A list naming no sample country leaves the subset empty.
func AnalysisFor(t testing.TB, countries []string) *dataset.Analysis {
	t.Helper()
	a, err := dataset.Build(SampleCSV, dataset.Options{Source: "sample.csv", Countries: countries})
	if err != nil {
		t.Fatalf("build sample analysis: %v", err)
	}
	return a
}
