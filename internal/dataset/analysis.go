package dataset

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/google/uuid"

	"github.com/amishk599/datajobs/internal/model"
)

// Options controls how an Analysis is derived from raw CSV bytes.
type Options struct {
	Source       string   // human-readable origin, e.g. the file path
	ExchangeRate float64  // USD -> EUR; DefaultExchangeRate when zero
	Countries    []string // allow-list; EUCountries when nil
}

// Analysis is everything derived from one load of the dataset. It is never
// mutated after Build returns, so it can be shared between goroutines.
type Analysis struct {
	ID           string
	Source       string
	LoadedAt     time.Time
	ExchangeRate float64
	Countries    []string

	Raw   dataframe.DataFrame
	Clean dataframe.DataFrame
	EU    dataframe.DataFrame

	CleanJobs []model.Job
	EUJobs    []model.Job

	Correlation Matrix
}

// Build parses data and derives the cleaned and EU tables.
func Build(data []byte, opts Options) (*Analysis, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("build analysis: dataset %q is empty", opts.Source)
	}
	rate := opts.ExchangeRate
	if rate == 0 {
		rate = DefaultExchangeRate
	}
	countries := opts.Countries
	if countries == nil {
		countries = EUCountries
	}

	raw, err := Read(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build analysis: %w", err)
	}
	clean, err := Clean(raw, rate)
	if err != nil {
		return nil, fmt.Errorf("build analysis: %w", err)
	}
	eu, err := FilterCountries(clean, countries)
	if err != nil {
		return nil, fmt.Errorf("build analysis: %w", err)
	}

	return &Analysis{
		ID:           uuid.NewString(),
		Source:       opts.Source,
		LoadedAt:     time.Now(),
		ExchangeRate: rate,
		Countries:    countries,
		Raw:          raw,
		Clean:        clean,
		EU:           eu,
		CleanJobs:    Jobs(clean),
		EUJobs:       Jobs(eu),
		Correlation:  CorrelationMatrix(clean),
	}, nil
}
