package dataset

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/amishk599/datajobs/internal/model"
)

// DefaultExchangeRate converts USD to EUR.
const DefaultExchangeRate = 0.92

// EUCountries is the allow-list used to keep only jobs at companies located in
// the European Union.
var EUCountries = []string{
	"Germany", "Austria", "Belgium", "Bulgaria", "Croatia", "Cyprus", "Czech Republic",
	"Denmark", "Estonia", "Finland", "France", "Greece", "Hungary", "Ireland", "Italy",
	"Latvia", "Lithuania", "Luxembourg", "Malta", "Netherlands", "Poland", "Portugal",
	"Romania", "Slovakia", "Slovenia", "Spain", "Sweden",
}

// Clean drops the raw salary columns and replaces them with salary_in_euro,
// computed from salary_in_usd at rate. Missing USD values stay missing.
func Clean(df dataframe.DataFrame, rate float64) (dataframe.DataFrame, error) {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return df, fmt.Errorf("clean: exchange rate must be positive, got %v", rate)
	}
	if err := RequireColumns(df, model.ColSalary, model.ColSalaryCurrency, model.ColSalaryUSD); err != nil {
		return df, fmt.Errorf("clean: %w", err)
	}

	usd := df.Col(model.ColSalaryUSD).Float()
	eur := make([]float64, len(usd))
	for i, v := range usd {
		eur[i] = v * rate
	}

	out := df.Drop([]string{model.ColSalary, model.ColSalaryCurrency, model.ColSalaryUSD})
	if out.Err != nil {
		return out, fmt.Errorf("clean: drop salary columns: %w", out.Err)
	}
	out = out.Mutate(series.New(eur, series.Float, model.ColSalaryEUR))
	if out.Err != nil {
		return out, fmt.Errorf("clean: add %s: %w", model.ColSalaryEUR, out.Err)
	}
	return out, nil
}

// FilterCountries keeps the rows whose company_location is one of countries.
// Matching is exact.
func FilterCountries(df dataframe.DataFrame, countries []string) (dataframe.DataFrame, error) {
	if err := RequireColumns(df, model.ColCompanyLocation); err != nil {
		return df, fmt.Errorf("filter countries: %w", err)
	}
	if df.Nrow() == 0 {
		return df, nil
	}
	if len(countries) == 0 {
		return df.Subset([]int{}), nil
	}

	out := df.Filter(dataframe.F{
		Colname:    model.ColCompanyLocation,
		Comparator: series.In,
		Comparando: countries,
	})
	if out.Err != nil {
		return out, fmt.Errorf("filter countries: %w", out.Err)
	}
	return out, nil
}
