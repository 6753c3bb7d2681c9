package dataset

import (
	"math"

	"github.com/go-gota/gota/dataframe"

	"github.com/amishk599/datajobs/internal/model"
)

// Jobs converts each row of df into a model.Job. Columns that df lacks leave
// the matching field zero, so it works on raw and cleaned frames alike.
func Jobs(df dataframe.DataFrame) []model.Job {
	n := df.Nrow()
	str := func(col string) []string {
		if !HasColumn(df, col) {
			return nil
		}
		s := df.Col(col)
		out := s.Records()
		for i, na := range s.IsNaN() {
			if na {
				out[i] = ""
			}
		}
		return out
	}
	num := func(col string) []float64 {
		if !HasColumn(df, col) {
			return nil
		}
		return df.Col(col).Float()
	}

	title := str(model.ColJobTitle)
	category := str(model.ColJobCategory)
	currency := str(model.ColSalaryCurrency)
	residence := str(model.ColEmployeeResidence)
	level := str(model.ColExperienceLevel)
	employment := str(model.ColEmploymentType)
	setting := str(model.ColWorkSetting)
	location := str(model.ColCompanyLocation)
	size := str(model.ColCompanySize)
	year := num(model.ColWorkYear)
	salary := num(model.ColSalary)
	usd := num(model.ColSalaryUSD)
	eur := num(model.ColSalaryEUR)

	jobs := make([]model.Job, n)
	for i := range jobs {
		jobs[i] = model.Job{
			WorkYear:          int(at(year, i)),
			JobTitle:          pick(title, i),
			JobCategory:       pick(category, i),
			SalaryCurrency:    pick(currency, i),
			Salary:            at(salary, i),
			SalaryUSD:         at(usd, i),
			SalaryEUR:         at(eur, i),
			EmployeeResidence: pick(residence, i),
			ExperienceLevel:   pick(level, i),
			EmploymentType:    pick(employment, i),
			WorkSetting:       pick(setting, i),
			CompanyLocation:   pick(location, i),
			CompanySize:       pick(size, i),
		}
	}
	return jobs
}

func pick(vals []string, i int) string {
	if vals == nil {
		return ""
	}
	return vals[i]
}

func at(vals []float64, i int) float64 {
	if vals == nil || math.IsNaN(vals[i]) {
		return 0
	}
	return vals[i]
}
