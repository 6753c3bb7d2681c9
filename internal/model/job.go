package model

import (
	"context"
	"time"
)

// Column names as they appear in the jobs_in_data.csv header.
const (
	ColWorkYear          = "work_year"
	ColJobTitle          = "job_title"
	ColJobCategory       = "job_category"
	ColSalaryCurrency    = "salary_currency"
	ColSalary            = "salary"
	ColSalaryUSD         = "salary_in_usd"
	ColEmployeeResidence = "employee_residence"
	ColExperienceLevel   = "experience_level"
	ColEmploymentType    = "employment_type"
	ColWorkSetting       = "work_setting"
	ColCompanyLocation   = "company_location"
	ColCompanySize       = "company_size"

	// ColSalaryEUR is derived during cleaning.
	ColSalaryEUR = "salary_in_euro"
)

// RawColumns lists the columns every input file must carry, in file order.
var RawColumns = []string{
	ColWorkYear,
	ColJobTitle,
	ColJobCategory,
	ColSalaryCurrency,
	ColSalary,
	ColSalaryUSD,
	ColEmployeeResidence,
	ColExperienceLevel,
	ColEmploymentType,
	ColWorkSetting,
	ColCompanyLocation,
	ColCompanySize,
}

// Job is one row of the dataset.
type Job struct {
	WorkYear          int
	JobTitle          string
	JobCategory       string
	SalaryCurrency    string  // empty after cleaning
	Salary            float64 // salary in SalaryCurrency, zero after cleaning
	SalaryUSD         float64 // zero after cleaning
	SalaryEUR         float64 // set by cleaning
	EmployeeResidence string
	ExperienceLevel   string
	EmploymentType    string
	WorkSetting       string
	CompanyLocation   string
	CompanySize       string
}

// Source fetches the raw CSV bytes from wherever the dataset lives.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// JobFilter decides whether a job matches the user's criteria.
type JobFilter interface {
	Match(job Job) bool
}

// Snapshot describes one imported copy of the cleaned dataset.
type Snapshot struct {
	ID         string
	Source     string
	Rows       int
	ImportedAt time.Time
}

// SnapshotStore persists cleaned jobs so they can be queried without the CSV.
type SnapshotStore interface {
	SaveSnapshot(snap Snapshot, jobs []Job) error
	ListSnapshots() ([]Snapshot, error)
	SearchJobs(snapshotID string, q JobQuery) ([]Job, error)
}

// JobQuery is the store-side form of a job lookup.
type JobQuery struct {
	TitleKeywords []string
	Locations     []string
	Levels        []string
	MinSalaryEUR  float64
	MaxSalaryEUR  float64
	Limit         int // zero means no limit
}

// StateStore remembers dashboard state between runs.
type StateStore interface {
	LastPage() (string, error)
	SetLastPage(page string) error
	LastQuery() (string, error)
	SetLastQuery(query string) error
	AllJobs() (bool, error)
	SetAllJobs(all bool) error
}
