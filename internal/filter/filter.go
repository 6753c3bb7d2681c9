package filter

import (
	"strings"

	"github.com/amishk599/datajobs/internal/model"
)

// Ensure JobSearch implements model.JobFilter.
var _ model.JobFilter = (*JobSearch)(nil)

// JobSearch matches jobs against the lookup criteria. Title keywords are
// case-insensitive substrings, locations and levels are case-insensitive exact
// matches. Each list passes a job when any entry matches; empty lists and zero
// salary bounds match everything.
type JobSearch struct {
	TitleKeywords []string
	Locations     []string
	Levels        []string
	MinSalaryEUR  float64
	MaxSalaryEUR  float64
}

// Empty reports whether the search has no criteria at all.
func (f *JobSearch) Empty() bool {
	return len(f.TitleKeywords) == 0 && len(f.Locations) == 0 && len(f.Levels) == 0 &&
		f.MinSalaryEUR == 0 && f.MaxSalaryEUR == 0
}

// Match returns true if the job satisfies every non-empty criterion.
func (f *JobSearch) Match(job model.Job) bool {
	if len(f.TitleKeywords) > 0 {
		titleLower := strings.ToLower(job.JobTitle)
		matched := false
		for _, kw := range f.TitleKeywords {
			if strings.Contains(titleLower, strings.ToLower(kw)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if !equalsAny(job.CompanyLocation, f.Locations) {
		return false
	}
	if !equalsAny(job.ExperienceLevel, f.Levels) {
		return false
	}

	if f.MinSalaryEUR > 0 && job.SalaryEUR < f.MinSalaryEUR {
		return false
	}
	if f.MaxSalaryEUR > 0 && job.SalaryEUR > f.MaxSalaryEUR {
		return false
	}
	return true
}

func equalsAny(v string, options []string) bool {
	if len(options) == 0 {
		return true
	}
	v = strings.ToLower(v)
	for _, o := range options {
		if v == strings.ToLower(o) {
			return true
		}
	}
	return false
}

// Apply returns the jobs that f matches, in input order. A nil filter matches all.
func Apply(jobs []model.Job, f model.JobFilter) []model.Job {
	var out []model.Job
	for _, j := range jobs {
		if f == nil || f.Match(j) {
			out = append(out, j)
		}
	}
	return out
}

// Query converts the search to its store-side form.
func (f *JobSearch) Query(limit int) model.JobQuery {
	return model.JobQuery{
		TitleKeywords: f.TitleKeywords,
		Locations:     f.Locations,
		Levels:        f.Levels,
		MinSalaryEUR:  f.MinSalaryEUR,
		MaxSalaryEUR:  f.MaxSalaryEUR,
		Limit:         limit,
	}
}
