package dashboard

import (
	"fmt"
	"math"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/amishk599/datajobs/internal/dataset"
	"github.com/amishk599/datajobs/internal/filter"
	"github.com/amishk599/datajobs/internal/model"
)

// lookupModel filters jobs live as the query is typed. Focus starts in the
// input; enter or tab moves it to the results, / moves it back.
type lookupModel struct {
	input   textinput.Model
	results table.Model
	all     bool // search every country instead of the EU subset
	matched  int
	total    int
	filtered bool // the query has at least one criterion
	err      error
}

func newLookup(query string, all bool) lookupModel {
	in := textinput.New()
	in.Prompt = "/ "
	in.Placeholder = "title:data loc:Germany level:Senior min:50000"
	in.CharLimit = 200
	in.SetValue(query)

	results := table.New(
		table.WithColumns(lookupColumns(80)),
		table.WithFocused(false),
	)
	return lookupModel{input: in, results: results, all: all}
}

func lookupColumns(width int) []table.Column {
	title := max(width-62, 16)
	return []table.Column{
		{Title: "Year", Width: 6},
		{Title: "Title", Width: title},
		{Title: "Location", Width: 16},
		{Title: "Level", Width: 12},
		{Title: "Type", Width: 10},
		{Title: "EUR", Width: 10},
	}
}

func (l *lookupModel) focusInput() tea.Cmd {
	l.results.Blur()
	return l.input.Focus()
}

func (l *lookupModel) focusResults() {
	l.input.Blur()
	l.results.Focus()
}

func (l *lookupModel) resize(width, height int) {
	l.input.Width = max(width-4, 10)
	l.results.SetColumns(lookupColumns(width))
	l.results.SetWidth(width)
	l.results.SetHeight(max(height-3, 3))
}

// scope names the job set being searched.
func (l lookupModel) scope() string {
	if l.all {
		return "all countries"
	}
	return "EU"
}

// refresh re-runs the query over a. A query that does not parse keeps the
// previous results and reports the error.
func (l *lookupModel) refresh(a *dataset.Analysis) {
	if a == nil {
		return
	}
	search, err := filter.ParseQuery(l.input.Value())
	if err != nil {
		l.err = err
		return
	}
	l.err = nil

	jobs := a.EUJobs
	if l.all {
		jobs = a.CleanJobs
	}
	matched := filter.Apply(jobs, search)
	l.filtered = !search.Empty()
	l.total = len(jobs)
	l.matched = len(matched)
	l.results.SetRows(jobRows(matched))
	l.results.GotoTop()
}

func jobRows(jobs []model.Job) []table.Row {
	rows := make([]table.Row, len(jobs))
	for i, j := range jobs {
		rows[i] = table.Row{
			strconv.Itoa(j.WorkYear),
			j.JobTitle,
			j.CompanyLocation,
			j.ExperienceLevel,
			j.EmploymentType,
			humanize.Comma(int64(math.Round(j.SalaryEUR))),
		}
	}
	return rows
}

func (l lookupModel) summary() string {
	if l.err != nil {
		return errorStyle.Render(l.err.Error())
	}
	if !l.filtered {
		return fmt.Sprintf("%d jobs (%s), type a query to filter", l.total, l.scope())
	}
	return fmt.Sprintf("%d of %d jobs match (%s)", l.matched, l.total, l.scope())
}

func (l lookupModel) View() string {
	return l.input.View() + "\n" + l.summary() + "\n" + l.results.View()
}
