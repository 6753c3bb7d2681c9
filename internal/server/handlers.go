package server

import (
	"bytes"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/amishk599/datajobs/internal/chart"
	"github.com/amishk599/datajobs/internal/dataset"
	"github.com/amishk599/datajobs/internal/filter"
	"github.com/amishk599/datajobs/internal/model"
	"github.com/amishk599/datajobs/internal/page"
)

const (
	scopeEU  = "eu"
	scopeAll = "all"

	defaultJobLimit = 100
)

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Header}}</title></head>
<body>
<h1>{{.Header}}</h1>
<p>Dataset: {{.Source}} ({{.Rows}} rows, loaded {{.LoadedAt}})</p>
<ul>
{{- range .Pages}}
<li><a href="/pages/{{.ID}}">{{.Title}}</a>{{range .Charts}} <a href="{{.}}">[chart]</a>{{end}}</li>
{{- end}}
</ul>
<p><a href="/jobs">Job lookup</a></p>
</body>
</html>
`))

type indexPage struct {
	ID     page.ID
	Title  string
	Charts []string
}

func (s *Server) index(c echo.Context) error {
	a, err := s.analysis()
	if err != nil {
		return err
	}
	data := struct {
		Header   string
		Source   string
		Rows     int
		LoadedAt string
		Pages    []indexPage
	}{
		Header:   page.Header,
		Source:   a.Source,
		Rows:     a.Raw.Nrow(),
		LoadedAt: a.LoadedAt.Format(time.RFC3339),
	}
	for _, id := range page.All {
		p, err := page.Build(id, a)
		if err != nil {
			return err
		}
		ip := indexPage{ID: id, Title: id.Title()}
		for n := range p.Charts() {
			ip.Charts = append(ip.Charts, "/pages/"+string(id)+"/charts/"+strconv.Itoa(n+1)+".png")
		}
		data.Pages = append(data.Pages, ip)
	}

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, data); err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (s *Server) health(c echo.Context) error {
	a, err := s.analysis()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":    "ok",
		"source":    a.Source,
		"rows":      a.Raw.Nrow(),
		"eu_rows":   a.EU.Nrow(),
		"loaded_at": a.LoadedAt,
	})
}

type pageRef struct {
	ID    page.ID `json:"id"`
	Title string  `json:"title"`
}

func (s *Server) listPages(c echo.Context) error {
	refs := make([]pageRef, len(page.All))
	for i, id := range page.All {
		refs[i] = pageRef{ID: id, Title: id.Title()}
	}
	return c.JSON(http.StatusOK, refs)
}

type pageRequest struct {
	ID   string `param:"id"`
	Rows int    `query:"rows" validate:"gte=0"`
}

func (s *Server) showPage(c echo.Context) error {
	req := pageRequest{Rows: s.opts.TableRows}
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	p, err := s.buildPage(req.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p.TruncateTables(req.Rows))
}

// chartPNG serves the n-th chart of a page, counting from 1, as "<n>.png".
func (s *Server) chartPNG(c echo.Context) error {
	p, err := s.buildPage(c.Param("id"))
	if err != nil {
		return err
	}
	name, ok := strings.CutSuffix(c.Param("file"), ".png")
	if !ok {
		return errChartNotFound
	}
	n, err := strconv.Atoi(name)
	charts := p.Charts()
	if err != nil || n < 1 || n > len(charts) {
		return errChartNotFound
	}

	var buf bytes.Buffer
	if err := chart.RenderPNG(&buf, charts[n-1], s.opts.ChartWidth, s.opts.ChartHeight); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

func (s *Server) buildPage(raw string) (page.Page, error) {
	id, err := page.ParseID(raw)
	if err != nil {
		return page.Page{}, echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	a, err := s.analysis()
	if err != nil {
		return page.Page{}, err
	}
	return page.Build(id, a)
}

// jobsRequest holds the lookup query parameters. Title, location and level
// may repeat or hold comma separated alternatives.
type jobsRequest struct {
	Title     []string `query:"title"`
	Location  []string `query:"location"`
	Level     []string `query:"level"`
	MinSalary float64  `query:"min_salary" validate:"gte=0"`
	MaxSalary float64  `query:"max_salary" validate:"omitempty,gte=0,gtefield=MinSalary"`
	Scope     string   `query:"scope" validate:"omitempty,oneof=eu all"`
	Limit     int      `query:"limit" validate:"gte=0,lte=1000"`
}

type jobsResponse struct {
	Scope string    `json:"scope"`
	Query string    `json:"query"`
	Total int       `json:"total"`
	Jobs  []jobView `json:"jobs"`
}

type jobView struct {
	WorkYear          int     `json:"work_year"`
	JobTitle          string  `json:"job_title"`
	JobCategory       string  `json:"job_category"`
	SalaryEUR         float64 `json:"salary_in_euro"`
	EmployeeResidence string  `json:"employee_residence"`
	ExperienceLevel   string  `json:"experience_level"`
	EmploymentType    string  `json:"employment_type"`
	WorkSetting       string  `json:"work_setting"`
	CompanyLocation   string  `json:"company_location"`
	CompanySize       string  `json:"company_size"`
}

func newJobView(j model.Job) jobView {
	return jobView{
		WorkYear:          j.WorkYear,
		JobTitle:          j.JobTitle,
		JobCategory:       j.JobCategory,
		SalaryEUR:         j.SalaryEUR,
		EmployeeResidence: j.EmployeeResidence,
		ExperienceLevel:   j.ExperienceLevel,
		EmploymentType:    j.EmploymentType,
		WorkSetting:       j.WorkSetting,
		CompanyLocation:   j.CompanyLocation,
		CompanySize:       j.CompanySize,
	}
}

func (s *Server) searchJobs(c echo.Context) error {
	var req jobsRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	a, err := s.analysis()
	if err != nil {
		return err
	}

	search := &filter.JobSearch{
		TitleKeywords: splitValues(req.Title),
		Locations:     splitValues(req.Location),
		Levels:        splitValues(req.Level),
		MinSalaryEUR:  req.MinSalary,
		MaxSalaryEUR:  req.MaxSalary,
	}
	scope, jobs := scopeJobs(a, req.Scope)
	matched := filter.Apply(jobs, search)

	limit := req.Limit
	if limit == 0 {
		limit = defaultJobLimit
	}
	resp := jobsResponse{
		Scope: scope,
		Query: search.String(),
		Total: len(matched),
		Jobs:  []jobView{},
	}
	for i, j := range matched {
		if i == limit {
			break
		}
		resp.Jobs = append(resp.Jobs, newJobView(j))
	}
	return c.JSON(http.StatusOK, resp)
}

func scopeJobs(a *dataset.Analysis, scope string) (string, []model.Job) {
	if scope == scopeAll {
		return scopeAll, a.CleanJobs
	}
	return scopeEU, a.EUJobs
}

func splitValues(params []string) []string {
	var out []string
	for _, p := range params {
		for _, v := range strings.Split(p, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
