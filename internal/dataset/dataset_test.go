package dataset

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/datajobs/internal/model"
)

func readSample(t *testing.T) dataframe.DataFrame {
	t.Helper()
	data, err := os.ReadFile("datasettest/sample.csv")
	require.NoError(t, err)
	df, err := Read(bytes.NewReader(data))
	require.NoError(t, err)
	return df
}

func TestRead_Sample(t *testing.T) {
	df := readSample(t)

	rows, cols := Shape(df)
	assert.Equal(t, 8, rows)
	assert.Equal(t, 12, cols)
	assert.Equal(t, model.RawColumns, df.Names())
	assert.Equal(t, series.Int, df.Col(model.ColWorkYear).Type())
	assert.Equal(t, series.Float, df.Col(model.ColSalaryUSD).Type())
	assert.Equal(t, series.String, df.Col(model.ColCompanySize).Type())
}

func TestRead_MissingColumn(t *testing.T) {
	csv := "work_year,job_title\n2023,Data Scientist\n"
	_, err := Read(strings.NewReader(csv))
	require.Error(t, err)

	var colErr *model.ColumnError
	require.True(t, errors.As(err, &colErr))
	assert.Contains(t, colErr.Missing, model.ColSalaryUSD)
	assert.Contains(t, colErr.Missing, model.ColCompanyLocation)
	assert.NotContains(t, colErr.Missing, model.ColJobTitle)
}

func TestRead_HeaderOnly(t *testing.T) {
	header := strings.Join(model.RawColumns, ",") + "\n"
	_, err := Read(strings.NewReader(header))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoRows)

	_, err = Build([]byte(header), Options{Source: "header.csv"})
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestClean(t *testing.T) {
	df := readSample(t)

	clean, err := Clean(df, DefaultExchangeRate)
	require.NoError(t, err)

	names := clean.Names()
	assert.Len(t, names, 10)
	assert.Equal(t, model.ColSalaryEUR, names[len(names)-1])
	assert.NotContains(t, names, model.ColSalary)
	assert.NotContains(t, names, model.ColSalaryCurrency)
	assert.NotContains(t, names, model.ColSalaryUSD)

	eur := clean.Col(model.ColSalaryEUR).Float()
	require.Len(t, eur, 8)
	assert.InDelta(t, 92000.0, eur[0], 1e-6)
	assert.InDelta(t, 138000.0, eur[1], 1e-6)
	assert.InDelta(t, 46000.0, eur[2], 1e-6)
}

func TestClean_RejectsBadRate(t *testing.T) {
	df := readSample(t)
	for _, rate := range []float64{0, -1} {
		_, err := Clean(df, rate)
		assert.Error(t, err, "rate %v", rate)
	}
}

func TestClean_RequiresSalaryColumns(t *testing.T) {
	df := readSample(t).Drop([]string{model.ColSalaryCurrency})
	require.NoError(t, df.Err)

	_, err := Clean(df, DefaultExchangeRate)
	var colErr *model.ColumnError
	require.True(t, errors.As(err, &colErr))
	assert.Equal(t, []string{model.ColSalaryCurrency}, colErr.Missing)
}

func TestFilterCountries_EU(t *testing.T) {
	clean, err := Clean(readSample(t), DefaultExchangeRate)
	require.NoError(t, err)

	eu, err := FilterCountries(clean, EUCountries)
	require.NoError(t, err)

	assert.Equal(t, 5, eu.Nrow())
	for _, loc := range eu.Col(model.ColCompanyLocation).Records() {
		assert.Contains(t, EUCountries, loc)
	}
}

func TestFilterCountries_EmptyList(t *testing.T) {
	clean, err := Clean(readSample(t), DefaultExchangeRate)
	require.NoError(t, err)

	out, err := FilterCountries(clean, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Nrow())
	assert.Equal(t, clean.Ncol(), out.Ncol())
}

func TestEUCountries(t *testing.T) {
	assert.Len(t, EUCountries, 27)
	seen := make(map[string]bool)
	for _, c := range EUCountries {
		assert.False(t, seen[c], "duplicate %s", c)
		seen[c] = true
	}
}

func TestValueCounts(t *testing.T) {
	df := readSample(t)

	counts, err := ValueCounts(df, model.ColJobTitle)
	require.NoError(t, err)
	assert.Equal(t, []Count{
		{Label: "Data Scientist", Count: 3},
		{Label: "Data Analyst", Count: 2},
		{Label: "Data Engineer", Count: 2},
		{Label: "Machine Learning Engineer", Count: 1},
	}, counts)

	assert.Len(t, TopN(counts, 2), 2)
	assert.Len(t, TopN(counts, 10), 4)
}

func TestValueCountsByLabel_NumericOrder(t *testing.T) {
	df := readSample(t)

	counts, err := ValueCountsByLabel(df, model.ColWorkYear)
	require.NoError(t, err)
	assert.Equal(t, []Count{
		{Label: "2021", Count: 1},
		{Label: "2022", Count: 3},
		{Label: "2023", Count: 4},
	}, counts)
}

func TestValueCounts_UnknownColumn(t *testing.T) {
	_, err := ValueCounts(readSample(t), "nope")
	var colErr *model.ColumnError
	assert.True(t, errors.As(err, &colErr))
}

func TestMeanBy(t *testing.T) {
	df := readSample(t)

	means, err := MeanBy(df, model.ColWorkYear, model.ColSalaryUSD)
	require.NoError(t, err)
	require.Len(t, means, 3)
	assert.Equal(t, "2021", means[0].Label)
	assert.InDelta(t, 60000.0, means[0].Mean, 1e-9)
	assert.Equal(t, "2022", means[1].Label)
	assert.InDelta(t, 75000.0, means[1].Mean, 1e-9)
	assert.Equal(t, 3, means[1].Count)
	assert.Equal(t, "2023", means[2].Label)
	assert.InDelta(t, 107500.0, means[2].Mean, 1e-9)
}

func TestMinMax(t *testing.T) {
	lo, hi, err := MinMax(readSample(t), model.ColSalaryUSD)
	require.NoError(t, err)
	assert.Equal(t, 50000.0, lo)
	assert.Equal(t, 150000.0, hi)
}

func TestMissingCounts(t *testing.T) {
	csv := strings.Join(model.RawColumns, ",") + "\n" +
		"2023,Data Scientist,,EUR,90000,100000,Germany,Senior,Full-time,Hybrid,Germany,M\n" +
		"2023,Data Engineer,Data Engineering,USD,150000,NA,United States,Senior,Full-time,Remote,United States,L\n"
	df, err := Read(strings.NewReader(csv))
	require.NoError(t, err)

	counts := MissingCounts(df)
	require.Len(t, counts, 12)
	byName := make(map[string]int)
	for _, c := range counts {
		byName[c.Label] = c.Count
	}
	assert.Equal(t, 1, byName[model.ColJobCategory])
	assert.Equal(t, 1, byName[model.ColSalaryUSD])
	assert.Equal(t, 0, byName[model.ColJobTitle])

	clean, err := Clean(df, DefaultExchangeRate)
	require.NoError(t, err)
	jobs := Jobs(clean)
	assert.Equal(t, 0.0, jobs[1].SalaryEUR)
	assert.Equal(t, "", jobs[0].JobCategory)
}

func TestDescribe(t *testing.T) {
	summaries := Describe(readSample(t))
	require.Len(t, summaries, 12)

	byName := make(map[string]ColumnSummary)
	for _, s := range summaries {
		byName[s.Name] = s
	}

	usd := byName[model.ColSalaryUSD]
	assert.True(t, usd.Numeric)
	assert.Equal(t, 8, usd.Count)
	assert.InDelta(t, 89375.0, usd.Mean, 1e-9)
	assert.Equal(t, 50000.0, usd.Min)
	assert.Equal(t, 150000.0, usd.Max)

	title := byName[model.ColJobTitle]
	assert.False(t, title.Numeric)
	assert.Equal(t, 4, title.Unique)
	assert.Equal(t, "Data Scientist", title.Top)
	assert.Equal(t, 3, title.Freq)
}

func TestInfo(t *testing.T) {
	info := Info(readSample(t))
	assert.Contains(t, info, "8 entries")
	assert.Contains(t, info, "total 12 columns")
	assert.Contains(t, info, model.ColCompanyLocation)
	assert.Contains(t, info, "8 non-null")
}

func TestHeadAndRows(t *testing.T) {
	clean, err := Clean(readSample(t), DefaultExchangeRate)
	require.NoError(t, err)

	head := Head(clean, 5)
	assert.Equal(t, 5, head.Nrow())
	assert.Equal(t, clean.Nrow(), Head(clean, 100).Nrow())

	header, rows := Rows(clean, 2)
	assert.Equal(t, clean.Names(), header)
	require.Len(t, rows, 2)
	assert.Equal(t, "2023", rows[0][0])
	assert.Equal(t, "92000", rows[0][len(header)-1])
}

func TestFormatFloat(t *testing.T) {
	tests := map[float64]string{
		92000:    "92000",
		1234.5:   "1234.5",
		0.123456: "0.12",
		-3.1:     "-3.1",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatFloat(in))
	}
}

func TestJobs(t *testing.T) {
	clean, err := Clean(readSample(t), DefaultExchangeRate)
	require.NoError(t, err)

	jobs := Jobs(clean)
	require.Len(t, jobs, 8)
	first := jobs[0]
	assert.Equal(t, 2023, first.WorkYear)
	assert.Equal(t, "Data Scientist", first.JobTitle)
	assert.Equal(t, "Germany", first.CompanyLocation)
	assert.Equal(t, "Senior", first.ExperienceLevel)
	assert.InDelta(t, 92000.0, first.SalaryEUR, 1e-6)
	assert.Zero(t, first.SalaryUSD)
	assert.Empty(t, first.SalaryCurrency)
}

func TestEncodeAndCorrelation(t *testing.T) {
	df := dataframe.New(
		series.New([]float64{1, 2, 3, 4}, series.Float, "x"),
		series.New([]float64{2, 4, 6, 8}, series.Float, "y"),
		series.New([]float64{5, 5, 5, 5}, series.Float, "c"),
		series.New([]string{"b", "a", "b", "a"}, series.String, "s"),
	)
	require.NoError(t, df.Err)

	enc := Encode(df)
	assert.Equal(t, []string{"a", "b"}, enc.Codes["s"])
	assert.Equal(t, []float64{1, 0, 1, 0}, enc.Columns[3])

	m := CorrelationMatrix(df)
	require.Len(t, m.Values, 4)
	for i := range m.Values {
		assert.Equal(t, 1.0, m.Values[i][i])
		for j := range m.Values {
			assert.Equal(t, m.Values[i][j], m.Values[j][i])
		}
	}

	r, err := m.At("x", "y")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r, 1e-9)

	r, err = m.At("x", "c")
	require.NoError(t, err)
	assert.Equal(t, 0.0, r)

	_, err = m.At("x", "nope")
	assert.Error(t, err)

	pairs, err := m.StrongestWith("x", 2)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "y", pairs[0].Name)
}

func TestBuild(t *testing.T) {
	data, err := os.ReadFile("datasettest/sample.csv")
	require.NoError(t, err)

	a, err := Build(data, Options{Source: "sample"})
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, DefaultExchangeRate, a.ExchangeRate)
	assert.Equal(t, 8, a.Raw.Nrow())
	assert.Equal(t, 8, a.Clean.Nrow())
	assert.Equal(t, 5, a.EU.Nrow())
	assert.Len(t, a.CleanJobs, 8)
	assert.Len(t, a.EUJobs, 5)
	assert.Equal(t, a.Clean.Names(), a.Correlation.Names)
}

func TestBuild_CustomCountries(t *testing.T) {
	data, err := os.ReadFile("datasettest/sample.csv")
	require.NoError(t, err)

	a, err := Build(data, Options{Countries: []string{"Canada"}, ExchangeRate: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, a.EU.Nrow())
	assert.InDelta(t, 80000.0, a.EUJobs[0].SalaryEUR, 1e-9)
}

func TestBuild_Empty(t *testing.T) {
	_, err := Build([]byte("  \n"), Options{Source: "empty.csv"})
	assert.Error(t, err)
}
