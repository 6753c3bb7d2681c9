package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/amishk599/datajobs/internal/dataset"
	"github.com/amishk599/datajobs/internal/filter"
	"github.com/amishk599/datajobs/internal/model"
	"github.com/amishk599/datajobs/internal/store"
)

var (
	searchAll      bool
	searchLimit    int
	searchSnapshot string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Look up jobs",
	Long: `Look up jobs in the EU subset (or every country with --all).

Query terms: title:<word> loc:<country> level:<level> min:<eur> max:<eur>.
Values may be quoted and hold comma separated alternatives, e.g.
  datajobs search title:engineer loc:Germany,France min:60000

With --snapshot the lookup runs against an imported snapshot instead of the
dataset file ("latest" for the newest one).`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchAll, "all", false, "search every country, not just the EU")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 50, "maximum rows to print, 0 prints every match")
	searchCmd.Flags().StringVar(&searchSnapshot, "snapshot", "", "search an imported snapshot id (or \"latest\")")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	logger := setupQuietLogger(debug)
	cfg := mustLoadConfig(logger)

	search, err := filter.ParseQuery(strings.Join(args, " "))
	if err != nil {
		return err
	}

	var matched []model.Job
	scope := "EU"
	if searchAll {
		scope = "all countries"
	}

	if searchSnapshot != "" {
		sqlStore, err := store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			logger.Error("failed to open store", "error", err)
			os.Exit(1)
		}
		defer sqlStore.Close()
		if err := requireSnapshots(sqlStore); err != nil {
			return err
		}

		id := searchSnapshot
		if id == "latest" {
			id = ""
		}
		// Snapshots hold the cleaned table; the EU scope is applied here.
		matched, err = sqlStore.SearchJobs(id, search.Query(0))
		if err != nil {
			return err
		}
		if !searchAll {
			matched = filter.Apply(matched, euFilter(cfg.Dataset.Countries))
		}
		scope += ", snapshot " + searchSnapshot
	} else {
		a, err := loadAnalysis(cmd.Context(), cfg, logger)
		if err != nil {
			logger.Error("failed to load dataset", "error", err)
			os.Exit(1)
		}
		jobs := a.EUJobs
		if searchAll {
			jobs = a.CleanJobs
		}
		matched = filter.Apply(jobs, search)
	}

	printJobs(matched, searchLimit)
	fmt.Printf("\n%d matching jobs (%s)\n", len(matched), scope)
	return nil
}

func euFilter(countries []string) model.JobFilter {
	if countries == nil {
		countries = dataset.EUCountries
	}
	return countryFilter(countries)
}

// countryFilter matches company locations exactly, like the EU subset.
type countryFilter []string

func (c countryFilter) Match(job model.Job) bool {
	for _, country := range c {
		if job.CompanyLocation == country {
			return true
		}
	}
	return false
}

func printJobs(jobs []model.Job, limit int) {
	fmt.Printf("%-6s %-40s %-20s %-12s %12s\n", "Year", "Title", "Location", "Level", "EUR")
	fmt.Println(strings.Repeat("─", 94))
	for i, j := range jobs {
		if limit > 0 && i == limit {
			fmt.Printf("... %d more\n", len(jobs)-limit)
			break
		}
		fmt.Printf("%-6d %-40s %-20s %-12s %12s\n",
			j.WorkYear, clip(j.JobTitle, 40), clip(j.CompanyLocation, 20), clip(j.ExperienceLevel, 12),
			humanize.Comma(int64(j.SalaryEUR+0.5)))
	}
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
