package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/datajobs/internal/dashboard"
	"github.com/amishk599/datajobs/internal/page"
)

var (
	showRows     int
	showWidth    int
	showNoCharts bool
)

var showCmd = &cobra.Command{
	Use:       "show <page>",
	Short:     "Print a page to stdout",
	Long:      "Prints one page (explore, clean, plots, models or readme) with text charts.",
	Args:      cobra.ExactArgs(1),
	ValidArgs: pageArgs(),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := page.ParseID(args[0])
		if err != nil {
			return err
		}
		return runShow(cmd, id)
	},
}

func init() {
	addShowFlags(showCmd)
	rootCmd.AddCommand(showCmd)

	// One shortcut per page: "datajobs explore" is "datajobs show explore".
	for _, id := range page.All {
		id := id
		c := &cobra.Command{
			Use:   string(id),
			Short: fmt.Sprintf("Print the %q page", id.Title()),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runShow(cmd, id)
			},
		}
		addShowFlags(c)
		rootCmd.AddCommand(c)
	}
}

func addShowFlags(c *cobra.Command) {
	c.Flags().IntVar(&showRows, "rows", 20, "rows per table, 0 prints every row")
	c.Flags().IntVar(&showWidth, "width", 100, "output width in columns")
	c.Flags().BoolVar(&showNoCharts, "no-charts", false, "skip text charts")
}

func pageArgs() []string {
	out := make([]string, len(page.All))
	for i, id := range page.All {
		out[i] = string(id)
	}
	return out
}

func runShow(cmd *cobra.Command, id page.ID) error {
	logger := setupQuietLogger(debug)
	cfg := mustLoadConfig(logger)

	a, err := loadAnalysis(cmd.Context(), cfg, logger)
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}

	p, err := page.Build(id, a)
	if err != nil {
		return err
	}
	fmt.Println(page.Header)
	fmt.Println()
	fmt.Print(dashboard.RenderPage(p, dashboard.RenderOptions{
		Width:     showWidth,
		TableRows: showRows,
		Charts:    !showNoCharts,
	}))
	return nil
}
