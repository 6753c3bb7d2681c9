package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/datajobs/internal/dashboard"
	"github.com/amishk599/datajobs/internal/model"
	"github.com/amishk599/datajobs/internal/state"
	"github.com/amishk599/datajobs/internal/watch"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the interactive dashboard (TUI)",
	Long:  "Shows the page menu and the selected page; / opens the job lookup. This is the default command.",
	RunE:  runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoadConfig(logger)

	var st model.StateStore
	boltStore, err := state.Open(cfg.State.Path)
	if err != nil {
		logger.Warn("state file unavailable, not remembering this session", "path", cfg.State.Path, "error", err)
		st = &state.MemoryStore{}
	} else {
		defer boltStore.Close()
		st = boltStore
	}

	// Everything below runs while the alt screen is active, and log output
	// would corrupt the display.
	silentLogger := discardLogger()
	loader := newLoader(cfg, silentLogger)

	var watcher *watch.FileWatcher
	if cfg.Dashboard.Watch && !cfg.Dataset.IsRemote() {
		watcher, err = watch.NewFileWatcher(cfg.Dataset.Path, watch.DefaultDebounce, silentLogger)
		if err != nil {
			logger.Warn("live reload disabled", "error", err)
			watcher = nil
		}
	}

	opts := dashboard.Options{
		GateCharts: cfg.Dashboard.GateCharts,
		TableRows:  cfg.Dashboard.TableRows,
	}
	if err := dashboard.Run(loader, st, opts, watcher); err != nil {
		fmt.Fprintf(os.Stderr, "dashboard error: %v\n", err)
		os.Exit(1)
	}
	return nil
}
