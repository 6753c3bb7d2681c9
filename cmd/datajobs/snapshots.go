package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/amishk599/datajobs/internal/model"
	"github.com/amishk599/datajobs/internal/store"
)

var (
	importDryRun bool
	importPrune  time.Duration
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Save the cleaned dataset as a snapshot",
	Long:  "Loads the dataset, cleans it and stores every job in the SQLite snapshot database (store.path).",
	RunE:  runImport,
}

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List imported snapshots",
	RunE:  runSnapshots,
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "load and clean, but do not write anything")
	importCmd.Flags().DurationVar(&importPrune, "prune", 0, "delete snapshots older than this after importing (e.g. 720h)")
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(snapshotsCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoadConfig(logger)

	// In dry-run mode, use a NopStore so nothing is persisted.
	var snapStore model.SnapshotStore
	var sqlStore *store.SQLiteStore
	if importDryRun {
		logger.Info("dry-run mode enabled, nothing will be written")
		snapStore = store.NewNopStore()
	} else {
		var err error
		sqlStore, err = store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			logger.Error("failed to open store", "error", err)
			os.Exit(1)
		}
		defer sqlStore.Close()
		snapStore = sqlStore
	}

	a, err := loadAnalysis(cmd.Context(), cfg, logger)
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}

	snap := model.Snapshot{
		ID:         a.ID,
		Source:     a.Source,
		Rows:       len(a.CleanJobs),
		ImportedAt: a.LoadedAt,
	}
	if err := snapStore.SaveSnapshot(snap, a.CleanJobs); err != nil {
		return err
	}
	logger.Info("snapshot imported", "id", snap.ID, "rows", snap.Rows, "dry_run", importDryRun)

	if importPrune > 0 && sqlStore != nil {
		n, err := sqlStore.Cleanup(importPrune)
		if err != nil {
			return err
		}
		logger.Info("pruned old snapshots", "removed", n, "older_than", importPrune.String())
	}
	return nil
}

func runSnapshots(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	sqlStore, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	if err := requireSnapshots(sqlStore); err != nil {
		fmt.Println(err)
		return nil
	}

	snaps, err := sqlStore.ListSnapshots()
	if err != nil {
		return err
	}

	fmt.Printf("%-36s %10s  %-16s %s\n", "Snapshot", "Rows", "Imported", "Source")
	fmt.Println(strings.Repeat("─", 90))
	for _, s := range snaps {
		fmt.Printf("%-36s %10s  %-16s %s\n", s.ID, humanize.Comma(int64(s.Rows)), humanize.Time(s.ImportedAt), s.Source)
	}
	fmt.Printf("\nTotal: %d snapshots\n", len(snaps))
	return nil
}

var errNoSnapshots = errors.New("no snapshots imported, run datajobs import")

// requireSnapshots returns errNoSnapshots when nothing has been imported yet.
func requireSnapshots(s *store.SQLiteStore) error {
	empty, err := s.IsEmpty()
	if err != nil {
		return err
	}
	if empty {
		return errNoSnapshots
	}
	return nil
}
