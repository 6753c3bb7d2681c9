package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/datajobs/internal/config"
	"github.com/amishk599/datajobs/internal/dataset"
	"github.com/amishk599/datajobs/internal/notifier"
	"github.com/amishk599/datajobs/internal/reload"
	"github.com/amishk599/datajobs/internal/source"
)

const (
	defaultConfigPath = "config.yaml"
	loadTimeout       = 2 * time.Minute
)

var (
	cfgPath  string
	debug    bool
	dataPath string
)

var rootCmd = &cobra.Command{
	Use:   "datajobs",
	Short: "Jobs and salaries in data science",
	Long:  "datajobs explores the Kaggle \"Jobs in Data\" dataset: summary pages, charts, an EU job lookup and exports.",
	// With no subcommand, open the dashboard.
	RunE:          runDashboard,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: DATAJOBS_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "dataset file or URL, overrides dataset.path")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > DATAJOBS_CONFIG env var > "./config.yaml".
// A missing ./config.yaml yields the defaults.
func loadConfig(path string) (*config.Config, error) {
	explicit := true
	if path == "" {
		if env := os.Getenv("DATAJOBS_CONFIG"); env != "" {
			path = env
		} else {
			path = defaultConfigPath
			explicit = false
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			cfg = config.Default()
		} else {
			return nil, err
		}
	}
	if dataPath != "" {
		cfg.Dataset.Path = dataPath
	}
	return cfg, nil
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

// setupQuietLogger is for commands whose stdout is their result: only
// warnings and errors are logged unless --debug is set.
func setupQuietLogger(dbg bool) *slog.Logger {
	if dbg {
		return setupLogger(true)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mustLoadConfig loads the config or exits.
func mustLoadConfig(logger *slog.Logger) *config.Config {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	return cfg
}

func newLoader(cfg *config.Config, logger *slog.Logger) *reload.Loader {
	src := source.New(cfg.Dataset, logger)
	loader := reload.NewLoader(src, dataset.Options{
		Source:       cfg.Dataset.Path,
		ExchangeRate: cfg.Dataset.ExchangeRate,
		Countries:    cfg.Dataset.Countries,
	}, logger)
	loader.OnChange(notifier.NewLogNotifier(logger).Notify)
	return loader
}

// loadAnalysis fetches and analyses the dataset once.
func loadAnalysis(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dataset.Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	loader := newLoader(cfg, logger)
	if _, err := loader.Load(ctx); err != nil {
		return nil, err
	}
	a := loader.Current()
	if a == nil {
		return nil, fmt.Errorf("dataset %s produced no analysis", cfg.Dataset.Path)
	}
	return a, nil
}
