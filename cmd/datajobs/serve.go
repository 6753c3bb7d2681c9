package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/datajobs/internal/scheduler"
	"github.com/amishk599/datajobs/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	Long:  "Starts the HTTP dashboard; blocks until SIGINT/SIGTERM. The dataset is reloaded every dataset.refresh_interval when set.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address, overrides server.address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoadConfig(logger)
	if serveAddr != "" {
		cfg.Server.Address = serveAddr
	}

	logger.Info("config loaded",
		"dataset", cfg.Dataset.Path,
		"address", cfg.Server.Address,
		"refresh_interval", cfg.Dataset.RefreshInterval.String(),
	)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	loader := newLoader(cfg, logger)
	if cfg.Dataset.RefreshInterval > 0 {
		sched := scheduler.NewScheduler(loader, cfg.Dataset.RefreshInterval, logger)
		go func() {
			if err := sched.Run(ctx); err != nil {
				logger.Error("scheduler error", "error", err)
			}
		}()
	} else {
		loadCtx, cancelLoad := context.WithTimeout(ctx, loadTimeout)
		_, err := loader.Load(loadCtx)
		cancelLoad()
		if err != nil {
			logger.Error("failed to load dataset", "error", err)
			os.Exit(1)
		}
	}

	srv := server.New(loader, server.Options{
		Address:     cfg.Server.Address,
		ChartWidth:  cfg.Charts.Width,
		ChartHeight: cfg.Charts.Height,
		TableRows:   cfg.Dashboard.TableRows,
	}, logger)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
