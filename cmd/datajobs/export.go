package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/datajobs/internal/export"
)

var (
	exportOut string
	renderOut string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the tables to an Excel workbook",
	Long:  "Writes sheets Raw, Clean, EU, Describe and Correlation to an .xlsx file.",
	RunE:  runExport,
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write every chart as a PNG image",
	Long:  "Draws every chart of every page into a directory, named <page>-<n>-<title>.png.",
	RunE:  runRender,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "datajobs.xlsx", "workbook path")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "charts", "output directory")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(renderCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoadConfig(logger)

	a, err := loadAnalysis(cmd.Context(), cfg, logger)
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}
	if err := export.SaveWorkbook(exportOut, a); err != nil {
		return err
	}
	logger.Info("workbook written", "path", exportOut, "sheets", len(export.Sheets))
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoadConfig(logger)

	a, err := loadAnalysis(cmd.Context(), cfg, logger)
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}
	paths, err := export.RenderCharts(renderOut, a, export.ChartSize{Width: cfg.Charts.Width, Height: cfg.Charts.Height})
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Println(p)
	}
	logger.Info("charts written", "dir", renderOut, "count", len(paths))
	return nil
}
