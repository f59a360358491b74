package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"invtier/internal/classification"
	"invtier/internal/config"
	"invtier/internal/dataprocessing"
	"invtier/internal/exporter"
	"invtier/internal/infrastructure"
)

func main() {
	stockFile := flag.String("stock", "stock.xlsx", "stock workbook (resolved against data/input unless absolute)")
	outputFile := flag.String("out", "", "output workbook (defaults to xyz_report_<date>.xlsx in data/reports)")
	mode := flag.String("mode", "", "densification mode: dense or sparse (overrides config)")
	csvOut := flag.Bool("csv", false, "also write the report as CSV")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *mode != "" {
		cfg.Analysis.XYZMode = *mode
		if err := cfg.Validate(); err != nil {
			slog.Error("Invalid mode override", "error", err)
			os.Exit(1)
		}
	}

	infrastructure.MustInitializeLogger(cfg.Logging)
	defer infrastructure.CloseLogFile()

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		slog.Error("Failed to resolve paths", "error", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create directories", "error", err)
		os.Exit(1)
	}

	ctx := infrastructure.NewRunContext(context.Background())

	stock, err := dataprocessing.LoadStockFile(paths.GetInputPath(*stockFile))
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load stock workbook", "error", err)
		os.Exit(1)
	}

	records, err := dataprocessing.BuildXYZInput(ctx, stock)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to prepare classifier input", "error", err)
		os.Exit(1)
	}

	result, err := classification.ClassifyXYZ(ctx, records, cfg.XYZConfig())
	if err != nil {
		slog.ErrorContext(ctx, "XYZ classification failed", "error", err)
		os.Exit(1)
	}

	outName := *outputFile
	if outName == "" {
		outName = fmt.Sprintf("xyz_report_%s.xlsx", time.Now().Format("20060102"))
	}

	excelWriter := exporter.NewExcelWriter(paths)
	if err := excelWriter.WriteXYZReport(outName, result); err != nil {
		slog.ErrorContext(ctx, "Failed to write report", "error", err)
		os.Exit(1)
	}

	if *csvOut {
		csvWriter := exporter.NewCSVWriter(paths)
		csvName := strings.TrimSuffix(outName, ".xlsx") + ".csv"
		if err := csvWriter.WriteXYZReport(csvName, result); err != nil {
			slog.ErrorContext(ctx, "Failed to write CSV report", "error", err)
			os.Exit(1)
		}
	}

	slog.InfoContext(ctx, "XYZ report generated successfully",
		"report", paths.GetReportPath(outName),
		"rows", len(result.Rows),
		"x_threshold", result.XThreshold33,
		"y_threshold", result.YThreshold66)
}
