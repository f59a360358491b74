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
	cogsFile := flag.String("cogs", "cogs.xlsx", "unit cost workbook (resolved against data/input unless absolute)")
	outputFile := flag.String("out", "", "output workbook (defaults to abc_report_<date>.xlsx in data/reports)")
	csvOut := flag.Bool("csv", false, "also write the report as CSV")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
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
	costs, err := dataprocessing.LoadCOGSFile(paths.GetInputPath(*cogsFile))
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load cost workbook", "error", err)
		os.Exit(1)
	}

	records, err := dataprocessing.BuildABCInput(ctx, stock, costs)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to prepare classifier input", "error", err)
		os.Exit(1)
	}

	result, err := classification.ClassifyABC(ctx, records, cfg.ABCConfig())
	if err != nil {
		slog.ErrorContext(ctx, "ABC classification failed", "error", err)
		os.Exit(1)
	}

	outName := *outputFile
	if outName == "" {
		outName = fmt.Sprintf("abc_report_%s.xlsx", time.Now().Format("20060102"))
	}

	excelWriter := exporter.NewExcelWriter(paths)
	if err := excelWriter.WriteABCReport(outName, result); err != nil {
		slog.ErrorContext(ctx, "Failed to write report", "error", err)
		os.Exit(1)
	}

	if *csvOut {
		csvWriter := exporter.NewCSVWriter(paths)
		csvName := strings.TrimSuffix(outName, ".xlsx") + ".csv"
		if err := csvWriter.WriteABCReport(csvName, result); err != nil {
			slog.ErrorContext(ctx, "Failed to write CSV report", "error", err)
			os.Exit(1)
		}
	}

	slog.InfoContext(ctx, "ABC report generated successfully",
		"report", paths.GetReportPath(outName),
		"rows", len(result.Rows))
}
