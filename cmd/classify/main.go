// Command classify runs both inventory classifications in one pass:
// ABC value tiers and XYZ stability tiers from the same stock
// workbook, written to a single pair of reports.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"invtier/internal/classification"
	"invtier/internal/config"
	"invtier/internal/dataprocessing"
	"invtier/internal/exporter"
	"invtier/internal/infrastructure"
)

func main() {
	stockFile := flag.String("stock", "stock.xlsx", "stock workbook (resolved against data/input unless absolute)")
	cogsFile := flag.String("cogs", "cogs.xlsx", "unit cost workbook (resolved against data/input unless absolute)")
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

	// The two classifications are independent; run them concurrently
	var (
		abcResult *classification.ABCResult
		xyzResult *classification.XYZResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := dataprocessing.BuildABCInput(gctx, stock, costs)
		if err != nil {
			return fmt.Errorf("abc input: %w", err)
		}
		abcResult, err = classification.ClassifyABC(gctx, records, cfg.ABCConfig())
		if err != nil {
			return fmt.Errorf("abc classification: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		records, err := dataprocessing.BuildXYZInput(gctx, stock)
		if err != nil {
			return fmt.Errorf("xyz input: %w", err)
		}
		xyzResult, err = classification.ClassifyXYZ(gctx, records, cfg.XYZConfig())
		if err != nil {
			return fmt.Errorf("xyz classification: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		slog.ErrorContext(ctx, "Classification failed", "error", err)
		os.Exit(1)
	}

	timestamp := time.Now().Format("20060102")
	writer := exporter.NewExcelWriter(paths)

	abcName := fmt.Sprintf("abc_report_%s.xlsx", timestamp)
	if err := writer.WriteABCReport(abcName, abcResult); err != nil {
		slog.ErrorContext(ctx, "Failed to write ABC report", "error", err)
		os.Exit(1)
	}
	xyzName := fmt.Sprintf("xyz_report_%s.xlsx", timestamp)
	if err := writer.WriteXYZReport(xyzName, xyzResult); err != nil {
		slog.ErrorContext(ctx, "Failed to write XYZ report", "error", err)
		os.Exit(1)
	}

	slog.InfoContext(ctx, "Classification reports generated successfully",
		"abc_report", paths.GetReportPath(abcName),
		"xyz_report", paths.GetReportPath(xyzName),
		"abc_rows", len(abcResult.Rows),
		"xyz_rows", len(xyzResult.Rows))
}
