package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"invtier/internal/classification"
	"invtier/internal/config"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths *config.Paths
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(paths *config.Paths) *CSVWriter {
	return &CSVWriter{paths: paths}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	Append    bool
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	slog.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if options.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(fullPath, flags, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	// BOM helps Excel recognize UTF-8
	if options.BOMPrefix && !options.Append {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if !options.Append && len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return writer.Error()
}

// WriteABCReport writes the labeled ABC rows as CSV
func (w *CSVWriter) WriteABCReport(filePath string, result *classification.ABCResult) error {
	records := make([][]string, len(result.Rows))
	for i, row := range result.Rows {
		records[i] = []string{
			row.SKU,
			row.Period,
			formatFloat(row.Value),
			row.Group,
			formatStat(row.CumulativePercent),
		}
	}

	return w.WriteCSV(filePath, WriteOptions{
		Headers:   abcHeaders(),
		Records:   records,
		BOMPrefix: true,
	})
}

// WriteXYZReport writes the labeled XYZ rows as CSV
func (w *CSVWriter) WriteXYZReport(filePath string, result *classification.XYZResult) error {
	records := make([][]string, len(result.Rows))
	for i, row := range result.Rows {
		records[i] = []string{
			row.SKU,
			row.Period,
			formatFloat(row.Value),
			row.Group,
			formatStat(row.CV),
			formatStat(row.XThreshold33),
			formatStat(row.YThreshold66),
		}
	}

	return w.WriteCSV(filePath, WriteOptions{
		Headers:   xyzHeaders(),
		Records:   records,
		BOMPrefix: true,
	})
}

// resolvePath resolves a relative path into the reports directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	return w.paths.GetReportPath(filePath)
}

func abcHeaders() []string {
	return []string{"SKU", "Period", "Value", "ABC_Group", "Cumulative_Percent"}
}

func xyzHeaders() []string {
	return []string{"SKU", "Period", "Value", "XYZ", "CV", "x_threshold_33", "y_threshold_66"}
}
