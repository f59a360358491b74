package exporter

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"invtier/internal/classification"
	"invtier/internal/config"
)

// Sheet names in the report workbooks
const (
	abcSheetName = "ABC_Result"
	xyzSheetName = "XYZ_Analysis"
)

// ExcelWriter writes classification results as xlsx workbooks
type ExcelWriter struct {
	paths *config.Paths
}

// NewExcelWriter creates a new Excel writer instance
func NewExcelWriter(paths *config.Paths) *ExcelWriter {
	return &ExcelWriter{paths: paths}
}

// WriteABCReport writes the labeled ABC rows to the ABC_Result sheet
func (w *ExcelWriter) WriteABCReport(filePath string, result *classification.ABCResult) error {
	rows := make([][]interface{}, len(result.Rows))
	for i, row := range result.Rows {
		rows[i] = []interface{}{
			row.SKU,
			row.Period,
			row.Value,
			row.Group,
			row.CumulativePercent,
		}
	}

	return w.writeSheet(filePath, abcSheetName, toInterfaceRow(abcHeaders()), rows)
}

// WriteXYZReport writes the labeled XYZ rows to the XYZ_Analysis sheet
func (w *ExcelWriter) WriteXYZReport(filePath string, result *classification.XYZResult) error {
	rows := make([][]interface{}, len(result.Rows))
	for i, row := range result.Rows {
		rows[i] = []interface{}{
			row.SKU,
			row.Period,
			row.Value,
			row.Group,
			excelCell(row.CV),
			excelCell(row.XThreshold33),
			excelCell(row.YThreshold66),
		}
	}

	return w.writeSheet(filePath, xyzSheetName, toInterfaceRow(xyzHeaders()), rows)
}

// writeSheet creates a workbook with a single named sheet and streams
// the header plus data rows into it
func (w *ExcelWriter) writeSheet(filePath, sheetName string, headers []interface{}, rows [][]interface{}) error {
	fullPath := w.resolvePath(filePath)

	slog.Info("Writing Excel report",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.String("sheet", sheetName),
		slog.Int("record_count", len(rows)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	if err := sw.SetRow("A1", headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell for row %d: %w", i, err)
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush stream writer: %w", err)
	}
	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (w *ExcelWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	return w.paths.GetReportPath(filePath)
}

// excelCell converts an undefined statistic (NaN) to an empty cell
func excelCell(f float64) interface{} {
	if math.IsNaN(f) {
		return ""
	}
	return f
}

func toInterfaceRow(cells []string) []interface{} {
	row := make([]interface{}, len(cells))
	for i, cell := range cells {
		row[i] = cell
	}
	return row
}
