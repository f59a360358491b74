package dataprocessing

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"invtier/internal/classification"
)

// Column names recognized in the workbooks. Matching is
// case-insensitive on trimmed header cells.
const (
	columnSKU   = "SKU"
	columnDate  = "Date"
	columnStock = "Stock"
	columnValue = "Value"
	columnCOGS  = "COGS"
)

// LoadStockFile reads the stock workbook and returns its data rows.
// The workbook must carry SKU, Date and Stock columns; a pre-derived
// Value column is accepted in place of Stock. A missing column is a
// SchemaError naming every absent column.
func LoadStockFile(filePath string) ([]StockRow, error) {
	rows, err := readSheet(filePath)
	if err != nil {
		return nil, err
	}

	headerRow, columns := mapColumns(rows)
	if headerRow == -1 {
		return nil, &classification.SchemaError{Missing: []string{columnSKU, columnDate, columnStock}}
	}

	// Value substitutes for Stock (already-prepared workbooks)
	stockCol, hasStock := columns[columnStock]
	if !hasStock {
		stockCol, hasStock = columns[columnValue]
	}

	var missing []string
	skuCol, hasSKU := columns[columnSKU]
	dateCol, hasDate := columns[columnDate]
	if !hasSKU {
		missing = append(missing, columnSKU)
	}
	if !hasDate {
		missing = append(missing, columnDate)
	}
	if !hasStock {
		missing = append(missing, columnStock)
	}
	if len(missing) > 0 {
		return nil, &classification.SchemaError{Missing: missing}
	}

	var stock []StockRow
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		sku := cellAt(row, skuCol)
		if sku == "" {
			slog.Warn("skipping row with empty SKU", "file", filePath, "row", i+1)
			continue
		}

		date, err := parseDateCell(cellAt(row, dateCol))
		if err != nil {
			return nil, fmt.Errorf("parse date (row %d): %w", i+1, err)
		}

		stock = append(stock, StockRow{
			SKU:      sku,
			Date:     date,
			RawStock: cellAt(row, stockCol),
		})
	}

	slog.Info("loaded stock workbook", "file", filePath, "rows", len(stock))
	return stock, nil
}

// LoadCOGSFile reads the cost workbook into a SKU -> unit cost table.
// Cost cells parse strictly; duplicate SKUs keep the first entry.
func LoadCOGSFile(filePath string) (CostTable, error) {
	rows, err := readSheet(filePath)
	if err != nil {
		return nil, err
	}

	headerRow, columns := mapColumns(rows)
	if headerRow == -1 {
		return nil, &classification.SchemaError{Missing: []string{columnSKU, columnCOGS}}
	}

	var missing []string
	skuCol, hasSKU := columns[columnSKU]
	cogsCol, hasCOGS := columns[columnCOGS]
	if !hasSKU {
		missing = append(missing, columnSKU)
	}
	if !hasCOGS {
		missing = append(missing, columnCOGS)
	}
	if len(missing) > 0 {
		return nil, &classification.SchemaError{Missing: missing}
	}

	costs := make(CostTable)
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		sku := cellAt(row, skuCol)
		if sku == "" {
			continue
		}
		if _, exists := costs[sku]; exists {
			slog.Warn("duplicate SKU in cost workbook, keeping first entry", "file", filePath, "sku", sku, "row", i+1)
			continue
		}

		cost, err := parseNumericCell(cellAt(row, cogsCol))
		if err != nil {
			return nil, &classification.TypeConversionError{Column: columnCOGS, Row: i + 1, Value: cellAt(row, cogsCol)}
		}
		costs[sku] = cost
	}

	slog.Info("loaded cost workbook", "file", filePath, "skus", len(costs))
	return costs, nil
}

// readSheet opens a workbook and returns the rows of its first sheet
func readSheet(filePath string) ([][]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", filePath, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", filePath)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// mapColumns locates the header row and maps recognized column names
// to their positions. Returns -1 when no row carries a recognized name.
func mapColumns(rows [][]string) (int, map[string]int) {
	known := []string{columnSKU, columnDate, columnStock, columnValue, columnCOGS}

	for i, row := range rows {
		columns := make(map[string]int)
		for j, cell := range row {
			header := strings.TrimSpace(cell)
			for _, name := range known {
				if strings.EqualFold(header, name) {
					if _, taken := columns[name]; !taken {
						columns[name] = j
					}
				}
			}
		}
		if len(columns) > 0 {
			return i, columns
		}
	}

	return -1, nil
}

// cellAt returns the trimmed cell at index, tolerating short rows
// (excelize drops trailing empty cells)
func cellAt(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseDateCell parses a date cell, accepting common text formats and
// Excel serial numbers
func parseDateCell(cell string) (time.Time, error) {
	if cell == "" {
		return time.Time{}, fmt.Errorf("empty date cell")
	}

	formats := []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
		"01/02/2006",
		"2006/01/02",
		"01-02-06",
		"Jan 2, 2006",
	}
	for _, format := range formats {
		if date, err := time.Parse(format, cell); err == nil {
			return date, nil
		}
	}

	// Unformatted date cells surface as Excel serial numbers
	if serial, err := strconv.ParseFloat(cell, 64); err == nil {
		if date, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return date, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", cell)
}

// parseNumericCell parses a numeric cell, stripping thousands
// separators. Empty cells count as 0 (nulls are treated as no value).
func parseNumericCell(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64)
}
