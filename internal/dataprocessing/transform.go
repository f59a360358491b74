package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"

	"invtier/internal/classification"
)

// periodLayout is the reporting period derived from the date column,
// one bucket per calendar month.
const periodLayout = "2006-01"

// BuildABCInput converts stock rows into classifier records valued at
// unit cost. Stock quantities parse strictly: a non-numeric cell aborts
// the build with a TypeConversionError. SKUs absent from the cost table
// join with a cost of 0 and are reported in the log.
func BuildABCInput(ctx context.Context, stock []StockRow, costs CostTable) ([]classification.InventoryRecord, error) {
	records := make([]classification.InventoryRecord, 0, len(stock))
	missingCost := make(map[string]bool)

	for i, row := range stock {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("abc input build cancelled: %w", err)
		}

		quantity, err := parseNumericCell(row.RawStock)
		if err != nil {
			return nil, &classification.TypeConversionError{Column: columnStock, Row: i + 1, Value: row.RawStock}
		}

		cost, ok := costs[row.SKU]
		if !ok {
			missingCost[row.SKU] = true
		}

		records = append(records, classification.InventoryRecord{
			SKU:    row.SKU,
			Period: row.Date.Format(periodLayout),
			Value:  quantity * cost,
		})
	}

	if len(missingCost) > 0 {
		slog.WarnContext(ctx, "SKUs without cost entries valued at 0",
			"count", len(missingCost))
	}
	slog.InfoContext(ctx, "built abc classifier input", "records", len(records))
	return records, nil
}

// BuildXYZInput converts stock rows into classifier records keyed on
// raw stock quantity. Unparseable quantity cells coerce to 0 with a
// warning instead of aborting, so one bad cell does not sink the
// stability analysis.
func BuildXYZInput(ctx context.Context, stock []StockRow) ([]classification.InventoryRecord, error) {
	records := make([]classification.InventoryRecord, 0, len(stock))
	coerced := 0

	for i, row := range stock {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("xyz input build cancelled: %w", err)
		}

		quantity, err := parseNumericCell(row.RawStock)
		if err != nil {
			slog.WarnContext(ctx, "non-numeric stock cell coerced to 0",
				"sku", row.SKU, "row", i+1, "value", row.RawStock)
			quantity = 0
			coerced++
		}

		records = append(records, classification.InventoryRecord{
			SKU:    row.SKU,
			Period: row.Date.Format(periodLayout),
			Value:  quantity,
		})
	}

	if coerced > 0 {
		slog.WarnContext(ctx, "coerced non-numeric stock cells", "count", coerced)
	}
	slog.InfoContext(ctx, "built xyz classifier input", "records", len(records))
	return records, nil
}
