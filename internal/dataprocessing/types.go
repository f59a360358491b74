package dataprocessing

import "time"

// StockRow is one data row of the stock workbook after header mapping.
// RawStock keeps the original cell text; numeric coercion happens in
// the transforms because the two pipelines coerce differently.
type StockRow struct {
	SKU      string
	Date     time.Time
	RawStock string
}

// CostTable maps SKU to unit cost (COGS). Built by LoadCOGSFile;
// consumed by BuildABCInput as the left-join source.
type CostTable map[string]float64
