// Package dataprocessing loads inventory workbooks and prepares the
// classifier inputs.
//
// The loaders read Excel files with excelize, locate the header row,
// and map columns by name so the column order in the workbook does not
// matter. The transforms derive the reporting period ("YYYY-MM") from
// the date column, join unit costs onto stock rows, and produce the
// []classification.InventoryRecord slices the classifiers consume.
//
// Numeric coercion differs by pipeline, matching the classifier
// contracts: the ABC input is strict (a non-numeric stock or cost cell
// aborts the run with a TypeConversionError), while the XYZ input
// coerces unparseable cells to 0.0 with a logged warning.
package dataprocessing
