// Package exporter writes classification results to report files.
//
// Two output formats are supported. Excel workbooks carry the labeled
// row data on named sheets (ABC_Result, XYZ_Analysis) matching the
// layout analysts already consume, and CSV mirrors the same columns
// for downstream tooling. Relative output paths resolve into the
// configured reports directory.
package exporter
