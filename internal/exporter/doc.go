// Package exporter persists pipeline outputs.
//
// This package contains three main components:
//
// CSVWriter: core CSV writing with headers, append mode, and an optional
// UTF-8 BOM for Excel compatibility.
//
// JSONWriter: indented JSON documents for table sets and the executive
// analysis summary.
//
// TableSetExporter: the analysis table set in every shipped format, CSV
// per table, one JSON document, and an Excel workbook with a sheet per
// table.
//
// Example usage:
//
//	exp := exporter.NewTableSetExporter(logger, true)
//
//	// One CSV per table under the analysis directory
//	paths, err := exp.ExportCSV(set, "data/analysis")
//
//	// The whole set as one JSON document
//	err = exp.ExportJSON(set, "data/analysis/wil_comparison_tables.json")
//
//	// An Excel workbook with a sheet per table
//	err = exp.ExportWorkbook(set, "data/analysis/wil_comparison_tables.xlsx")
package exporter
