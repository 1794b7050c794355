// Package exporter writes the processed dataset to disk: the merged
// participant table, the long-format monthly timeline, the annual series,
// per-participant summaries, and an Excel report workbook.
//
// CSV files are written with a UTF-8 BOM so they open cleanly in Excel. The
// monthly timeline goes through a streaming writer because its row count is
// participants times the projection horizon in months.
package exporter
