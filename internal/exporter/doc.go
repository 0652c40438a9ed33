// Package exporter writes report tables to CSV and XLSX files.
//
// Reports are first laid out as a Table (headers plus typed cells) by the
// AggregateTable, RetourTable, PeriodTable, StatementTable, ProductTable,
// PivotTable, ObservationTable and RecordTable helpers. A Table is then
// written by one of two writers:
//
// CSVWriter: UTF-8 CSV with a BOM so Excel opens accented headers correctly.
// Amounts are written with two decimals and dates as YYYY-MM-DD.
//
// XLSXWriter: one workbook with a sheet per table, bold headers, amount and
// date number formats and bold total rows.
//
// Example usage:
//
//	csvWriter := exporter.NewCSVWriter(paths, logger)
//	err := csvWriter.WriteTable("daily.csv", exporter.AggregateTable("daily", table))
//
//	xlsxWriter := exporter.NewXLSXWriter(paths, logger)
//	err = xlsxWriter.WriteTables("sales_pivot.xlsx", exporter.PivotTable("pivot", "PREVENDEUR", pivot))
package exporter
