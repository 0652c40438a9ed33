// Package shared holds helpers used across packages that belong to no single
// layer.
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//   - BufferedSlogHandler and NewTestLogger, which capture slog records so
//     tests can assert on messages and attributes
//   - workbook fixtures (LedgerSheet, SalesSheet, WorkbookBytes, WriteWorkbook)
//     that build delivery ledgers and sales workbooks with excelize
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    data := testutil.WorkbookBytes(t,
//	        testutil.LedgerSheet("DECEMBRE",
//	            []interface{}{testutil.Day(2025, 12, 1), "AMINE", 100, 90, 90, 5, 0, ""},
//	        ),
//	    )
//	    logger, logs := testutil.NewTestLogger(t)
//	    // ...
//	}
package shared
