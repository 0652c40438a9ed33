// Package dataprocessing reads delivery ledgers and sales workbooks into
// clean, typed records.
//
// # Components
//
//  1. Workbook and ReadSheet: excelize-backed reading of one sheet, limited to
//     a column range and a row cap, returning raw strings (RawTable).
//  2. Cleaner: coerces DATE to a calendar day, numeric columns to decimals,
//     drops dateless rows and normalizes the OBSERVATION note.
//  3. Schema: the fixed ledger field set (LedgerSchema) with semantic types,
//     used to validate field lists before any aggregation runs.
//  4. Periods: the French month table. Lookups ignore case and accents;
//     unknown labels are errors, never silently mis-sorted.
//  5. Loader: merges month sheets, yearly workbooks and sales workbooks,
//     tagging each row with its year and period.
//
// # Usage
//
//	wb, err := dataprocessing.OpenWorkbook("LIVRAISON_2025.xlsx")
//	if err != nil {
//	    return err
//	}
//	defer wb.Close()
//
//	loader := dataprocessing.NewLoader(cfg.Ledger, logger)
//	records, err := loader.LoadSheet(wb, "DECEMBRE")
//
// Clean is the non-failing form of Cleaner.Clean: it returns a CleanResult
// carrying either the records or a message.
//
// # Naming convention
//
// Sales workbooks must be named NAME_<PERIOD>_<YEAR>.xlsx, for example
// VENTE_JANVIER_2026.xlsx. Yearly ledgers must carry a four-digit year,
// for example LIVRAISON_2024.xlsx. A nonconforming name fails the whole batch
// with a NAMING_CONVENTION error naming the file.
package dataprocessing
