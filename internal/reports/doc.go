// Package reports turns cleaned ledger records and sales lines into report
// tables.
//
// Every function here is pure: it reads the slice it is given, never modifies
// it, and returns freshly allocated rows. Amounts are shopspring decimals so
// that totals add up to the cent regardless of how many rows are summed.
//
// # Reports
//
//   - ByDate, ByAgent and Retour group delivery records and, where the report
//     calls for it, append a synthetic TOTAL row as the last row.
//   - DayDetail looks up a single day grouped by agent.
//   - BuildStatement and Observations summarize one month sheet.
//   - PeriodTotals and PeriodTotalsByEntity compute month-over-month deltas.
//   - BuildPivot lays a metric out as an entity by period matrix.
//   - ByFamily, BySubFamily and SellerTotals group sales lines.
//   - Shares expresses labelled amounts as percentages of their total.
//
// Field lists are validated against the ledger schema before any grouping
// runs, so an unknown or non-numeric field fails fast with UNKNOWN_FIELD.
package reports
