// Package services sits between the HTTP handlers and the report pipeline.
//
// ReportService keeps uploaded workbooks in a bounded in-memory memo keyed by
// the SHA-256 of their content. A sheet is read and cleaned the first time a
// report asks for it; later reports on the same sheet reuse the records.
// Concurrent requests for the same upload or sheet are collapsed with
// singleflight so a workbook is never parsed twice at once.
//
// The memo holds at most Cache.MaxEntries uploads. Adding one more evicts the
// oldest; entries older than Cache.TTL are dropped when next looked up.
// Invalidate and Reset drop entries by hand.
//
//	svc := services.NewReportService(cfg, metrics, logger)
//	info, err := svc.UploadWorkbook(ctx, "LIVRAISON_2025.xlsx", data)
//	if err != nil {
//	    return err
//	}
//	table, err := svc.Daily(ctx, info.ID, "DECEMBRE", []domain.Field{domain.FieldDeposited})
//
// Errors are ledgerdash/internal/errors AppErrors so handlers can map them to
// problem details: an unknown upload or sheet is NOT_FOUND, a bad field list
// UNKNOWN_FIELD, a missing day DATE_NOT_FOUND.
//
// HealthService reports liveness, readiness and version information.
package services
