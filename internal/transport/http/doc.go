// Package http implements the HTTP handlers of the ledger dashboard API.
// Handlers stay thin: they parse and validate the request, call the report
// service and render the result.
//
// # Routes
//
// Mounted under /api/v1:
//
//	POST   /workbooks                              upload a delivery ledger (multipart "file")
//	DELETE /workbooks                              drop every upload
//	DELETE /workbooks/{id}                         drop one upload
//	GET    /workbooks/{id}/months?months=          monthly totals with deltas
//	GET    /workbooks/{id}/sheets/{sheet}/daily?fields=
//	GET    /workbooks/{id}/sheets/{sheet}/agents?fields=&agents=&sort=&order=
//	GET    /workbooks/{id}/sheets/{sheet}/couriers
//	GET    /workbooks/{id}/sheets/{sheet}/retour?agents=
//	GET    /workbooks/{id}/sheets/{sheet}/statement
//	GET    /workbooks/{id}/sheets/{sheet}/detail?day=&fields=
//	GET    /workbooks/{id}/sheets/{sheet}/observations
//	POST   /sales                                  upload sales workbooks (multipart "files", optional "labels")
//	GET    /sales/{id}/totals | sellers | pivot?metric= | families?seller=&period=
//
// List parameters are comma separated. Table reports accept format=csv or
// format=xlsx to download the table instead of JSON.
//
// # Errors
//
// Every failure is rendered as RFC 7807 problem details by the shared
// errors.ErrorHandler. A day lookup without rows answers 404 and carries
// "marker": "No data".
package http
