// Package app wires the ledger dashboard together: configuration, logging,
// OpenTelemetry, the report service and the chi router behind an http.Server.
//
// # Initialization Flow
//
//  1. Load configuration (defaults, YAML file, LEDGER_* environment)
//  2. Initialize logging and observability
//  3. Create the report and health services
//  4. Set up middleware and routes
//  5. Start the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// Run blocks until SIGINT or SIGTERM, then drains requests, drops the cached
// uploads and flushes telemetry. Initialization errors are returned; the
// package never calls os.Exit.
package app
