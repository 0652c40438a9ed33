// Package config loads the application configuration.
//
// Values are layered in order of increasing precedence:
//
//  1. Built-in defaults (Default)
//  2. An optional YAML file: config.yaml, configs/config.yaml, or the path in LEDGER_CONFIG_FILE
//  3. Environment variables prefixed with LEDGER_
//
// Environment keys follow the struct nesting:
//
//	LEDGER_SERVER_PORT=8080
//	LEDGER_SHEET_COLUMNS=A:H
//	LEDGER_SHEET_MAX_ROWS=243
//	LEDGER_SHEET_ACCOUNTS=ACCOMPTE,CREDIT,VERS. CREDIT
//	LEDGER_CACHE_MAX_ENTRIES=64
//
// The Ledger section describes the workbook layout the loaders expect: the
// column range and row cap of delivery sheets, the number of banner rows above
// the header of a seller sheet, and the agent labels that are ledger accounts.
//
// Paths are resolved against BaseDir (or the working directory) by ResolvePaths.
package config
