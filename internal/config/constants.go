package config

import "time"

// Application constants
const (
	AppName    = "Ledger Dash"
	AppVersion = "1.0.0"

	DefaultPort           = 8080
	DefaultMaxUploadBytes = 32 << 20

	// Rate limiting, requests per second
	DefaultRateLimit = 20
	DefaultBurstSize = 40

	// File paths relative to the base directory
	DefaultDataDir    = "data"
	DefaultReportsDir = "data/reports"
	DefaultLogsDir    = "logs"

	// Delivery ledger layout
	DefaultLedgerColumns = "A:H"
	DefaultLedgerMaxRows = 243

	// Header of a seller sheet sits below this many rows
	DefaultSalesSkipRows = 14

	DefaultCacheEntries = 64
	DefaultCacheTTL     = 2 * time.Hour
)

// DefaultAccounts are the agent labels booked as ledger accounts, not couriers
var DefaultAccounts = []string{"ACCOMPTE", "CREDIT", "VERS. CREDIT"}

// Report file names written by the batch processor
const (
	DailyReportFile     = "daily.csv"
	AgentReportFile     = "agents.csv"
	RetourReportFile    = "retour.csv"
	MonthlyReportFile   = "monthly.csv"
	SalesReportFile     = "sales_periods.csv"
	SalesPivotFile      = "sales_pivot.xlsx"
	StatementReportFile = "statement.csv"
)
