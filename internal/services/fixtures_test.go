package services

import (
	"testing"
	"time"

	"ledgerdash/internal/config"
	"ledgerdash/internal/shared/testutil"
)

func day(m time.Month, d int) time.Time {
	return testutil.Day(2025, m, d)
}

func decemberLedger(t *testing.T) []byte {
	return testutil.WorkbookBytes(t,
		testutil.LedgerSheet("NOVEMBRE",
			[]interface{}{day(11, 4), "AMINE", 400, 380, 380, 10, 0, ""},
		),
		testutil.LedgerSheet("DECEMBRE",
			[]interface{}{day(12, 1), "AMINE", 100, 90, 90, 5, 0, "client absent"},
			[]interface{}{day(12, 1), "REDA", 60, 50, 50, 0, 0, ""},
			[]interface{}{day(12, 2), "AMINE", 80, 80, 70, 0, 0, ""},
			[]interface{}{day(12, 2), "ACCOMPTE", 0, 0, 200, 0, 0, ""},
			[]interface{}{"TOTAL", "", 240, 220, 410, 5, 0, ""},
		),
	)
}

func salesBytes(t *testing.T, delivery int) []byte {
	return testutil.WorkbookBytes(t,
		testutil.Sheet{Name: "RECAP", Rows: [][]interface{}{{"RECAP"}}},
		testutil.SalesSheet("KARIM", config.DefaultSalesSkipRows,
			[]interface{}{"BOISSONS", "JUS", "JUS 1L", 10, 8, delivery, delivery / 10},
		),
		testutil.SalesSheet("NADIR", config.DefaultSalesSkipRows,
			[]interface{}{"BISCUITS", "GAUFRETTES", "GAUFRETTE", 4, 4, 100, 20},
		),
	)
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Cache.MaxEntries = 4
	cfg.Ledger.DefaultAgents = []string{"AMINE", "REDA"}
	return cfg
}
