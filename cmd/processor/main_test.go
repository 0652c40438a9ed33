package main

import (
	"bytes"
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ledgerdash/internal/config"
	"ledgerdash/internal/shared/testutil"
)

func writeLedger(t *testing.T, dir string, year int) string {
	t.Helper()
	path := filepath.Join(dir, "LIVRAISON_"+strconv.Itoa(year)+".xlsx")
	testutil.WriteWorkbook(t, path, testutil.LedgerSheet("DECEMBRE",
		[]interface{}{testutil.Day(year, 12, 1), "AMINE", 100, 90, 90, 5, 0, "client absent"},
		[]interface{}{testutil.Day(year, 12, 1), "REDA", 60, 50, 50, 0, 0, ""},
		[]interface{}{testutil.Day(year, 12, 2), "AMINE", 80, 80, 70, 0, 0, ""},
	))
	return path
}

func writeSales(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	testutil.WriteWorkbook(t, path,
		testutil.Sheet{Name: "RECAP", Rows: [][]interface{}{{"RECAP"}}},
		testutil.SalesSheet("KARIM", config.DefaultSalesSkipRows,
			[]interface{}{"BOISSONS", "JUS", "JUS 1L", 10, 8, 1000, 100},
		),
	)
	return path
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Paths.BaseDir = t.TempDir()
	return cfg
}

func sheetNames(t *testing.T, path string) []string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	return f.GetSheetList()
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "sheet report", args: []string{"-in", "a.xlsx", "-sheet", "DECEMBRE"}},
		{name: "months report", args: []string{"-in", "a.xlsx", "-report", "months", "-months", "OCTOBRE, NOVEMBRE"}},
		{name: "sales report", args: []string{"-in", "ventes", "-report", "sales", "-metric", "benefice"}},
		{name: "missing input", args: []string{"-sheet", "DECEMBRE"}, wantErr: "-in is required"},
		{name: "missing sheet", args: []string{"-in", "a.xlsx"}, wantErr: "-sheet is required"},
		{name: "detail without day", args: []string{"-in", "a.xlsx", "-sheet", "DECEMBRE", "-report", "detail"}, wantErr: "-day is required"},
		{name: "years without months", args: []string{"-in", "dir", "-report", "years"}, wantErr: "-months is required"},
		{name: "bad format", args: []string{"-in", "a.xlsx", "-sheet", "X", "-format", "pdf"}, wantErr: "unsupported format"},
		{name: "bad metric", args: []string{"-in", "v", "-report", "sales", "-metric", "quantite"}, wantErr: "unsupported metric"},
		{name: "unknown report", args: []string{"-in", "a.xlsx", "-report", "weekly"}, wantErr: "unknown report"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFlags(tt.args, &bytes.Buffer{})
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestParseFlags_Version(t *testing.T) {
	var out bytes.Buffer
	_, err := parseFlags([]string{"-version"}, &out)

	assert.ErrorIs(t, err, flag.ErrHelp)
	assert.Contains(t, out.String(), "ledgerdash v")
}

func TestParseFlags_Lists(t *testing.T) {
	opts, err := parseFlags([]string{"-in", "a.xlsx, b.xlsx", "-report", "months", "-months", "OCTOBRE,,NOVEMBRE", "-format", "CSV"}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.xlsx", "b.xlsx"}, opts.inputs)
	assert.Equal(t, []string{"OCTOBRE", "NOVEMBRE"}, opts.months)
	assert.Equal(t, formatCSV, opts.format)
}

func TestRun_DailyCSV(t *testing.T) {
	cfg := testConfig(t)
	in := writeLedger(t, t.TempDir(), 2025)
	out := filepath.Join(t.TempDir(), "daily.csv")

	written, err := run(context.Background(), cfg, options{
		inputs: []string{in},
		out:    out,
		format: formatCSV,
		report: reportDaily,
		sheet:  "DECEMBRE",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, out, written)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	content := strings.TrimPrefix(string(data), "\ufeff")
	assert.True(t, strings.HasPrefix(content, "DATE,"))
	assert.Contains(t, content, "2025-12-01")
	assert.Contains(t, content, "2025-12-02")
	assert.Contains(t, content, "TOTAL")
}

func TestRun_AllReportsXLSX(t *testing.T) {
	cfg := testConfig(t)
	in := writeLedger(t, t.TempDir(), 2025)

	written, err := run(context.Background(), cfg, options{
		inputs: []string{in},
		format: formatXLSX,
		report: reportAll,
		sheet:  "DECEMBRE",
	}, nil)
	require.NoError(t, err)

	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(paths.ReportsDir, "all_LIVRAISON_2025.xlsx"), written)
	assert.Equal(t, []string{"daily", "agents", "retour", "statement", "observations"}, sheetNames(t, written))
}

func TestRun_Detail(t *testing.T) {
	cfg := testConfig(t)
	in := writeLedger(t, t.TempDir(), 2025)
	out := filepath.Join(t.TempDir(), "detail.xlsx")

	opts := options{inputs: []string{in}, out: out, format: formatXLSX, report: reportDetail, sheet: "DECEMBRE", day: "2025-12-01"}
	_, err := run(context.Background(), cfg, opts, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"detail_2025-12-01"}, sheetNames(t, out))

	opts.day = "2025-12-25"
	_, err = run(context.Background(), cfg, opts, nil)
	assert.Error(t, err)
}

func TestRun_Years(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	writeLedger(t, dir, 2024)
	writeLedger(t, dir, 2025)
	out := filepath.Join(t.TempDir(), "years.xlsx")

	_, err := run(context.Background(), cfg, options{
		inputs: []string{dir},
		out:    out,
		format: formatXLSX,
		report: reportYears,
		months: []string{"DECEMBRE"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"annees", "global"}, sheetNames(t, out))
}

func TestRun_Sales(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	writeSales(t, dir, "VENTE_JANVIER_2026.xlsx")
	writeSales(t, dir, "VENTE_FEVRIER_2026.xlsx")
	out := filepath.Join(t.TempDir(), "ventes.xlsx")

	_, err := run(context.Background(), cfg, options{
		inputs: []string{dir},
		out:    out,
		format: formatXLSX,
		report: reportSales,
		metric: "livraison",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"ventes", "prevendeurs", "pivot_livraison", "familles", "sous_familles"}, sheetNames(t, out))
}

func TestRun_SalesNamingViolation(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	writeSales(t, dir, "VENTE_JANVIER_2026.xlsx")
	writeSales(t, dir, "ventes.xlsx")

	_, err := run(context.Background(), cfg, options{
		inputs: []string{dir},
		out:    filepath.Join(t.TempDir(), "ventes.xlsx"),
		format: formatXLSX,
		report: reportSales,
		metric: "livraison",
	}, nil)
	assert.ErrorContains(t, err, "ventes.xlsx")
}

func TestRun_Errors(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	in := writeLedger(t, dir, 2025)
	writeLedger(t, dir, 2024)

	tests := []struct {
		name string
		opts options
	}{
		{"missing input", options{inputs: []string{filepath.Join(dir, "missing.xlsx")}, format: formatCSV, report: reportDaily, sheet: "DECEMBRE"}},
		{"empty directory", options{inputs: []string{t.TempDir()}, format: formatCSV, report: reportDaily, sheet: "DECEMBRE"}},
		{"sheet report over two workbooks", options{inputs: []string{dir}, format: formatCSV, report: reportDaily, sheet: "DECEMBRE"}},
		{"unknown sheet", options{inputs: []string{in}, format: formatCSV, report: reportDaily, sheet: "JUIN"}},
		{"output extension mismatch", options{inputs: []string{in}, out: filepath.Join(dir, "out.csv"), format: formatXLSX, report: reportDaily, sheet: "DECEMBRE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(context.Background(), cfg, tt.opts, nil)
			assert.Error(t, err)
		})
	}
}

func TestRun_CSVKeepsFirstTable(t *testing.T) {
	cfg := testConfig(t)
	in := writeLedger(t, t.TempDir(), 2025)
	out := filepath.Join(t.TempDir(), "all.csv")
	logger, logs := testutil.NewTestLogger(t)

	_, err := run(context.Background(), cfg, options{
		inputs: []string{in},
		out:    out,
		format: formatCSV,
		report: reportAll,
		sheet:  "DECEMBRE",
	}, logger)
	require.NoError(t, err)

	testutil.AssertLogContains(t, logs, slog.LevelWarn, "CSV output keeps the first table only")
	testutil.AssertLogAttr(t, logs, "dropped", int64(4))
	testutil.AssertLogAttr(t, logs, "component", "processor")
	testutil.AssertNoErrors(t, logs)
}
