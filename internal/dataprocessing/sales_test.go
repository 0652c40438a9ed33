package dataprocessing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ledgerdash/internal/errors"
)

func salesWorkbook(t *testing.T, dir, name string) *Workbook {
	t.Helper()
	return openFixture(t, writeWorkbook(t, dir, name,
		sheetSpec{name: "Sheet1", rows: [][]interface{}{{"RECAP"}}},
		salesSheet("KARIM", 14,
			[]interface{}{"BOISSONS", "JUS", "JUS ORANGE 1L", 12, 10, 1500, 300},
			[]interface{}{"BOISSONS", "SODA", "COLA 2L", 5, 4, 800, 120},
			[]interface{}{"", "", "TOTAL", 17, 14, 2300, 420},
		),
		salesSheet("NADIR", 14,
			[]interface{}{"BISCUITS", "GAUFRETTES", "GAUFRETTE", 3, 3, 450, 90},
		),
	))
}

func TestLoader_LoadSales(t *testing.T) {
	dir := t.TempDir()
	feb := salesWorkbook(t, dir, "VENTE_FEVRIER_2026.xlsx")
	jan := salesWorkbook(t, dir, "VENTE_JANVIER_2026.xlsx")

	lines, err := newTestLoader().LoadSales([]*Workbook{feb, jan})
	require.NoError(t, err)
	require.Len(t, lines, 6, "total rows without family are dropped")

	first := lines[0]
	assert.Equal(t, "JANVIER", first.Period)
	assert.Equal(t, 1, first.PeriodIndex)
	assert.Equal(t, 2026, first.Year)
	assert.Equal(t, "KARIM", first.Seller)
	assert.Equal(t, "BOISSONS", first.Family)
	assert.Equal(t, "JUS", first.SubFamily)
	assert.True(t, decimal.NewFromInt(10).Equal(first.Quantity), "second quantity column is used")
	assert.True(t, decimal.NewFromInt(1500).Equal(first.Delivery))
	assert.True(t, decimal.NewFromInt(300).Equal(first.Profit))

	assert.Equal(t, "NADIR", lines[2].Seller)
	assert.Equal(t, "FEVRIER", lines[5].Period)
}

func TestLoader_LoadSales_BadNameFailsBatch(t *testing.T) {
	dir := t.TempDir()
	good := salesWorkbook(t, dir, "VENTE_JANVIER_2026.xlsx")
	bad := salesWorkbook(t, dir, "vente.xlsx")

	_, err := newTestLoader().LoadSales([]*Workbook{good, bad})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNamingViolation))
	assert.Contains(t, err.Error(), "vente.xlsx")
}

func TestLoader_LoadSalesLabeled(t *testing.T) {
	dir := t.TempDir()
	wb := salesWorkbook(t, dir, "upload-1.xlsx")
	loader := newTestLoader()

	_, err := loader.LoadSalesLabeled([]*Workbook{wb}, []string{"VENTE_MARS_2026", "VENTE_AVRIL_2026"})
	assert.True(t, errors.Is(err, apperrors.ErrMismatchedCount))

	lines, err := loader.LoadSalesLabeled([]*Workbook{wb}, []string{"VENTE_MARS_2026"})
	require.NoError(t, err)
	require.NotEmpty(t, lines)
	assert.Equal(t, "MARS", lines[0].Period)
}

func TestSaleLinesFromTable_MissingColumn(t *testing.T) {
	table := RawTable{Header: []string{"Famille", "Produit"}, Rows: [][]string{{"A", "B"}}}
	_, err := SaleLinesFromTable(table, "KARIM", SourcePeriod{})
	assert.True(t, errors.Is(err, apperrors.ErrMissingColumn))
}
