package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// LedgerHeader is the header row of a delivery ledger month sheet
var LedgerHeader = []interface{}{"DATE", "LIVREUR", "T. COMMANDE", "T.LOGICIEL", "VERSEMENT", "CHARGE", "DIFF", "OBSERVATION"}

// SalesHeader is the header row of a seller sheet. The quantity column
// appears twice; the second holds the delivered quantity.
var SalesHeader = []interface{}{"Famille", "Sous famille", "Produit", "Quantité", "Quantité", "Total livraison (DA)", "Total bénéfice (DA)"}

// Sheet is one worksheet of a fixture workbook
type Sheet struct {
	Name string
	Rows [][]interface{}
}

// LedgerSheet builds a month sheet: the ledger header followed by rows
func LedgerSheet(name string, rows ...[]interface{}) Sheet {
	return Sheet{Name: name, Rows: append([][]interface{}{LedgerHeader}, rows...)}
}

// SalesSheet builds a seller sheet with skip blank lines above the header
func SalesSheet(seller string, skip int, rows ...[]interface{}) Sheet {
	out := make([][]interface{}, skip, skip+1+len(rows))
	for i := range out {
		out[i] = []interface{}{""}
	}
	out = append(out, SalesHeader)
	return Sheet{Name: seller, Rows: append(out, rows...)}
}

// Day returns midnight UTC of a calendar day
func Day(year int, m time.Month, d int) time.Time {
	return time.Date(year, m, d, 0, 0, 0, 0, time.UTC)
}

// NewWorkbook lays the sheets out in order; the first replaces the default sheet
func NewWorkbook(t *testing.T, sheets ...Sheet) *excelize.File {
	t.Helper()
	f := excelize.NewFile()

	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), s.Name))
		} else {
			_, err := f.NewSheet(s.Name)
			require.NoError(t, err)
		}
		for r, row := range s.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			values := row
			require.NoError(t, f.SetSheetRow(s.Name, cell, &values))
		}
	}
	return f
}

// WorkbookBytes builds an .xlsx in memory
func WorkbookBytes(t *testing.T, sheets ...Sheet) []byte {
	t.Helper()
	f := NewWorkbook(t, sheets...)
	defer f.Close()

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// WriteWorkbook saves an .xlsx to path
func WriteWorkbook(t *testing.T, path string, sheets ...Sheet) {
	t.Helper()
	f := NewWorkbook(t, sheets...)
	defer f.Close()
	require.NoError(t, f.SaveAs(path))
}
