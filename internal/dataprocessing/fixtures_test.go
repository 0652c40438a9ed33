package dataprocessing

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var ledgerHeader = []interface{}{"DATE", "LIVREUR", "T. COMMANDE", "T.LOGICIEL", "VERSEMENT", "CHARGE", "DIFF", "OBSERVATION"}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// sheetSpec is one sheet of a fixture workbook, rows written from A1
type sheetSpec struct {
	name string
	rows [][]interface{}
}

// writeWorkbook creates dir/name with the given sheets, in order, after the default sheet
func writeWorkbook(t *testing.T, dir, name string, sheets ...sheetSpec) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for _, s := range sheets {
		if s.name != "Sheet1" {
			_, err := f.NewSheet(s.name)
			require.NoError(t, err)
		}
		for i, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			r := row
			require.NoError(t, f.SetSheetRow(s.name, cell, &r))
		}
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func ledgerSheet(name string, rows ...[]interface{}) sheetSpec {
	return sheetSpec{name: name, rows: append([][]interface{}{ledgerHeader}, rows...)}
}

// salesSheet builds a seller sheet with banner rows above the header
func salesSheet(name string, skip int, rows ...[]interface{}) sheetSpec {
	all := make([][]interface{}, skip)
	for i := range all {
		all[i] = []interface{}{""}
	}
	all[0] = []interface{}{"ETAT DES VENTES"}
	all = append(all, []interface{}{"Famille", "Sous famille", "Produit", "Quantité", "Quantité", "Total livraison (DA)", "Total bénéfice (DA)"})
	return sheetSpec{name: name, rows: append(all, rows...)}
}

func openFixture(t *testing.T, path string) *Workbook {
	t.Helper()
	wb, err := OpenWorkbook(path)
	require.NoError(t, err)
	t.Cleanup(func() { wb.Close() })
	return wb
}
