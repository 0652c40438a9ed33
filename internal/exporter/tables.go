package exporter

import (
	"ledgerdash/internal/dataprocessing"
	"ledgerdash/pkg/contracts/domain"
)

// Table is a report laid out for export. Cells hold strings, decimals,
// floats, ints or dates; each writer renders them its own way.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
	// TotalRows lists the indexes of total rows, highlighted in workbooks
	TotalRows []int
}

// StringRow renders one row for CSV output
func (t Table) StringRow(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = formatCell(v)
	}
	return out
}

func (t *Table) addTotal(row []interface{}) {
	t.TotalRows = append(t.TotalRows, len(t.Rows))
	t.Rows = append(t.Rows, row)
}

// AggregateTable lays out a grouped report with its key columns first
func AggregateTable(name string, agg domain.AggregateTable) Table {
	t := Table{Name: name}
	switch agg.GroupBy {
	case domain.GroupByDate:
		t.Headers = []string{dataprocessing.ColumnLabel(domain.FieldDate)}
	case domain.GroupByAgent:
		t.Headers = []string{dataprocessing.ColumnLabel(domain.FieldAgent)}
	default:
		t.Headers = []string{dataprocessing.ColumnLabel(domain.FieldDate), dataprocessing.ColumnLabel(domain.FieldAgent)}
	}
	withNote := false
	for _, f := range agg.Fields {
		if f == domain.FieldNote {
			withNote = true
			continue
		}
		t.Headers = append(t.Headers, dataprocessing.ColumnLabel(f))
	}
	if withNote {
		t.Headers = append(t.Headers, dataprocessing.ColumnLabel(domain.FieldNote))
	}

	for _, r := range agg.Rows {
		var row []interface{}
		switch agg.GroupBy {
		case domain.GroupByDate:
			row = append(row, keyCell(r, r.Date))
		case domain.GroupByAgent:
			row = append(row, r.Label())
		default:
			row = append(row, keyCell(r, r.Date), r.Agent)
		}
		for _, f := range agg.Fields {
			if f != domain.FieldNote {
				row = append(row, r.Sums[f])
			}
		}
		if withNote {
			row = append(row, r.Note)
		}
		if r.Total {
			t.addTotal(row)
		} else {
			t.Rows = append(t.Rows, row)
		}
	}
	return t
}

func keyCell(r domain.AggregateRow, date interface{}) interface{} {
	if r.Total {
		return domain.TotalLabel
	}
	return date
}

// RetourTable lays out the returns detail, TOTAL row included
func RetourTable(detail []domain.RetourRow) Table {
	t := Table{
		Name: "retour",
		Headers: []string{
			dataprocessing.ColumnLabel(domain.FieldDate),
			dataprocessing.ColumnLabel(domain.FieldAgent),
			dataprocessing.ColumnLabel(domain.FieldOrdered),
			dataprocessing.ColumnLabel(domain.FieldDelivered),
			dataprocessing.ColumnLabel(domain.FieldRetour),
		},
	}
	for _, r := range detail {
		row := []interface{}{r.Date, r.Agent, r.Ordered, r.Delivered, r.Retour}
		if r.Total {
			t.addTotal(row)
		} else {
			t.Rows = append(t.Rows, row)
		}
	}
	return t
}

// PeriodTable lays out period totals: values, deltas and percent deltas per metric
func PeriodTable(name string, rows []domain.PeriodMetric, metrics []string) Table {
	t := Table{Name: name, Headers: []string{"ENTITE", "ANNEE", "MOIS"}}
	for _, m := range metrics {
		t.Headers = append(t.Headers, m, "delta_"+m, "delta_"+m+"_pct")
	}
	for _, r := range rows {
		row := []interface{}{r.Entity, r.Year, r.Period}
		for _, m := range metrics {
			row = append(row, r.Values[m], r.Delta[m], r.DeltaPct[m])
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// StatementTable lays out the statement lines
func StatementTable(st domain.Statement) Table {
	t := Table{Name: "etat", Headers: []string{"TYPE", "MONTANT"}}
	for _, line := range st.Lines {
		t.Rows = append(t.Rows, []interface{}{line.Type, line.Amount})
	}
	return t
}

// ProductTable lays out family, sub-family or seller groups
func ProductTable(name, label string, groups []domain.ProductGroup) Table {
	t := Table{Name: name, Headers: []string{label, "Quantité", "Total livraison (DA)", "Total bénéfice (DA)", "%"}}
	for _, g := range groups {
		t.Rows = append(t.Rows, []interface{}{g.Label, g.Quantity, g.Delivery, g.Profit, g.Share})
	}
	return t
}

// PivotTable lays out a pivot with its "Total Général" column and row
func PivotTable(name, rowHeader string, p domain.Pivot) Table {
	t := Table{Name: name, Headers: append(append([]string{rowHeader}, p.Columns...), domain.GrandTotalLabel)}
	pivotRow := func(r domain.PivotRow) []interface{} {
		row := []interface{}{r.Label}
		for _, c := range r.Cells {
			row = append(row, c)
		}
		return append(row, r.Total)
	}
	for _, r := range p.Rows {
		t.Rows = append(t.Rows, pivotRow(r))
	}
	t.addTotal(pivotRow(p.Totals))
	return t
}

// ObservationTable lays out one line per note
func ObservationTable(obs []domain.Observation) Table {
	t := Table{Name: "observations", Headers: []string{dataprocessing.ColumnLabel(domain.FieldAgent), dataprocessing.ColumnLabel(domain.FieldNote)}}
	for _, o := range obs {
		for _, note := range o.Notes {
			t.Rows = append(t.Rows, []interface{}{o.Agent, note})
		}
	}
	return t
}

// RecordTable lays out cleaned ledger records in sheet column order
func RecordTable(name string, records []domain.Record) Table {
	t := Table{Name: name}
	for _, spec := range dataprocessing.LedgerSchema {
		if spec.Derived() {
			continue
		}
		t.Headers = append(t.Headers, spec.Column)
	}
	t.Headers = append(t.Headers, "MOIS")
	for _, r := range records {
		t.Rows = append(t.Rows, []interface{}{
			r.Date, r.Agent, r.Ordered, r.Delivered, r.Deposited, r.Expense, r.Difference, r.Note, r.Period,
		})
	}
	return t
}

// CourierTable lists agent names, one per row
func CourierTable(agents []string) Table {
	t := Table{Name: "livreurs", Headers: []string{"LIVREUR"}}
	for _, a := range agents {
		t.Rows = append(t.Rows, []interface{}{a})
	}
	return t
}
