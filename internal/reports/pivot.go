package reports

import (
	"fmt"

	"github.com/shopspring/decimal"

	"ledgerdash/pkg/contracts/domain"
)

// PivotInput is one cell contribution of a pivot
type PivotInput struct {
	Row    string
	Column string
	Value  decimal.Decimal
}

// BuildPivot lays inputs out as a row by column matrix. Rows and columns keep
// the order in which they first appear, so chronologically sorted input gives
// chronological columns. Missing cells are zero. Each row carries its total
// and Totals holds the column totals, both labelled "Total Général".
func BuildPivot(inputs []PivotInput, metric string) domain.Pivot {
	var columns, rows []string
	colIdx := make(map[string]int)
	rowIdx := make(map[string]int)
	for _, in := range inputs {
		if _, ok := colIdx[in.Column]; !ok {
			colIdx[in.Column] = len(columns)
			columns = append(columns, in.Column)
		}
		if _, ok := rowIdx[in.Row]; !ok {
			rowIdx[in.Row] = len(rows)
			rows = append(rows, in.Row)
		}
	}

	pivot := domain.Pivot{
		Metric:  metric,
		Columns: append([]string{}, columns...),
		Rows:    make([]domain.PivotRow, len(rows)),
		Totals:  domain.PivotRow{Label: domain.GrandTotalLabel, Cells: zeroCells(len(columns))},
	}
	for i, label := range rows {
		pivot.Rows[i] = domain.PivotRow{Label: label, Cells: zeroCells(len(columns))}
	}

	for _, in := range inputs {
		r, c := rowIdx[in.Row], colIdx[in.Column]
		row := &pivot.Rows[r]
		row.Cells[c] = row.Cells[c].Add(in.Value)
		row.Total = row.Total.Add(in.Value)
		pivot.Totals.Cells[c] = pivot.Totals.Cells[c].Add(in.Value)
		pivot.Totals.Total = pivot.Totals.Total.Add(in.Value)
	}
	return pivot
}

func zeroCells(n int) []decimal.Decimal {
	cells := make([]decimal.Decimal, n)
	for i := range cells {
		cells[i] = decimal.Zero
	}
	return cells
}

// PeriodColumn labels a pivot column, e.g. "JANVIER 2026"
func PeriodColumn(year int, period string) string {
	if year == 0 {
		return period
	}
	return fmt.Sprintf("%s %d", period, year)
}

// PivotInputsFromMetrics takes one metric of per-entity period rows as pivot
// input: entities become rows and periods columns
func PivotInputsFromMetrics(rows []domain.PeriodMetric, metric string) []PivotInput {
	out := make([]PivotInput, 0, len(rows))
	for _, m := range rows {
		out = append(out, PivotInput{
			Row:    m.Entity,
			Column: PeriodColumn(m.Year, m.Period),
			Value:  m.Values[metric],
		})
	}
	return out
}
