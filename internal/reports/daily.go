package reports

import (
	"sort"
	"time"

	"ledgerdash/pkg/contracts/domain"
)

// ByDate sums fields per calendar day, oldest day first, and appends a TOTAL
// row holding the column-wise sum of the day rows.
func ByDate(records []domain.Record, fields []domain.Field) (domain.AggregateTable, error) {
	if err := validateFields(fields); err != nil {
		return domain.AggregateTable{}, err
	}

	groups := make(map[time.Time]*domain.AggregateRow)
	for _, rec := range records {
		d := domain.Day(rec.Date)
		row, ok := groups[d]
		if !ok {
			day := d
			row = &domain.AggregateRow{Date: &day, Sums: zeroSums(fields)}
			groups[d] = row
		}
		addValues(row.Sums, rec, fields)
	}

	rows := make([]domain.AggregateRow, 0, len(groups)+1)
	for _, row := range groups {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Date.Before(*rows[j].Date)
	})
	rows = append(rows, totalRow(rows, fields))

	return domain.AggregateTable{
		GroupBy: domain.GroupByDate,
		Fields:  append([]domain.Field(nil), fields...),
		Rows:    rows,
	}, nil
}
