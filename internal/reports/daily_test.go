package reports

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ledgerdash/internal/errors"
	"ledgerdash/pkg/contracts/domain"
)

func TestByDate_Example(t *testing.T) {
	records := []domain.Record{
		rec(d(12, 1), "A", 0, 100, 0),
		rec(d(12, 1), "B", 0, 50, 0),
		rec(d(12, 2), "A", 0, 80, 0),
	}

	table, err := ByDate(records, []domain.Field{domain.FieldDelivered})
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)

	assert.Equal(t, domain.GroupByDate, table.GroupBy)
	assert.Equal(t, "2025-12-01", table.Rows[0].Label())
	assertDecimal(t, 150, table.Rows[0].Sums[domain.FieldDelivered])
	assert.Equal(t, "2025-12-02", table.Rows[1].Label())
	assertDecimal(t, 80, table.Rows[1].Sums[domain.FieldDelivered])
	assert.Equal(t, domain.TotalLabel, table.Rows[2].Label())
	assertDecimal(t, 230, table.Rows[2].Sums[domain.FieldDelivered])
	assert.True(t, table.HasTotal())
}

func TestByDate_TotalIsColumnSum(t *testing.T) {
	records := []domain.Record{
		rec(d(12, 3), "A", 120, 100, 90),
		rec(d(12, 1), "B", 60, 50, 50),
		rec(d(12, 2), "A", 90, 80, 70),
		rec(d(12, 3), "C", 10, 7, 7),
	}
	fields := []domain.Field{domain.FieldOrdered, domain.FieldDelivered, domain.FieldDeposited, domain.FieldRetour}

	table, err := ByDate(records, fields)
	require.NoError(t, err)

	total := table.Rows[len(table.Rows)-1]
	require.True(t, total.Total)
	for _, f := range fields {
		sum := decimal.Zero
		for _, row := range table.Rows[:len(table.Rows)-1] {
			sum = sum.Add(row.Sums[f])
		}
		assert.True(t, sum.Equal(total.Sums[f]), "field %s", f)
	}
	assertDecimal(t, 43, total.Sums[domain.FieldRetour])

	for i := 1; i < len(table.Rows)-1; i++ {
		assert.True(t, table.Rows[i-1].Date.Before(*table.Rows[i].Date))
	}
	assert.Equal(t, 4, len(records), "input untouched")
}

func TestByDate_Idempotent(t *testing.T) {
	records := []domain.Record{
		rec(d(12, 1), "A", 10, 8, 8),
		rec(d(12, 1), "A", 5, 5, 5),
		rec(d(12, 2), "B", 3, 2, 2),
	}
	fields := []domain.Field{domain.FieldOrdered, domain.FieldDelivered}

	first, err := ByDate(records, fields)
	require.NoError(t, err)

	// feed the day rows back in as records
	var again []domain.Record
	for _, row := range first.Rows[:len(first.Rows)-1] {
		again = append(again, domain.Record{
			Date:      *row.Date,
			Ordered:   row.Sums[domain.FieldOrdered],
			Delivered: row.Sums[domain.FieldDelivered],
		})
	}
	second, err := ByDate(again, fields)
	require.NoError(t, err)

	require.Len(t, second.Rows, len(first.Rows))
	for i := range first.Rows {
		for _, f := range fields {
			assert.True(t, first.Rows[i].Sums[f].Equal(second.Rows[i].Sums[f]))
		}
	}
}

func TestByDate_EmptyInput(t *testing.T) {
	table, err := ByDate(nil, []domain.Field{domain.FieldDeposited})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.True(t, table.Rows[0].Total)
	assertDecimal(t, 0, table.Rows[0].Sums[domain.FieldDeposited])
}

func TestByDate_InvalidFields(t *testing.T) {
	tests := []struct {
		name   string
		fields []domain.Field
		want   error
	}{
		{"unknown field", []domain.Field{"bonus"}, apperrors.ErrUnknownField},
		{"text field", []domain.Field{domain.FieldAgent}, apperrors.ErrUnknownField},
		{"note not summable", []domain.Field{domain.FieldNote}, apperrors.ErrUnknownField},
		{"no field", nil, apperrors.ErrNoSelection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ByDate([]domain.Record{rec(d(1, 1), "A", 1, 1, 1)}, tt.fields)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want))
		})
	}
}
