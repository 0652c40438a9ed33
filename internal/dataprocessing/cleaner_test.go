package dataprocessing

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ledgerdash/internal/errors"
)

func rawLedger(rows ...[]string) RawTable {
	return RawTable{
		Sheet:  "DECEMBRE",
		Header: []string{"DATE", "LIVREUR", "T. COMMANDE", "T.LOGICIEL", "VERSEMENT", "CHARGE", "DIFF", "OBSERVATION"},
		Rows:   rows,
	}
}

func TestClean(t *testing.T) {
	table := rawLedger(
		[]string{"45992", "AMINE", "1000", "900", "850", "50", "0", "RAS"},
		[]string{"2025-12-02", "TOUFIK", "abc", "1 200,50", "", "", "", "nan"},
		[]string{"", "TOTAL", "5000", "4000", "", "", "", ""},
		[]string{"02/12/2025", "REDA", "10", "10", "10", "0", "0", ""},
	)

	result := Clean(table)
	require.True(t, result.Success, result.Message)
	require.Len(t, result.Records, 3)

	first := result.Records[0]
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "AMINE", first.Agent)
	assert.True(t, decimal.NewFromInt(1000).Equal(first.Ordered))
	assert.True(t, decimal.NewFromInt(50).Equal(first.Expense))
	assert.Equal(t, "RAS", first.Note)

	second := result.Records[1]
	assert.True(t, second.Ordered.IsZero(), "unparseable numeric becomes zero")
	assert.True(t, decimal.RequireFromString("1200.50").Equal(second.Delivered))
	assert.Equal(t, "", second.Note)

	assert.Equal(t, day(2025, 12, 2), result.Records[2].Date)
}

func TestClean_MissingDateColumn(t *testing.T) {
	table := RawTable{Header: []string{"LIVREUR", "VERSEMENT"}, Rows: [][]string{{"A", "1"}}}

	result := Clean(table)
	assert.False(t, result.Success)
	assert.Nil(t, result.Records)
	assert.Contains(t, result.Message, "DATE")

	_, _, err := NewCleaner(nil).Clean(table)
	assert.True(t, errors.Is(err, apperrors.ErrMissingColumn))
}

func TestClean_UnparseableDateColumn(t *testing.T) {
	table := rawLedger(
		[]string{"lundi", "A", "1", "1", "1", "0", "0", ""},
		[]string{"mardi", "B", "1", "1", "1", "0", "0", ""},
	)

	_, _, err := NewCleaner(nil).Clean(table)
	assert.True(t, errors.Is(err, apperrors.ErrMissingColumn))
}

func TestClean_MissingNumericColumnIsZero(t *testing.T) {
	table := RawTable{
		Header: []string{"DATE", "LIVREUR", "VERSEMENT"},
		Rows:   [][]string{{"2025-12-01", "A", "300"}},
	}

	result := Clean(table)
	require.True(t, result.Success)
	require.Len(t, result.Records, 1)
	assert.True(t, result.Records[0].Ordered.IsZero())
	assert.True(t, decimal.NewFromInt(300).Equal(result.Records[0].Deposited))
}

func TestClean_Stats(t *testing.T) {
	table := rawLedger(
		[]string{"2025-12-01", "A", "x", "1", "1", "0", "0", ""},
		[]string{"SOUS TOTAL", "", "1", "1", "1", "0", "0", ""},
	)

	records, stats, err := NewCleaner(nil).Clean(table)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 2, stats.InputRows)
	assert.Equal(t, 1, stats.DroppedNoDay)
	assert.Equal(t, 1, stats.Coerced)
}

func TestClean_DropsNumericFooters(t *testing.T) {
	table := rawLedger(
		[]string{"45992", "AMINE", "100", "90", "90", "0", "0", ""},
		[]string{"31", "", "100", "90", "90", "0", "0", ""},
		[]string{"2025", "", "", "", "", "", "", ""},
	)

	records, stats, err := NewCleaner(nil).Clean(table)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, day(2025, 12, 1), records[0].Date)
	assert.Equal(t, 2, stats.DroppedNoDay)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"1500", "1500", true},
		{"1500.75", "1500.75", true},
		{"1 500", "1500", true},
		{"1 500,25", "1500.25", true},
		{"1.234,56", "1234.56", true},
		{"1,234.56", "1234.56", true},
		{"1,234", "1234", true},
		{"12,5", "12.5", true},
		{"2500 DA", "2500", true},
		{"-300", "-300", true},
		{"", "0", true},
		{"nan", "0", true},
		{"N/A", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseAmount(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in     string
		want   time.Time
		wantOK bool
	}{
		{"45992", day(2025, 12, 1), true},
		{"45992.75", day(2025, 12, 1), true},
		{"2025-12-01", day(2025, 12, 1), true},
		{"2025-12-01 08:30:00", day(2025, 12, 1), true},
		{"01/12/2025", day(2025, 12, 1), true},
		{"TOTAL", time.Time{}, false},
		{"", time.Time{}, false},
		{"0", time.Time{}, false},
		{"2025", time.Time{}, false},
		{"243", time.Time{}, false},
		{"25569", day(1970, 1, 1), true},
		{"2958466", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
