package reports

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"ledgerdash/pkg/contracts/domain"
)

func d(month time.Month, day int) time.Time {
	return time.Date(2025, month, day, 0, 0, 0, 0, time.UTC)
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// rec builds a ledger record with ordered, delivered and deposited amounts
func rec(day time.Time, agent string, ordered, delivered, deposited int64) domain.Record {
	return domain.Record{
		Date:      day,
		Agent:     agent,
		Ordered:   dec(ordered),
		Delivered: dec(delivered),
		Deposited: dec(deposited),
	}
}

func assertDecimal(t *testing.T, want int64, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"want %d, got %s", want, got.String()}, msgAndArgs...)...)
}
