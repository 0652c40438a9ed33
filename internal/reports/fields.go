package reports

import (
	"strings"

	"github.com/shopspring/decimal"

	"ledgerdash/internal/dataprocessing"
	"ledgerdash/pkg/contracts/domain"
)

var hundred = decimal.NewFromInt(100)

func validateFields(fields []domain.Field) error {
	return dataprocessing.ValidateSumFields(fields, false)
}

func zeroSums(fields []domain.Field) map[domain.Field]decimal.Decimal {
	sums := make(map[domain.Field]decimal.Decimal, len(fields))
	for _, f := range fields {
		if f == domain.FieldNote {
			continue
		}
		sums[f] = decimal.Zero
	}
	return sums
}

func addValues(sums map[domain.Field]decimal.Decimal, rec domain.Record, fields []domain.Field) {
	for _, f := range fields {
		if f == domain.FieldNote {
			continue
		}
		sums[f] = sums[f].Add(rec.Value(f))
	}
}

// totalRow sums rows column-wise into the synthetic TOTAL row
func totalRow(rows []domain.AggregateRow, fields []domain.Field) domain.AggregateRow {
	total := domain.AggregateRow{Total: true, Sums: zeroSums(fields)}
	for _, row := range rows {
		if row.Total {
			continue
		}
		for f, v := range row.Sums {
			total.Sums[f] = total.Sums[f].Add(v)
		}
	}
	return total
}

func sameLabel(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// labelKey folds an agent label so that case variants group together
func labelKey(label string) string {
	return strings.ToUpper(strings.TrimSpace(label))
}

func containsLabel(list []string, label string) bool {
	for _, s := range list {
		if sameLabel(s, label) {
			return true
		}
	}
	return false
}

// percentOf returns part/whole*100, or zero when whole is zero
func percentOf(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	return part.Div(whole).Mul(hundred).InexactFloat64()
}
