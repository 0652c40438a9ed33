package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"ledgerdash/pkg/contracts/domain"
)

// Shares expresses each amount as a percentage of the sum of absolute
// amounts, largest first. When everything is zero all percentages are zero.
func Shares(values map[string]decimal.Decimal) []domain.Share {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v.Abs())
	}

	out := make([]domain.Share, 0, len(values))
	for label, v := range values {
		out = append(out, domain.Share{
			Label:   label,
			Amount:  v,
			Percent: percentOf(v.Abs(), total),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Amount.Abs(), out[j].Amount.Abs()
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// StatementShares is Shares over the lines of a statement
func StatementShares(st domain.Statement) []domain.Share {
	values := make(map[string]decimal.Decimal, len(st.Lines))
	for _, line := range st.Lines {
		values[line.Type] = line.Amount
	}
	return Shares(values)
}
