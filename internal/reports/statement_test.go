package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerdash/pkg/contracts/domain"
)

func TestBuildStatement(t *testing.T) {
	accounts := []string{"ACCOMPTE", "CREDIT", "VERS. CREDIT"}
	charge := rec(d(12, 1), "AMINE", 100, 90, 80)
	charge.Expense = dec(15)
	records := []domain.Record{
		charge,
		rec(d(12, 1), "REDA", 50, 50, 50),
		rec(d(12, 2), "accompte", 0, 0, 300),
		rec(d(12, 2), "CREDIT", 0, 0, -120),
	}

	st := BuildStatement(records, accounts)

	assertDecimal(t, 300, st.Accounts["ACCOMPTE"])
	assertDecimal(t, -120, st.Accounts["CREDIT"])
	assertDecimal(t, 0, st.Accounts["VERS. CREDIT"])
	assertDecimal(t, 310, st.Deposited)
	assertDecimal(t, 140, st.TotalOrder)
	assertDecimal(t, 15, st.Expenses)
	assertDecimal(t, 10, st.Retour)

	require.Len(t, st.Lines, 7)
	assert.Equal(t, "ACCOMPTE", st.Lines[0].Type)
	assert.Equal(t, "CREDIT", st.Lines[1].Type)
	assertDecimal(t, 120, st.Lines[1].AbsAmount)
	assert.Equal(t, LineRetour, st.Lines[6].Type)
}

func TestStatementShares(t *testing.T) {
	st := BuildStatement([]domain.Record{rec(d(12, 1), "AMINE", 100, 75, 25)}, nil)
	shares := StatementShares(st)
	require.Len(t, shares, 4)

	var sum float64
	for _, s := range shares {
		sum += s.Percent
	}
	assert.InDelta(t, 100.0, sum, 1e-9)
	assert.Equal(t, LineTotalOrder, shares[0].Label)
}
