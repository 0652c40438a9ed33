package reports

import (
	"github.com/shopspring/decimal"

	"ledgerdash/pkg/contracts/domain"
)

// Statement line types, in display order after the accounts
const (
	LineDeposited  = "VERSEMENT"
	LineTotalOrder = "TOTAL COMMANDE"
	LineExpenses   = "CHARGES"
	LineRetour     = "RETOUR"
)

// BuildStatement summarizes a month sheet. Accounts holds the deposits booked
// under each ledger account label; the other totals run over every record,
// accounts included.
func BuildStatement(records []domain.Record, accounts []string) domain.Statement {
	st := domain.Statement{Accounts: make(map[string]decimal.Decimal, len(accounts))}
	for _, acc := range accounts {
		st.Accounts[acc] = decimal.Zero
	}

	for _, rec := range records {
		for _, acc := range accounts {
			if sameLabel(acc, rec.Agent) {
				st.Accounts[acc] = st.Accounts[acc].Add(rec.Deposited)
				break
			}
		}
		st.Deposited = st.Deposited.Add(rec.Deposited)
		st.TotalOrder = st.TotalOrder.Add(rec.Delivered)
		st.Expenses = st.Expenses.Add(rec.Expense)
		st.Retour = st.Retour.Add(rec.Value(domain.FieldRetour))
	}

	st.Lines = make([]domain.StatementLine, 0, len(accounts)+4)
	for _, acc := range accounts {
		st.Lines = append(st.Lines, statementLine(acc, st.Accounts[acc]))
	}
	st.Lines = append(st.Lines,
		statementLine(LineDeposited, st.Deposited),
		statementLine(LineTotalOrder, st.TotalOrder),
		statementLine(LineExpenses, st.Expenses),
		statementLine(LineRetour, st.Retour),
	)
	return st
}

func statementLine(label string, amount decimal.Decimal) domain.StatementLine {
	return domain.StatementLine{Type: label, Amount: amount, AbsAmount: amount.Abs()}
}
