package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Field identifies one column of a delivery ledger sheet
type Field string

const (
	FieldDate       Field = "date"
	FieldAgent      Field = "agent"
	FieldOrdered    Field = "ordered"
	FieldDelivered  Field = "delivered"
	FieldDeposited  Field = "deposited"
	FieldExpense    Field = "expense"
	FieldDifference Field = "difference"
	FieldNote       Field = "note"
	// FieldRetour is derived: ordered minus delivered.
	FieldRetour Field = "retour"
)

// NumericFields lists the ledger fields coerced to numbers during cleaning, in sheet order
var NumericFields = []Field{
	FieldOrdered,
	FieldDelivered,
	FieldDeposited,
	FieldExpense,
	FieldDifference,
}

// EntityKind separates delivery couriers from ledger accounts that share the agent column
type EntityKind string

const (
	EntityCourier EntityKind = "courier"
	EntityAccount EntityKind = "account"
)

// Record is one cleaned row of a delivery ledger
type Record struct {
	Date       time.Time       `json:"date" validate:"required"`
	Agent      string          `json:"agent"`
	Ordered    decimal.Decimal `json:"ordered"`
	Delivered  decimal.Decimal `json:"delivered"`
	Deposited  decimal.Decimal `json:"deposited"`
	Expense    decimal.Decimal `json:"expense"`
	Difference decimal.Decimal `json:"difference"`
	Note       string          `json:"note"`

	// Set only for records loaded from a named month sheet
	Year        int    `json:"year,omitempty"`
	Period      string `json:"period,omitempty"`
	PeriodIndex int    `json:"period_index,omitempty"`
}

// Value returns the numeric value of f. Retour is computed on the fly.
// Non-numeric fields yield zero.
func (r Record) Value(f Field) decimal.Decimal {
	switch f {
	case FieldOrdered:
		return r.Ordered
	case FieldDelivered:
		return r.Delivered
	case FieldDeposited:
		return r.Deposited
	case FieldExpense:
		return r.Expense
	case FieldDifference:
		return r.Difference
	case FieldRetour:
		return r.Ordered.Sub(r.Delivered)
	}
	return decimal.Zero
}

// Day truncates t to its calendar day in UTC
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
