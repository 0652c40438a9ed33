package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TotalLabel is the key shown on synthetic total rows
const TotalLabel = "TOTAL"

// GrandTotalLabel labels the margins of a pivot table
const GrandTotalLabel = "Total Général"

// NoDataMarker is returned in place of rows when a lookup matches nothing
const NoDataMarker = "No data"

// GroupKey names the grouping of an aggregate table
type GroupKey string

const (
	GroupByDate      GroupKey = "date"
	GroupByAgent     GroupKey = "agent"
	GroupByDateAgent GroupKey = "date_agent"
)

// AggregateRow is one group of an aggregate table. A row with Total set is
// the synthetic column-wise sum and carries neither date nor agent.
type AggregateRow struct {
	Date  *time.Time                `json:"date,omitempty"`
	Agent string                    `json:"agent,omitempty"`
	Total bool                      `json:"total,omitempty"`
	Sums  map[Field]decimal.Decimal `json:"sums"`
	Note  string                    `json:"note,omitempty"`
}

// Label renders the key of the row for display
func (r AggregateRow) Label() string {
	switch {
	case r.Total:
		return TotalLabel
	case r.Date != nil && r.Agent != "":
		return r.Date.Format("2006-01-02") + " " + r.Agent
	case r.Date != nil:
		return r.Date.Format("2006-01-02")
	default:
		return r.Agent
	}
}

// AggregateTable is a grouped report with a fixed column order
type AggregateTable struct {
	GroupBy GroupKey       `json:"group_by"`
	Fields  []Field        `json:"fields"`
	Rows    []AggregateRow `json:"rows"`
}

// HasTotal reports whether the last row is the synthetic total
func (t AggregateTable) HasTotal() bool {
	return len(t.Rows) > 0 && t.Rows[len(t.Rows)-1].Total
}

// RetourRow is one (date, agent) group of the returns report
type RetourRow struct {
	Date      *time.Time      `json:"date,omitempty"`
	Agent     string          `json:"agent,omitempty"`
	Ordered   decimal.Decimal `json:"ordered"`
	Delivered decimal.Decimal `json:"delivered"`
	Retour    decimal.Decimal `json:"retour"`
	Total     bool            `json:"total,omitempty"`
}

// AgentRetour is the sum of returns for one agent
type AgentRetour struct {
	Agent  string          `json:"agent"`
	Retour decimal.Decimal `json:"retour"`
}

// PeriodMetric is one (entity, year, period) group with its change against
// the previous period of the same entity
type PeriodMetric struct {
	Entity      string                     `json:"entity,omitempty"`
	Year        int                        `json:"year"`
	Period      string                     `json:"period"`
	PeriodIndex int                        `json:"period_index"`
	Values      map[string]decimal.Decimal `json:"values"`
	Previous    map[string]decimal.Decimal `json:"previous"`
	Delta       map[string]decimal.Decimal `json:"delta"`
	DeltaPct    map[string]float64         `json:"delta_pct"`
}

// PivotRow is one entity row of a pivot, cells aligned with Pivot.Columns
type PivotRow struct {
	Label string            `json:"label"`
	Cells []decimal.Decimal `json:"cells"`
	Total decimal.Decimal   `json:"total"`
}

// Pivot is an entity by period matrix with grand total margins
type Pivot struct {
	Metric  string     `json:"metric"`
	Columns []string   `json:"columns"`
	Rows    []PivotRow `json:"rows"`
	Totals  PivotRow   `json:"totals"`
}

// StatementLine is one line of the monthly statement
type StatementLine struct {
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	AbsAmount decimal.Decimal `json:"abs_amount"`
}

// Statement summarizes a month: ledger accounts apart from courier activity
type Statement struct {
	Accounts   map[string]decimal.Decimal `json:"accounts"`
	Deposited  decimal.Decimal            `json:"deposited"`
	TotalOrder decimal.Decimal            `json:"total_order"`
	Expenses   decimal.Decimal            `json:"expenses"`
	Retour     decimal.Decimal            `json:"retour"`
	Lines      []StatementLine            `json:"lines"`
}

// Observation gathers the notes written for one agent
type Observation struct {
	Agent string   `json:"agent"`
	Notes []string `json:"notes"`
}

// Share is a labelled amount with its percentage of the absolute total
type Share struct {
	Label   string          `json:"label"`
	Amount  decimal.Decimal `json:"amount"`
	Percent float64         `json:"percent"`
}
