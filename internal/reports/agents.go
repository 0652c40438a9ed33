package reports

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"ledgerdash/pkg/contracts/domain"
)

// AgentOptions selects and orders the rows of ByAgent
type AgentOptions struct {
	// Allow lists the agents to report. An empty list reports nobody.
	Allow []string
	// SortBy orders rows by this field instead of by agent name.
	SortBy     domain.Field
	Descending bool
}

// ByAgent sums fields per agent for the agents in opts.Allow. Labels match the
// allow-list ignoring case, and case variants of a label fold into one row
// under its first spelling. The table has no TOTAL row.
func ByAgent(records []domain.Record, fields []domain.Field, opts AgentOptions) (domain.AggregateTable, error) {
	if err := validateFields(fields); err != nil {
		return domain.AggregateTable{}, err
	}
	if opts.SortBy != "" {
		if err := validateFields([]domain.Field{opts.SortBy}); err != nil {
			return domain.AggregateTable{}, err
		}
	}

	table := domain.AggregateTable{
		GroupBy: domain.GroupByAgent,
		Fields:  append([]domain.Field(nil), fields...),
		Rows:    []domain.AggregateRow{},
	}
	if len(opts.Allow) == 0 {
		return table, nil
	}

	groups := make(map[string]*domain.AggregateRow)
	order := make(map[string]decimal.Decimal)
	for _, rec := range records {
		agent := strings.TrimSpace(rec.Agent)
		if !containsLabel(opts.Allow, agent) {
			continue
		}
		key := labelKey(agent)
		row, ok := groups[key]
		if !ok {
			row = &domain.AggregateRow{Agent: agent, Sums: zeroSums(fields)}
			groups[key] = row
		}
		addValues(row.Sums, rec, fields)
		if opts.SortBy != "" {
			order[row.Agent] = order[row.Agent].Add(rec.Value(opts.SortBy))
		}
	}

	for _, row := range groups {
		table.Rows = append(table.Rows, *row)
	}
	sort.Slice(table.Rows, func(i, j int) bool {
		a, b := table.Rows[i].Agent, table.Rows[j].Agent
		if va, vb := order[a], order[b]; !va.Equal(vb) {
			if opts.Descending {
				return va.GreaterThan(vb)
			}
			return va.LessThan(vb)
		}
		return a < b
	})

	return table, nil
}

// FilterAgents keeps the per-agent returns of the allowed agents, in input order
func FilterAgents(rows []domain.AgentRetour, allow []string) []domain.AgentRetour {
	out := make([]domain.AgentRetour, 0, len(rows))
	for _, row := range rows {
		if containsLabel(allow, row.Agent) {
			out = append(out, row)
		}
	}
	return out
}

// KindOf classifies an agent label as a ledger account or a courier
func KindOf(agent string, accounts []string) domain.EntityKind {
	if containsLabel(accounts, agent) {
		return domain.EntityAccount
	}
	return domain.EntityCourier
}

// Agents returns the distinct agent labels of the given kind, sorted. Case
// variants of a label are one agent, reported with its first spelling.
func Agents(records []domain.Record, accounts []string, kind domain.EntityKind) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, rec := range records {
		agent := strings.TrimSpace(rec.Agent)
		if agent == "" || KindOf(agent, accounts) != kind {
			continue
		}
		key := labelKey(agent)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, agent)
	}
	sort.Strings(out)
	return out
}
