package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerdash/pkg/contracts/domain"
)

func agentRecords() []domain.Record {
	return []domain.Record{
		rec(d(12, 1), "AMINE", 100, 90, 90),
		rec(d(12, 1), "REDA", 300, 280, 250),
		rec(d(12, 2), "AMINE", 50, 50, 40),
		rec(d(12, 2), "TOUFIK", 20, 20, 20),
		rec(d(12, 2), "ACCOMPTE", 0, 0, 500),
	}
}

func labels(rows []domain.AggregateRow) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = row.Label()
	}
	return out
}

func TestByAgent(t *testing.T) {
	fields := []domain.Field{domain.FieldDelivered, domain.FieldDeposited}

	tests := []struct {
		name string
		opts AgentOptions
		want []string
	}{
		{
			name: "alphabetical by default",
			opts: AgentOptions{Allow: []string{"REDA", "AMINE", "TOUFIK"}},
			want: []string{"AMINE", "REDA", "TOUFIK"},
		},
		{
			name: "descending by deposits",
			opts: AgentOptions{Allow: []string{"REDA", "AMINE", "TOUFIK"}, SortBy: domain.FieldDeposited, Descending: true},
			want: []string{"REDA", "AMINE", "TOUFIK"},
		},
		{
			name: "ascending by deposits",
			opts: AgentOptions{Allow: []string{"REDA", "AMINE", "TOUFIK"}, SortBy: domain.FieldDeposited},
			want: []string{"TOUFIK", "AMINE", "REDA"},
		},
		{
			name: "allow-list ignores case",
			opts: AgentOptions{Allow: []string{"amine"}},
			want: []string{"AMINE"},
		},
		{
			name: "agent absent from data",
			opts: AgentOptions{Allow: []string{"MOHAMED"}},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ByAgent(agentRecords(), fields, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, labels(table.Rows))
			assert.False(t, table.HasTotal())
		})
	}
}

func TestByAgent_Sums(t *testing.T) {
	table, err := ByAgent(agentRecords(), []domain.Field{domain.FieldDelivered}, AgentOptions{Allow: []string{"AMINE"}})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assertDecimal(t, 140, table.Rows[0].Sums[domain.FieldDelivered])
}

func TestByAgent_FoldsCaseVariants(t *testing.T) {
	records := []domain.Record{
		rec(d(12, 1), "AMINE", 100, 100, 0),
		rec(d(12, 1), "Amine", 40, 40, 0),
		rec(d(12, 2), " amine ", 10, 10, 0),
		rec(d(12, 2), "REDA", 5, 5, 0),
	}

	table, err := ByAgent(records, []domain.Field{domain.FieldOrdered}, AgentOptions{Allow: []string{"AMINE", "reda"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"AMINE", "REDA"}, labels(table.Rows))
	assertDecimal(t, 150, table.Rows[0].Sums[domain.FieldOrdered])

	table, err = ByAgent(records, []domain.Field{domain.FieldOrdered}, AgentOptions{
		Allow:  []string{"AMINE", "REDA"},
		SortBy: domain.FieldOrdered,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"REDA", "AMINE"}, labels(table.Rows))
}

func TestByAgent_EmptyAllowList(t *testing.T) {
	table, err := ByAgent(agentRecords(), []domain.Field{domain.FieldDelivered}, AgentOptions{})
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
	assert.False(t, table.HasTotal())
}

func TestByAgent_InvalidSortField(t *testing.T) {
	_, err := ByAgent(agentRecords(), []domain.Field{domain.FieldDelivered}, AgentOptions{Allow: []string{"AMINE"}, SortBy: "speed"})
	assert.Error(t, err)
}

func TestAgentsAndKind(t *testing.T) {
	accounts := []string{"ACCOMPTE", "CREDIT", "VERS. CREDIT"}

	assert.Equal(t, domain.EntityAccount, KindOf("accompte", accounts))
	assert.Equal(t, domain.EntityCourier, KindOf("AMINE", accounts))

	assert.Equal(t, []string{"AMINE", "REDA", "TOUFIK"}, Agents(agentRecords(), accounts, domain.EntityCourier))
	assert.Equal(t, []string{"ACCOMPTE"}, Agents(agentRecords(), accounts, domain.EntityAccount))

	mixed := append(agentRecords(), rec(d(12, 3), "Amine", 1, 1, 0), rec(d(12, 3), "Accompte", 0, 0, 1))
	assert.Equal(t, []string{"AMINE", "REDA", "TOUFIK"}, Agents(mixed, accounts, domain.EntityCourier))
	assert.Equal(t, []string{"ACCOMPTE"}, Agents(mixed, accounts, domain.EntityAccount))
}

func TestFilterAgents(t *testing.T) {
	rows := []domain.AgentRetour{{Agent: "AMINE"}, {Agent: "REDA"}, {Agent: "TOUFIK"}}
	got := FilterAgents(rows, []string{"TOUFIK", "AMINE"})
	assert.Equal(t, []domain.AgentRetour{{Agent: "AMINE"}, {Agent: "TOUFIK"}}, got)
	assert.Empty(t, FilterAgents(rows, nil))
}
