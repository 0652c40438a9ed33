package exporter

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerdash/internal/reports"
	"ledgerdash/pkg/contracts/domain"
)

func sampleRecords() []domain.Record {
	day := func(d int) time.Time { return time.Date(2025, 12, d, 0, 0, 0, 0, time.UTC) }
	return []domain.Record{
		{Date: day(1), Agent: "AMINE", Ordered: decimal.NewFromInt(100), Delivered: decimal.NewFromInt(90), Deposited: decimal.NewFromInt(90)},
		{Date: day(1), Agent: "REDA", Ordered: decimal.NewFromInt(50), Delivered: decimal.NewFromInt(50), Deposited: decimal.NewFromInt(40), Note: "• retard"},
		{Date: day(2), Agent: "AMINE", Ordered: decimal.NewFromInt(80), Delivered: decimal.NewFromInt(80), Deposited: decimal.NewFromFloat(80.5)},
	}
}

func TestAggregateTable_ByDate(t *testing.T) {
	agg, err := reports.ByDate(sampleRecords(), []domain.Field{domain.FieldDelivered, domain.FieldDeposited})
	require.NoError(t, err)

	table := AggregateTable("daily", agg)
	assert.Equal(t, []string{"DATE", "T.LOGICIEL", "VERSEMENT"}, table.Headers)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, []int{2}, table.TotalRows)

	assert.Equal(t, []string{"2025-12-01", "140.00", "130.00"}, table.StringRow(table.Rows[0]))
	assert.Equal(t, []string{"TOTAL", "220.00", "210.50"}, table.StringRow(table.Rows[2]))
}

func TestAggregateTable_DetailWithNote(t *testing.T) {
	rows, err := reports.DayDetailE(sampleRecords(), time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		[]domain.Field{domain.FieldNote, domain.FieldDeposited})
	require.NoError(t, err)

	table := AggregateTable("detail", domain.AggregateTable{
		GroupBy: domain.GroupByDateAgent,
		Fields:  []domain.Field{domain.FieldNote, domain.FieldDeposited},
		Rows:    rows,
	})
	assert.Equal(t, []string{"DATE", "LIVREUR", "VERSEMENT", "OBSERVATION"}, table.Headers)
	assert.Equal(t, []string{"2025-12-01", "REDA", "40.00", "• retard"}, table.StringRow(table.Rows[1]))
}

func TestRetourTable(t *testing.T) {
	detail, _ := reports.Retour(sampleRecords())
	table := RetourTable(detail)

	assert.Equal(t, []string{"DATE", "LIVREUR", "T. COMMANDE", "T.LOGICIEL", "RETOUR"}, table.Headers)
	last := table.StringRow(table.Rows[len(table.Rows)-1])
	assert.Equal(t, []string{"", "TOTAL", "230.00", "220.00", "10.00"}, last)
	assert.Equal(t, []int{len(table.Rows) - 1}, table.TotalRows)
}

func TestPivotTable(t *testing.T) {
	p := reports.BuildPivot([]reports.PivotInput{
		{Row: "KARIM", Column: "JANVIER 2026", Value: decimal.NewFromInt(100)},
		{Row: "KARIM", Column: "FEVRIER 2026", Value: decimal.NewFromInt(50)},
	}, domain.MetricDelivery)

	table := PivotTable("pivot", "PREVENDEUR", p)
	assert.Equal(t, []string{"PREVENDEUR", "JANVIER 2026", "FEVRIER 2026", domain.GrandTotalLabel}, table.Headers)
	assert.Equal(t, []string{"KARIM", "100.00", "50.00", "150.00"}, table.StringRow(table.Rows[0]))
	assert.Equal(t, domain.GrandTotalLabel, table.Rows[1][0])
}

func TestPeriodTableAndOthers(t *testing.T) {
	rows, err := reports.PeriodTotals([]reports.PeriodInput{
		{Year: 2026, Period: "JANVIER", Values: map[string]decimal.Decimal{domain.MetricDelivery: decimal.NewFromInt(100)}},
		{Year: 2026, Period: "FEVRIER", Values: map[string]decimal.Decimal{domain.MetricDelivery: decimal.NewFromInt(150)}},
	}, []string{domain.MetricDelivery})
	require.NoError(t, err)

	pt := PeriodTable("mois", rows, []string{domain.MetricDelivery})
	assert.Equal(t, []string{"ENTITE", "ANNEE", "MOIS", "livraison", "delta_livraison", "delta_livraison_pct"}, pt.Headers)
	assert.Equal(t, []string{"", "2026", "FEVRIER", "150.00", "50.00", "50.00"}, pt.StringRow(pt.Rows[1]))

	obs := ObservationTable(reports.Observations(sampleRecords()))
	require.Len(t, obs.Rows, 1)
	assert.Equal(t, []interface{}{"REDA", "retard"}, obs.Rows[0])

	rec := RecordTable("global", sampleRecords())
	assert.Equal(t, "DATE", rec.Headers[0])
	assert.Equal(t, "MOIS", rec.Headers[len(rec.Headers)-1])
	assert.Len(t, rec.Rows, 3)

	st := StatementTable(reports.BuildStatement(sampleRecords(), []string{"ACCOMPTE"}))
	assert.Equal(t, "ACCOMPTE", st.Rows[0][0])
	assert.True(t, st.Rows[0][1].(decimal.Decimal).IsZero())

	couriers := CourierTable([]string{"AMINE", "REDA"})
	assert.Equal(t, []string{"LIVREUR"}, couriers.Headers)
	assert.Equal(t, [][]interface{}{{"AMINE"}, {"REDA"}}, couriers.Rows)
}
