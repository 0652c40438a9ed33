package reports

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"ledgerdash/internal/dataprocessing"
	apperrors "ledgerdash/internal/errors"
	"ledgerdash/pkg/contracts/domain"
)

// PeriodInput is one row fed to the period calculator. PeriodIndex may be left
// zero, in which case it is resolved from the Period label.
type PeriodInput struct {
	Entity      string
	Year        int
	Period      string
	PeriodIndex int
	Values      map[string]decimal.Decimal
}

type periodKey struct {
	entity string
	year   int
	index  int
}

// PeriodTotals sums metrics per (year, period) across all entities and
// computes the change against the previous period.
func PeriodTotals(inputs []PeriodInput, metrics []string) ([]domain.PeriodMetric, error) {
	return periodTotals(inputs, metrics, false)
}

// PeriodTotalsByEntity sums metrics per (entity, year, period). Deltas are
// taken within each entity's own sequence of periods.
func PeriodTotalsByEntity(inputs []PeriodInput, metrics []string) ([]domain.PeriodMetric, error) {
	return periodTotals(inputs, metrics, true)
}

func periodTotals(inputs []PeriodInput, metrics []string, byEntity bool) ([]domain.PeriodMetric, error) {
	if len(metrics) == 0 {
		return nil, apperrors.NoSelection("metric")
	}

	groups := make(map[periodKey]*domain.PeriodMetric)
	for _, in := range inputs {
		idx := in.PeriodIndex
		if idx == 0 {
			var err error
			if idx, err = dataprocessing.PeriodIndex(in.Period); err != nil {
				return nil, err
			}
		}
		if idx < 1 || idx > len(dataprocessing.MonthNames) {
			return nil, apperrors.UnknownPeriod(in.Period)
		}

		key := periodKey{year: in.Year, index: idx}
		if byEntity {
			key.entity = strings.TrimSpace(in.Entity)
		}
		m, ok := groups[key]
		if !ok {
			m = &domain.PeriodMetric{
				Entity:      key.entity,
				Year:        in.Year,
				Period:      dataprocessing.MonthNames[idx-1],
				PeriodIndex: idx,
				Values:      zeroMetrics(metrics),
			}
			groups[key] = m
		}
		for _, name := range metrics {
			m.Values[name] = m.Values[name].Add(in.Values[name])
		}
	}

	out := make([]domain.PeriodMetric, 0, len(groups))
	for _, m := range groups {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.PeriodIndex != b.PeriodIndex {
			return a.PeriodIndex < b.PeriodIndex
		}
		return a.Entity < b.Entity
	})

	last := make(map[string]map[string]decimal.Decimal)
	for i := range out {
		m := &out[i]
		m.Previous = zeroMetrics(metrics)
		m.Delta = zeroMetrics(metrics)
		m.DeltaPct = make(map[string]float64, len(metrics))
		prev, seen := last[m.Entity]
		for _, name := range metrics {
			m.DeltaPct[name] = 0
			if !seen {
				continue
			}
			m.Previous[name] = prev[name]
			m.Delta[name] = m.Values[name].Sub(prev[name])
			m.DeltaPct[name] = percentOf(m.Delta[name], prev[name])
		}
		last[m.Entity] = m.Values
	}

	return out, nil
}

func zeroMetrics(metrics []string) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(metrics))
	for _, name := range metrics {
		out[name] = decimal.Zero
	}
	return out
}

// GrandTotal sums each metric over all period rows
func GrandTotal(rows []domain.PeriodMetric, metrics []string) map[string]decimal.Decimal {
	total := zeroMetrics(metrics)
	for _, row := range rows {
		for _, name := range metrics {
			total[name] = total[name].Add(row.Values[name])
		}
	}
	return total
}

// SalesMetrics are the metrics PeriodInputsFromSales fills
var SalesMetrics = []string{domain.MetricDelivery, domain.MetricProfit}

// LedgerMetrics are the metrics PeriodInputsFromRecords fills
var LedgerMetrics = []string{domain.MetricDeposited, domain.MetricOrders, domain.MetricExpenses}

// PeriodInputsFromSales feeds sales lines to the period calculator, the
// seller being the entity
func PeriodInputsFromSales(lines []domain.SaleLine) []PeriodInput {
	out := make([]PeriodInput, 0, len(lines))
	for _, l := range lines {
		out = append(out, PeriodInput{
			Entity:      l.Seller,
			Year:        l.Year,
			Period:      l.Period,
			PeriodIndex: l.PeriodIndex,
			Values: map[string]decimal.Decimal{
				domain.MetricDelivery: l.Delivery,
				domain.MetricProfit:   l.Profit,
				domain.MetricQuantity: l.Quantity,
			},
		})
	}
	return out
}

// PeriodInputsFromRecords feeds month-tagged ledger records to the period
// calculator, the agent being the entity
func PeriodInputsFromRecords(records []domain.Record) []PeriodInput {
	out := make([]PeriodInput, 0, len(records))
	for _, r := range records {
		out = append(out, PeriodInput{
			Entity:      r.Agent,
			Year:        r.Year,
			Period:      r.Period,
			PeriodIndex: r.PeriodIndex,
			Values: map[string]decimal.Decimal{
				domain.MetricDeposited: r.Deposited,
				domain.MetricOrders:    r.Ordered,
				domain.MetricExpenses:  r.Expense,
			},
		})
	}
	return out
}
