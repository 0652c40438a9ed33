package reports

import (
	"sort"
	"strings"

	"ledgerdash/pkg/contracts/domain"
)

// Retour computes returns (ordered minus delivered) for every record. The
// detail keeps one row per record in input order and ends with a TOTAL row.
// perAgent sums the returns of each agent over the detail rows only, sorted
// by agent; case variants of a label count as one agent.
func Retour(records []domain.Record) (detail []domain.RetourRow, perAgent []domain.AgentRetour) {
	detail = make([]domain.RetourRow, 0, len(records)+1)
	byAgent := make(map[string]*domain.AgentRetour)

	for _, rec := range records {
		day := domain.Day(rec.Date)
		agent := strings.TrimSpace(rec.Agent)
		retour := rec.Value(domain.FieldRetour)
		detail = append(detail, domain.RetourRow{
			Date:      &day,
			Agent:     agent,
			Ordered:   rec.Ordered,
			Delivered: rec.Delivered,
			Retour:    retour,
		})

		key := labelKey(agent)
		agg, ok := byAgent[key]
		if !ok {
			agg = &domain.AgentRetour{Agent: agent}
			byAgent[key] = agg
		}
		agg.Retour = agg.Retour.Add(retour)
	}

	perAgent = make([]domain.AgentRetour, 0, len(byAgent))
	for _, agg := range byAgent {
		perAgent = append(perAgent, *agg)
	}
	sort.Slice(perAgent, func(i, j int) bool { return perAgent[i].Agent < perAgent[j].Agent })

	total := domain.RetourRow{Agent: domain.TotalLabel, Total: true}
	for _, row := range detail {
		total.Ordered = total.Ordered.Add(row.Ordered)
		total.Delivered = total.Delivered.Add(row.Delivered)
		total.Retour = total.Retour.Add(row.Retour)
	}
	detail = append(detail, total)

	return detail, perAgent
}
