package reports

import (
	"sort"
	"strings"

	"ledgerdash/pkg/contracts/domain"
)

const bullet = "•"

// Observations gathers the notes of each agent in record order. A note holding
// several bullet points yields one entry per point. Agents without notes are
// listed with an empty slice.
func Observations(records []domain.Record) []domain.Observation {
	byAgent := make(map[string]*domain.Observation)
	for _, rec := range records {
		agent := strings.TrimSpace(rec.Agent)
		obs, ok := byAgent[agent]
		if !ok {
			obs = &domain.Observation{Agent: agent, Notes: []string{}}
			byAgent[agent] = obs
		}
		for _, part := range strings.Split(rec.Note, bullet) {
			if part = strings.TrimSpace(part); part != "" {
				obs.Notes = append(obs.Notes, part)
			}
		}
	}

	out := make([]domain.Observation, 0, len(byAgent))
	for _, obs := range byAgent {
		out = append(out, *obs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Agent < out[j].Agent })
	return out
}
