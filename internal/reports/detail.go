package reports

import (
	"errors"
	"sort"
	"strings"
	"time"

	"ledgerdash/internal/dataprocessing"
	apperrors "ledgerdash/internal/errors"
	"ledgerdash/pkg/contracts/domain"
)

// noteSeparator joins the notes of a group; Observations splits on it
const noteSeparator = " • "

// DetailResult is the outcome of a day lookup. A day without records yields
// Success false and the "No data" marker.
type DetailResult struct {
	Success bool                  `json:"success"`
	Rows    []domain.AggregateRow `json:"data,omitempty"`
	Marker  string                `json:"marker,omitempty"`
	Message string                `json:"message,omitempty"`
}

// DayDetail is the non-failing form of DayDetailE
func DayDetail(records []domain.Record, day time.Time, fields []domain.Field) DetailResult {
	rows, err := DayDetailE(records, day, fields)
	switch {
	case errors.Is(err, apperrors.ErrDateNotFound):
		return DetailResult{Success: false, Marker: domain.NoDataMarker}
	case err != nil:
		return DetailResult{Success: false, Message: err.Error()}
	}
	return DetailResult{Success: true, Rows: rows}
}

// DayDetailE groups the records of one calendar day by agent, summing the
// numeric fields. The note field may be requested: the notes of a group are
// joined with a bullet. A day with no record is a DateNotFound error.
func DayDetailE(records []domain.Record, day time.Time, fields []domain.Field) ([]domain.AggregateRow, error) {
	if err := dataprocessing.ValidateSumFields(fields, true); err != nil {
		return nil, err
	}
	withNote := false
	for _, f := range fields {
		if f == domain.FieldNote {
			withNote = true
		}
	}

	day = domain.Day(day)
	groups := make(map[string]*domain.AggregateRow)
	notes := make(map[string][]string)
	for _, rec := range records {
		if !domain.Day(rec.Date).Equal(day) {
			continue
		}
		agent := strings.TrimSpace(rec.Agent)
		row, ok := groups[agent]
		if !ok {
			d := day
			row = &domain.AggregateRow{Date: &d, Agent: agent, Sums: zeroSums(fields)}
			groups[agent] = row
		}
		addValues(row.Sums, rec, fields)
		if withNote && rec.Note != "" {
			notes[agent] = append(notes[agent], rec.Note)
		}
	}
	if len(groups) == 0 {
		return nil, apperrors.DateNotFound(day.Format("2006-01-02"))
	}

	rows := make([]domain.AggregateRow, 0, len(groups))
	for agent, row := range groups {
		row.Note = strings.Join(notes[agent], noteSeparator)
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Agent < rows[j].Agent })
	return rows, nil
}
