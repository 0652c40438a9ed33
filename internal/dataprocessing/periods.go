package dataprocessing

import (
	"strings"

	apperrors "ledgerdash/internal/errors"
)

// monthIndex maps accent-free upper-case French month names to 1..12
var monthIndex = map[string]int{
	"JANVIER":   1,
	"FEVRIER":   2,
	"MARS":      3,
	"AVRIL":     4,
	"MAI":       5,
	"JUIN":      6,
	"JUILLET":   7,
	"AOUT":      8,
	"SEPTEMBRE": 9,
	"OCTOBRE":   10,
	"NOVEMBRE":  11,
	"DECEMBRE":  12,
}

// MonthNames lists the canonical month labels in calendar order
var MonthNames = []string{
	"JANVIER", "FEVRIER", "MARS", "AVRIL", "MAI", "JUIN",
	"JUILLET", "AOUT", "SEPTEMBRE", "OCTOBRE", "NOVEMBRE", "DECEMBRE",
}

// PeriodIndex returns the chronological index (1..12) of a month label.
// Case, surrounding space and diacritics are ignored, so "Février",
// "FÉVRIER" and "fevrier" all map to 2. Unknown labels are an error.
func PeriodIndex(label string) (int, error) {
	key := strings.ToUpper(foldAccents(strings.TrimSpace(label)))
	idx, ok := monthIndex[key]
	if !ok {
		return 0, apperrors.UnknownPeriod(label)
	}
	return idx, nil
}

// CanonicalPeriod returns the canonical label of a month
func CanonicalPeriod(label string) (string, error) {
	idx, err := PeriodIndex(label)
	if err != nil {
		return "", err
	}
	return MonthNames[idx-1], nil
}

// MatchSheet finds the sheet of a workbook holding the given month.
// An exact name wins; otherwise sheet names are compared as period labels.
func MatchSheet(sheets []string, month string) (string, bool) {
	for _, s := range sheets {
		if s == month {
			return s, true
		}
	}
	want, err := PeriodIndex(month)
	if err != nil {
		return "", false
	}
	for _, s := range sheets {
		if idx, err := PeriodIndex(s); err == nil && idx == want {
			return s, true
		}
	}
	return "", false
}
