package dataprocessing

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	apperrors "ledgerdash/internal/errors"
	"ledgerdash/pkg/contracts/domain"
)

// CleanResult is the outcome of cleaning a ledger sheet. On failure Records
// is nil and Message explains what is wrong with the input.
type CleanResult struct {
	Success bool            `json:"success"`
	Records []domain.Record `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// CleanStats counts what the cleaner discarded or coerced
type CleanStats struct {
	InputRows    int
	Kept         int
	DroppedNoDay int
	Coerced      int
}

// Cleaner turns raw ledger rows into records
type Cleaner struct {
	logger *slog.Logger
}

// NewCleaner creates a cleaner. A nil logger falls back to slog.Default.
func NewCleaner(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{logger: logger.With(slog.String("component", "cleaner"))}
}

// Excel serial bounds accepted as dates: 1970-01-01 up to 9999-12-31. Smaller
// numbers in the DATE column are row counts or years, not days.
const (
	minDateSerial = 25569
	maxDateSerial = 2958465
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"02-01-2006",
	"2/1/2006",
	"02/01/06",
	time.RFC3339,
}

// Clean cleans table with a default cleaner and never fails: problems are
// reported through the result.
func Clean(table RawTable) CleanResult {
	records, _, err := NewCleaner(nil).Clean(table)
	if err != nil {
		return CleanResult{Success: false, Message: err.Error()}
	}
	return CleanResult{Success: true, Records: records}
}

// Clean converts the rows of table into records.
//
// The DATE column is required: if it is absent, or if it holds values and none
// of them parse as a date, the whole table fails with a missing column error.
// Rows without a parseable date are footer or subtotal lines and are dropped.
// Numeric cells that do not parse become zero, as do absent numeric columns.
// A missing or "nan" note becomes the empty string.
func (c *Cleaner) Clean(table RawTable) ([]domain.Record, CleanStats, error) {
	stats := CleanStats{InputRows: len(table.Rows)}

	dateCol, ok := table.Column("DATE")
	if !ok {
		return nil, stats, apperrors.MissingColumn("DATE").
			WithContext("sheet", table.Sheet)
	}

	agentCol, hasAgent := table.Column("LIVREUR")
	noteCol, hasNote := table.Column("OBSERVATION")
	numCols := make(map[domain.Field]int, len(domain.NumericFields))
	for _, f := range domain.NumericFields {
		if idx, ok := table.Column(ColumnLabel(f)); ok {
			numCols[f] = idx
		}
	}

	records := make([]domain.Record, 0, len(table.Rows))
	nonEmptyDates := 0
	for _, row := range table.Rows {
		if strings.TrimSpace(row[dateCol]) != "" {
			nonEmptyDates++
		}
		day, ok := ParseDate(row[dateCol])
		if !ok {
			stats.DroppedNoDay++
			continue
		}

		rec := domain.Record{Date: day}
		if hasAgent {
			rec.Agent = strings.TrimSpace(row[agentCol])
		}
		if hasNote {
			rec.Note = normalizeNote(row[noteCol])
		}
		for f, idx := range numCols {
			v, ok := ParseAmount(row[idx])
			if !ok {
				stats.Coerced++
			}
			setNumeric(&rec, f, v)
		}
		records = append(records, rec)
	}

	if len(records) == 0 && nonEmptyDates > 0 {
		return nil, stats, apperrors.MissingColumn("DATE").
			WithContext("sheet", table.Sheet).
			WithContext("reason", "no value parses as a date")
	}

	stats.Kept = len(records)
	c.logger.Debug("sheet cleaned",
		slog.String("source", table.Source),
		slog.String("sheet", table.Sheet),
		slog.Int("input_rows", stats.InputRows),
		slog.Int("kept", stats.Kept),
		slog.Int("dropped_no_date", stats.DroppedNoDay),
		slog.Int("coerced", stats.Coerced))

	return records, stats, nil
}

func setNumeric(rec *domain.Record, f domain.Field, v decimal.Decimal) {
	switch f {
	case domain.FieldOrdered:
		rec.Ordered = v
	case domain.FieldDelivered:
		rec.Delivered = v
	case domain.FieldDeposited:
		rec.Deposited = v
	case domain.FieldExpense:
		rec.Expense = v
	case domain.FieldDifference:
		rec.Difference = v
	}
}

// ParseDate reads a calendar day from an Excel serial number or a textual date.
// Serials before 1970 are rejected.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial < minDateSerial || serial > maxDateSerial {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return domain.Day(t), true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.Day(t), true
		}
	}
	return time.Time{}, false
}

// ParseAmount reads a number written with optional thousands separators and a
// trailing "DA" currency mark. Unparseable input yields zero and false; empty
// input yields zero and true.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" || strings.EqualFold(s, "nan") {
		return decimal.Zero, true
	}

	upper := strings.ToUpper(s)
	if strings.HasSuffix(upper, "DA") {
		s = strings.TrimSpace(s[:len(s)-2])
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', '\'':
			return -1
		}
		return r
	}, s)

	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0:
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		if strings.Count(s, ",") == 1 && len(s)-comma-1 != 3 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}

func normalizeNote(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "nan") || strings.EqualFold(s, "none") {
		return ""
	}
	return s
}
