package dataprocessing

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"ledgerdash/internal/config"
	apperrors "ledgerdash/internal/errors"
	"ledgerdash/pkg/contracts/domain"
)

var (
	// NAME_<PERIOD>_<YEAR>, e.g. VENTE_JANVIER_2026
	sourceNamePattern = regexp.MustCompile(`_([A-ZÉÈÊÎÔÛÀÂÇ]+)_(\d{4})$`)
	yearPattern       = regexp.MustCompile(`(\d{4})`)
)

// SourcePeriod is the period a source file covers
type SourcePeriod struct {
	Period      string
	PeriodIndex int
	Year        int
}

// ParseSourceName extracts period and year from a file name ending in
// _<PERIOD>_<YEAR> before its extension. A name without that suffix is a
// naming convention violation; a suffix with an unknown month is an unknown period.
func ParseSourceName(filename string) (SourcePeriod, error) {
	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	m := sourceNamePattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(stem)))
	if m == nil {
		return SourcePeriod{}, apperrors.NamingConventionViolation(base)
	}

	idx, err := PeriodIndex(m[1])
	if err != nil {
		return SourcePeriod{}, fmt.Errorf("%s: %w", base, err)
	}
	year, _ := strconv.Atoi(m[2])

	return SourcePeriod{Period: MonthNames[idx-1], PeriodIndex: idx, Year: year}, nil
}

// YearFromName returns the first four-digit number in a file name
func YearFromName(filename string) (int, error) {
	base := filepath.Base(filename)
	m := yearPattern.FindString(base)
	if m == "" {
		return 0, apperrors.NamingConventionViolation(base).
			WithContext("reason", "no year in file name")
	}
	year, _ := strconv.Atoi(m)
	return year, nil
}

// Loader reads ledger and sales workbooks with a fixed layout
type Loader struct {
	cleaner   *Cleaner
	ledger    LoadOptions
	salesSkip int
	logger    *slog.Logger
}

// NewLoader creates a loader for the workbook layout in cfg
func NewLoader(cfg config.LedgerConfig, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		cleaner:   NewCleaner(logger),
		ledger:    LoadOptions{Columns: cfg.Columns, MaxRows: cfg.MaxRows},
		salesSkip: cfg.SalesSkipRows,
		logger:    logger.With(slog.String("component", "loader")),
	}
}

// LoadSheet reads and cleans one delivery ledger sheet
func (l *Loader) LoadSheet(wb *Workbook, sheet string) ([]domain.Record, error) {
	table, err := wb.ReadSheet(sheet, l.ledger)
	if err != nil {
		return nil, err
	}
	records, _, err := l.cleaner.Clean(table)
	if err != nil {
		return nil, fmt.Errorf("%s/%s: %w", wb.Name(), sheet, err)
	}
	return records, nil
}

// LoadMonths reads the month sheets of one workbook into a single record set
// tagged with period and, when the file name carries one, year. Months
// missing from the workbook are skipped; if none is found the selection is empty.
func (l *Loader) LoadMonths(wb *Workbook, months []string) ([]domain.Record, error) {
	if len(months) == 0 {
		return nil, apperrors.NoSelection("month")
	}
	year, _ := YearFromName(wb.Name())

	records, found, err := l.loadMonthSheets(wb, months, year)
	if err != nil {
		return nil, err
	}
	if found == 0 {
		return nil, apperrors.NoSelection("month").
			WithContext("file", wb.Name())
	}
	sortRecordsByPeriod(records)
	return records, nil
}

// LoadYears reads the same month sheets from several yearly workbooks. Each
// file name must carry its year, e.g. LIVRAISON_2024.xlsx; one bad name
// fails the whole batch.
func (l *Loader) LoadYears(wbs []*Workbook, months []string) ([]domain.Record, error) {
	if len(months) == 0 {
		return nil, apperrors.NoSelection("month")
	}
	if len(wbs) == 0 {
		return nil, apperrors.NoSelection("file")
	}

	years := make([]int, len(wbs))
	for i, wb := range wbs {
		year, err := YearFromName(wb.Name())
		if err != nil {
			return nil, err
		}
		years[i] = year
	}

	var all []domain.Record
	total := 0
	for i, wb := range wbs {
		records, found, err := l.loadMonthSheets(wb, months, years[i])
		if err != nil {
			return nil, err
		}
		total += found
		all = append(all, records...)
	}
	if total == 0 {
		return nil, apperrors.NoSelection("month")
	}

	sortRecordsByPeriod(all)
	return all, nil
}

func (l *Loader) loadMonthSheets(wb *Workbook, months []string, year int) ([]domain.Record, int, error) {
	sheets := wb.SheetNames()
	var out []domain.Record
	found := 0
	for _, month := range months {
		idx, err := PeriodIndex(month)
		if err != nil {
			return nil, 0, err
		}
		sheet, ok := MatchSheet(sheets, month)
		if !ok {
			l.logger.Warn("month sheet not found",
				slog.String("file", wb.Name()),
				slog.String("month", month))
			continue
		}
		found++

		records, err := l.LoadSheet(wb, sheet)
		if err != nil {
			return nil, 0, err
		}
		for i := range records {
			records[i].Year = year
			records[i].Period = MonthNames[idx-1]
			records[i].PeriodIndex = idx
		}
		out = append(out, records...)
	}
	return out, found, nil
}

func sortRecordsByPeriod(records []domain.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Year != records[j].Year {
			return records[i].Year < records[j].Year
		}
		return records[i].PeriodIndex < records[j].PeriodIndex
	})
}
