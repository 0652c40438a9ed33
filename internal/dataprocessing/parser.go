package dataprocessing

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "ledgerdash/internal/errors"
)

// LoadOptions controls which part of a sheet is read
type LoadOptions struct {
	// Columns restricts reading to a range such as "A:H". Empty reads every column.
	Columns string
	// MaxRows caps the number of rows read below the header. Zero means no cap.
	MaxRows int
	// SkipRows is the number of rows above the header row.
	SkipRows int
}

// RawTable is a sheet as strings: one header row and the data rows below it.
// Every data row has exactly len(Header) cells.
type RawTable struct {
	Source string
	Sheet  string
	Header []string
	Rows   [][]string
}

// Column returns the index of the named column, ignoring case, accents and spaces
func (t RawTable) Column(name string) (int, bool) {
	want := normalizeLabel(name)
	for i, h := range t.Header {
		if normalizeLabel(h) == want {
			return i, true
		}
	}
	return -1, false
}

// Workbook is an opened spreadsheet file
type Workbook struct {
	file *excelize.File
	name string
}

// OpenWorkbook opens an .xlsx file from disk
func OpenWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to open workbook %s", filepath.Base(path)), err)
	}
	return &Workbook{file: f, name: filepath.Base(path)}, nil
}

// OpenWorkbookReader opens an .xlsx stream. name is the original file name,
// used for naming-convention checks and error messages.
func OpenWorkbookReader(r io.Reader, name string) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to open workbook %s", name), err)
	}
	return &Workbook{file: f, name: filepath.Base(name)}, nil
}

// Name returns the base file name of the workbook
func (w *Workbook) Name() string {
	return w.name
}

// SheetNames returns the sheets in workbook order
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// Close releases the workbook
func (w *Workbook) Close() error {
	return w.file.Close()
}

// ReadSheet reads a sheet into a RawTable. Cell values are raw, so dates come
// back as Excel serial numbers and numbers without display formatting.
func (w *Workbook) ReadSheet(sheet string, opts LoadOptions) (RawTable, error) {
	first, last := 0, -1
	if opts.Columns != "" {
		var err error
		first, last, err = columnBounds(opts.Columns)
		if err != nil {
			return RawTable{}, err
		}
	}

	rows, err := w.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return RawTable{}, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q of %s", sheet, w.name), err).
			WithContext("sheet", sheet)
	}

	table := RawTable{Source: w.name, Sheet: sheet}
	if opts.SkipRows >= len(rows) {
		return table, nil
	}
	rows = rows[opts.SkipRows:]

	headerAt := -1
	for i, row := range rows {
		if !blankRow(sliceColumns(row, first, last)) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return table, nil
	}

	header := sliceColumns(rows[headerAt], first, last)
	if last < 0 {
		last = first + len(header) - 1
		for _, row := range rows[headerAt+1:] {
			if n := first + len(row) - 1; n > last {
				last = n
			}
		}
		header = sliceColumns(rows[headerAt], first, last)
	}
	table.Header = dedupeHeader(header)

	body := rows[headerAt+1:]
	if opts.MaxRows > 0 && len(body) > opts.MaxRows {
		body = body[:opts.MaxRows]
	}
	for _, row := range body {
		cells := sliceColumns(row, first, last)
		if blankRow(cells) {
			continue
		}
		table.Rows = append(table.Rows, cells)
	}

	return table, nil
}

// columnBounds converts "A:H" into zero-based inclusive indexes
func columnBounds(r string) (int, int, error) {
	a, b, ok := strings.Cut(strings.TrimSpace(r), ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid column range %q", r)
	}
	start, err := excelize.ColumnNameToNumber(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid column range %q: %w", r, err)
	}
	end, err := excelize.ColumnNameToNumber(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid column range %q: %w", r, err)
	}
	if end < start {
		return 0, 0, fmt.Errorf("invalid column range %q", r)
	}
	return start - 1, end - 1, nil
}

// sliceColumns returns cells first..last of row, padded with empty strings.
// A negative last keeps the row's own width.
func sliceColumns(row []string, first, last int) []string {
	if last < 0 {
		if first >= len(row) {
			return nil
		}
		return append([]string(nil), row[first:]...)
	}
	out := make([]string, last-first+1)
	for i := range out {
		if j := first + i; j < len(row) {
			out[i] = row[j]
		}
	}
	return out
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// dedupeHeader suffixes repeated names with ".1", ".2" and so on
func dedupeHeader(header []string) []string {
	seen := make(map[string]int, len(header))
	out := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if n, ok := seen[h]; ok {
			out[i] = fmt.Sprintf("%s.%d", h, n)
			seen[h] = n + 1
			continue
		}
		seen[h] = 1
		out[i] = h
	}
	return out
}
