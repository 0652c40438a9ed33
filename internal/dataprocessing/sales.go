package dataprocessing

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	apperrors "ledgerdash/internal/errors"
	"ledgerdash/pkg/contracts/domain"
)

// Column headers of a seller sheet. The quantity header appears twice and
// the second occurrence holds the delivered quantity.
const (
	salesFamily    = "Famille"
	salesSubFamily = "Sous famille"
	salesProduct   = "Produit"
	salesQuantity  = "Quantité.1"
	salesDelivery  = "Total livraison (DA)"
	salesProfit    = "Total bénéfice (DA)"
)

// LoadSales reads sales workbooks named NAME_<PERIOD>_<YEAR>.xlsx. Every
// sheet after the first holds one seller. A file with a nonconforming name
// fails the whole batch.
func (l *Loader) LoadSales(wbs []*Workbook) ([]domain.SaleLine, error) {
	if len(wbs) == 0 {
		return nil, apperrors.NoSelection("file")
	}

	periods := make([]SourcePeriod, len(wbs))
	for i, wb := range wbs {
		p, err := ParseSourceName(wb.Name())
		if err != nil {
			return nil, err
		}
		periods[i] = p
	}
	return l.loadSales(wbs, periods)
}

// LoadSalesLabeled is LoadSales with explicit NAME_<PERIOD>_<YEAR> labels
// instead of file names, one label per workbook.
func (l *Loader) LoadSalesLabeled(wbs []*Workbook, labels []string) ([]domain.SaleLine, error) {
	if len(wbs) != len(labels) {
		return nil, apperrors.MismatchedCount(len(wbs), len(labels))
	}
	if len(wbs) == 0 {
		return nil, apperrors.NoSelection("file")
	}

	periods := make([]SourcePeriod, len(labels))
	for i, label := range labels {
		p, err := ParseSourceName(label)
		if err != nil {
			return nil, err
		}
		periods[i] = p
	}
	return l.loadSales(wbs, periods)
}

func (l *Loader) loadSales(wbs []*Workbook, periods []SourcePeriod) ([]domain.SaleLine, error) {
	var lines []domain.SaleLine
	for i, wb := range wbs {
		sheets := wb.SheetNames()
		if len(sheets) < 2 {
			l.logger.Warn("sales workbook has no seller sheet", slog.String("file", wb.Name()))
			continue
		}
		for _, sheet := range sheets[1:] {
			table, err := wb.ReadSheet(sheet, LoadOptions{SkipRows: l.salesSkip})
			if err != nil {
				return nil, err
			}
			sheetLines, err := SaleLinesFromTable(table, strings.TrimSpace(sheet), periods[i])
			if err != nil {
				return nil, fmt.Errorf("%s/%s: %w", wb.Name(), sheet, err)
			}
			lines = append(lines, sheetLines...)
		}
	}

	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].Year != lines[j].Year {
			return lines[i].Year < lines[j].Year
		}
		return lines[i].PeriodIndex < lines[j].PeriodIndex
	})
	return lines, nil
}

// SaleLinesFromTable converts a seller sheet into sale lines. Rows without a
// family are subtotal lines and are dropped.
func SaleLinesFromTable(table RawTable, seller string, period SourcePeriod) ([]domain.SaleLine, error) {
	if len(table.Header) == 0 {
		return nil, nil
	}

	cols := make(map[string]int, 6)
	for _, name := range []string{salesFamily, salesSubFamily, salesProduct, salesDelivery, salesProfit} {
		idx, ok := table.Column(name)
		if !ok {
			return nil, apperrors.MissingColumn(name)
		}
		cols[name] = idx
	}
	qty, ok := table.Column(salesQuantity)
	if !ok {
		if qty, ok = table.Column("Quantité"); !ok {
			return nil, apperrors.MissingColumn("Quantité")
		}
	}

	lines := make([]domain.SaleLine, 0, len(table.Rows))
	for _, row := range table.Rows {
		family := strings.TrimSpace(row[cols[salesFamily]])
		if family == "" || strings.EqualFold(family, "nan") {
			continue
		}
		quantity, _ := ParseAmount(row[qty])
		delivery, _ := ParseAmount(row[cols[salesDelivery]])
		profit, _ := ParseAmount(row[cols[salesProfit]])

		lines = append(lines, domain.SaleLine{
			Family:      family,
			SubFamily:   strings.TrimSpace(row[cols[salesSubFamily]]),
			Product:     strings.TrimSpace(row[cols[salesProduct]]),
			Quantity:    quantity,
			Delivery:    delivery,
			Profit:      profit,
			Seller:      seller,
			Year:        period.Year,
			Period:      period.Period,
			PeriodIndex: period.PeriodIndex,
		})
	}
	return lines, nil
}
