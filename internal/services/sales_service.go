package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"ledgerdash/internal/dataprocessing"
	apperrors "ledgerdash/internal/errors"
	"ledgerdash/internal/reports"
	"ledgerdash/pkg/contracts/domain"
)

// SalesFile is one uploaded sales workbook
type SalesFile struct {
	Name string
	Data []byte
}

// SalesInfo describes an uploaded batch of sales workbooks
type SalesInfo struct {
	ID     string   `json:"id"`
	Files  []string `json:"files"`
	Lines  int      `json:"lines"`
	Cached bool     `json:"cached"`
}

// FamilyReport groups one slice of sales lines three ways
type FamilyReport struct {
	Families    []domain.ProductGroup `json:"families"`
	SubFamilies []domain.ProductGroup `json:"sub_families"`
	Sellers     []domain.ProductGroup `json:"sellers"`
}

// salesBatchID hashes names and contents: the period of a sales file comes
// from its name, so the same bytes under another name are another batch
func salesBatchID(files []SalesFile, labels []string) string {
	h := sha256.New()
	for i, f := range files {
		h.Write([]byte(f.Name))
		h.Write([]byte{0})
		if i < len(labels) {
			h.Write([]byte(labels[i]))
		}
		h.Write([]byte{0})
		h.Write(f.Data)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// UploadSales loads a batch of sales workbooks. Without labels the period and
// year of each file come from its name (NAME_<PERIOD>_<YEAR>.xlsx); with labels
// there must be exactly one per file. One bad file fails the whole batch.
func (s *ReportService) UploadSales(ctx context.Context, files []SalesFile, labels []string) (SalesInfo, error) {
	ctx, span := s.tracer.Start(ctx, "ReportService.UploadSales")
	defer span.End()
	start := time.Now()

	if len(files) == 0 {
		return SalesInfo{}, apperrors.NoSelection("file")
	}
	if len(labels) > 0 && len(labels) != len(files) {
		return SalesInfo{}, apperrors.MismatchedCount(len(files), len(labels))
	}

	id := salesBatchID(files, labels)
	span.SetAttributes(attribute.String("upload.id", id), attribute.Int("upload.files", len(files)))

	if e, ok := s.memo.get(id); ok && e.kind == kindSales {
		s.cacheHit(ctx, kindSales)
		return SalesInfo{ID: id, Files: e.names, Lines: len(e.lines), Cached: true}, nil
	}
	s.cacheMiss(ctx, kindSales)

	v, err, _ := s.group.Do(id, func() (interface{}, error) {
		lines, names, err := s.loadSales(files, labels)
		if err != nil {
			return nil, err
		}
		e, evicted := s.memo.put(&memoEntry{id: id, kind: kindSales, names: names, lines: lines})
		s.logEvicted(ctx, evicted)
		return e, nil
	})
	s.metrics.RecordReport(ctx, "sales_upload", time.Since(start), err)
	if err != nil {
		s.loadFailed(ctx, err)
		return SalesInfo{}, err
	}

	e := v.(*memoEntry)
	s.logger.InfoContext(ctx, "sales batch uploaded",
		slog.String("id", id),
		slog.String("files", strings.Join(e.names, ",")),
		slog.Int("lines", len(e.lines)))
	return SalesInfo{ID: id, Files: e.names, Lines: len(e.lines)}, nil
}

func (s *ReportService) loadSales(files []SalesFile, labels []string) ([]domain.SaleLine, []string, error) {
	wbs := make([]*dataprocessing.Workbook, 0, len(files))
	defer func() {
		for _, wb := range wbs {
			_ = wb.Close()
		}
	}()

	names := make([]string, 0, len(files))
	for _, f := range files {
		wb, err := dataprocessing.OpenWorkbookReader(bytes.NewReader(f.Data), f.Name)
		if err != nil {
			return nil, nil, err
		}
		wbs = append(wbs, wb)
		names = append(names, wb.Name())
	}

	var (
		lines []domain.SaleLine
		err   error
	)
	if len(labels) > 0 {
		lines, err = s.loader.LoadSalesLabeled(wbs, labels)
	} else {
		lines, err = s.loader.LoadSales(wbs)
	}
	if err != nil {
		return nil, nil, err
	}
	return lines, names, nil
}

// SalesTotals sums delivery and profit per month across all sellers
func (s *ReportService) SalesTotals(ctx context.Context, id string) (MonthlyReport, error) {
	var rep MonthlyReport
	err := s.withSales(ctx, "sales_totals", id, func(lines []domain.SaleLine) error {
		rows, err := reports.PeriodTotals(reports.PeriodInputsFromSales(lines), reports.SalesMetrics)
		if err != nil {
			return err
		}
		rep = MonthlyReport{Rows: rows, GrandTotal: reports.GrandTotal(rows, reports.SalesMetrics)}
		return nil
	})
	return rep, err
}

// SellerPeriods sums delivery and profit per seller and month, with each
// seller's month-over-month change
func (s *ReportService) SellerPeriods(ctx context.Context, id string) ([]domain.PeriodMetric, error) {
	var rows []domain.PeriodMetric
	err := s.withSales(ctx, "sales_sellers", id, func(lines []domain.SaleLine) error {
		var err error
		rows, err = reports.PeriodTotalsByEntity(reports.PeriodInputsFromSales(lines), reports.SalesMetrics)
		return err
	})
	return rows, err
}

// SalesPivot lays one metric out as a seller by month matrix
func (s *ReportService) SalesPivot(ctx context.Context, id, metric string) (domain.Pivot, error) {
	if metric == "" {
		metric = domain.MetricDelivery
	}
	switch metric {
	case domain.MetricDelivery, domain.MetricProfit, domain.MetricQuantity:
	default:
		return domain.Pivot{}, apperrors.UnknownField(metric).
			WithContext("reason", ErrUnknownMetric.Error())
	}

	var pivot domain.Pivot
	err := s.withSales(ctx, "sales_pivot", id, func(lines []domain.SaleLine) error {
		rows, err := reports.PeriodTotalsByEntity(reports.PeriodInputsFromSales(lines), []string{metric})
		if err != nil {
			return err
		}
		pivot = reports.BuildPivot(reports.PivotInputsFromMetrics(rows, metric), metric)
		return nil
	})
	return pivot, err
}

// Families groups the sales of an optional seller and month by family,
// sub-family and seller
func (s *ReportService) Families(ctx context.Context, id, seller, period string) (FamilyReport, error) {
	var rep FamilyReport
	err := s.withSales(ctx, "sales_families", id, func(lines []domain.SaleLine) error {
		selected, err := reports.FilterSales(lines, seller, period)
		if err != nil {
			return err
		}
		rep = FamilyReport{
			Families:    reports.ByFamily(selected),
			SubFamilies: reports.BySubFamily(selected),
			Sellers:     reports.SellerTotals(selected),
		}
		return nil
	})
	return rep, err
}

// SalesLines returns the loaded lines of a sales batch
func (s *ReportService) SalesLines(ctx context.Context, id string) ([]domain.SaleLine, error) {
	e, err := s.entry(ctx, id, kindSales)
	if err != nil {
		return nil, err
	}
	return e.lines, nil
}

func (s *ReportService) withSales(ctx context.Context, report, id string, build func([]domain.SaleLine) error) error {
	ctx, span := s.tracer.Start(ctx, "ReportService."+report)
	defer span.End()
	span.SetAttributes(attribute.String("upload.id", id))
	start := time.Now()

	e, err := s.entry(ctx, id, kindSales)
	if err == nil {
		err = build(e.lines)
	}

	s.metrics.RecordReport(ctx, report, time.Since(start), err)
	if err != nil {
		s.logger.DebugContext(ctx, "report failed",
			slog.String("report", report),
			slog.String("id", id),
			slog.String("error", err.Error()))
	}
	return err
}
