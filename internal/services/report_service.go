package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"ledgerdash/internal/config"
	"ledgerdash/internal/dataprocessing"
	apperrors "ledgerdash/internal/errors"
	"ledgerdash/internal/infrastructure"
	"ledgerdash/internal/reports"
	"ledgerdash/pkg/contracts/domain"
)

const tracerName = "ledgerdash/services"

// WorkbookInfo describes an uploaded delivery ledger
type WorkbookInfo struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Sheets []string `json:"sheets"`
	Cached bool     `json:"cached"`
}

// RetourReport is the returns report of a sheet
type RetourReport struct {
	Detail   []domain.RetourRow   `json:"detail"`
	PerAgent []domain.AgentRetour `json:"per_agent"`
}

// StatementReport is the monthly statement with its share breakdown
type StatementReport struct {
	Statement domain.Statement `json:"statement"`
	Shares    []domain.Share   `json:"shares"`
}

// MonthlyReport holds period totals with their grand total
type MonthlyReport struct {
	Rows       []domain.PeriodMetric      `json:"rows"`
	GrandTotal map[string]decimal.Decimal `json:"grand_total"`
}

// AgentQuery selects the agents report
type AgentQuery struct {
	Fields     []domain.Field
	Agents     []string
	SortBy     domain.Field
	Descending bool
}

// ReportService loads uploaded workbooks once and builds reports from them.
// Uploads are keyed by the SHA-256 of their content so re-uploading the same
// file reuses the parsed data.
type ReportService struct {
	cfg     config.LedgerConfig
	loader  *dataprocessing.Loader
	memo    *memo
	group   singleflight.Group
	metrics *infrastructure.ReportMetrics
	tracer  trace.Tracer
	logger  *slog.Logger
}

// NewReportService creates a report service. metrics may be nil.
func NewReportService(cfg *config.Config, metrics *infrastructure.ReportMetrics, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "report_service"))

	logger.Info("ReportService initialized",
		slog.String("columns", cfg.Ledger.Columns),
		slog.Int("max_rows", cfg.Ledger.MaxRows),
		slog.Int("cache_entries", cfg.Cache.MaxEntries),
		slog.Duration("cache_ttl", cfg.Cache.TTL))

	return &ReportService{
		cfg:     cfg.Ledger,
		loader:  dataprocessing.NewLoader(cfg.Ledger, logger),
		memo:    newMemo(cfg.Cache.MaxEntries, cfg.Cache.TTL),
		metrics: metrics,
		tracer:  otel.Tracer(tracerName),
		logger:  logger,
	}
}

// ContentID returns the memo key of an upload
func ContentID(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// UploadWorkbook registers a delivery ledger and returns its id and sheets
func (s *ReportService) UploadWorkbook(ctx context.Context, name string, data []byte) (WorkbookInfo, error) {
	ctx, span := s.tracer.Start(ctx, "ReportService.UploadWorkbook")
	defer span.End()

	if len(data) == 0 {
		return WorkbookInfo{}, apperrors.NewAppValidationError(ErrEmptyUpload.Error())
	}
	id := ContentID(data)
	span.SetAttributes(attribute.String("upload.id", id), attribute.String("upload.name", name))

	if e, ok := s.memo.get(id); ok && e.kind == kindWorkbook {
		s.cacheHit(ctx, kindWorkbook)
		return WorkbookInfo{ID: id, Name: e.names[0], Sheets: e.sheets, Cached: true}, nil
	}
	s.cacheMiss(ctx, kindWorkbook)

	v, err, _ := s.group.Do(id, func() (interface{}, error) {
		wb, err := dataprocessing.OpenWorkbookReader(bytes.NewReader(data), name)
		if err != nil {
			return nil, err
		}
		e, evicted := s.memo.put(&memoEntry{
			id:       id,
			kind:     kindWorkbook,
			names:    []string{wb.Name()},
			workbook: wb,
			sheets:   wb.SheetNames(),
		})
		if e.workbook != wb {
			_ = wb.Close()
		}
		s.logEvicted(ctx, evicted)
		return e, nil
	})
	if err != nil {
		s.loadFailed(ctx, err)
		return WorkbookInfo{}, err
	}

	e := v.(*memoEntry)
	s.logger.InfoContext(ctx, "workbook uploaded",
		slog.String("id", id),
		slog.String("name", e.names[0]),
		slog.Int("sheets", len(e.sheets)))
	return WorkbookInfo{ID: id, Name: e.names[0], Sheets: e.sheets}, nil
}

// Invalidate drops an upload from the memo
func (s *ReportService) Invalidate(ctx context.Context, id string) bool {
	removed := s.memo.remove(id)
	s.logger.InfoContext(ctx, "upload invalidated", slog.String("id", id), slog.Bool("removed", removed))
	return removed
}

// Reset drops every upload
func (s *ReportService) Reset(ctx context.Context) {
	n := s.memo.reset()
	s.logger.InfoContext(ctx, "cache reset", slog.Int("entries", n))
}

// Entries returns the number of uploads held in memory
func (s *ReportService) Entries() int {
	return s.memo.len()
}

// Daily sums fields per day with a TOTAL row
func (s *ReportService) Daily(ctx context.Context, id, sheet string, fields []domain.Field) (domain.AggregateTable, error) {
	var table domain.AggregateTable
	err := s.withRecords(ctx, "daily", id, sheet, func(records []domain.Record) error {
		var err error
		table, err = reports.ByDate(records, fields)
		return err
	})
	return table, err
}

// Agents sums fields per courier. Without agents the configured default
// couriers are reported.
func (s *ReportService) Agents(ctx context.Context, id, sheet string, q AgentQuery) (domain.AggregateTable, error) {
	allow := q.Agents
	if len(allow) == 0 {
		allow = s.cfg.DefaultAgents
	}

	var table domain.AggregateTable
	err := s.withRecords(ctx, "agents", id, sheet, func(records []domain.Record) error {
		var err error
		table, err = reports.ByAgent(records, q.Fields, reports.AgentOptions{
			Allow:      allow,
			SortBy:     q.SortBy,
			Descending: q.Descending,
		})
		return err
	})
	return table, err
}

// Couriers lists the agents of a sheet that are not ledger accounts
func (s *ReportService) Couriers(ctx context.Context, id, sheet string) ([]string, error) {
	var agents []string
	err := s.withRecords(ctx, "couriers", id, sheet, func(records []domain.Record) error {
		agents = reports.Agents(records, s.cfg.Accounts, domain.EntityCourier)
		return nil
	})
	return agents, err
}

// Retour builds the returns report. When agents are given the per-agent sums
// are restricted to them; the detail always covers every agent.
func (s *ReportService) Retour(ctx context.Context, id, sheet string, agents []string) (RetourReport, error) {
	var rep RetourReport
	err := s.withRecords(ctx, "retour", id, sheet, func(records []domain.Record) error {
		rep.Detail, rep.PerAgent = reports.Retour(records)
		if len(agents) > 0 {
			rep.PerAgent = reports.FilterAgents(rep.PerAgent, agents)
		}
		return nil
	})
	return rep, err
}

// Statement builds the monthly statement of a sheet
func (s *ReportService) Statement(ctx context.Context, id, sheet string) (StatementReport, error) {
	var rep StatementReport
	err := s.withRecords(ctx, "statement", id, sheet, func(records []domain.Record) error {
		rep.Statement = reports.BuildStatement(records, s.cfg.Accounts)
		rep.Shares = reports.StatementShares(rep.Statement)
		return nil
	})
	return rep, err
}

// Detail looks up one day of a sheet. A day without rows is a DateNotFound error.
func (s *ReportService) Detail(ctx context.Context, id, sheet string, day time.Time, fields []domain.Field) ([]domain.AggregateRow, error) {
	var rows []domain.AggregateRow
	err := s.withRecords(ctx, "detail", id, sheet, func(records []domain.Record) error {
		var err error
		rows, err = reports.DayDetailE(records, day, fields)
		return err
	})
	return rows, err
}

// Observations gathers the notes of each agent of a sheet
func (s *ReportService) Observations(ctx context.Context, id, sheet string) ([]domain.Observation, error) {
	var obs []domain.Observation
	err := s.withRecords(ctx, "observations", id, sheet, func(records []domain.Record) error {
		obs = reports.Observations(records)
		return nil
	})
	return obs, err
}

// Months totals deposits, orders and expenses per month across the selected
// month sheets of a workbook, with month-over-month deltas
func (s *ReportService) Months(ctx context.Context, id string, months []string) (MonthlyReport, error) {
	ctx, span := s.tracer.Start(ctx, "ReportService.Months")
	defer span.End()
	start := time.Now()

	rep, err := s.months(ctx, id, months)
	s.metrics.RecordReport(ctx, "months", time.Since(start), err)
	if err != nil {
		infrastructure.RecordError(ctx, err)
	}
	return rep, err
}

func (s *ReportService) months(ctx context.Context, id string, months []string) (MonthlyReport, error) {
	e, err := s.entry(ctx, id, kindWorkbook)
	if err != nil {
		return MonthlyReport{}, err
	}

	var records []domain.Record
	err = e.withWorkbook(func(wb *dataprocessing.Workbook) error {
		var err error
		records, err = s.loader.LoadMonths(wb, months)
		return err
	})
	if err != nil {
		return MonthlyReport{}, s.translate(id, err)
	}

	rows, err := reports.PeriodTotals(reports.PeriodInputsFromRecords(records), reports.LedgerMetrics)
	if err != nil {
		return MonthlyReport{}, err
	}
	return MonthlyReport{Rows: rows, GrandTotal: reports.GrandTotal(rows, reports.LedgerMetrics)}, nil
}

// withRecords loads the cleaned records of a sheet and runs build on them,
// recording the report in traces and metrics
func (s *ReportService) withRecords(ctx context.Context, report, id, sheet string, build func([]domain.Record) error) error {
	ctx, span := s.tracer.Start(ctx, "ReportService."+report)
	defer span.End()
	span.SetAttributes(attribute.String("upload.id", id), attribute.String("sheet", sheet))
	start := time.Now()

	records, err := s.sheetRecords(ctx, id, sheet)
	if err == nil {
		err = build(records)
	}

	s.metrics.RecordReport(ctx, report, time.Since(start), err)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.DebugContext(ctx, "report failed",
			slog.String("report", report),
			slog.String("id", id),
			slog.String("sheet", sheet),
			slog.String("error", err.Error()))
	}
	return err
}

// sheetRecords returns the cleaned records of a sheet, loading them once
func (s *ReportService) sheetRecords(ctx context.Context, id, sheet string) ([]domain.Record, error) {
	e, err := s.entry(ctx, id, kindWorkbook)
	if err != nil {
		return nil, err
	}
	if !contains(e.sheets, sheet) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("sheet %q", sheet)).
			WithContext("sheet", sheet)
	}

	if recs, ok := e.cachedRecords(sheet); ok {
		s.cacheHit(ctx, "sheet")
		return recs, nil
	}
	s.cacheMiss(ctx, "sheet")

	v, err, _ := s.group.Do(id+"/"+sheet, func() (interface{}, error) {
		if recs, ok := e.cachedRecords(sheet); ok {
			return recs, nil
		}
		var recs []domain.Record
		err := e.withWorkbook(func(wb *dataprocessing.Workbook) error {
			var err error
			recs, err = s.loader.LoadSheet(wb, sheet)
			return err
		})
		if err != nil {
			return nil, err
		}
		e.storeRecords(sheet, recs)
		if s.metrics != nil {
			s.metrics.RowsLoaded.Add(ctx, int64(len(recs)))
		}
		s.logger.DebugContext(ctx, "sheet loaded",
			slog.String("id", id),
			slog.String("sheet", sheet),
			slog.Int("records", len(recs)))
		return recs, nil
	})
	if err != nil {
		s.loadFailed(ctx, err)
		return nil, s.translate(id, err)
	}
	return v.([]domain.Record), nil
}

func (s *ReportService) entry(ctx context.Context, id string, kind entryKind) (*memoEntry, error) {
	e, ok := s.memo.get(id)
	if !ok || e.kind != kind {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("%s %s", kind, id)).
			WithContext("id", id)
	}
	return e, nil
}

// translate turns an eviction race into a not found error
func (s *ReportService) translate(id string, err error) error {
	if err == errEvicted {
		return apperrors.NewNotFoundError(fmt.Sprintf("upload %s", id)).WithContext("id", id)
	}
	return err
}

func (s *ReportService) cacheHit(ctx context.Context, kind entryKind) {
	if s.metrics != nil {
		s.metrics.CacheHits.Add(ctx, 1, metricKind(kind))
	}
}

func (s *ReportService) cacheMiss(ctx context.Context, kind entryKind) {
	if s.metrics != nil {
		s.metrics.CacheMisses.Add(ctx, 1, metricKind(kind))
	}
}

func (s *ReportService) loadFailed(ctx context.Context, err error) {
	logReportError(ctx, s.logger, "load", err)
	if s.metrics != nil {
		s.metrics.LoadFailures.Add(ctx, 1)
	}
}

func (s *ReportService) logEvicted(ctx context.Context, ids []string) {
	for _, id := range ids {
		s.logger.InfoContext(ctx, "upload evicted", slog.String("id", id))
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
