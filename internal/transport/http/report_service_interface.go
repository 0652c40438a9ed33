package http

import (
	"context"
	"time"

	"ledgerdash/internal/services"
	"ledgerdash/pkg/contracts/domain"
)

// ReportServiceInterface is the part of the report service the handlers use
type ReportServiceInterface interface {
	UploadWorkbook(ctx context.Context, name string, data []byte) (services.WorkbookInfo, error)
	Invalidate(ctx context.Context, id string) bool
	Reset(ctx context.Context)

	Daily(ctx context.Context, id, sheet string, fields []domain.Field) (domain.AggregateTable, error)
	Agents(ctx context.Context, id, sheet string, q services.AgentQuery) (domain.AggregateTable, error)
	Couriers(ctx context.Context, id, sheet string) ([]string, error)
	Retour(ctx context.Context, id, sheet string, agents []string) (services.RetourReport, error)
	Statement(ctx context.Context, id, sheet string) (services.StatementReport, error)
	Detail(ctx context.Context, id, sheet string, day time.Time, fields []domain.Field) ([]domain.AggregateRow, error)
	Observations(ctx context.Context, id, sheet string) ([]domain.Observation, error)
	Months(ctx context.Context, id string, months []string) (services.MonthlyReport, error)

	UploadSales(ctx context.Context, files []services.SalesFile, labels []string) (services.SalesInfo, error)
	SalesTotals(ctx context.Context, id string) (services.MonthlyReport, error)
	SellerPeriods(ctx context.Context, id string) ([]domain.PeriodMetric, error)
	SalesPivot(ctx context.Context, id, metric string) (domain.Pivot, error)
	Families(ctx context.Context, id, seller, period string) (services.FamilyReport, error)
}

var _ ReportServiceInterface = (*services.ReportService)(nil)
