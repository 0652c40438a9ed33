package http

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"ledgerdash/internal/services"
	"ledgerdash/pkg/contracts/domain"
)

// MockReportService is a mock implementation of ReportServiceInterface
type MockReportService struct {
	mock.Mock
}

var _ ReportServiceInterface = (*MockReportService)(nil)

func (m *MockReportService) UploadWorkbook(ctx context.Context, name string, data []byte) (services.WorkbookInfo, error) {
	args := m.Called(name, data)
	return args.Get(0).(services.WorkbookInfo), args.Error(1)
}

func (m *MockReportService) Invalidate(ctx context.Context, id string) bool {
	return m.Called(id).Bool(0)
}

func (m *MockReportService) Reset(ctx context.Context) {
	m.Called()
}

func (m *MockReportService) Daily(ctx context.Context, id, sheet string, fields []domain.Field) (domain.AggregateTable, error) {
	args := m.Called(id, sheet, fields)
	return args.Get(0).(domain.AggregateTable), args.Error(1)
}

func (m *MockReportService) Agents(ctx context.Context, id, sheet string, q services.AgentQuery) (domain.AggregateTable, error) {
	args := m.Called(id, sheet, q)
	return args.Get(0).(domain.AggregateTable), args.Error(1)
}

func (m *MockReportService) Couriers(ctx context.Context, id, sheet string) ([]string, error) {
	args := m.Called(id, sheet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockReportService) Retour(ctx context.Context, id, sheet string, agents []string) (services.RetourReport, error) {
	args := m.Called(id, sheet, agents)
	return args.Get(0).(services.RetourReport), args.Error(1)
}

func (m *MockReportService) Statement(ctx context.Context, id, sheet string) (services.StatementReport, error) {
	args := m.Called(id, sheet)
	return args.Get(0).(services.StatementReport), args.Error(1)
}

func (m *MockReportService) Detail(ctx context.Context, id, sheet string, day time.Time, fields []domain.Field) ([]domain.AggregateRow, error) {
	args := m.Called(id, sheet, day, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AggregateRow), args.Error(1)
}

func (m *MockReportService) Observations(ctx context.Context, id, sheet string) ([]domain.Observation, error) {
	args := m.Called(id, sheet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Observation), args.Error(1)
}

func (m *MockReportService) Months(ctx context.Context, id string, months []string) (services.MonthlyReport, error) {
	args := m.Called(id, months)
	return args.Get(0).(services.MonthlyReport), args.Error(1)
}

func (m *MockReportService) UploadSales(ctx context.Context, files []services.SalesFile, labels []string) (services.SalesInfo, error) {
	args := m.Called(files, labels)
	return args.Get(0).(services.SalesInfo), args.Error(1)
}

func (m *MockReportService) SalesTotals(ctx context.Context, id string) (services.MonthlyReport, error) {
	args := m.Called(id)
	return args.Get(0).(services.MonthlyReport), args.Error(1)
}

func (m *MockReportService) SellerPeriods(ctx context.Context, id string) ([]domain.PeriodMetric, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PeriodMetric), args.Error(1)
}

func (m *MockReportService) SalesPivot(ctx context.Context, id, metric string) (domain.Pivot, error) {
	args := m.Called(id, metric)
	return args.Get(0).(domain.Pivot), args.Error(1)
}

func (m *MockReportService) Families(ctx context.Context, id, seller, period string) (services.FamilyReport, error) {
	args := m.Called(id, seller, period)
	return args.Get(0).(services.FamilyReport), args.Error(1)
}
