package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "ledgerdash/internal/errors"
	"ledgerdash/internal/services"
	"ledgerdash/pkg/contracts/domain"
)

func TestSalesHandler_UploadSales(t *testing.T) {
	tests := []struct {
		name       string
		files      map[string][]byte
		values     map[string]string
		setup      func(m *MockReportService)
		wantStatus int
	}{
		{
			name:  "named files",
			files: map[string][]byte{"VENTE_JANVIER_2026.xlsx": []byte("a")},
			setup: func(m *MockReportService) {
				m.On("UploadSales", []services.SalesFile{{Name: "VENTE_JANVIER_2026.xlsx", Data: []byte("a")}}, []string(nil)).
					Return(services.SalesInfo{ID: "s1", Files: []string{"VENTE_JANVIER_2026.xlsx"}, Lines: 12}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:   "labels",
			files:  map[string][]byte{"export.xlsx": []byte("a")},
			values: map[string]string{"labels": "VENTE_FEVRIER_2026"},
			setup: func(m *MockReportService) {
				m.On("UploadSales", mock.Anything, []string{"VENTE_FEVRIER_2026"}).
					Return(services.SalesInfo{ID: "s2"}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:  "naming violation",
			files: map[string][]byte{"vente.xlsx": []byte("a")},
			setup: func(m *MockReportService) {
				m.On("UploadSales", mock.Anything, []string(nil)).
					Return(services.SalesInfo{}, apierrors.NamingConventionViolation("vente.xlsx"))
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "no files",
			files:      map[string][]byte{},
			setup:      func(m *MockReportService) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockReportService)
			tt.setup(svc)

			req := multipartRequest(t, "/api/v1/sales", "files", tt.files, tt.values)
			rec := doRequest(t, newTestRouter(svc), req)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestFormLabels(t *testing.T) {
	assert.Nil(t, formLabels(nil))
	assert.Equal(t, []string{"A_JANVIER_2026", "B_FEVRIER_2026"}, formLabels([]string{"A_JANVIER_2026, B_FEVRIER_2026"}))
	assert.Equal(t, []string{"A_JANVIER_2026", "B_FEVRIER_2026"}, formLabels([]string{"A_JANVIER_2026", " B_FEVRIER_2026 "}))
}

func TestSalesHandler_Pivot(t *testing.T) {
	pivot := domain.Pivot{
		Metric:  domain.MetricDelivery,
		Columns: []string{"JANVIER 2026"},
		Rows:    []domain.PivotRow{{Label: "KARIM", Cells: []decimal.Decimal{decimal.NewFromInt(100)}, Total: decimal.NewFromInt(100)}},
		Totals:  domain.PivotRow{Label: domain.GrandTotalLabel, Cells: []decimal.Decimal{decimal.NewFromInt(100)}, Total: decimal.NewFromInt(100)},
	}
	svc := new(MockReportService)
	svc.On("SalesPivot", "s1", "").Return(pivot, nil)
	svc.On("SalesPivot", "s1", "benefice").Return(pivot, nil)
	router := newTestRouter(svc)

	rec := doRequest(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/sales/s1/pivot", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.MetricDelivery, decodeBody(t, rec)["metric"])

	rec = doRequest(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/sales/s1/pivot?metric=BENEFICE&format=xlsx", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.NotZero(t, rec.Body.Len())

	rec = doRequest(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/sales/s1/pivot?metric=marge", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertExpectations(t)
}

func TestSalesHandler_TotalsSellersFamilies(t *testing.T) {
	svc := new(MockReportService)
	svc.On("SalesTotals", "s1").Return(services.MonthlyReport{Rows: []domain.PeriodMetric{{Year: 2026, Period: "JANVIER"}}}, nil)
	svc.On("SellerPeriods", "s1").Return([]domain.PeriodMetric{{Entity: "KARIM", Year: 2026, Period: "JANVIER"}}, nil)
	svc.On("Families", "s1", "KARIM", "Février").Return(services.FamilyReport{
		Families: []domain.ProductGroup{{Label: "BOISSONS", Quantity: decimal.NewFromInt(5)}},
	}, nil)
	svc.On("SalesTotals", "gone").Return(services.MonthlyReport{}, apierrors.NewNotFoundError("upload gone"))
	router := newTestRouter(svc)

	rec := doRequest(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/sales/s1/totals", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/sales/s1/sellers?format=csv", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "KARIM,2026,JANVIER")

	rec = doRequest(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/sales/s1/families?seller=KARIM&period=F%C3%A9vrier", nil))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/sales/s1/families?period=Thermidor", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/sales/gone/totals", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	svc.AssertExpectations(t)
}
