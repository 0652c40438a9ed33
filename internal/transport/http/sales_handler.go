package http

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "ledgerdash/internal/errors"
	"ledgerdash/internal/exporter"
	ledgermw "ledgerdash/internal/middleware"
	"ledgerdash/internal/reports"
	"ledgerdash/internal/services"
)

// SalesHandler serves the sales workbook reports
type SalesHandler struct {
	handlerBase
	service ReportServiceInterface
}

// NewSalesHandler creates the sales report handler
func NewSalesHandler(service ReportServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, validator *ledgermw.Validator) *SalesHandler {
	return &SalesHandler{
		handlerBase: newHandlerBase("sales_handler", logger, errorHandler, validator),
		service:     service,
	}
}

// Routes returns the sales routes
func (h *SalesHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(ledgermw.ContentTypeValidator("multipart/form-data")).Post("/", h.UploadSales)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/totals", h.Totals)
		r.Get("/sellers", h.Sellers)
		r.Get("/pivot", h.Pivot)
		r.Get("/families", h.Families)
	})

	return r
}

// UploadSales handles POST /api/v1/sales. Files come in the "files" parts;
// optional "labels" parts (or one comma separated value) name the period of
// each file as NAME_<PERIOD>_<YEAR>, in file order.
func (h *SalesHandler) UploadSales(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.errorHandler.HandleError(w, r, uploadError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("files", "at least one file is required"))
		return
	}

	files := make([]services.SalesFile, 0, len(headers))
	for _, fh := range headers {
		if err := h.validator.Var("files", fh.Filename, "xlsxname"); err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		f, err := fh.Open()
		if err != nil {
			h.errorHandler.HandleError(w, r, uploadError(err))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			h.errorHandler.HandleError(w, r, uploadError(err))
			return
		}
		files = append(files, services.SalesFile{Name: fh.Filename, Data: data})
	}

	info, err := h.service.UploadSales(r.Context(), files, formLabels(r.MultipartForm.Value["labels"]))
	if err != nil {
		h.fail(w, r, "upload sales", err)
		return
	}

	if info.Cached {
		render.Status(r, http.StatusOK)
	} else {
		render.Status(r, http.StatusCreated)
	}
	render.JSON(w, r, info)
}

func formLabels(values []string) []string {
	if len(values) == 1 && strings.Contains(values[0], ",") {
		values = strings.Split(values[0], ",")
	}
	var labels []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			labels = append(labels, v)
		}
	}
	return labels
}

// Totals handles GET /api/v1/sales/{id}/totals
func (h *SalesHandler) Totals(w http.ResponseWriter, r *http.Request) {
	rep, err := h.service.SalesTotals(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "sales totals", err)
		return
	}
	h.respond(w, r, rep, exporter.PeriodTable("ventes", rep.Rows, reports.SalesMetrics))
}

// Sellers handles GET /api/v1/sales/{id}/sellers
func (h *SalesHandler) Sellers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.SellerPeriods(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "seller periods", err)
		return
	}
	h.respond(w, r, rows, exporter.PeriodTable("prevendeurs", rows, reports.SalesMetrics))
}

type pivotQuery struct {
	Metric string `query:"metric" validate:"omitempty,oneof=livraison benefice"`
}

// Pivot handles GET /api/v1/sales/{id}/pivot
func (h *SalesHandler) Pivot(w http.ResponseWriter, r *http.Request) {
	q := pivotQuery{Metric: strings.ToLower(r.URL.Query().Get("metric"))}
	if err := h.validator.ValidateStruct(q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	p, err := h.service.SalesPivot(r.Context(), chi.URLParam(r, "id"), q.Metric)
	if err != nil {
		h.fail(w, r, "sales pivot", err)
		return
	}
	h.respond(w, r, p, exporter.PivotTable("pivot_"+p.Metric, "PREVENDEUR", p))
}

type familiesQuery struct {
	Period string `query:"period" validate:"omitempty,period"`
}

// Families handles GET /api/v1/sales/{id}/families
func (h *SalesHandler) Families(w http.ResponseWriter, r *http.Request) {
	q := familiesQuery{Period: r.URL.Query().Get("period")}
	if err := h.validator.ValidateStruct(q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	rep, err := h.service.Families(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("seller"), q.Period)
	if err != nil {
		h.fail(w, r, "family report", err)
		return
	}
	h.respond(w, r, rep,
		exporter.ProductTable("familles", "Famille", rep.Families),
		exporter.ProductTable("sous_familles", "Sous famille", rep.SubFamilies),
		exporter.ProductTable("prevendeurs", "Prévendeur", rep.Sellers),
	)
}
