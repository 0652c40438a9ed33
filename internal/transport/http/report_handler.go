package http

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"ledgerdash/internal/dataprocessing"
	apierrors "ledgerdash/internal/errors"
	"ledgerdash/internal/exporter"
	ledgermw "ledgerdash/internal/middleware"
	"ledgerdash/internal/reports"
	"ledgerdash/internal/services"
	"ledgerdash/pkg/contracts/domain"
)

// ReportHandler serves the delivery ledger reports
type ReportHandler struct {
	handlerBase
	service ReportServiceInterface
}

// NewReportHandler creates the ledger report handler
func NewReportHandler(service ReportServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, validator *ledgermw.Validator) *ReportHandler {
	return &ReportHandler{
		handlerBase: newHandlerBase("report_handler", logger, errorHandler, validator),
		service:     service,
	}
}

// Routes returns the workbook routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(ledgermw.ContentTypeValidator("multipart/form-data")).Post("/", h.UploadWorkbook)
	r.Delete("/", h.Reset)

	r.Route("/{id}", func(r chi.Router) {
		r.Delete("/", h.Invalidate)
		r.Get("/months", h.Months)

		r.Route("/sheets/{sheet}", func(r chi.Router) {
			r.Get("/daily", h.Daily)
			r.Get("/agents", h.Agents)
			r.Get("/couriers", h.Couriers)
			r.Get("/retour", h.Retour)
			r.Get("/statement", h.Statement)
			r.Get("/detail", h.Detail)
			r.Get("/observations", h.Observations)
		})
	})

	return r
}

// UploadWorkbook handles POST /api/v1/workbooks. It answers 201 for a new
// upload and 200 when the same content is already held.
func (h *ReportHandler) UploadWorkbook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.errorHandler.HandleError(w, r, uploadError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "file is required"))
		return
	}
	defer file.Close()

	if err := h.validator.Var("file", header.Filename, "xlsxname"); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.errorHandler.HandleError(w, r, uploadError(err))
		return
	}

	info, err := h.service.UploadWorkbook(r.Context(), header.Filename, data)
	if err != nil {
		h.fail(w, r, "upload workbook", err)
		return
	}

	if info.Cached {
		render.Status(r, http.StatusOK)
	} else {
		render.Status(r, http.StatusCreated)
	}
	render.JSON(w, r, info)
}

// Invalidate handles DELETE /api/v1/workbooks/{id}
func (h *ReportHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.service.Invalidate(r.Context(), id) {
		h.errorHandler.HandleError(w, r, apierrors.ErrWorkbookNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reset handles DELETE /api/v1/workbooks
func (h *ReportHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.service.Reset(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

type monthsQuery struct {
	Months []string `query:"months" validate:"dive,period"`
}

// Months handles GET /api/v1/workbooks/{id}/months
func (h *ReportHandler) Months(w http.ResponseWriter, r *http.Request) {
	q := monthsQuery{Months: listParam(r, "months")}
	if err := h.validator.ValidateStruct(q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	rep, err := h.service.Months(r.Context(), chi.URLParam(r, "id"), q.Months)
	if err != nil {
		h.fail(w, r, "monthly totals", err)
		return
	}
	h.respond(w, r, rep, exporter.PeriodTable("mois", rep.Rows, reports.LedgerMetrics))
}

// Daily handles GET .../sheets/{sheet}/daily
func (h *ReportHandler) Daily(w http.ResponseWriter, r *http.Request) {
	fields, err := fieldsParam(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	table, err := h.service.Daily(r.Context(), chi.URLParam(r, "id"), sheetParam(r), fields)
	if err != nil {
		h.fail(w, r, "daily report", err)
		return
	}
	h.respond(w, r, table, exporter.AggregateTable("daily", table))
}

type agentsQuery struct {
	Sort  string `query:"sort" validate:"omitempty,field"`
	Order string `query:"order" validate:"omitempty,oneof=asc desc"`
}

// Agents handles GET .../sheets/{sheet}/agents. Without agents the configured
// default couriers are reported.
func (h *ReportHandler) Agents(w http.ResponseWriter, r *http.Request) {
	q := agentsQuery{
		Sort:  r.URL.Query().Get("sort"),
		Order: strings.ToLower(r.URL.Query().Get("order")),
	}
	if err := h.validator.ValidateStruct(q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	fields, err := fieldsParam(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	query := services.AgentQuery{
		Fields:     fields,
		Agents:     listParam(r, "agents"),
		Descending: q.Order == "desc",
	}
	if q.Sort != "" {
		spec, _ := dataprocessing.LookupField(q.Sort)
		query.SortBy = spec.Field
	}

	table, err := h.service.Agents(r.Context(), chi.URLParam(r, "id"), sheetParam(r), query)
	if err != nil {
		h.fail(w, r, "agent report", err)
		return
	}
	h.respond(w, r, table, exporter.AggregateTable("agents", table))
}

// Couriers handles GET .../sheets/{sheet}/couriers
func (h *ReportHandler) Couriers(w http.ResponseWriter, r *http.Request) {
	agents, err := h.service.Couriers(r.Context(), chi.URLParam(r, "id"), sheetParam(r))
	if err != nil {
		h.fail(w, r, "courier list", err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"data":  agents,
		"count": len(agents),
	})
}

// Retour handles GET .../sheets/{sheet}/retour
func (h *ReportHandler) Retour(w http.ResponseWriter, r *http.Request) {
	rep, err := h.service.Retour(r.Context(), chi.URLParam(r, "id"), sheetParam(r), listParam(r, "agents"))
	if err != nil {
		h.fail(w, r, "returns report", err)
		return
	}
	h.respond(w, r, rep, exporter.RetourTable(rep.Detail))
}

// Statement handles GET .../sheets/{sheet}/statement
func (h *ReportHandler) Statement(w http.ResponseWriter, r *http.Request) {
	rep, err := h.service.Statement(r.Context(), chi.URLParam(r, "id"), sheetParam(r))
	if err != nil {
		h.fail(w, r, "statement", err)
		return
	}
	h.respond(w, r, rep, exporter.StatementTable(rep.Statement))
}

type detailQuery struct {
	Day string `query:"day" validate:"required,isodate"`
}

// Detail handles GET .../sheets/{sheet}/detail. A day without rows answers
// 404 with the "No data" marker.
func (h *ReportHandler) Detail(w http.ResponseWriter, r *http.Request) {
	q := detailQuery{Day: r.URL.Query().Get("day")}
	if err := h.validator.ValidateStruct(q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	day, _ := time.Parse("2006-01-02", q.Day)

	fields, err := fieldsParam(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	rows, err := h.service.Detail(r.Context(), chi.URLParam(r, "id"), sheetParam(r), day, fields)
	if err != nil {
		h.fail(w, r, "day detail", err)
		return
	}

	table := exporter.AggregateTable("detail_"+q.Day, domain.AggregateTable{
		GroupBy: domain.GroupByDateAgent,
		Fields:  fields,
		Rows:    rows,
	})
	h.respond(w, r, reports.DetailResult{Success: true, Rows: rows}, table)
}

// Observations handles GET .../sheets/{sheet}/observations
func (h *ReportHandler) Observations(w http.ResponseWriter, r *http.Request) {
	obs, err := h.service.Observations(r.Context(), chi.URLParam(r, "id"), sheetParam(r))
	if err != nil {
		h.fail(w, r, "observations", err)
		return
	}
	h.respond(w, r, obs, exporter.ObservationTable(obs))
}
