package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"ledgerdash/internal/dataprocessing"
	apierrors "ledgerdash/internal/errors"
	"ledgerdash/internal/exporter"
	ledgermw "ledgerdash/internal/middleware"
	"ledgerdash/pkg/contracts/domain"
)

// multipartMemory is the part of an upload kept in memory before spilling to disk
const multipartMemory = 32 << 20

const (
	formatJSON = "json"
	formatCSV  = "csv"
	formatXLSX = "xlsx"
)

// handlerBase holds what every handler needs to parse requests and respond
type handlerBase struct {
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validator    *ledgermw.Validator
}

func newHandlerBase(component string, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, validator *ledgermw.Validator) handlerBase {
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}
	if validator == nil {
		validator = ledgermw.NewValidator(logger)
	}
	return handlerBase{
		logger:       logger.With(slog.String("component", component)),
		errorHandler: errorHandler,
		validator:    validator,
	}
}

type formatQuery struct {
	Format string `query:"format" validate:"omitempty,oneof=json csv xlsx"`
}

// respond renders data as JSON, or the tables as a CSV or XLSX download when
// the request asks for format=csv or format=xlsx. CSV carries the first table only.
func (h *handlerBase) respond(w http.ResponseWriter, r *http.Request, data interface{}, tables ...exporter.Table) {
	q := formatQuery{Format: strings.ToLower(r.URL.Query().Get("format"))}
	if err := h.validator.ValidateStruct(q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if q.Format == "" || q.Format == formatJSON || len(tables) == 0 {
		render.JSON(w, r, data)
		return
	}

	filename := fmt.Sprintf("%s.%s", tables[0].Name, q.Format)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	var err error
	switch q.Format {
	case formatCSV:
		t := tables[0]
		records := make([][]string, len(t.Rows))
		for i, row := range t.Rows {
			records[i] = t.StringRow(row)
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		err = exporter.EncodeCSV(w, exporter.WriteOptions{Headers: t.Headers, Records: records, BOMPrefix: true})
	case formatXLSX:
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		err = exporter.EncodeXLSX(w, tables...)
	}
	if err != nil {
		// headers are gone; the error can only be logged
		h.logger.ErrorContext(r.Context(), "failed to encode export",
			slog.String("format", q.Format),
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetReqID(r.Context())))
	}
}

// fail logs a service error and renders it
func (h *handlerBase) fail(w http.ResponseWriter, r *http.Request, action string, err error) {
	h.logger.DebugContext(r.Context(), action+" failed",
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetReqID(r.Context())))
	h.errorHandler.HandleError(w, r, err)
}

// listParam splits a comma separated query parameter, dropping blanks.
// Repeated parameters are merged.
func listParam(r *http.Request, name string) []string {
	var out []string
	for _, v := range r.URL.Query()[name] {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

// fieldsParam resolves the fields query parameter into ledger fields
func fieldsParam(r *http.Request) ([]domain.Field, error) {
	return dataprocessing.ParseFields(listParam(r, "fields"))
}

// uploadError maps a multipart parsing failure to an API error
func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apierrors.NewWithDetails(
			http.StatusRequestEntityTooLarge,
			"PAYLOAD_TOO_LARGE",
			"Upload exceeds the maximum size",
			map[string]interface{}{"max_size": tooLarge.Limit},
		)
	}
	// multipart does not always wrap the limit error
	if strings.Contains(err.Error(), "request body too large") {
		return apierrors.ErrPayloadTooLarge
	}
	return apierrors.InvalidRequestWithError(err)
}

// sheetParam returns the unescaped sheet name of the route
func sheetParam(r *http.Request) string {
	sheet := chi.URLParam(r, "sheet")
	if u, err := url.PathUnescape(sheet); err == nil {
		return u
	}
	return sheet
}
