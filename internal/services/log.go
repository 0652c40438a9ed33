package services

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"ledgerdash/internal/infrastructure"
)

// logReportError logs a failed load or report with the request's trace id
func logReportError(ctx context.Context, logger *slog.Logger, action string, err error, attrs ...slog.Attr) {
	if logger == nil {
		logger = infrastructure.LoggerWithContext(ctx)
	}

	allAttrs := []slog.Attr{
		slog.String("action", action),
		slog.String("error", err.Error()),
	}
	if traceID := infrastructure.GetTraceID(ctx); traceID != "" {
		allAttrs = append(allAttrs, slog.String("trace_id", traceID))
	}
	allAttrs = append(allAttrs, attrs...)

	logger.LogAttrs(ctx, slog.LevelWarn, "report service failure", allAttrs...)
}

func metricKind(kind entryKind) metric.AddOption {
	return metric.WithAttributes(attribute.String("kind", string(kind)))
}
