package apperrors

import (
	"context"
	"errors"
	"log/slog"

	"github.com/getsentry/sentry-go"

	"github.com/giftgram/giftgram/pkg/logger"
)

// Handler centralizes error logging and Sentry capture. Handlers hand every
// non-nil error here instead of deciding severity themselves.
type Handler struct {
	log           *slog.Logger
	sentryEnabled bool
}

func NewHandler(log *slog.Logger, sentryEnabled bool) *Handler {
	return &Handler{
		log:           log,
		sentryEnabled: sentryEnabled,
	}
}

// Handle logs err with its taxonomy attributes and forwards high-severity
// failures to Sentry when enabled. It returns the kind for the caller's
// status mapping.
func (h *Handler) Handle(ctx context.Context, err error) Kind {
	if err == nil {
		return ""
	}

	if ctx == nil {
		ctx = context.Background()
	}

	log := h.log
	if log == nil {
		log = slog.Default()
	}

	kind := KindInternal
	severity := SeverityHigh
	retryable := false

	var appErr *Error
	if errors.As(err, &appErr) && appErr != nil {
		kind = appErr.Kind
		severity = appErr.Severity
		retryable = appErr.Retryable
	}

	attrs := []any{
		slog.String("kind", string(kind)),
		slog.String("severity", string(severity)),
		slog.Bool("retryable", retryable),
		slog.Any("error", err),
	}
	if correlationID := logger.CorrelationIDFromContext(ctx); correlationID != "" {
		attrs = append(attrs, slog.String("correlation_id", correlationID))
	}

	log.Error("request failed", attrs...)

	if h.sentryEnabled && (severity == SeverityHigh || severity == SeverityCritical) {
		sentry.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("error_kind", string(kind))
			sentry.CaptureException(err)
		})
	}

	return kind
}
