package logger

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
)

// SentryHandler wraps an slog.Handler and reports errors to Sentry.
type SentryHandler struct {
	handler slog.Handler
}

func NewSentryHandler(handler slog.Handler) *SentryHandler {
	return &SentryHandler{handler: handler}
}

func (h *SentryHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle forwards the record and, for error-level records carrying an
// "error" attribute, captures the error in Sentry.
func (h *SentryHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == "error" {
				if err, ok := a.Value.Any().(error); ok {
					sentry.CaptureException(err)
				}
			}
			return true
		})
	}
	return h.handler.Handle(ctx, r)
}

func (h *SentryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SentryHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *SentryHandler) WithGroup(name string) slog.Handler {
	return &SentryHandler{handler: h.handler.WithGroup(name)}
}
