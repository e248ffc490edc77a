package logger

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

type Logger = *slog.Logger

func New(level slog.Level) Logger {
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	}))
}

// NewWithSentry creates a logger that also reports error-level records
// to Sentry.
func NewWithSentry(level slog.Level) Logger {
	tintHandler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	})
	return slog.New(NewSentryHandler(tintHandler))
}
