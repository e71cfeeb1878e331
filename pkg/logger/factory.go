package logger

import (
	"log/slog"
	"os"
)

// New creates a JSON logger at info level. The load session extractor is
// always installed; additional extractors are appended.
func New(extractors ...ContextExtractor) *slog.Logger {
	return newStdout(slog.LevelInfo, extractors)
}

// NewDebug creates a JSON logger at debug level. It backs the data layer's
// debug toggle, surfacing per-table load counts and localization fallbacks.
func NewDebug(extractors ...ContextExtractor) *slog.Logger {
	return newStdout(slog.LevelDebug, extractors)
}

func newStdout(level slog.Level, extractors []ContextExtractor) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(NewContextHandler(h, withDefaultExtractors(extractors)...))
}

func withDefaultExtractors(extractors []ContextExtractor) []ContextExtractor {
	return append([]ContextExtractor{LoadSessionExtractor()}, extractors...)
}
