// Package logger provides structured logging for the data layer, built on
// log/slog with context extraction and optional Sentry reporting.
//
// Loggers created here automatically tag records with values carried in the
// context, most importantly the load session ID that the data context assigns
// to every LoadAll and SaveAll run. That makes it possible to correlate every
// table load, retry, and failure belonging to one run without threading IDs
// through call sites.
//
// # Basic Usage
//
//	log := logger.New()
//
//	ctx := logger.WithLoadSession(context.Background(), "f3b4...")
//	log.InfoContext(ctx, "table loaded", slog.String("table", "items"))
//	// Output: {"level":"INFO","msg":"table loaded","table":"items","load_session":"f3b4..."}
//
// NewDebug returns the same logger at debug level and backs the data layer's
// debug toggle.
//
// # Context Extractors
//
// A ContextExtractor pulls one attribute out of a context:
//
//	type ContextExtractor func(ctx context.Context) (slog.Attr, bool)
//
// Extractors run on every log call, so request-scoped values stay fresh.
// Returning false skips the attribute for that record. The load session
// extractor is always installed; pass additional extractors to New, NewDebug,
// or NewWithSentry to enrich records further.
//
// NewContextHandler wraps any slog.Handler with extraction, so custom handler
// stacks keep the same behavior:
//
//	h := slog.NewJSONHandler(os.Stdout, nil)
//	log := slog.New(logger.NewContextHandler(h, extractors...))
//
// # Sentry
//
// NewWithSentry ships warnings and errors to Sentry while still writing JSON
// to stdout. With an empty DSN or a failed SDK init it degrades to
// stdout-only logging, so the same construction works in development and
// production.
//
// # Silent Logger
//
// NewNope returns a logger that discards everything. Components fall back to
// it when no logger is configured.
package logger
