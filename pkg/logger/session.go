package logger

import (
	"context"
	"log/slog"
)

type loadSessionKey struct{}

// WithLoadSession tags ctx with a load session ID. Loggers built by this
// package attach the ID to every record logged under that context.
func WithLoadSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, loadSessionKey{}, id)
}

// LoadSession returns the load session ID carried by ctx, if any.
func LoadSession(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(loadSessionKey{}).(string)
	return id, ok && id != ""
}

// LoadSessionExtractor emits the load session ID as a "load_session"
// attribute.
func LoadSessionExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := LoadSession(ctx); ok {
			return slog.String("load_session", id), true
		}
		return slog.Attr{}, false
	}
}
