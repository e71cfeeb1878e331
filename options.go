package datra

import (
	"log/slog"

	"github.com/penspanic/Datra-sub001/pkg/localization"
	"github.com/penspanic/Datra-sub001/pkg/serializer"
)

// Option configures the context.
type Option func(*Context)

// WithFactory sets the serializer factory. Defaults to a factory with every
// built-in format registered. A factory is immutable, so one instance may
// serve many contexts.
func WithFactory(f *serializer.Factory) Option {
	return func(c *Context) {
		if f != nil {
			c.fact = f
		}
	}
}

// WithTables declares the context's tables. The set is fixed at
// construction; tables cannot be added or removed later.
//
// Example:
//
//	datra.New("game", prov,
//	    datra.WithTables(characters, shopItems),
//	)
func WithTables(tables ...Table) Option {
	return func(c *Context) {
		c.tables = append(c.tables, tables...)
	}
}

// WithLocalization attaches a localization source. The source loads with the
// rest of the context during LoadAll.
func WithLocalization(src *localization.Source) Option {
	return func(c *Context) {
		if src != nil {
			c.loc = src
		}
	}
}

// WithLogger sets the context logger. If nil, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) {
		if l != nil {
			c.log = l
		}
	}
}

// WithConcurrency caps how many tables load or save at once.
// Defaults to unbounded.
func WithConcurrency(n int) Option {
	return func(c *Context) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithSequentialLoad loads and saves tables one at a time in declaration
// order. Useful when diagnosing a failing dataset.
func WithSequentialLoad() Option {
	return func(c *Context) {
		c.concurrency = 1
	}
}
