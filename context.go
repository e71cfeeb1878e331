package datra

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/penspanic/Datra-sub001/pkg/localization"
	"github.com/penspanic/Datra-sub001/pkg/logger"
	"github.com/penspanic/Datra-sub001/pkg/provider"
	"github.com/penspanic/Datra-sub001/pkg/serializer"
)

// Table is one loadable unit of a context: a typed repository or the
// localization source. Implementations resolve their own path and format
// against the provider and factory they are handed.
type Table interface {
	Name() string
	Path() string
	Load(ctx context.Context, p provider.Provider, f *serializer.Factory) error
	Save(ctx context.Context, p provider.Provider, f *serializer.Factory) error
}

// Context aggregates a fixed set of tables over one storage provider.
// It orchestrates whole-dataset loads and saves; reads go directly through
// the typed repositories. Context instances are independent: two contexts
// share no mutable state even when declared over identical schemas, so they
// may be loaded concurrently.
//
// The context owns its provider exclusively and closes it. The serializer
// factory is immutable and may be shared between contexts.
type Context struct {
	name string
	prov provider.Provider
	fact *serializer.Factory
	log  *slog.Logger

	// Declared tables, fixed at construction.
	tables []Table
	byName map[string]Table
	loc    *localization.Source

	// Max concurrent table loads; 0 means unbounded.
	concurrency int

	mu     sync.RWMutex
	loaded bool

	closeOnce sync.Once
	closeErr  error
}

// New creates a context named name over the provider p. At least one table
// or a localization source must be declared through options.
//
// Example:
//
//	items, err := repository.New[string, ShopItem]("GameData/ShopItems.json")
//	if err != nil { ... }
//
//	ctx, err := datra.New("shop", prov,
//	    datra.WithTables(items),
//	    datra.WithLocalization(loc),
//	)
func New(name string, p provider.Provider, opts ...Option) (*Context, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty context name", ErrInvalidConfig)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: nil provider", ErrInvalidConfig)
	}

	c := &Context{
		name: name,
		prov: p,
		fact: serializer.NewDefaultFactory(),
		log:  logger.NewNope(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With(slog.String("context", name))

	if len(c.tables) == 0 && c.loc == nil {
		return nil, ErrNoRepositories
	}

	c.byName = make(map[string]Table, len(c.tables))
	for _, t := range c.tables {
		if t == nil {
			return nil, fmt.Errorf("%w: nil table", ErrInvalidConfig)
		}
		if t.Name() == "" {
			return nil, fmt.Errorf("%w: table with empty name at %s", ErrInvalidConfig, t.Path())
		}
		if _, dup := c.byName[t.Name()]; dup {
			return nil, fmt.Errorf("%w: duplicate table %q", ErrInvalidConfig, t.Name())
		}
		c.byName[t.Name()] = t
	}
	return c, nil
}

// Name returns the context name.
func (c *Context) Name() string { return c.name }

// Loaded reports whether the last LoadAll completed. A failed LoadAll leaves
// the context unloaded even when an earlier one had succeeded.
func (c *Context) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Tables returns the declared tables in declaration order.
func (c *Context) Tables() []Table {
	return slices.Clone(c.tables)
}

// Table returns the declared table with the given name.
func (c *Context) Table(name string) (Table, bool) {
	t, ok := c.byName[name]
	return t, ok
}

// Localization returns the localization source, or nil when none was
// declared.
func (c *Context) Localization() *localization.Source {
	return c.loc
}

// Close releases the storage provider. Repeated calls return the first
// result.
func (c *Context) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.prov.Close()
	})
	return c.closeErr
}
