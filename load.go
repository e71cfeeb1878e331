package datra

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/penspanic/Datra-sub001/pkg/logger"
)

// LoadAll loads every declared table and the localization source. Tables
// load concurrently unless capped; the first failure cancels the outstanding
// loads and is returned annotated with the failing table's name and path.
//
// A failed LoadAll leaves the context unloaded: callers must treat the whole
// dataset as unusable, not as partially loaded. Individual tables keep
// whatever state they had before the call.
func (c *Context) LoadAll(ctx context.Context) error {
	c.mu.Lock()
	c.loaded = false
	c.mu.Unlock()

	ctx = logger.WithLoadSession(ctx, uuid.NewString())
	targets := c.loadTargets()
	c.log.DebugContext(ctx, "loading context", slog.Int("tables", len(targets)))

	g, gctx := c.group(ctx)
	for _, t := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := t.Load(gctx, c.prov, c.fact); err != nil {
				return fmt.Errorf("datra: load %s (%s): %w", t.Name(), t.Path(), err)
			}
			c.log.DebugContext(gctx, "table loaded",
				slog.String("table", t.Name()),
				slog.String("path", t.Path()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.log.ErrorContext(ctx, "load failed", slog.Any("error", err))
		return err
	}

	c.mu.Lock()
	c.loaded = true
	c.mu.Unlock()

	c.log.InfoContext(ctx, "context loaded", slog.Int("tables", len(targets)))
	return nil
}

// SaveAll writes every declared table back through the provider, mirroring
// LoadAll's concurrency and abort-on-first-failure policy. The localization
// source is not written: its tables are authored externally and can be saved
// directly through the source when needed.
func (c *Context) SaveAll(ctx context.Context) error {
	if !c.Loaded() {
		return ErrNotLoaded
	}

	ctx = logger.WithLoadSession(ctx, uuid.NewString())

	g, gctx := c.group(ctx)
	for _, t := range c.tables {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := t.Save(gctx, c.prov, c.fact); err != nil {
				return fmt.Errorf("datra: save %s (%s): %w", t.Name(), t.Path(), err)
			}
			c.log.DebugContext(gctx, "table saved",
				slog.String("table", t.Name()),
				slog.String("path", t.Path()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.log.ErrorContext(ctx, "save failed", slog.Any("error", err))
		return err
	}

	c.log.InfoContext(ctx, "context saved", slog.Int("tables", len(c.tables)))
	return nil
}

// group builds the errgroup both batch operations run under. With a
// concurrency cap, queued tables start only as slots free up, so a failure
// keeps the remaining queue from touching the provider at all.
func (c *Context) group(ctx context.Context) (*errgroup.Group, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	if c.concurrency > 0 {
		g.SetLimit(c.concurrency)
	}
	return g, gctx
}

func (c *Context) loadTargets() []Table {
	targets := slices.Clone(c.tables)
	if c.loc != nil {
		targets = append(targets, c.loc)
	}
	return targets
}
