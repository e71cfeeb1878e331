package datra

import (
	"context"
	"log/slog"

	"github.com/penspanic/Datra-sub001/pkg/config"
	"github.com/penspanic/Datra-sub001/pkg/localization"
	"github.com/penspanic/Datra-sub001/pkg/logger"
	"github.com/penspanic/Datra-sub001/pkg/provider"
)

// Open assembles a context from configuration: it opens the configured
// storage provider, builds the localization source from the localization
// section unless the overlay is disabled, and enables debug logging when the
// debug toggle is set. Tables still come from the caller through WithTables.
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil { ... }
//
//	ctx, err := datra.Open(context.Background(), cfg,
//	    datra.WithTables(characters, shopItems),
//	)
func Open(ctx context.Context, cfg config.Config, opts ...Option) (*Context, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var log *slog.Logger
	if cfg.Debug {
		log = logger.NewDebug()
	}

	p, err := provider.Open(ctx, cfg.Provider)
	if err != nil {
		return nil, err
	}

	base := make([]Option, 0, len(opts)+2)
	if log != nil {
		base = append(base, WithLogger(log))
	}
	if cfg.Localization.Enabled {
		srcOpts := cfg.Localization.SourceOptions()
		if log != nil {
			srcOpts = append(srcOpts, localization.WithLogger(log))
		}
		src, err := localization.New(srcOpts...)
		if err != nil {
			p.Close()
			return nil, err
		}
		base = append(base, WithLocalization(src))
	}

	c, err := New(cfg.ContextName, p, append(base, opts...)...)
	if err != nil {
		p.Close()
		return nil, err
	}
	return c, nil
}
