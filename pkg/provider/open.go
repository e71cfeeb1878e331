package provider

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config selects a provider driver and carries the settings for every
// backend. Only the section matching the selected driver is used.
type Config struct {
	// Driver selects the backend. Defaults to the filesystem.
	Driver Driver `env:"DATRA_PROVIDER" envDefault:"fs"`

	// Root is the base directory for the filesystem driver.
	Root string `env:"DATRA_ROOT" envDefault:"."`

	S3       S3Config
	Redis    RedisConfig
	Postgres PostgresConfig
}

// LoadConfig reads provider configuration from environment variables.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Open creates the provider selected by cfg.Driver. The iofs driver cannot
// be opened from configuration because it wraps a live fs.FS; use NewIOFS.
func Open(ctx context.Context, cfg Config, opts ...PostgresOption) (Provider, error) {
	switch cfg.Driver {
	case DriverFS, "":
		return NewFS(cfg.Root)
	case DriverMemory:
		return NewMemory(), nil
	case DriverS3:
		return NewS3(cfg.S3)
	case DriverRedis:
		return NewRedis(ctx, cfg.Redis)
	case DriverPostgres:
		return NewPostgres(ctx, cfg.Postgres, opts...)
	case DriverIOFS:
		return nil, fmt.Errorf("%w: iofs requires a filesystem, use NewIOFS", ErrUnknownDriver)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
