package provider

import (
	"context"
	"errors"
)

// Driver identifies a provider backend.
type Driver string

// Built-in drivers.
const (
	DriverFS       Driver = "fs"
	DriverMemory   Driver = "memory"
	DriverIOFS     Driver = "iofs"
	DriverS3       Driver = "s3"
	DriverRedis    Driver = "redis"
	DriverPostgres Driver = "postgres"
)

// DefaultPattern is the glob applied by LoadMultiple when the caller passes
// an empty pattern.
const DefaultPattern = "*.json"

// Provider abstracts where serialized data lives. Paths are relative,
// slash-separated, and resolved against the provider's root. Implementations
// are safe for concurrent use.
type Provider interface {
	// Driver returns the backend identifier, for diagnostics.
	Driver() Driver

	// LoadText reads the content stored at path. It returns an error
	// wrapping ErrNotFound when the path has no content and ErrIOFailure
	// for backend failures.
	LoadText(ctx context.Context, path string) (string, error)

	// SaveText writes content at path, replacing any previous content.
	// Parent folders are created as needed. Read-only providers return an
	// error wrapping ErrReadOnly.
	SaveText(ctx context.Context, path string, content string) error

	// Exists reports whether path has stored content. Backend failures
	// are reported as absence.
	Exists(ctx context.Context, path string) bool

	// ResolvePath returns the backend-specific absolute location for path,
	// for diagnostics and logging.
	ResolvePath(path string) string

	// LoadMultiple reads every direct child of folder whose name matches
	// the glob pattern, keyed by child name. An empty pattern means
	// DefaultPattern. A missing folder yields an empty map, not an error.
	LoadMultiple(ctx context.Context, folder string, pattern string) (map[string]string, error)

	// Close releases backend resources. It is a no-op where the backend
	// holds none.
	Close() error
}

// Pinger is implemented by providers backed by remote services.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Healthcheck returns a closure that validates provider connectivity for
// health endpoints. Providers without a remote backend always report healthy.
func Healthcheck(p Provider) func(context.Context) error {
	return func(ctx context.Context) error {
		if p == nil {
			return ErrHealthcheckFailed
		}
		pinger, ok := p.(Pinger)
		if !ok {
			return nil
		}
		if err := pinger.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
