package provider

import "errors"

// Sentinel errors for provider operations.
var (
	// ErrNotFound is returned when the requested path has no stored content.
	ErrNotFound = errors.New("provider: not found")

	// ErrIOFailure is returned when the backing store fails for reasons other
	// than a missing path: permission problems, network failures, or backend
	// rejections.
	ErrIOFailure = errors.New("provider: io failure")

	// ErrReadOnly is returned by SaveText on providers that cannot write.
	ErrReadOnly = errors.New("provider: read-only")

	// ErrInvalidPath is returned for empty, absolute, or escaping paths and
	// for malformed glob patterns.
	ErrInvalidPath = errors.New("provider: invalid path")

	// ErrInvalidConfig is returned when a provider configuration is missing
	// required fields.
	ErrInvalidConfig = errors.New("provider: invalid configuration")

	// ErrUnknownDriver is returned by Open for an unrecognized driver name.
	ErrUnknownDriver = errors.New("provider: unknown driver")

	// ErrConnectionFailed is returned when a remote backend cannot be
	// reached after the configured retries.
	ErrConnectionFailed = errors.New("provider: failed to establish connection")

	// ErrHealthcheckFailed is returned by health checks when the backend is
	// unreachable.
	ErrHealthcheckFailed = errors.New("provider: healthcheck failed")
)
