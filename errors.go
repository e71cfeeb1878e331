package datra

import "errors"

// Sentinel errors for context construction and lifecycle.
var (
	// ErrInvalidConfig is returned by New for an unusable construction:
	// empty name, nil provider, nil or duplicate tables.
	ErrInvalidConfig = errors.New("datra: invalid configuration")

	// ErrNoRepositories is returned by New when neither tables nor a
	// localization source were declared.
	ErrNoRepositories = errors.New("datra: no repositories declared")

	// ErrNotLoaded is returned by SaveAll when the context has no completed
	// LoadAll behind it, so there is no coherent dataset to write back.
	ErrNotLoaded = errors.New("datra: context not loaded")
)
