package repository

import "errors"

// Sentinel errors for repository operations.
var (
	// ErrNotFound is returned by Get when no record has the requested key.
	ErrNotFound = errors.New("repository: record not found")

	// ErrNotLoaded is returned when records are read or saved before any
	// data has been loaded.
	ErrNotLoaded = errors.New("repository: not loaded")

	// ErrInvalidModel is returned by New when the record type cannot be
	// mapped to a schema: not a struct, no usable fields, missing or
	// mistyped key field, or malformed field tags.
	ErrInvalidModel = errors.New("repository: invalid model")

	// ErrInvalidPath is returned by New for an empty data path.
	ErrInvalidPath = errors.New("repository: invalid path")
)
