package serializer

import "errors"

// Sentinel errors for format resolution and parsing.
var (
	// ErrUnsupportedFormat is returned when no serializer is registered for
	// a format identifier or file extension.
	ErrUnsupportedFormat = errors.New("serializer: unsupported format")

	// ErrMalformedData is returned for structural parse failures: unterminated
	// structures, wrong column counts, missing required fields, or values that
	// cannot be converted to the schema's field kind. The wrapped message
	// carries the row or line position.
	ErrMalformedData = errors.New("serializer: malformed data")

	// ErrDuplicateKey is returned when two records in a single payload share
	// a primary key.
	ErrDuplicateKey = errors.New("serializer: duplicate key")

	// ErrInvalidSchema is returned when a schema fails validation (no fields,
	// unknown key field, duplicate field names, or non-keyable key kind).
	ErrInvalidSchema = errors.New("serializer: invalid schema")
)
