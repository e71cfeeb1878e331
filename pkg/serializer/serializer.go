package serializer

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Format identifies a serialization format.
type Format string

// Built-in formats.
const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

// Row is a single record keyed by schema field name. Values are normalized
// to the field's kind: string, int64, float64, or bool.
type Row map[string]any

// Key returns the row's primary key value under the given schema.
func (r Row) Key(schema Schema) any {
	return r[schema.KeyField]
}

// Serializer converts between a serialized payload and an ordered list of
// rows. Implementations are stateless and safe for concurrent use. Parse and
// Render are symmetric: rendering the rows returned by Parse produces a
// payload that parses back to equal rows.
type Serializer interface {
	// Format returns the format identifier.
	Format() Format

	// Extensions returns the file extensions handled by this serializer,
	// each with a leading dot.
	Extensions() []string

	// Parse decodes the payload into rows ordered as they appear in the
	// payload. It returns an error wrapping ErrMalformedData on structural
	// or type-conversion failures, and ErrDuplicateKey when two records
	// share a primary key.
	Parse(data []byte, schema Schema) ([]Row, error)

	// Render encodes rows into the serializer's format, emitting fields in
	// schema order.
	Render(rows []Row, schema Schema) ([]byte, error)
}

// normalizeRow converts one loosely typed record into a Row, coercing each
// value to its schema kind. Fields absent from the record are an error;
// entries not declared by the schema are dropped.
func normalizeRow(schema Schema, record map[string]any, rowNum int) (Row, error) {
	row := make(Row, len(schema.Fields))
	for _, f := range schema.Fields {
		raw, ok := record[f.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s row %d is missing field %q", ErrMalformedData, schema.label(), rowNum, f.Name)
		}
		v, err := normalizeValue(f, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d field %q: %v", ErrMalformedData, schema.label(), rowNum, f.Name, err)
		}
		row[f.Name] = v
	}
	return row, nil
}

// normalizeValue coerces a decoded payload value to the field's kind.
// Strings are accepted for every kind so that text formats can carry
// numeric and boolean cells.
func normalizeValue(f Field, raw any) (any, error) {
	switch f.Kind {
	case String:
		switch v := raw.(type) {
		case string:
			return v, nil
		case json.Number:
			return v.String(), nil
		case int:
			return strconv.Itoa(v), nil
		case int64:
			return strconv.FormatInt(v, 10), nil
		case uint64:
			return strconv.FormatUint(v, 10), nil
		case float64:
			return strconv.FormatFloat(v, 'g', -1, 64), nil
		}
	case Int:
		switch v := raw.(type) {
		case int:
			return int64(v), nil
		case int64:
			return v, nil
		case uint64:
			if v > math.MaxInt64 {
				return nil, fmt.Errorf("integer %d overflows int64", v)
			}
			return int64(v), nil
		case json.Number:
			n, err := strconv.ParseInt(v.String(), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("cannot convert %q to int", v.String())
			}
			return n, nil
		case string:
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("cannot convert %q to int", v)
			}
			return n, nil
		}
	case Float:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case json.Number:
			n, err := v.Float64()
			if err != nil {
				return nil, fmt.Errorf("cannot convert %q to float", v.String())
			}
			return n, nil
		case string:
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("cannot convert %q to float", v)
			}
			return n, nil
		}
	case Bool:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("cannot convert %q to bool", v)
			}
			return b, nil
		}
	}
	return nil, fmt.Errorf("cannot convert %T to %s", raw, f.Kind)
}

// formatValue renders a normalized value as a bare text cell.
func formatValue(f Field, v any) (string, error) {
	switch f.Kind {
	case String:
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("field %q holds %T, want string", f.Name, v)
		}
		return s, nil
	case Int:
		n, ok := v.(int64)
		if !ok {
			return "", fmt.Errorf("field %q holds %T, want int64", f.Name, v)
		}
		return strconv.FormatInt(n, 10), nil
	case Float:
		n, ok := v.(float64)
		if !ok {
			return "", fmt.Errorf("field %q holds %T, want float64", f.Name, v)
		}
		return strconv.FormatFloat(n, 'g', -1, 64), nil
	case Bool:
		b, ok := v.(bool)
		if !ok {
			return "", fmt.Errorf("field %q holds %T, want bool", f.Name, v)
		}
		return strconv.FormatBool(b), nil
	default:
		return "", fmt.Errorf("field %q has unsupported kind %s", f.Name, f.Kind)
	}
}

// checkDuplicates verifies primary key uniqueness across rows.
func checkDuplicates(schema Schema, rows []Row) error {
	seen := make(map[any]int, len(rows))
	for i, row := range rows {
		key := row.Key(schema)
		if first, ok := seen[key]; ok {
			return fmt.Errorf("%w: %s key %v at row %d, first seen at row %d", ErrDuplicateKey, schema.label(), key, i+1, first)
		}
		seen[key] = i + 1
	}
	return nil
}
