package serializer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// JSON serializes records as a top-level array of flat objects. Numbers are
// decoded through json.Number so integer fields keep full 64-bit precision.
type JSON struct{}

// NewJSON returns the JSON serializer.
func NewJSON() JSON { return JSON{} }

// Format returns FormatJSON.
func (JSON) Format() Format { return FormatJSON }

// Extensions returns the extensions handled by the JSON serializer.
func (JSON) Extensions() []string { return []string{".json"} }

// Parse decodes a JSON array of objects into rows.
func (JSON) Parse(data []byte, schema Schema) ([]Row, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrMalformedData, schema.label(), jsonErrorDetail(data, err))
	}
	// A valid payload is exactly one array; trailing tokens mean the
	// document was concatenated or truncated oddly.
	if err := dec.Decode(new(json.RawMessage)); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: unexpected content after top-level array", ErrMalformedData, schema.label())
	}

	rows := make([]Row, 0, len(records))
	for i, record := range records {
		row, err := normalizeRow(schema, record, i+1)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if err := checkDuplicates(schema, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Render encodes rows as an indented JSON array, emitting object members in
// schema order. encoding/json alone would sort map keys alphabetically, so
// objects are written member by member.
func (JSON) Render(rows []Row, schema Schema) ([]byte, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("[")
	for i, row := range rows {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  {\n")
		for j, f := range schema.Fields {
			v, ok := row[f.Name]
			if !ok {
				return nil, fmt.Errorf("%s row %d is missing field %q", schema.label(), i+1, f.Name)
			}
			encoded, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("%s row %d field %q: %w", schema.label(), i+1, f.Name, err)
			}
			if j > 0 {
				buf.WriteString(",\n")
			}
			buf.WriteString("    ")
			name, _ := json.Marshal(f.Name)
			buf.Write(name)
			buf.WriteString(": ")
			buf.Write(encoded)
		}
		buf.WriteString("\n  }")
	}
	if len(rows) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("]\n")
	return buf.Bytes(), nil
}

// jsonErrorDetail rewrites a decode error with a line position when the
// standard library only reports a byte offset.
func jsonErrorDetail(data []byte, err error) string {
	var offset int64 = -1
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return "unexpected end of input"
	}
	if offset < 0 || offset > int64(len(data)) {
		return err.Error()
	}
	line := 1 + bytes.Count(data[:offset], []byte{'\n'})
	return fmt.Sprintf("line %d: %v", line, err)
}
