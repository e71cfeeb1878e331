package serializer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// CSV serializes records as comma-separated values with a header row. The
// header maps columns to schema fields by name, so column order in the
// payload does not have to match schema order. Columns not declared by the
// schema are ignored.
type CSV struct{}

// NewCSV returns the CSV serializer.
func NewCSV() CSV { return CSV{} }

// Format returns FormatCSV.
func (CSV) Format() Format { return FormatCSV }

// Extensions returns the extensions handled by the CSV serializer.
func (CSV) Extensions() []string { return []string{".csv"} }

// Parse decodes CSV data into rows. Every data row must have the same number
// of cells as the header; ragged rows are malformed.
func (CSV) Parse(data []byte, schema Schema) ([]Row, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	r := csv.NewReader(bytes.NewReader(data))

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: missing header row", ErrMalformedData, schema.label())
	}
	if err != nil {
		return nil, wrapCSVError(schema, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	for _, f := range schema.Fields {
		if _, ok := columns[f.Name]; !ok {
			return nil, fmt.Errorf("%w: %s: header is missing column %q", ErrMalformedData, schema.label(), f.Name)
		}
	}

	var rows []Row
	for rowNum := 1; ; rowNum++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, wrapCSVError(schema, err)
		}

		row := make(Row, len(schema.Fields))
		for _, f := range schema.Fields {
			v, err := normalizeValue(f, record[columns[f.Name]])
			if err != nil {
				return nil, fmt.Errorf("%w: %s row %d field %q: %v", ErrMalformedData, schema.label(), rowNum, f.Name, err)
			}
			row[f.Name] = v
		}
		rows = append(rows, row)
	}
	if rows == nil {
		rows = []Row{}
	}
	if err := checkDuplicates(schema, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Render encodes rows as CSV with a header in schema order.
func (CSV) Render(rows []Row, schema Schema) ([]byte, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(schema.Fields))
	for i, f := range schema.Fields {
		header[i] = f.Name
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("%s: write header: %w", schema.label(), err)
	}

	record := make([]string, len(schema.Fields))
	for i, row := range rows {
		for j, f := range schema.Fields {
			v, ok := row[f.Name]
			if !ok {
				return nil, fmt.Errorf("%s row %d is missing field %q", schema.label(), i+1, f.Name)
			}
			cell, err := formatValue(f, v)
			if err != nil {
				return nil, fmt.Errorf("%s row %d: %v", schema.label(), i+1, err)
			}
			record[j] = cell
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", schema.label(), i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("%s: %w", schema.label(), err)
	}
	return buf.Bytes(), nil
}

// wrapCSVError keeps the line and column reported by encoding/csv.
func wrapCSVError(schema Schema, err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Errorf("%w: %s: line %d column %d: %v", ErrMalformedData, schema.label(), parseErr.Line, parseErr.Column, parseErr.Err)
	}
	return fmt.Errorf("%w: %s: %v", ErrMalformedData, schema.label(), err)
}
