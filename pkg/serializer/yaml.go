package serializer

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAML serializes records as a top-level sequence of flat mappings.
type YAML struct{}

// NewYAML returns the YAML serializer.
func NewYAML() YAML { return YAML{} }

// Format returns FormatYAML.
func (YAML) Format() Format { return FormatYAML }

// Extensions returns the extensions handled by the YAML serializer.
func (YAML) Extensions() []string { return []string{".yaml", ".yml"} }

// Parse decodes a YAML sequence of mappings into rows.
func (YAML) Parse(data []byte, schema Schema) ([]Row, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	var records []map[string]any
	if err := yaml.Unmarshal(data, &records); err != nil {
		// yaml.v3 already embeds line positions in its messages.
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedData, schema.label(), err)
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

// Render encodes rows as a YAML sequence. Mappings are built as explicit
// nodes because yaml.v3 sorts plain map keys, which would lose schema order.
func (YAML) Render(rows []Row, schema Schema) ([]byte, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for i, row := range rows {
		mapping := &yaml.Node{Kind: yaml.MappingNode}
		for _, f := range schema.Fields {
			v, ok := row[f.Name]
			if !ok {
				return nil, fmt.Errorf("%s row %d is missing field %q", schema.label(), i+1, f.Name)
			}
			var value yaml.Node
			if err := value.Encode(v); err != nil {
				return nil, fmt.Errorf("%s row %d field %q: %w", schema.label(), i+1, f.Name, err)
			}
			key := &yaml.Node{Kind: yaml.ScalarNode, Value: f.Name}
			mapping.Content = append(mapping.Content, key, &value)
		}
		seq.Content = append(seq.Content, mapping)
	}

	out, err := yaml.Marshal(seq)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", schema.label(), err)
	}
	return out, nil
}
