package serializer

import "fmt"

// Kind identifies the scalar type of a schema field.
type Kind uint8

const (
	// String fields hold arbitrary text.
	String Kind = iota
	// Int fields hold signed 64-bit integers.
	Int
	// Float fields hold 64-bit floating point numbers.
	Float
	// Bool fields hold booleans.
	Bool
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Field describes a single column of a record schema.
type Field struct {
	// Name is the field name as it appears in serialized payloads.
	Name string
	// Kind is the scalar type values of this field are converted to.
	Kind Kind
}

// Schema describes the fixed, ordered field set of a record type. Serializers
// use it to convert loosely typed payload values into scalar kinds, to emit
// fields in a stable order, and to detect duplicate primary keys.
type Schema struct {
	// Name identifies the record type in error messages.
	Name string
	// KeyField names the field holding the primary key. It must reference
	// a field of kind String or Int.
	KeyField string
	// Fields lists the schema fields in serialization order.
	Fields []Field
}

// Validate checks the schema for structural problems. It returns an error
// wrapping ErrInvalidSchema when the schema has no fields, declares duplicate
// field names, names a key field that is not part of the schema, or uses a
// key field whose kind is not String or Int.
func (s Schema) Validate() error {
	if len(s.Fields) == 0 {
		return fmt.Errorf("%w: %s has no fields", ErrInvalidSchema, s.label())
	}
	seen := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("%w: %s has an unnamed field", ErrInvalidSchema, s.label())
		}
		if _, ok := seen[f.Name]; ok {
			return fmt.Errorf("%w: %s declares field %q twice", ErrInvalidSchema, s.label(), f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	if s.KeyField == "" {
		return fmt.Errorf("%w: %s has no key field", ErrInvalidSchema, s.label())
	}
	key, ok := s.Field(s.KeyField)
	if !ok {
		return fmt.Errorf("%w: %s key field %q is not declared", ErrInvalidSchema, s.label(), s.KeyField)
	}
	if key.Kind != String && key.Kind != Int {
		return fmt.Errorf("%w: %s key field %q must be string or int, got %s", ErrInvalidSchema, s.label(), s.KeyField, key.Kind)
	}
	return nil
}

// Field returns the schema field with the given name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (s Schema) label() string {
	if s.Name == "" {
		return "schema"
	}
	return "schema " + s.Name
}
