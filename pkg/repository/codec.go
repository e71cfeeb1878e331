package repository

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/penspanic/Datra-sub001/pkg/serializer"
)

// binding ties one schema field to a struct field.
type binding struct {
	field serializer.Field
	index int
}

// codec converts between typed records and serializer rows. It is built once
// at repository construction by reflecting over the record type, so per-row
// work is just field copies.
//
// Field mapping follows the struct tag grammar:
//
//	Field int                          // bound as "Field"
//	Field int `datra:"price"`          // bound as "price"
//	Field int `datra:",key"`           // bound as "Field", primary key
//	Field int `datra:"-"`              // ignored
//
// Without an explicit key tag, a field bound as "Id" or "ID" becomes the key.
type codec[K comparable, R any] struct {
	schema   serializer.Schema
	bindings []binding
	keyIdx   int
}

func newCodec[K comparable, R any](name string) (*codec[K, R], error) {
	rt := reflect.TypeFor[R]()
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrInvalidModel, rt)
	}

	c := &codec[K, R]{keyIdx: -1}
	for i := range rt.NumField() {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get("datra")
		if tag == "-" {
			continue
		}
		tagName, tagOpt, _ := strings.Cut(tag, ",")

		fieldName := sf.Name
		if tagName != "" {
			fieldName = tagName
		}
		kind, err := kindOf(sf.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: %s field %s: %v", ErrInvalidModel, rt.Name(), sf.Name, err)
		}
		c.bindings = append(c.bindings, binding{
			field: serializer.Field{Name: fieldName, Kind: kind},
			index: i,
		})

		if tagOpt == "key" {
			if c.keyIdx >= 0 {
				return nil, fmt.Errorf("%w: %s declares more than one key field", ErrInvalidModel, rt.Name())
			}
			c.keyIdx = len(c.bindings) - 1
		}
	}

	if len(c.bindings) == 0 {
		return nil, fmt.Errorf("%w: %s has no usable fields", ErrInvalidModel, rt.Name())
	}
	if c.keyIdx < 0 {
		for i, b := range c.bindings {
			if b.field.Name == "Id" || b.field.Name == "ID" {
				c.keyIdx = i
				break
			}
		}
	}
	if c.keyIdx < 0 {
		return nil, fmt.Errorf("%w: %s has no key field, tag one with `datra:\",key\"`", ErrInvalidModel, rt.Name())
	}

	keyType := rt.Field(c.bindings[c.keyIdx].index).Type
	if kt := reflect.TypeFor[K](); keyType != kt {
		return nil, fmt.Errorf("%w: %s key field %s is %s, repository key type is %s",
			ErrInvalidModel, rt.Name(), c.bindings[c.keyIdx].field.Name, keyType, kt)
	}

	fields := make([]serializer.Field, len(c.bindings))
	for i, b := range c.bindings {
		fields[i] = b.field
	}
	c.schema = serializer.Schema{
		Name:     name,
		KeyField: c.bindings[c.keyIdx].field.Name,
		Fields:   fields,
	}
	if err := c.schema.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	return c, nil
}

func kindOf(t reflect.Type) (serializer.Kind, error) {
	switch t.Kind() {
	case reflect.String:
		return serializer.String, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return serializer.Int, nil
	case reflect.Float32, reflect.Float64:
		return serializer.Float, nil
	case reflect.Bool:
		return serializer.Bool, nil
	default:
		return 0, fmt.Errorf("unsupported type %s", t)
	}
}

// decode converts parsed rows into records keyed and ordered as they appear
// in the payload.
func (c *codec[K, R]) decode(rows []serializer.Row) (map[K]R, []K, error) {
	records := make(map[K]R, len(rows))
	order := make([]K, 0, len(rows))
	for i, row := range rows {
		var rec R
		rv := reflect.ValueOf(&rec).Elem()
		for _, b := range c.bindings {
			if err := setField(rv.Field(b.index), b.field, row[b.field.Name]); err != nil {
				return nil, nil, fmt.Errorf("%w: %s row %d field %q: %v",
					serializer.ErrMalformedData, c.schema.Name, i+1, b.field.Name, err)
			}
		}
		key := c.keyOf(rec)
		records[key] = rec
		order = append(order, key)
	}
	return records, order, nil
}

// encode converts records into rows, one per record in the given order.
func (c *codec[K, R]) encode(records []R) ([]serializer.Row, error) {
	rows := make([]serializer.Row, len(records))
	for i, rec := range records {
		rv := reflect.ValueOf(rec)
		row := make(serializer.Row, len(c.bindings))
		for _, b := range c.bindings {
			v, err := fieldValue(rv.Field(b.index), b.field)
			if err != nil {
				return nil, fmt.Errorf("%s record %d field %q: %v", c.schema.Name, i+1, b.field.Name, err)
			}
			row[b.field.Name] = v
		}
		rows[i] = row
	}
	return rows, nil
}

// keyOf extracts the primary key from a record.
func (c *codec[K, R]) keyOf(rec R) K {
	rv := reflect.ValueOf(rec)
	return rv.Field(c.bindings[c.keyIdx].index).Interface().(K)
}

// setField assigns a normalized row value to a struct field, checking range
// for narrower numeric types.
func setField(fv reflect.Value, f serializer.Field, raw any) error {
	switch f.Kind {
	case serializer.String:
		s, ok := raw.(string)
		if !ok {
			return fmt.Errorf("value is %T, want string", raw)
		}
		fv.SetString(s)
	case serializer.Int:
		n, ok := raw.(int64)
		if !ok {
			return fmt.Errorf("value is %T, want int64", raw)
		}
		if fv.CanUint() {
			if n < 0 {
				return fmt.Errorf("value %d is negative", n)
			}
			u := uint64(n)
			if fv.OverflowUint(u) {
				return fmt.Errorf("value %d overflows %s", n, fv.Type())
			}
			fv.SetUint(u)
			return nil
		}
		if fv.OverflowInt(n) {
			return fmt.Errorf("value %d overflows %s", n, fv.Type())
		}
		fv.SetInt(n)
	case serializer.Float:
		n, ok := raw.(float64)
		if !ok {
			return fmt.Errorf("value is %T, want float64", raw)
		}
		if fv.OverflowFloat(n) {
			return fmt.Errorf("value %g overflows %s", n, fv.Type())
		}
		fv.SetFloat(n)
	case serializer.Bool:
		b, ok := raw.(bool)
		if !ok {
			return fmt.Errorf("value is %T, want bool", raw)
		}
		fv.SetBool(b)
	default:
		return fmt.Errorf("unsupported kind %s", f.Kind)
	}
	return nil
}

// fieldValue reads a struct field as a normalized row value.
func fieldValue(fv reflect.Value, f serializer.Field) (any, error) {
	switch f.Kind {
	case serializer.String:
		return fv.String(), nil
	case serializer.Int:
		if fv.CanUint() {
			u := fv.Uint()
			if u > math.MaxInt64 {
				return nil, fmt.Errorf("value %d overflows int64", u)
			}
			return int64(u), nil
		}
		return fv.Int(), nil
	case serializer.Float:
		return fv.Float(), nil
	case serializer.Bool:
		return fv.Bool(), nil
	default:
		return nil, fmt.Errorf("unsupported kind %s", f.Kind)
	}
}
