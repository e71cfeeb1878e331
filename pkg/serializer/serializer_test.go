package serializer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penspanic/Datra-sub001/pkg/serializer"
)

func shopItemSchema() serializer.Schema {
	return serializer.Schema{
		Name:     "ShopItem",
		KeyField: "Id",
		Fields: []serializer.Field{
			{Name: "Id", Kind: serializer.String},
			{Name: "Name", Kind: serializer.String},
			{Name: "Price", Kind: serializer.Int},
			{Name: "Weight", Kind: serializer.Float},
			{Name: "Stackable", Kind: serializer.Bool},
		},
	}
}

func shopItemRows() []serializer.Row {
	return []serializer.Row{
		{"Id": "potion_hp_small", "Name": "Small HP Potion", "Price": int64(100), "Weight": 0.5, "Stackable": true},
		{"Id": "sword_iron", "Name": "Iron Sword", "Price": int64(750), "Weight": 3.2, "Stackable": false},
	}
}

func TestJSONParse(t *testing.T) {
	t.Parallel()

	schema := shopItemSchema()
	ser := serializer.NewJSON()

	t.Run("parses array of objects", func(t *testing.T) {
		t.Parallel()

		data := []byte(`[
			{"Id": "potion_hp_small", "Name": "Small HP Potion", "Price": 100, "Weight": 0.5, "Stackable": true},
			{"Id": "sword_iron", "Name": "Iron Sword", "Price": 750, "Weight": 3.2, "Stackable": false}
		]`)

		rows, err := ser.Parse(data, schema)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Small HP Potion", rows[0]["Name"])
		assert.Equal(t, int64(100), rows[0]["Price"])
		assert.Equal(t, 0.5, rows[0]["Weight"])
		assert.Equal(t, true, rows[0]["Stackable"])
		assert.Equal(t, "sword_iron", rows[1]["Id"])
	})

	t.Run("preserves record order", func(t *testing.T) {
		t.Parallel()

		data := []byte(`[
			{"Id": "c", "Name": "C", "Price": 3, "Weight": 1, "Stackable": false},
			{"Id": "a", "Name": "A", "Price": 1, "Weight": 1, "Stackable": false},
			{"Id": "b", "Name": "B", "Price": 2, "Weight": 1, "Stackable": false}
		]`)

		rows, err := ser.Parse(data, schema)
		require.NoError(t, err)
		ids := make([]string, len(rows))
		for i, row := range rows {
			ids[i] = row["Id"].(string)
		}
		assert.Equal(t, []string{"c", "a", "b"}, ids)
	})

	t.Run("empty array yields no rows", func(t *testing.T) {
		t.Parallel()

		rows, err := ser.Parse([]byte(`[]`), schema)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("ignores undeclared members", func(t *testing.T) {
		t.Parallel()

		data := []byte(`[{"Id": "a", "Name": "A", "Price": 1, "Weight": 1, "Stackable": false, "Comment": "ignored"}]`)

		rows, err := ser.Parse(data, schema)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.NotContains(t, rows[0], "Comment")
	})

	t.Run("unterminated payload is malformed", func(t *testing.T) {
		t.Parallel()

		_, err := ser.Parse([]byte(`[{"Id": "a", "Name": "A"`), schema)
		require.Error(t, err)
		assert.ErrorIs(t, err, serializer.ErrMalformedData)
	})

	t.Run("top-level object is malformed", func(t *testing.T) {
		t.Parallel()

		_, err := ser.Parse([]byte(`{"Id": "a"}`), schema)
		require.Error(t, err)
		assert.ErrorIs(t, err, serializer.ErrMalformedData)
	})

	t.Run("content after array is malformed", func(t *testing.T) {
		t.Parallel()

		_, err := ser.Parse([]byte("[]\n[]"), schema)
		require.Error(t, err)
		assert.ErrorIs(t, err, serializer.ErrMalformedData)
	})

	t.Run("missing field names the field", func(t *testing.T) {
		t.Parallel()

		_, err := ser.Parse([]byte(`[{"Id": "a", "Name": "A", "Weight": 1, "Stackable": false}]`), schema)
		require.Error(t, err)
		assert.ErrorIs(t, err, serializer.ErrMalformedData)
		assert.Contains(t, err.Error(), `"Price"`)
	})

	t.Run("non-numeric int cell is malformed", func(t *testing.T) {
		t.Parallel()

		_, err := ser.Parse([]byte(`[{"Id": "a", "Name": "A", "Price": "cheap", "Weight": 1, "Stackable": false}]`), schema)
		require.Error(t, err)
		assert.ErrorIs(t, err, serializer.ErrMalformedData)
		assert.Contains(t, err.Error(), `"Price"`)
	})

	t.Run("duplicate key is rejected", func(t *testing.T) {
		t.Parallel()

		data := []byte(`[
			{"Id": "a", "Name": "A", "Price": 1, "Weight": 1, "Stackable": false},
			{"Id": "a", "Name": "A again", "Price": 2, "Weight": 1, "Stackable": false}
		]`)

		_, err := ser.Parse(data, schema)
		require.Error(t, err)
		assert.ErrorIs(t, err, serializer.ErrDuplicateKey)
	})

	t.Run("numeric value fills string field", func(t *testing.T) {
		t.Parallel()

		data := []byte(`[{"Id": 1001, "Name": "A", "Price": 1, "Weight": 1, "Stackable": false}]`)

		rows, err := ser.Parse(data, schema)
		require.NoError(t, err)
		assert.Equal(t, "1001", rows[0]["Id"])
	})

	t.Run("quoted number fills int field", func(t *testing.T) {
		t.Parallel()

		data := []byte(`[{"Id": "a", "Name": "A", "Price": "100", "Weight": 1, "Stackable": false}]`)

		rows, err := ser.Parse(data, schema)
		require.NoError(t, err)
		assert.Equal(t, int64(100), rows[0]["Price"])
	})
}

func TestJSONRender(t *testing.T) {
	t.Parallel()

	schema := shopItemSchema()
	ser := serializer.NewJSON()

	t.Run("round-trips rows", func(t *testing.T) {
		t.Parallel()

		rows := shopItemRows()
		out, err := ser.Render(rows, schema)
		require.NoError(t, err)

		again, err := ser.Parse(out, schema)
		require.NoError(t, err)
		assert.Equal(t, rows, again)
	})

	t.Run("emits fields in schema order", func(t *testing.T) {
		t.Parallel()

		out, err := ser.Render(shopItemRows()[:1], schema)
		require.NoError(t, err)

		text := string(out)
		assert.Less(t, strings.Index(text, `"Id"`), strings.Index(text, `"Name"`))
		assert.Less(t, strings.Index(text, `"Name"`), strings.Index(text, `"Price"`))
		assert.Less(t, strings.Index(text, `"Price"`), strings.Index(text, `"Weight"`))
	})

	t.Run("escapes string values", func(t *testing.T) {
		t.Parallel()

		rows := []serializer.Row{
			{"Id": "odd", "Name": "He said \"hi\"\nand left", "Price": int64(1), "Weight": 1.0, "Stackable": false},
		}
		out, err := ser.Render(rows, schema)
		require.NoError(t, err)

		again, err := ser.Parse(out, schema)
		require.NoError(t, err)
		assert.Equal(t, rows, again)
	})

	t.Run("renders empty slice as empty array", func(t *testing.T) {
		t.Parallel()

		out, err := ser.Render(nil, schema)
		require.NoError(t, err)
		rows, err := ser.Parse(out, schema)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("fails on row missing a field", func(t *testing.T) {
		t.Parallel()

		_, err := ser.Render([]serializer.Row{{"Id": "a"}}, schema)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"Name"`)
	})
}

func TestCSVParse(t *testing.T) {
	t.Parallel()

	schema := shopItemSchema()
	ser := serializer.NewCSV()

	t.Run("parses rows under header", func(t *testing.T) {
		t.Parallel()

		data := []byte("Id,Name,Price,Weight,Stackable\npotion_hp_small,Small HP Potion,100,0.5,true\nsword_iron,Iron Sword,750,3.2,false\n")

		rows, err := ser.Parse(data, schema)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Small HP Potion", rows[0]["Name"])
		assert.Equal(t, int64(100), rows[0]["Price"])
		assert.Equal(t, 3.2, rows[1]["Weight"])
		assert.Equal(t, false, rows[1]["Stackable"])
	})

	t.Run("maps columns by header name", func(t *testing.T) {
		t.Parallel()

		data := []byte("Price,Id,Stackable,Name,Weight\n100,potion_hp_small,true,Small HP Potion,0.5\n")

		rows, err := ser.Parse(data, schema)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "potion_hp_small", rows[0]["Id"])
		assert.Equal(t, int64(100), rows[0]["Price"])
	})

	t.Run("ignores undeclared columns", func(t *testing.T) {
		t.Parallel()

		data := []byte("Id,Name,Price,Weight,Stackable,Comment\na,A,1,1,false,internal note\n")

		rows, err := ser.Parse(data, schema)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.NotContains(t, rows[0], "Comment")
	})

	t.Run("empty payload is malformed", func(t *testing.T) {
		t.Parallel()

		_, err := ser.Parse(nil, schema)
		require.Error(t, err)
		assert.ErrorIs(t, err, serializer.ErrMalformedData)
		assert.Contains(t, err.Error(), "header")
	})

	t.Run("header without rows yields no rows", func(t *testing.T) {
		t.Parallel()

		rows, err := ser.Parse([]byte("Id,Name,Price,Weight,Stackable\n"), schema)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("missing schema column is malformed", func(t *testing.T) {
		t.Parallel()

		_, err := ser.Parse([]byte("Id,Name,Weight,Stackable\na,A,1,false\n"), schema)
		require.Error(t, err)
		assert.ErrorIs(t, err, serializer.ErrMalformedData)
		assert.Contains(t, err.Error(), `"Price"`)
	})

	t.Run("ragged row is malformed", func(t *testing.T) {
		t.Parallel()

		_, err := ser.Parse([]byte("Id,Name,Price,Weight,Stackable\na,A,1,1\n"), schema)
		require.Error(t, err)
		assert.ErrorIs(t, err, serializer.ErrMalformedData)
	})

	t.Run("bad bool cell is malformed", func(t *testing.T) {
		t.Parallel()

		_, err := ser.Parse([]byte("Id,Name,Price,Weight,Stackable\na,A,1,1,maybe\n"), schema)
		require.Error(t, err)
		assert.ErrorIs(t, err, serializer.ErrMalformedData)
		assert.Contains(t, err.Error(), `"Stackable"`)
	})

	t.Run("duplicate key is rejected", func(t *testing.T) {
		t.Parallel()

		data := []byte("Id,Name,Price,Weight,Stackable\na,A,1,1,false\na,A again,2,1,false\n")

		_, err := ser.Parse(data, schema)
		require.Error(t, err)
		assert.ErrorIs(t, err, serializer.ErrDuplicateKey)
	})
}

func TestCSVRender(t *testing.T) {
	t.Parallel()

	schema := shopItemSchema()
	ser := serializer.NewCSV()

	t.Run("round-trips rows", func(t *testing.T) {
		t.Parallel()

		rows := shopItemRows()
		out, err := ser.Render(rows, schema)
		require.NoError(t, err)

		again, err := ser.Parse(out, schema)
		require.NoError(t, err)
		assert.Equal(t, rows, again)
	})

	t.Run("quotes cells containing separators", func(t *testing.T) {
		t.Parallel()

		rows := []serializer.Row{
			{"Id": "odd", "Name": "Sword, rusty \"old\" one", "Price": int64(5), "Weight": 1.0, "Stackable": false},
		}
		out, err := ser.Render(rows, schema)
		require.NoError(t, err)

		again, err := ser.Parse(out, schema)
		require.NoError(t, err)
		assert.Equal(t, rows, again)
	})

	t.Run("writes header in schema order", func(t *testing.T) {
		t.Parallel()

		out, err := ser.Render(nil, schema)
		require.NoError(t, err)
		assert.Equal(t, "Id,Name,Price,Weight,Stackable\n", string(out))
	})
}

func TestYAMLParseRender(t *testing.T) {
	t.Parallel()

	schema := shopItemSchema()
	ser := serializer.NewYAML()

	t.Run("parses sequence of mappings", func(t *testing.T) {
		t.Parallel()

		data := []byte(`
- Id: potion_hp_small
  Name: Small HP Potion
  Price: 100
  Weight: 0.5
  Stackable: true
- Id: sword_iron
  Name: Iron Sword
  Price: 750
  Weight: 3.2
  Stackable: false
`)

		rows, err := ser.Parse(data, schema)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Small HP Potion", rows[0]["Name"])
		assert.Equal(t, int64(100), rows[0]["Price"])
		assert.Equal(t, true, rows[0]["Stackable"])
	})

	t.Run("round-trips rows", func(t *testing.T) {
		t.Parallel()

		rows := shopItemRows()
		out, err := ser.Render(rows, schema)
		require.NoError(t, err)

		again, err := ser.Parse(out, schema)
		require.NoError(t, err)
		assert.Equal(t, rows, again)
	})

	t.Run("keeps numeric-looking strings as strings", func(t *testing.T) {
		t.Parallel()

		rows := []serializer.Row{
			{"Id": "100", "Name": "true", "Price": int64(1), "Weight": 1.0, "Stackable": false},
		}
		out, err := ser.Render(rows, schema)
		require.NoError(t, err)

		again, err := ser.Parse(out, schema)
		require.NoError(t, err)
		assert.Equal(t, "100", again[0]["Id"])
		assert.Equal(t, "true", again[0]["Name"])
	})

	t.Run("top-level mapping is malformed", func(t *testing.T) {
		t.Parallel()

		_, err := ser.Parse([]byte("Id: a\nName: A\n"), schema)
		require.Error(t, err)
		assert.ErrorIs(t, err, serializer.ErrMalformedData)
	})

	t.Run("bad indentation is malformed", func(t *testing.T) {
		t.Parallel()

		_, err := ser.Parse([]byte("- Id: a\n Name: A\n"), schema)
		require.Error(t, err)
		assert.ErrorIs(t, err, serializer.ErrMalformedData)
	})

	t.Run("duplicate key is rejected", func(t *testing.T) {
		t.Parallel()

		data := []byte("- Id: a\n  Name: A\n  Price: 1\n  Weight: 1\n  Stackable: false\n- Id: a\n  Name: B\n  Price: 2\n  Weight: 1\n  Stackable: false\n")

		_, err := ser.Parse(data, schema)
		require.Error(t, err)
		assert.ErrorIs(t, err, serializer.ErrDuplicateKey)
	})
}

func TestCrossFormatRoundTrip(t *testing.T) {
	t.Parallel()

	schema := shopItemSchema()
	rows := shopItemRows()

	serializers := []serializer.Serializer{serializer.NewJSON(), serializer.NewCSV(), serializer.NewYAML()}
	for _, src := range serializers {
		for _, dst := range serializers {
			name := string(src.Format()) + " to " + string(dst.Format())
			t.Run(name, func(t *testing.T) {
				t.Parallel()

				payload, err := src.Render(rows, schema)
				require.NoError(t, err)
				parsed, err := src.Parse(payload, schema)
				require.NoError(t, err)

				converted, err := dst.Render(parsed, schema)
				require.NoError(t, err)
				final, err := dst.Parse(converted, schema)
				require.NoError(t, err)
				assert.Equal(t, rows, final)
			})
		}
	}
}
