// Package serializer converts tabular record data between serialized payloads
// and ordered rows.
//
// Each serializer handles one format (JSON, CSV, or YAML) and works against a
// Schema: a fixed, ordered set of typed fields with one field designated as
// the primary key. Parsing normalizes payload values to the schema's scalar
// kinds and rejects structural damage, missing fields, and duplicate keys.
// Rendering emits fields in schema order so output is stable across runs.
//
// # Basic Usage
//
// Resolve a serializer through a factory and parse a payload:
//
//	schema := serializer.Schema{
//		Name:     "ShopItem",
//		KeyField: "Id",
//		Fields: []serializer.Field{
//			{Name: "Id", Kind: serializer.String},
//			{Name: "Name", Kind: serializer.String},
//			{Name: "Price", Kind: serializer.Int},
//		},
//	}
//
//	factory := serializer.NewDefaultFactory()
//	s, err := factory.ForPath("ShopItem.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	rows, err := s.Parse(data, schema)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Round-Trips
//
// Parse and Render are symmetric. Rendering parsed rows and parsing the
// result yields equal rows, so a payload can be rewritten in any registered
// format without losing data:
//
//	csvSer, _ := factory.ForFormat(serializer.FormatCSV)
//	out, _ := csvSer.Render(rows, schema)
//	// out holds the same records as data, now in CSV.
//
// # Error Handling
//
// Failures wrap package-level sentinels for errors.Is checks:
//
//	if errors.Is(err, serializer.ErrMalformedData) {
//		// Structural damage, bad cell value, or missing field.
//	}
//	if errors.Is(err, serializer.ErrDuplicateKey) {
//		// Two records in one payload share a primary key.
//	}
//	if errors.Is(err, serializer.ErrUnsupportedFormat) {
//		// No serializer registered for the format or extension.
//	}
package serializer
