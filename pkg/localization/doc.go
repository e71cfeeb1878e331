// Package localization resolves string keys to per-language display text
// with a deterministic fallback chain.
//
// A Source joins two kinds of tables. The key table (CSV by convention)
// defines which keys exist; per-language tables map those keys to text for
// one language each and are discovered by scanning a folder, with the file
// stem naming the language ("en.json", "de-DE.json"). Both kinds load
// through the same provider and serializer machinery as any other data
// table.
//
// # Basic Usage
//
//	src, err := localization.New(
//		localization.WithDefaultLanguage("en"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := src.Load(ctx, prov, serializer.NewDefaultFactory()); err != nil {
//		log.Fatal(err)
//	}
//
//	src.Resolve("item_potion_name")                  // "Small HP Potion"
//	_ = src.SetLanguage(ctx, "de")
//	src.Resolve("item_potion_name")                  // "Kleiner HP-Trank"
//
// # Fallback
//
// Resolve never fails and never returns an empty string for a key with a
// non-empty default-language entry. The chain is: active language, then
// default language, then the key literal. Keys missing from the key table
// short-circuit to the literal. Every fallback to the literal is reported
// through the missing handler, which logs at debug level unless replaced
// with WithMissingHandler.
//
// # Language Loading
//
// Load fetches every discovered language up front. With WithLazyLanguages
// only the default language is fetched during Load; other languages load on
// their first SetLanguage, and concurrent activations of the same language
// share a single fetch. Once loaded, a table is cached for the source's
// lifetime and switching back to it is a pointer swap.
//
// # Placeholders
//
// Texts may carry {{name}} markers filled at resolve time:
//
//	src.Resolve("greeting", localization.M{"name": "Ari"})
package localization
