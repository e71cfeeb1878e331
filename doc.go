// Package datra provides a typed data-access layer for structured game and
// configuration data. It loads per-entity tables from flat text resources
// (JSON, CSV, YAML) into strongly-keyed in-memory repositories and aggregates
// them under isolated, concurrently-loadable data contexts.
//
// A context is a fixed set of tables over one storage provider. Loading it is
// all-or-nothing: tables load concurrently, the first failure cancels the
// rest, and a failed load leaves the context in a checkable unloaded state
// instead of a partially populated one. Reads never touch storage; after
// LoadAll every lookup is an in-memory map access.
//
// # Quick Start
//
// Declare a record type, build a repository per entity, and aggregate them
// under a context:
//
//	type ShopItem struct {
//	    ID    string `datra:"id,key"`
//	    Name  string `datra:"name"`
//	    Price int    `datra:"price"`
//	}
//
//	items, err := repository.New[string, ShopItem]("GameData/ShopItems.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	prov, err := provider.NewFS("./data")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	shop, err := datra.New("shop", prov, datra.WithTables(items))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer shop.Close()
//
//	if err := shop.LoadAll(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	potion, err := items.Get("potion_hp_small")
//
// # Configuration
//
// Open builds a context from environment-driven configuration, wiring the
// storage backend and the localization overlay from one config struct:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	shop, err := datra.Open(ctx, cfg, datra.WithTables(items))
//
// # Localization
//
// A localization source joins a key table with per-language text tables and
// resolves keys with a deterministic fallback chain (active language, then
// the default language, then the key literal). Attach it with
// WithLocalization; it loads with the rest of the context:
//
//	loc := shop.Localization()
//	text := loc.Resolve("item_potion_name")
//
// # Isolation
//
// Contexts share no mutable state. Two contexts with identical schemas but
// different providers are independent datasets and may load at the same
// time. Only the serializer factory may be shared; it is immutable after
// construction. Each context owns its provider exclusively and releases it
// in Close.
//
// # Errors
//
// Failures carry the failing table's name and path and wrap the sentinel
// errors of the underlying packages, so callers can branch with errors.Is
// on provider.ErrNotFound, serializer.ErrMalformedData, and friends.
package datra
