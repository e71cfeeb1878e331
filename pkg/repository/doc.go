// Package repository provides typed, keyed access to one data file.
//
// A Repository maps a Go struct to a record schema through `datra` field
// tags, loads a whole file into an insertion-ordered collection, and saves
// it back. Records are plain structs; the repository derives the schema at
// construction and rejects unusable record types immediately.
//
// # Defining Records
//
// Exported struct fields become schema fields. Tags rename fields, mark the
// primary key, or exclude fields:
//
//	type ShopItem struct {
//		Id    string // key by name convention
//		Name  string
//		Price int
//	}
//
//	type Stage struct {
//		Number  int    `datra:",key"` // explicit key
//		Label   string `datra:"StageName"`
//		private int    // unexported: ignored
//		Scratch string `datra:"-"` // excluded
//	}
//
// # Loading and Reading
//
//	items, err := repository.New[string, ShopItem]("GameData/ShopItem.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := items.Load(ctx, p, serializer.NewDefaultFactory()); err != nil {
//		log.Fatal(err)
//	}
//
//	potion, err := items.Get("potion_hp_small")
//	all := items.All() // insertion order
//
// Load is all-or-nothing: when the payload is missing, malformed, or holds
// duplicate keys, the previous collection stays intact.
//
// # Editing and Saving
//
// Put and Delete mutate the in-memory collection; Save writes it back in
// insertion order:
//
//	items.Put(ShopItem{Id: "elixir", Name: "Elixir", Price: 900})
//	items.Delete("sword_rusty")
//	if err := items.Save(ctx, p, factory); err != nil {
//		log.Fatal(err)
//	}
package repository
