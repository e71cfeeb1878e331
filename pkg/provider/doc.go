// Package provider abstracts where serialized data lives.
//
// A Provider reads and writes text content at relative, slash-separated
// paths. Six backends are included: local filesystem, process memory, any
// fs.FS (including embed.FS), S3-compatible object storage, Redis, and
// PostgreSQL. Repositories and localization tables work against the
// interface and never care which backend is behind it.
//
// # Basic Usage
//
// Create a provider directly:
//
//	p, err := provider.NewFS("GameData")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer p.Close()
//
//	content, err := p.LoadText(ctx, "ShopItem.json")
//
// Or select the backend through environment variables:
//
//	cfg, err := provider.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//	p, err := provider.Open(ctx, cfg)
//
// # Folder Loads
//
// LoadMultiple reads the direct children of a folder in one call, keyed by
// file name. A missing folder is an empty result, not an error:
//
//	files, err := p.LoadMultiple(ctx, "Localizations", "*.json")
//	for name, content := range files {
//		// name is "en.json", "de.json", ...
//	}
//
// # Error Handling
//
// Failures wrap package-level sentinels for errors.Is checks:
//
//	if errors.Is(err, provider.ErrNotFound) {
//		// The path has no stored content.
//	}
//	if errors.Is(err, provider.ErrIOFailure) {
//		// The backend failed: network, permissions, or storage errors.
//	}
//
// # Health Checks
//
// Remote backends implement Pinger. Healthcheck adapts any provider to the
// func(context.Context) error shape health endpoints expect:
//
//	check := provider.Healthcheck(p)
//	if err := check(ctx); err != nil {
//		// Backend unreachable.
//	}
package provider
