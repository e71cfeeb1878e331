// Package config collects the data layer's settings in one struct with
// documented defaults.
//
// Configuration can come from code or from the environment:
//
//	cfg, err := config.New(
//		config.WithContextName("shop"),
//		config.WithDefaultLanguage("ko"),
//	)
//
//	cfg, err := config.Load() // DATRA_* environment variables
//
// With no overrides at all, the data layer reads JSON files from the
// current directory, looks for the localization key table at
// Localizations/LocalizationKeys.csv, scans Localizations/ for language
// tables, and falls back to English.
package config
