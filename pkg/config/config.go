package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/penspanic/Datra-sub001/pkg/localization"
	"github.com/penspanic/Datra-sub001/pkg/provider"
)

// Config carries every setting of the data layer: context identity, the
// storage backend, and the localization layout. All fields have documented
// defaults, so a zero-configuration environment yields a working setup
// reading JSON files from the current directory.
type Config struct {
	// ContextName names the data context in logs and error messages.
	ContextName string `env:"DATRA_CONTEXT_NAME" envDefault:"datra"`

	// Namespace is the package name used by code generators that emit typed
	// bindings for this data set. The runtime only carries it through.
	Namespace string `env:"DATRA_NAMESPACE" envDefault:"datra"`

	// Debug enables debug-level diagnostics during load and resolution.
	Debug bool `env:"DATRA_DEBUG" envDefault:"false"`

	Provider     provider.Config
	Localization Localization
}

// Localization configures the localization overlay.
type Localization struct {
	// Enabled wires the overlay into contexts opened from this configuration.
	// Data sets without localization tables turn it off.
	Enabled bool `env:"DATRA_LOCALIZATION_ENABLED" envDefault:"true"`

	// KeyTablePath is the logical path of the key table.
	KeyTablePath string `env:"DATRA_LOCALIZATION_KEYS" envDefault:"Localizations/LocalizationKeys.csv"`

	// DataFolder is scanned for per-language tables.
	DataFolder string `env:"DATRA_LOCALIZATION_FOLDER" envDefault:"Localizations"`

	// ScanPattern filters the files considered language tables.
	ScanPattern string `env:"DATRA_LOCALIZATION_PATTERN" envDefault:"*.json"`

	// DefaultLanguage is the fallback language code.
	DefaultLanguage string `env:"DATRA_LOCALIZATION_DEFAULT_LANGUAGE" envDefault:"en"`

	// Eager loads every discovered language during LoadAll. When false,
	// non-default languages load on first activation.
	Eager bool `env:"DATRA_LOCALIZATION_EAGER" envDefault:"true"`
}

// Option overrides one Config field during New.
type Option func(*Config)

// WithContextName sets the context name.
func WithContextName(name string) Option {
	return func(c *Config) { c.ContextName = name }
}

// WithNamespace sets the generated-code namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) { c.Namespace = namespace }
}

// WithDebug enables debug diagnostics.
func WithDebug() Option {
	return func(c *Config) { c.Debug = true }
}

// WithProvider replaces the whole provider section.
func WithProvider(cfg provider.Config) Option {
	return func(c *Config) { c.Provider = cfg }
}

// WithKeyTablePath sets the localization key table path.
func WithKeyTablePath(path string) Option {
	return func(c *Config) { c.Localization.KeyTablePath = path }
}

// WithDataFolder sets the localization data folder.
func WithDataFolder(folder string) Option {
	return func(c *Config) { c.Localization.DataFolder = folder }
}

// WithScanPattern sets the localization scan pattern.
func WithScanPattern(pattern string) Option {
	return func(c *Config) { c.Localization.ScanPattern = pattern }
}

// WithDefaultLanguage sets the localization fallback language.
func WithDefaultLanguage(lang string) Option {
	return func(c *Config) { c.Localization.DefaultLanguage = lang }
}

// WithLazyLanguages defers non-default language loads to first activation.
func WithLazyLanguages() Option {
	return func(c *Config) { c.Localization.Eager = false }
}

// WithoutLocalization drops the overlay from contexts opened with this
// configuration.
func WithoutLocalization() Option {
	return func(c *Config) { c.Localization.Enabled = false }
}

// Default returns the documented defaults.
func Default() Config {
	return Config{
		ContextName: "datra",
		Namespace:   "datra",
		Provider: provider.Config{
			Driver: provider.DriverFS,
			Root:   ".",
		},
		Localization: Localization{
			Enabled:         true,
			KeyTablePath:    localization.DefaultKeyTablePath,
			DataFolder:      localization.DefaultDataFolder,
			ScanPattern:     provider.DefaultPattern,
			DefaultLanguage: localization.DefaultLanguage,
			Eager:           true,
		},
	}
}

// New builds a Config from the defaults and the given overrides.
func New(opts ...Option) (Config, error) {
	cfg := Default()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that no required field was blanked out. Driver-specific
// provider settings are validated when the provider opens, and localization
// fields only matter while the overlay is enabled.
func (c Config) Validate() error {
	if c.ContextName == "" {
		return fmt.Errorf("%w: empty context name", ErrInvalidConfig)
	}
	if !c.Localization.Enabled {
		return nil
	}
	if c.Localization.KeyTablePath == "" {
		return fmt.Errorf("%w: empty localization key table path", ErrInvalidConfig)
	}
	if c.Localization.DataFolder == "" {
		return fmt.Errorf("%w: empty localization data folder", ErrInvalidConfig)
	}
	if c.Localization.ScanPattern == "" {
		return fmt.Errorf("%w: empty localization scan pattern", ErrInvalidConfig)
	}
	if c.Localization.DefaultLanguage == "" {
		return fmt.Errorf("%w: empty default language", ErrInvalidConfig)
	}
	return nil
}

// SourceOptions translates the localization section into Source options.
func (l Localization) SourceOptions() []localization.Option {
	opts := []localization.Option{
		localization.WithKeyTablePath(l.KeyTablePath),
		localization.WithDataFolder(l.DataFolder),
		localization.WithScanPattern(l.ScanPattern),
		localization.WithDefaultLanguage(l.DefaultLanguage),
	}
	if !l.Eager {
		opts = append(opts, localization.WithLazyLanguages())
	}
	return opts
}
