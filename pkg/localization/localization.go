package localization

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"

	"github.com/penspanic/Datra-sub001/pkg/provider"
	"github.com/penspanic/Datra-sub001/pkg/repository"
	"github.com/penspanic/Datra-sub001/pkg/serializer"
)

// Defaults applied by New when no option overrides them.
const (
	DefaultKeyTablePath = "Localizations/LocalizationKeys.csv"
	DefaultDataFolder   = "Localizations"
	DefaultLanguage     = "en"
)

// M is a convenience type for placeholder maps passed to Resolve.
type M map[string]any

// KeyEntry is one row of the key table. The key table defines the set of
// valid localization keys; language tables only contribute text for keys
// that appear here.
type KeyEntry struct {
	Key         string `datra:",key"`
	Description string
}

// Entry is one row of a per-language text table.
type Entry struct {
	Key  string `datra:",key"`
	Text string
}

// Source merges a key table with per-language text tables and resolves keys
// to display text for the active language. Resolution is total: a key always
// resolves to some string, falling back from the active language to the
// default language and finally to the key literal. Missing translations are
// reported through the missing handler instead of failing.
//
// A Source is safe for concurrent use. Switching languages swaps a pointer;
// language tables are loaded at most once and cached for the source's
// lifetime.
type Source struct {
	name        string
	keyPath     string
	folder      string
	pattern     string
	defaultLang string
	lazy        bool
	missing     func(key, lang string)
	log         *slog.Logger

	group singleflight.Group

	mu     sync.RWMutex
	keys   *repository.Repository[string, KeyEntry]
	tables map[string]*repository.Repository[string, Entry]
	paths  map[string]string
	langs  []string
	active string
	prov   provider.Provider
	fact   *serializer.Factory
	loaded bool
}

// Option configures a Source during construction.
type Option func(*Source) error

// New creates a localization source with the given options. The source is
// empty until Load runs; until then every key resolves to its literal.
func New(opts ...Option) (*Source, error) {
	s := &Source{
		name:        "localization",
		keyPath:     DefaultKeyTablePath,
		folder:      DefaultDataFolder,
		pattern:     provider.DefaultPattern,
		defaultLang: DefaultLanguage,
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		tables:      make(map[string]*repository.Repository[string, Entry]),
		paths:       make(map[string]string),
	}
	s.missing = func(key, lang string) {
		s.log.Debug("missing translation", "key", key, "language", lang)
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	keys, err := repository.New[string, KeyEntry](s.keyPath, repository.WithName(s.name+"/keys"))
	if err != nil {
		return nil, err
	}
	s.keys = keys
	s.active = s.defaultLang
	s.langs = []string{s.defaultLang}

	return s, nil
}

// WithName sets the source name used in logs and error messages.
func WithName(name string) Option {
	return func(s *Source) error {
		if name == "" {
			return fmt.Errorf("%w: empty name", ErrInvalidConfig)
		}
		s.name = name
		return nil
	}
}

// WithKeyTablePath sets the logical path of the key table.
func WithKeyTablePath(path string) Option {
	return func(s *Source) error {
		if path == "" {
			return fmt.Errorf("%w: empty key table path", ErrInvalidConfig)
		}
		s.keyPath = path
		return nil
	}
}

// WithDataFolder sets the folder scanned for language tables.
func WithDataFolder(folder string) Option {
	return func(s *Source) error {
		if folder == "" {
			return fmt.Errorf("%w: empty data folder", ErrInvalidConfig)
		}
		s.folder = folder
		return nil
	}
}

// WithScanPattern sets the file pattern used when scanning the data folder.
func WithScanPattern(pattern string) Option {
	return func(s *Source) error {
		if pattern == "" {
			return fmt.Errorf("%w: empty scan pattern", ErrInvalidConfig)
		}
		s.pattern = pattern
		return nil
	}
}

// WithDefaultLanguage sets the fallback language. The code is canonicalized,
// so "EN_us" and "en-US" configure the same language.
func WithDefaultLanguage(lang string) Option {
	return func(s *Source) error {
		tag, err := canonicalTag(lang)
		if err != nil {
			return err
		}
		s.defaultLang = tag
		return nil
	}
}

// WithLazyLanguages defers loading of non-default language tables until a
// language is first activated through SetLanguage. The default language is
// always loaded during Load so the fallback chain stays available.
func WithLazyLanguages() Option {
	return func(s *Source) error {
		s.lazy = true
		return nil
	}
}

// WithMissingHandler sets the handler called when a key cannot be resolved
// past the key literal. The default handler logs at debug level; passing nil
// disables reporting.
func WithMissingHandler(handler func(key, lang string)) Option {
	return func(s *Source) error {
		s.missing = handler
		return nil
	}
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(s *Source) error {
		if log != nil {
			s.log = log
		}
		return nil
	}
}

// Name returns the source name.
func (s *Source) Name() string { return s.name }

// Path returns the key table path.
func (s *Source) Path() string { return s.keyPath }

// DefaultLanguage returns the canonical fallback language.
func (s *Source) DefaultLanguage() string { return s.defaultLang }

// Loaded reports whether Load has completed successfully.
func (s *Source) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// ActiveLanguage returns the canonical language Resolve currently targets.
func (s *Source) ActiveLanguage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Languages returns the known languages: the default language first, then
// every discovered language in sorted order.
func (s *Source) Languages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.langs)
}

// HasKey reports whether key is present in the key table.
func (s *Source) HasKey(key string) bool {
	s.mu.RLock()
	keys := s.keys
	s.mu.RUnlock()
	return keys.Has(key)
}

// Count returns the number of keys in the key table.
func (s *Source) Count() int {
	s.mu.RLock()
	keys := s.keys
	s.mu.RUnlock()
	return keys.Len()
}

// canonicalTag normalizes a language code ("EN_us" -> "en-US"). Codes that
// do not parse as BCP 47 tags are rejected.
func canonicalTag(code string) (string, error) {
	if code == "" {
		return "", fmt.Errorf("%w: empty code", ErrInvalidLanguage)
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, code)
	}
	return tag.String(), nil
}
