package localization

import (
	"context"
	"fmt"

	"github.com/penspanic/Datra-sub001/pkg/repository"
)

// Resolve returns the display text for key in the active language. The
// lookup falls back from the active language to the default language and
// finally to the key literal, so it always returns a usable string. Keys
// absent from the key table resolve to the literal immediately; both that
// case and a full fallback to the literal fire the missing handler.
//
// Empty translation texts are treated as missing and fall through the chain,
// so a key with a non-empty default-language entry never resolves to "".
func (s *Source) Resolve(key string, placeholders ...M) string {
	s.mu.RLock()
	lang := s.active
	s.mu.RUnlock()
	return s.resolveIn(lang, key, placeholders)
}

// ResolveTo resolves key in a specific language without switching the active
// one. Only languages already loaded are consulted; an unknown or invalid
// language falls straight through to the default language.
func (s *Source) ResolveTo(lang, key string, placeholders ...M) string {
	tag, err := canonicalTag(lang)
	if err != nil {
		tag = ""
	}
	return s.resolveIn(tag, key, placeholders)
}

// SetLanguage switches the language Resolve targets. The code is
// canonicalized before matching, so "EN_us" activates a table discovered as
// "en-US.json". Activating a language whose table has not been fetched yet
// loads it first; concurrent activations of the same language share one
// load. Languages not discovered during Load are rejected.
func (s *Source) SetLanguage(ctx context.Context, lang string) error {
	tag, err := canonicalTag(lang)
	if err != nil {
		return err
	}

	s.mu.RLock()
	active := s.active
	loaded := s.loaded
	_, have := s.tables[tag]
	tablePath, discovered := s.paths[tag]
	s.mu.RUnlock()

	if tag == active {
		return nil
	}
	if !loaded {
		return fmt.Errorf("%w: %s", ErrNotLoaded, s.name)
	}
	// The default language may always be activated, table or not; without a
	// table the chain simply ends at the key literal.
	if !have && tag != s.defaultLang {
		if !discovered {
			return fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
		}
		if _, err := s.loadLanguage(ctx, tag, tablePath); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.active = tag
	s.mu.Unlock()
	return nil
}

func (s *Source) resolveIn(lang, key string, placeholders []M) string {
	s.mu.RLock()
	keys := s.keys
	active := s.tables[lang]
	fallback := s.tables[s.defaultLang]
	s.mu.RUnlock()

	if !keys.Has(key) {
		s.reportMissing(key, lang)
		return key
	}

	if text, ok := lookupText(active, key); ok {
		return replaceAll(text, placeholders)
	}
	if lang != s.defaultLang {
		if text, ok := lookupText(fallback, key); ok {
			return replaceAll(text, placeholders)
		}
	}

	s.reportMissing(key, lang)
	return key
}

func (s *Source) reportMissing(key, lang string) {
	if s.missing != nil {
		s.missing(key, lang)
	}
}

// lookupText reads one entry, treating lookup misses and empty texts alike.
func lookupText(table *repository.Repository[string, Entry], key string) (string, bool) {
	if table == nil {
		return "", false
	}
	entry, err := table.Get(key)
	if err != nil || entry.Text == "" {
		return "", false
	}
	return entry.Text, true
}
