package localization

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/penspanic/Datra-sub001/pkg/provider"
	"github.com/penspanic/Datra-sub001/pkg/repository"
	"github.com/penspanic/Datra-sub001/pkg/serializer"
)

// Load reads the key table and scans the data folder for language tables.
// File stems name the language ("en.json", "de-DE.json"); stems that do not
// parse as language codes are logged and skipped. Every discovered language
// is loaded now unless lazy loading was configured, in which case only the
// default language is loaded and the rest are fetched on first activation.
//
// Load replaces the source state in one step. On any failure the previous
// state stays intact. The provider and factory are retained for lazy loads.
func (s *Source) Load(ctx context.Context, p provider.Provider, f *serializer.Factory) error {
	keys, err := repository.New[string, KeyEntry](s.keyPath, repository.WithName(s.name+"/keys"))
	if err != nil {
		return err
	}
	if err := keys.Load(ctx, p, f); err != nil {
		return fmt.Errorf("load key table: %w", err)
	}

	files, err := p.LoadMultiple(ctx, s.folder, s.pattern)
	if err != nil {
		return fmt.Errorf("scan %s: %w", s.folder, err)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	paths := make(map[string]string, len(names))
	for _, name := range names {
		stem := strings.TrimSuffix(name, path.Ext(name))
		tag, err := canonicalTag(stem)
		if err != nil {
			s.log.Warn("skipping language file with unrecognized name", "file", name, "folder", s.folder)
			continue
		}
		if _, ok := paths[tag]; ok {
			s.log.Warn("skipping duplicate language file", "file", name, "language", tag)
			continue
		}
		paths[tag] = path.Join(s.folder, name)
	}
	if _, ok := paths[s.defaultLang]; !ok {
		s.log.Warn("default language table not found", "language", s.defaultLang, "folder", s.folder)
	}

	tags := make([]string, 0, len(paths))
	for tag := range paths {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	tables := make(map[string]*repository.Repository[string, Entry], len(tags))
	for _, tag := range tags {
		if s.lazy && tag != s.defaultLang {
			continue
		}
		table, err := s.newLanguageTable(tag, paths[tag])
		if err != nil {
			return err
		}
		if err := table.Load(ctx, p, f); err != nil {
			return fmt.Errorf("load language %s: %w", tag, err)
		}
		tables[tag] = table
	}

	s.mu.Lock()
	s.keys = keys
	s.tables = tables
	s.paths = paths
	s.langs = orderedLanguages(paths, s.defaultLang)
	s.prov = p
	s.fact = f
	s.loaded = true
	s.mu.Unlock()

	s.log.Debug("localization loaded",
		"source", s.name, "keys", keys.Len(), "languages", len(paths), "loaded_tables", len(tables))
	return nil
}

// Save writes the key table and every loaded language table back through the
// provider. In lazy mode languages that were never activated are not written,
// since their tables were never fetched.
func (s *Source) Save(ctx context.Context, p provider.Provider, f *serializer.Factory) error {
	s.mu.RLock()
	if !s.loaded {
		s.mu.RUnlock()
		return fmt.Errorf("%w: %s", ErrNotLoaded, s.name)
	}
	keys := s.keys
	tags := make([]string, 0, len(s.tables))
	for tag := range s.tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	tables := make([]*repository.Repository[string, Entry], len(tags))
	for i, tag := range tags {
		tables[i] = s.tables[tag]
	}
	s.mu.RUnlock()

	if err := keys.Save(ctx, p, f); err != nil {
		return fmt.Errorf("save key table: %w", err)
	}
	for i, table := range tables {
		if err := table.Save(ctx, p, f); err != nil {
			return fmt.Errorf("save language %s: %w", tags[i], err)
		}
	}
	return nil
}

// loadLanguage fetches one language table, deduplicating concurrent loads of
// the same language so the table is built exactly once.
func (s *Source) loadLanguage(ctx context.Context, tag, tablePath string) (*repository.Repository[string, Entry], error) {
	v, err, _ := s.group.Do(tag, func() (any, error) {
		s.mu.RLock()
		table, ok := s.tables[tag]
		prov, fact := s.prov, s.fact
		s.mu.RUnlock()
		if ok {
			return table, nil
		}

		table, err := s.newLanguageTable(tag, tablePath)
		if err != nil {
			return nil, err
		}
		if err := table.Load(ctx, prov, fact); err != nil {
			return nil, fmt.Errorf("load language %s: %w", tag, err)
		}

		s.mu.Lock()
		s.tables[tag] = table
		s.mu.Unlock()
		return table, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*repository.Repository[string, Entry]), nil
}

func (s *Source) newLanguageTable(tag, tablePath string) (*repository.Repository[string, Entry], error) {
	return repository.New[string, Entry](tablePath, repository.WithName(s.name+"/"+tag))
}

// orderedLanguages lists the default language first and the remaining
// discovered languages sorted alphabetically.
func orderedLanguages(paths map[string]string, defaultLang string) []string {
	langs := make([]string, 0, len(paths)+1)
	langs = append(langs, defaultLang)
	others := make([]string, 0, len(paths))
	for tag := range paths {
		if tag != defaultLang {
			others = append(others, tag)
		}
	}
	sort.Strings(others)
	return append(langs, others...)
}
