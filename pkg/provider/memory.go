package provider

import (
	"context"
	"fmt"
	"maps"
	"sync"
)

// Memory stores data in process memory. It is primarily useful for tests
// and for tools that assemble data before saving it elsewhere.
type Memory struct {
	mu    sync.RWMutex
	files map[string]string
}

// NewMemory creates an empty in-memory provider.
func NewMemory() *Memory {
	return &Memory{files: make(map[string]string)}
}

// Driver returns DriverMemory.
func (m *Memory) Driver() Driver { return DriverMemory }

// LoadText returns the content stored at path.
func (m *Memory) LoadText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rel, err := cleanPath(path)
	if err != nil {
		return "", err
	}

	m.mu.RLock()
	content, ok := m.files[rel]
	m.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return content, nil
}

// SaveText stores content at path.
func (m *Memory) SaveText(ctx context.Context, path string, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rel, err := cleanPath(path)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.files[rel] = content
	m.mu.Unlock()
	return nil
}

// Exists reports whether path has stored content.
func (m *Memory) Exists(ctx context.Context, path string) bool {
	if ctx.Err() != nil {
		return false
	}
	rel, err := cleanPath(path)
	if err != nil {
		return false
	}

	m.mu.RLock()
	_, ok := m.files[rel]
	m.mu.RUnlock()
	return ok
}

// ResolvePath returns a memory pseudo-location for path.
func (m *Memory) ResolvePath(path string) string {
	return "memory:" + path
}

// LoadMultiple returns the direct children of folder whose names match
// pattern.
func (m *Memory) LoadMultiple(ctx context.Context, folder string, pattern string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rel, err := cleanFolder(folder)
	if err != nil {
		return nil, err
	}
	pattern, err = cleanPattern(pattern)
	if err != nil {
		return nil, err
	}

	result := make(map[string]string)
	m.mu.RLock()
	defer m.mu.RUnlock()
	for p, content := range m.files {
		name, ok := childName(rel, p)
		if !ok || !matchName(pattern, name) {
			continue
		}
		result[name] = content
	}
	return result, nil
}

// Seed stores every entry of files keyed by logical path, replacing any
// existing content at the same paths. It is meant for fixtures.
func (m *Memory) Seed(files map[string]string) error {
	cleaned := make(map[string]string, len(files))
	for p, content := range files {
		rel, err := cleanPath(p)
		if err != nil {
			return err
		}
		cleaned[rel] = content
	}

	m.mu.Lock()
	maps.Copy(m.files, cleaned)
	m.mu.Unlock()
	return nil
}

// Snapshot returns a copy of everything stored, keyed by logical path.
func (m *Memory) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.files)
}

// Close is a no-op for the memory provider.
func (m *Memory) Close() error { return nil }

var _ Provider = (*Memory)(nil)
