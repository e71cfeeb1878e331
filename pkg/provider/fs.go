package provider

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FS stores data as files under a root directory. Writes go through a
// temporary file and rename so concurrent readers never observe a partially
// written file.
type FS struct {
	root string
}

// NewFS creates a filesystem provider rooted at dir. The directory does not
// have to exist yet; it is created on the first save.
func NewFS(dir string) (*FS, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty root directory", ErrInvalidConfig)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve root %q: %v", ErrInvalidConfig, dir, err)
	}
	return &FS{root: abs}, nil
}

// Driver returns DriverFS.
func (f *FS) Driver() Driver { return DriverFS }

// LoadText reads the file at path.
func (f *FS) LoadText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rel, err := cleanPath(path)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(f.abs(rel))
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", ErrIOFailure, path, err)
	}
	return string(data), nil
}

// SaveText writes content at path, creating parent directories as needed.
func (f *FS) SaveText(ctx context.Context, path string, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rel, err := cleanPath(path)
	if err != nil {
		return err
	}

	target := f.abs(rel)
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrIOFailure, filepath.Dir(path), err)
	}

	tmp, err := os.CreateTemp(dir, ".datra-*")
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrIOFailure, path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", ErrIOFailure, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", ErrIOFailure, path, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", ErrIOFailure, path, err)
	}
	return nil
}

// Exists reports whether path names a regular file.
func (f *FS) Exists(ctx context.Context, path string) bool {
	if ctx.Err() != nil {
		return false
	}
	rel, err := cleanPath(path)
	if err != nil {
		return false
	}
	info, err := os.Stat(f.abs(rel))
	return err == nil && info.Mode().IsRegular()
}

// ResolvePath returns the absolute filesystem location for path.
func (f *FS) ResolvePath(path string) string {
	return filepath.Join(f.root, filepath.FromSlash(path))
}

// LoadMultiple reads the direct children of folder whose names match pattern.
func (f *FS) LoadMultiple(ctx context.Context, folder string, pattern string) (map[string]string, error) {
	rel, err := cleanFolder(folder)
	if err != nil {
		return nil, err
	}
	pattern, err = cleanPattern(pattern)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(f.abs(rel))
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read folder %s: %v", ErrIOFailure, folder, err)
	}

	result := make(map[string]string)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !matchName(pattern, entry.Name()) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(f.abs(rel), entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrIOFailure, entry.Name(), err)
		}
		result[entry.Name()] = string(data)
	}
	return result, nil
}

// Close is a no-op for the filesystem provider.
func (f *FS) Close() error { return nil }

func (f *FS) abs(rel string) string {
	return filepath.Join(f.root, filepath.FromSlash(rel))
}

var _ Provider = (*FS)(nil)
