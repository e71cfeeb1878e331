package provider

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
)

// IOFS adapts any fs.FS into a read-only provider. It is the natural fit for
// data shipped inside the binary with embed.FS.
type IOFS struct {
	fsys fs.FS
	name string
}

// NewIOFS creates a read-only provider over fsys. The name appears in
// resolved paths and defaults to "iofs".
func NewIOFS(fsys fs.FS, name string) (*IOFS, error) {
	if fsys == nil {
		return nil, fmt.Errorf("%w: nil filesystem", ErrInvalidConfig)
	}
	if name == "" {
		name = "iofs"
	}
	return &IOFS{fsys: fsys, name: name}, nil
}

// Driver returns DriverIOFS.
func (i *IOFS) Driver() Driver { return DriverIOFS }

// LoadText reads the file at path.
func (i *IOFS) LoadText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rel, err := cleanPath(path)
	if err != nil {
		return "", err
	}

	data, err := fs.ReadFile(i.fsys, rel)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", ErrIOFailure, path, err)
	}
	return string(data), nil
}

// SaveText always fails: fs.FS offers no write access.
func (i *IOFS) SaveText(ctx context.Context, path string, content string) error {
	return fmt.Errorf("%w: cannot save %s", ErrReadOnly, path)
}

// Exists reports whether path names a regular file.
func (i *IOFS) Exists(ctx context.Context, path string) bool {
	if ctx.Err() != nil {
		return false
	}
	rel, err := cleanPath(path)
	if err != nil {
		return false
	}
	info, err := fs.Stat(i.fsys, rel)
	return err == nil && info.Mode().IsRegular()
}

// ResolvePath returns the path prefixed with the provider name.
func (i *IOFS) ResolvePath(path string) string {
	return i.name + ":" + path
}

// LoadMultiple reads the direct children of folder whose names match pattern.
func (i *IOFS) LoadMultiple(ctx context.Context, folder string, pattern string) (map[string]string, error) {
	rel, err := cleanFolder(folder)
	if err != nil {
		return nil, err
	}
	pattern, err = cleanPattern(pattern)
	if err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(i.fsys, rel)
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
		full := entry.Name()
		if rel != "." {
			full = rel + "/" + entry.Name()
		}
		data, err := fs.ReadFile(i.fsys, full)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrIOFailure, full, err)
		}
		result[entry.Name()] = string(data)
	}
	return result, nil
}

// Close is a no-op for the fs.FS provider.
func (i *IOFS) Close() error { return nil }

var _ Provider = (*IOFS)(nil)
