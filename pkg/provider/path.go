package provider

import (
	"fmt"
	"path"
	"strings"
)

// cleanPath validates and normalizes a file path. Paths are relative and
// slash-separated; anything absolute or escaping the root is rejected.
func cleanPath(p string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	if strings.Contains(p, "\\") {
		return "", fmt.Errorf("%w: %q must use forward slashes", ErrInvalidPath, p)
	}
	cleaned := path.Clean(p)
	if path.IsAbs(cleaned) {
		return "", fmt.Errorf("%w: %q is absolute", ErrInvalidPath, p)
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %q escapes the data root", ErrInvalidPath, p)
	}
	if cleaned == "." {
		return "", fmt.Errorf("%w: %q does not name a file", ErrInvalidPath, p)
	}
	return cleaned, nil
}

// cleanFolder validates a folder path. Unlike files, the empty string and
// "." are allowed and mean the provider root.
func cleanFolder(folder string) (string, error) {
	if folder == "" || folder == "." {
		return ".", nil
	}
	return cleanPath(folder)
}

// cleanPattern substitutes the default glob and rejects malformed patterns
// early, before any backend round-trip.
func cleanPattern(pattern string) (string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return "", fmt.Errorf("%w: bad pattern %q", ErrInvalidPath, pattern)
	}
	return pattern, nil
}

// matchName reports whether a child name matches a pattern already vetted by
// cleanPattern.
func matchName(pattern, name string) bool {
	ok, err := path.Match(pattern, name)
	return err == nil && ok
}

// childName returns the name of p relative to folder when p is a direct
// child of folder, and false otherwise.
func childName(folder, p string) (string, bool) {
	if folder == "." {
		if strings.Contains(p, "/") {
			return "", false
		}
		return p, true
	}
	rest, ok := strings.CutPrefix(p, folder+"/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}
