package serializer

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Factory resolves serializers by format identifier or by file extension.
// It is immutable after creation, making it safe for concurrent use.
type Factory struct {
	byFormat map[Format]Serializer
	byExt    map[string]Serializer
}

// NewFactory creates a factory over the given serializers. Later serializers
// override earlier ones when they claim the same format or extension.
func NewFactory(serializers ...Serializer) *Factory {
	f := &Factory{
		byFormat: make(map[Format]Serializer, len(serializers)),
		byExt:    make(map[string]Serializer, len(serializers)),
	}
	for _, s := range serializers {
		f.byFormat[s.Format()] = s
		for _, ext := range s.Extensions() {
			f.byExt[normalizeExt(ext)] = s
		}
	}
	return f
}

// NewDefaultFactory creates a factory with the built-in JSON, CSV, and YAML
// serializers.
func NewDefaultFactory() *Factory {
	return NewFactory(NewJSON(), NewCSV(), NewYAML())
}

// ForFormat returns the serializer registered for the format. It returns an
// error wrapping ErrUnsupportedFormat when the format is unknown.
func (f *Factory) ForFormat(format Format) (Serializer, error) {
	s, ok := f.byFormat[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return s, nil
}

// ForPath returns the serializer registered for the path's file extension.
// The extension is matched case-insensitively. It returns an error wrapping
// ErrUnsupportedFormat when no serializer claims the extension.
func (f *Factory) ForPath(path string) (Serializer, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return nil, fmt.Errorf("%w: %q has no extension", ErrUnsupportedFormat, path)
	}
	s, ok := f.byExt[normalizeExt(ext)]
	if !ok {
		return nil, fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, ext)
	}
	return s, nil
}

// Formats returns the registered format identifiers in sorted order.
func (f *Factory) Formats() []Format {
	formats := make([]Format, 0, len(f.byFormat))
	for format := range f.byFormat {
		formats = append(formats, format)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
