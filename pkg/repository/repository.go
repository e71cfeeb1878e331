package repository

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/penspanic/Datra-sub001/pkg/provider"
	"github.com/penspanic/Datra-sub001/pkg/serializer"
)

// Option configures a repository.
type Option func(*options)

type options struct {
	name string
}

// WithName overrides the repository name used in schemas and error messages.
// Defaults to the record type's name.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// Repository is a keyed, insertion-ordered collection of records of type R
// backed by a single data file. The record schema is derived from R at
// construction; Load and Save move the whole collection through a provider
// and serializer in one step.
//
// All methods are safe for concurrent use. Load replaces the collection
// atomically, so readers observe either the previous data set or the new
// one, never a mix.
type Repository[K comparable, R any] struct {
	name  string
	path  string
	codec *codec[K, R]

	mu      sync.RWMutex
	records map[K]R
	order   []K
	loaded  bool
}

// New creates a repository for records of type R stored at path. The schema
// is derived from R's exported fields and validated here, so malformed
// record types fail fast instead of at first load.
func New[K comparable, R any](path string, opts ...Option) (*Repository[K, R], error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty data path", ErrInvalidPath)
	}

	o := &options{name: reflect.TypeFor[R]().Name()}
	for _, opt := range opts {
		opt(o)
	}

	codec, err := newCodec[K, R](o.name)
	if err != nil {
		return nil, err
	}
	return &Repository[K, R]{
		name:  o.name,
		path:  path,
		codec: codec,
	}, nil
}

// Name returns the repository name.
func (r *Repository[K, R]) Name() string { return r.name }

// Path returns the data file path the repository loads from and saves to.
func (r *Repository[K, R]) Path() string { return r.path }

// Schema returns the record schema derived from R.
func (r *Repository[K, R]) Schema() serializer.Schema { return r.codec.schema }

// Loaded reports whether the repository holds a data set.
func (r *Repository[K, R]) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// Len returns the number of records.
func (r *Repository[K, R]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Has reports whether a record with the given key exists.
func (r *Repository[K, R]) Has(key K) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.records[key]
	return ok
}

// Get returns the record with the given key. It returns an error wrapping
// ErrNotLoaded before the first load and ErrNotFound for a missing key.
func (r *Repository[K, R]) Get(key K) (R, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var zero R
	if !r.loaded {
		return zero, fmt.Errorf("%w: %s", ErrNotLoaded, r.name)
	}
	rec, ok := r.records[key]
	if !ok {
		return zero, fmt.Errorf("%w: %s %v", ErrNotFound, r.name, key)
	}
	return rec, nil
}

// Lookup returns the record with the given key and whether it exists.
// Unlike Get it does not distinguish a missing key from an unloaded
// repository.
func (r *Repository[K, R]) Lookup(key K) (R, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[key]
	return rec, ok
}

// MustGet returns the record with the given key and panics when it is
// absent. Use it for init-time lookups of keys known to exist.
func (r *Repository[K, R]) MustGet(key K) R {
	rec, err := r.Get(key)
	if err != nil {
		panic(err)
	}
	return rec
}

// All returns the records in insertion order.
func (r *Repository[K, R]) All() []R {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]R, len(r.order))
	for i, key := range r.order {
		records[i] = r.records[key]
	}
	return records
}

// Keys returns the record keys in insertion order.
func (r *Repository[K, R]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]K, len(r.order))
	copy(keys, r.order)
	return keys
}

// Put inserts or replaces a record. New keys append to the insertion order;
// existing keys keep their position. Put marks the repository loaded, so a
// collection can be assembled in memory and saved without a prior Load.
func (r *Repository[K, R]) Put(rec R) {
	key := r.codec.keyOf(rec)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.records == nil {
		r.records = make(map[K]R)
	}
	if _, ok := r.records[key]; !ok {
		r.order = append(r.order, key)
	}
	r.records[key] = rec
	r.loaded = true
}

// Delete removes the record with the given key and reports whether it
// existed.
func (r *Repository[K, R]) Delete(key K) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[key]; !ok {
		return false
	}
	delete(r.records, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Load reads the repository's data file through the provider, parses it with
// the serializer matching the file extension, and replaces the collection.
// On any failure the previous data set stays intact.
func (r *Repository[K, R]) Load(ctx context.Context, p provider.Provider, f *serializer.Factory) error {
	ser, err := f.ForPath(r.path)
	if err != nil {
		return err
	}
	text, err := p.LoadText(ctx, r.path)
	if err != nil {
		return err
	}
	rows, err := ser.Parse([]byte(text), r.codec.schema)
	if err != nil {
		return err
	}
	records, order, err := r.codec.decode(rows)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.records = records
	r.order = order
	r.loaded = true
	r.mu.Unlock()
	return nil
}

// Save renders the collection in insertion order and writes it through the
// provider. It returns an error wrapping ErrNotLoaded when there is nothing
// to save yet.
func (r *Repository[K, R]) Save(ctx context.Context, p provider.Provider, f *serializer.Factory) error {
	ser, err := f.ForPath(r.path)
	if err != nil {
		return err
	}

	r.mu.RLock()
	if !r.loaded {
		r.mu.RUnlock()
		return fmt.Errorf("%w: %s", ErrNotLoaded, r.name)
	}
	records := make([]R, len(r.order))
	for i, key := range r.order {
		records[i] = r.records[key]
	}
	r.mu.RUnlock()

	rows, err := r.codec.encode(records)
	if err != nil {
		return err
	}
	data, err := ser.Render(rows, r.codec.schema)
	if err != nil {
		return err
	}
	return p.SaveText(ctx, r.path, string(data))
}
