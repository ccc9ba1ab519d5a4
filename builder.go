package strhash

import (
	"context"
	"fmt"
	"iter"
	"slices"

	strherrors "github.com/tamirms/strhash/errors"
	"github.com/tamirms/strhash/fixedkey"
)

// Builder accumulates (key, value) pairs before they are frozen into an
// Index. It is an ordered associative container keyed by fixed-width keys:
// iteration is in ascending key order regardless of insertion order, and
// duplicates are resolved by the configured DuplicatePolicy.
//
// Usage:
//
//	b, err := strhash.NewBuilder[[12]byte, uint32]()
//	if err != nil { return err }
//	b.SetNotFound(math.MaxUint32)
//	for sym, id := range symbols {
//	    if err := b.Add(fixedkey.FromString[[12]byte](sym), id); err != nil { return err }
//	}
//	idx, err := b.Freeze(ctx)
//
// A Builder is not safe for concurrent use.
type Builder[A fixedkey.Array, V any] struct {
	cfg      *config
	pairs    map[fixedkey.Key[A]]V
	notFound V
}

// entry is one (key, value) pair handed to Freeze in ascending key order.
type entry[A fixedkey.Array, V any] struct {
	key   fixedkey.Key[A]
	value V
}

// NewBuilder creates an empty builder.
func NewBuilder[A fixedkey.Array, V any](opts ...Option) (*Builder[A, V], error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if !cfg.hashFunc.valid() {
		return nil, fmt.Errorf("%w: %d", strherrors.ErrUnknownHashFunc, cfg.hashFunc)
	}
	if cfg.workers < 1 {
		return nil, fmt.Errorf("%w: got %d", strherrors.ErrInvalidWorkers, cfg.workers)
	}
	return &Builder[A, V]{
		cfg:   cfg,
		pairs: make(map[fixedkey.Key[A]]V),
	}, nil
}

// Add inserts key with value v. Under the Reject policy a key that is
// already present returns ErrDuplicateKey and keeps its existing value.
func (b *Builder[A, V]) Add(key fixedkey.Key[A], v V) error {
	if b.cfg.duplicates == Reject {
		if _, ok := b.pairs[key]; ok {
			return fmt.Errorf("%w: %q", strherrors.ErrDuplicateKey, key.String())
		}
	}
	b.pairs[key] = v
	return nil
}

// AddBytes is Add for a raw key buffer, which must be exactly W bytes long.
func (b *Builder[A, V]) AddBytes(key []byte, v V) error {
	if w := fixedkey.Width[A](); len(key) != w {
		return fmt.Errorf("%w: got %d bytes, want %d", strherrors.ErrKeyWidthMismatch, len(key), w)
	}
	return b.Add(fixedkey.New[A](key), v)
}

// Get returns the value stored for key.
func (b *Builder[A, V]) Get(key fixedkey.Key[A]) (V, bool) {
	v, ok := b.pairs[key]
	return v, ok
}

// Delete removes key and reports whether it was present.
func (b *Builder[A, V]) Delete(key fixedkey.Key[A]) bool {
	_, ok := b.pairs[key]
	delete(b.pairs, key)
	return ok
}

// Len returns the number of distinct keys.
func (b *Builder[A, V]) Len() int {
	return len(b.pairs)
}

// SetNotFound sets the value lookups on the frozen index return for absent
// keys. It should not collide with any stored value. Default is the zero
// value of V.
func (b *Builder[A, V]) SetNotFound(v V) {
	b.notFound = v
}

// All iterates the pairs in ascending key order.
func (b *Builder[A, V]) All() iter.Seq2[fixedkey.Key[A], V] {
	return func(yield func(fixedkey.Key[A], V) bool) {
		for _, e := range b.sorted() {
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

func (b *Builder[A, V]) sorted() []entry[A, V] {
	entries := make([]entry[A, V], 0, len(b.pairs))
	for k, v := range b.pairs {
		entries = append(entries, entry[A, V]{key: k, value: v})
	}
	slices.SortFunc(entries, func(x, y entry[A, V]) int {
		return x.key.Compare(y.key)
	})
	return entries
}

// Freeze builds a compact index (16-bit hashes, fewer than 32768 keys).
// Use the package-level Freeze with uint32 for larger key sets.
func (b *Builder[A, V]) Freeze(ctx context.Context) (*Compact[A, V], error) {
	return Freeze[uint16](ctx, b)
}
