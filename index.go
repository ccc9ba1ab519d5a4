package strhash

import (
	"iter"
	"slices"

	"github.com/tamirms/strhash/fixedkey"
	"github.com/tamirms/strhash/internal/hashfn"
)

// Index is an immutable hash table from fixed-width keys to values, tuned
// for its key set at freeze time.
//
// Slots hold entries in ascending hash order along every probe run, so a
// lookup stops at the first slot whose stored hash exceeds the key's; free
// slots store the table size, which exceeds every real hash. The table is
// always larger than the key count, so every probe run ends.
//
// Thread Safety:
//   - Find, Lookup and every other method are safe for concurrent use
//   - There are no mutating methods; an Index is never resized or rehashed
type Index[H Hash, A fixedkey.Array, V any] struct {
	slots    []slot[H, A, V]
	mask     uint32
	slotter  hashfn.Slotter
	tuning   tuning
	n        int
	notFound V
}

// Compact is an index with 16-bit hashes (fewer than 32768 keys).
type Compact[A fixedkey.Array, V any] = Index[uint16, A, V]

// Wide is an index with 32-bit hashes (fewer than 2^31 keys).
type Wide[A fixedkey.Array, V any] = Index[uint32, A, V]

// slot is one table entry. hash is the key's home slot, or the table size
// when the slot is free.
type slot[H Hash, A fixedkey.Array, V any] struct {
	key   fixedkey.Key[A]
	hash  H
	value V
}

// HashConfig describes the tuned slot function of an index.
type HashConfig struct {
	HashFunc  HashFunc
	Salt      uint32
	Positions []uint16 // byte offsets hashed, in order; nil for whole-key variants
	TableSize uint32
}

// Mask returns TableSize-1.
func (c HashConfig) Mask() uint32 {
	return c.TableSize - 1
}

// Stats holds index statistics.
type Stats struct {
	Keys       int
	TableSize  uint32
	KeyWidth   int
	HashBytes  int
	Cost       uint64 // Σ count² over home slots; Keys when collision free
	MaxProbe   int    // longest probe (1 = found in home slot)
	MeanProbe  float64
	LoadFactor float64
	Config     HashConfig
}

func (idx *Index[H, A, V]) empty() H {
	return H(idx.mask + 1)
}

// Lookup returns the value stored for key and whether it is present.
func (idx *Index[H, A, V]) Lookup(key fixedkey.Key[A]) (V, bool) {
	h := H(idx.slotter.Slot(key.View()))
	for pos := uint32(h); ; pos = (pos + 1) & idx.mask {
		s := &idx.slots[pos]
		if s.hash > h {
			return idx.notFound, false
		}
		if s.hash == h && s.key.Equal(key) {
			return s.value, true
		}
	}
}

// Find returns the value stored for key, or the not-found value.
func (idx *Index[H, A, V]) Find(key fixedkey.Key[A]) V {
	v, _ := idx.Lookup(key)
	return v
}

// NotFound returns the value Find reports for absent keys.
func (idx *Index[H, A, V]) NotFound() V {
	return idx.notFound
}

// Len returns the number of keys.
func (idx *Index[H, A, V]) Len() int {
	return idx.n
}

// TableSize returns the number of slots.
func (idx *Index[H, A, V]) TableSize() uint32 {
	return idx.mask + 1
}

// Config returns the tuned hash configuration.
func (idx *Index[H, A, V]) Config() HashConfig {
	return HashConfig{
		HashFunc:  idx.tuning.fn,
		Salt:      idx.tuning.salt,
		Positions: slices.Clone(idx.tuning.pos),
		TableSize: idx.mask + 1,
	}
}

// All iterates the stored pairs in slot order.
func (idx *Index[H, A, V]) All() iter.Seq2[fixedkey.Key[A], V] {
	return func(yield func(fixedkey.Key[A], V) bool) {
		empty := idx.empty()
		for i := range idx.slots {
			s := &idx.slots[i]
			if s.hash == empty {
				continue
			}
			if !yield(s.key, s.value) {
				return
			}
		}
	}
}

// Stats returns statistics for the index.
func (idx *Index[H, A, V]) Stats() *Stats {
	st := &Stats{
		Keys:       idx.n,
		TableSize:  idx.TableSize(),
		KeyWidth:   fixedkey.Width[A](),
		HashBytes:  hashBytes[H](),
		Cost:       idx.tuning.cost,
		LoadFactor: float64(idx.n) / float64(idx.TableSize()),
		Config:     idx.Config(),
	}

	empty := idx.empty()
	total := 0
	for pos := range idx.slots {
		s := &idx.slots[pos]
		if s.hash == empty {
			continue
		}
		probe := int((uint32(pos)-uint32(s.hash))&idx.mask) + 1
		total += probe
		st.MaxProbe = max(st.MaxProbe, probe)
	}
	if idx.n > 0 {
		st.MeanProbe = float64(total) / float64(idx.n)
	}
	return st
}
