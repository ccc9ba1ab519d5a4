package strhash

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	strherrors "github.com/tamirms/strhash/errors"
	"github.com/tamirms/strhash/fixedkey"
	"github.com/tamirms/strhash/internal/hashfn"
)

// Hash is the stored hash code type of an index. It fixes the capacity
// regime: uint16 tables hold fewer than 32768 keys, uint32 tables fewer
// than 2^31.
type Hash interface {
	~uint16 | ~uint32
}

// MaxTableSize returns the largest table size for hash type H. An index
// holds at most MaxTableSize()-1 keys.
func MaxTableSize[H Hash]() uint32 {
	return uint32((uint64(^H(0)) + 1) / 2)
}

// Freeze tunes and builds an index over the builder's current contents with
// hash type H. The builder is left unchanged.
//
// Freeze fails with ErrTableTooLarge when the key count is at least
// MaxTableSize[H](); switching to uint32 raises the limit. ctx carries the
// logger and is checked between search tiers.
func Freeze[H Hash, A fixedkey.Array, V any](ctx context.Context, b *Builder[A, V]) (*Index[H, A, V], error) {
	entries := b.sorted()
	maxTable := MaxTableSize[H]()
	if uint64(len(entries)) >= uint64(maxTable) {
		return nil, fmt.Errorf("%w: %d keys, at most %d fit %d-bit hashes",
			strherrors.ErrTableTooLarge, len(entries), maxTable-1, hashBytes[H]()*8)
	}

	keys := make([][]byte, len(entries))
	for i := range entries {
		keys[i] = entries[i].key.View()
	}
	t, err := search(ctx, keys, fixedkey.Width[A](), b.cfg.hashFunc, b.cfg.workers, maxTable)
	if err != nil {
		return nil, fmt.Errorf("tune table: %w", err)
	}
	return buildIndex[H](t, entries, b.notFound), nil
}

// buildIndex lays out the table for a finished search. Entries are placed
// in ascending hash order, each by linear probing from its home slot, so
// along any probe run the stored hashes never decrease before the entry a
// lookup is looking for.
func buildIndex[H Hash, A fixedkey.Array, V any](t tuning, entries []entry[A, V], notFound V) *Index[H, A, V] {
	idx := newIndex[H, A, V](t, len(entries), notFound)

	hashed := make([]slot[H, A, V], len(entries))
	for i := range entries {
		hashed[i] = slot[H, A, V]{
			key:   entries[i].key,
			hash:  H(idx.slotter.Slot(entries[i].key.View())),
			value: entries[i].value,
		}
	}
	slices.SortStableFunc(hashed, func(a, b slot[H, A, V]) int {
		return cmp.Compare(a.hash, b.hash)
	})

	empty := idx.empty()
	for _, s := range hashed {
		for pos := uint32(s.hash); ; pos = (pos + 1) & idx.mask {
			if idx.slots[pos].hash == empty {
				idx.slots[pos] = s
				break
			}
		}
	}
	return idx
}

// newIndex allocates an index with every slot empty.
func newIndex[H Hash, A fixedkey.Array, V any](t tuning, n int, notFound V) *Index[H, A, V] {
	idx := &Index[H, A, V]{
		slots:    make([]slot[H, A, V], t.size),
		mask:     t.size - 1,
		slotter:  hashfn.NewSlotter(t.fn.id(), t.pos, t.salt, t.size-1),
		tuning:   t,
		n:        n,
		notFound: notFound,
	}
	empty := idx.empty()
	for i := range idx.slots {
		idx.slots[i].hash = empty
	}
	return idx
}

func hashBytes[H Hash]() int {
	if uint64(^H(0)) == 0xFFFF {
		return 2
	}
	return 4
}
