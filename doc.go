// Package strhash implements a static hash index over fixed-width keys.
//
// An index is built once from a finite key set and is read-only afterwards.
// Freezing runs a tuning search over the hash function's salt, the key byte
// positions it reads and the table size, picking the configuration with the
// fewest slot collisions. The table is then laid out with linear probing in
// ascending hash order, so a lookup stops at the first slot whose stored
// hash exceeds the key's. There are no tombstones, no resizing and no
// rehashing after construction.
//
// # Basic Usage
//
// Building an index:
//
//	b, err := strhash.NewBuilder[[12]byte, uint32](strhash.WithHashFunc(strhash.DJB1))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	b.SetNotFound(math.MaxUint32)
//	for sym, id := range symbols {
//	    if err := b.Add(fixedkey.FromString[[12]byte](sym), id); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//	idx, err := b.Freeze(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Querying it:
//
//	id := idx.Find(fixedkey.FromString[[12]byte]("AAPL.XNAS.EQ"))
//
// Saving and reopening:
//
//	if err := idx.Save("symbols.idx", strhash.Uint32Codec{}); err != nil {
//	    log.Fatal(err)
//	}
//	idx, err = strhash.Open[uint16, [12]byte]("symbols.idx", strhash.Uint32Codec{})
//
// # Capacity
//
// The stored hash type fixes the capacity. Builder.Freeze produces a
// Compact index (uint16 hashes, fewer than 32768 keys); Freeze[uint32]
// produces a Wide index (fewer than 2^31 keys). Exceeding the capacity
// returns ErrTableTooLarge.
//
// # Package Structure
//
//   - Public API: builder.go (Builder), freeze.go (Freeze), index.go (Index, Find, Lookup)
//   - Configuration: options.go (Option, With* functions), hashfunc.go (HashFunc)
//   - Tuning: search.go, search_parallel.go
//   - Serialization: header.go (header, footer), writer.go (Save), open.go (Open), codec.go
//   - Keys: fixedkey/ (Key, comparison, decimal conversion)
//   - Hash variants: internal/hashfn/
//   - Platform: fallocate_*.go, prefault_*.go, fadvise_*.go
package strhash
