// Package hashfn implements the hash function variants used by the table
// tuning search.
//
// Every variant maps a key to an unreduced 32-bit value from three inputs:
// the key bytes, the ordered list of byte positions that participate, and a
// salt. Some variants ignore the positions (they always hash the whole key)
// and some ignore the salt; the search skips the corresponding dimension for
// those (see UsesPositions and UsesSalt).
package hashfn

import (
	"encoding/binary"

	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"

	"github.com/tamirms/strhash/internal/encoding"
)

// ID identifies a hash function variant.
type ID uint8

const (
	DJB1 ID = iota
	DJB2
	SAX
	FNV
	OAT
	Murmur2
	Integer
	XXH3
	Murmur3

	numIDs
)

// Func computes the unreduced hash of key. pos lists the participating byte
// offsets in priority order; variants that hash the whole key ignore it.
type Func func(key []byte, pos []uint16, salt uint32) uint32

// Valid reports whether id names a known variant.
func (id ID) Valid() bool {
	return id < numIDs
}

// UsesSalt reports whether the salt perturbs the variant's output.
func (id ID) UsesSalt() bool {
	return id != FNV && id != Integer
}

// UsesPositions reports whether the variant reads only the selected byte
// positions. Variants returning false always consume the full key.
func (id ID) UsesPositions() bool {
	switch id {
	case DJB1, DJB2, SAX, FNV, OAT:
		return true
	}
	return false
}

// Folds reports whether the raw hash is folded (h ^ h>>16) before masking.
// Integer keys use their low bytes directly.
func (id ID) Folds() bool {
	return id != Integer
}

// Func returns the raw hash function for id, or nil if id is invalid.
func (id ID) Func() Func {
	switch id {
	case DJB1:
		return djb1
	case DJB2:
		return djb2
	case SAX:
		return sax
	case FNV:
		return fnv
	case OAT:
		return oat
	case Murmur2:
		return murmur2
	case Integer:
		return integer
	case XXH3:
		return xxh3Seeded
	case Murmur3:
		return murmur3Seeded
	}
	return nil
}

// Reduce maps a raw hash to a slot in a power-of-two table.
func Reduce(id ID, h, mask uint32) uint32 {
	if id != Integer {
		h ^= h >> 16
	}
	return h & mask
}

// Slotter maps keys to table slots for one tuned configuration. It holds
// no references beyond the position list, so Slot does not allocate and the
// key slice does not escape.
type Slotter struct {
	id   ID
	pos  []uint16
	salt uint32
	mask uint32
}

// NewSlotter binds the variant to a salt, position list and mask.
func NewSlotter(id ID, pos []uint16, salt, mask uint32) Slotter {
	return Slotter{id: id, pos: pos, salt: salt, mask: mask}
}

// Slot returns the home slot of key.
func (s *Slotter) Slot(key []byte) uint32 {
	var h uint32
	switch s.id {
	case DJB1:
		h = djb1(key, s.pos, s.salt)
	case DJB2:
		h = djb2(key, s.pos, s.salt)
	case SAX:
		h = sax(key, s.pos, s.salt)
	case FNV:
		h = fnv(key, s.pos, s.salt)
	case OAT:
		h = oat(key, s.pos, s.salt)
	case Murmur2:
		h = murmur2(key, nil, s.salt)
	case Integer:
		return integer(key, nil, 0) & s.mask
	case XXH3:
		h = xxh3Seeded(key, nil, s.salt)
	case Murmur3:
		h = murmur3Seeded(key, nil, s.salt)
	}
	return (h ^ h>>16) & s.mask
}

func djb1(key []byte, pos []uint16, salt uint32) uint32 {
	h := salt
	for _, p := range pos {
		h = (h << 5) + h + uint32(key[p])
	}
	return h
}

func djb2(key []byte, pos []uint16, salt uint32) uint32 {
	h := salt
	for _, p := range pos {
		h = ((h << 5) + h) ^ uint32(key[p])
	}
	return h
}

func sax(key []byte, pos []uint16, salt uint32) uint32 {
	h := salt
	for _, p := range pos {
		h ^= (h << 5) + (h >> 2) + uint32(key[p])
	}
	return h
}

const (
	fnvOffset32 = 2166136261
	fnvPrime32  = 16777619
)

// fnv ignores the salt.
func fnv(key []byte, pos []uint16, _ uint32) uint32 {
	h := uint32(fnvOffset32)
	for _, p := range pos {
		h = (h * fnvPrime32) ^ uint32(key[p])
	}
	return h
}

func oat(key []byte, pos []uint16, salt uint32) uint32 {
	h := salt
	for _, p := range pos {
		h += uint32(key[p])
		h += h << 10
		h ^= h >> 6
	}
	h += h << 3
	h ^= h >> 11
	h += h << 15
	return h
}

// murmur2 is MurmurHash2 (32-bit) over the whole key, seeded with
// salt ^ len(key). The position list is ignored.
func murmur2(key []byte, _ []uint16, salt uint32) uint32 {
	const (
		m = 0x5bd1e995
		r = 24
	)
	h := salt ^ uint32(len(key))

	data := key
	for len(data) >= 4 {
		k := binary.LittleEndian.Uint32(data)
		k *= m
		k ^= k >> r
		k *= m
		h *= m
		h ^= k
		data = data[4:]
	}

	switch len(data) {
	case 3:
		h ^= uint32(data[2]) << 16
		fallthrough
	case 2:
		h ^= uint32(data[1]) << 8
		fallthrough
	case 1:
		h ^= uint32(data[0])
		h *= m
	}

	h ^= h >> 13
	h *= m
	h ^= h >> 15
	return h
}

// integer returns the leading min(len(key), 4) bytes as a little-endian
// integer, so the least significant bytes of a binary integer key become
// the hash directly.
func integer(key []byte, _ []uint16, _ uint32) uint32 {
	return uint32(encoding.Uint(key, min(len(key), 4)))
}

func xxh3Seeded(key []byte, _ []uint16, salt uint32) uint32 {
	h := xxh3.HashSeed(key, uint64(salt))
	return uint32(h) ^ uint32(h>>32)
}

func murmur3Seeded(key []byte, _ []uint16, salt uint32) uint32 {
	return murmur3.Sum32WithSeed(key, salt)
}
