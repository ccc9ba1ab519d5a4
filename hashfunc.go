package strhash

import (
	"fmt"

	strherrors "github.com/tamirms/strhash/errors"
	"github.com/tamirms/strhash/internal/hashfn"
)

// HashFunc identifies the hash function variant a table is tuned and served
// with. It is chosen at build time and stored in the index file header.
type HashFunc uint8

const (
	// DJB1 is the multiply-accumulate hash h = h*33 + c over the selected
	// byte positions, seeded with the salt.
	DJB1 HashFunc = HashFunc(hashfn.DJB1)

	// DJB2 is the multiply-xor variant h = h*33 ^ c.
	DJB2 HashFunc = HashFunc(hashfn.DJB2)

	// SAX is shift-add-xor: h ^= (h<<5) + (h>>2) + c.
	SAX HashFunc = HashFunc(hashfn.SAX)

	// FNV is 32-bit FNV-1 over the selected positions. It ignores the salt.
	FNV HashFunc = HashFunc(hashfn.FNV)

	// OAT is Jenkins' one-at-a-time hash seeded with the salt.
	OAT HashFunc = HashFunc(hashfn.OAT)

	// Murmur2 is 32-bit MurmurHash2 over the whole key.
	Murmur2 HashFunc = HashFunc(hashfn.Murmur2)

	// Integer uses the key's leading bytes as a little-endian integer.
	// Intended for keys that are themselves binary integers; only the
	// table size is searched.
	Integer HashFunc = HashFunc(hashfn.Integer)

	// XXH3 is the 64-bit XXH3 hash of the whole key folded to 32 bits.
	XXH3 HashFunc = HashFunc(hashfn.XXH3)

	// Murmur3 is 32-bit MurmurHash3 over the whole key.
	Murmur3 HashFunc = HashFunc(hashfn.Murmur3)
)

// String returns the variant name.
func (f HashFunc) String() string {
	switch f {
	case DJB1:
		return "djb1"
	case DJB2:
		return "djb2"
	case SAX:
		return "sax"
	case FNV:
		return "fnv"
	case OAT:
		return "oat"
	case Murmur2:
		return "murmur2"
	case Integer:
		return "integer"
	case XXH3:
		return "xxh3"
	case Murmur3:
		return "murmur3"
	default:
		return "unknown"
	}
}

// ParseHashFunc returns the variant named s, as printed by String.
func ParseHashFunc(s string) (HashFunc, error) {
	for _, f := range HashFuncs() {
		if f.String() == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", strherrors.ErrUnknownHashFunc, s)
}

// HashFuncs returns every supported variant in declaration order.
func HashFuncs() []HashFunc {
	return []HashFunc{DJB1, DJB2, SAX, FNV, OAT, Murmur2, Integer, XXH3, Murmur3}
}

func (f HashFunc) id() hashfn.ID {
	return hashfn.ID(f)
}

func (f HashFunc) valid() bool {
	return f.id().Valid()
}
