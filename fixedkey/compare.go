package fixedkey

import (
	"encoding/binary"
	"math/bits"

	intbits "github.com/tamirms/strhash/internal/bits"
)

func le64(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }

// equalGeneric compares in units of 8, then 4, then a 1-3 byte tail.
// Precondition: len(b) >= len(a).
func equalGeneric(a, b []byte) bool {
	n := len(a)
	b = b[:n]
	i := 0
	for ; n-i >= 8; i += 8 {
		if le64(a[i:]) != le64(b[i:]) {
			return false
		}
	}
	if n-i >= 4 {
		if binary.LittleEndian.Uint32(a[i:]) != binary.LittleEndian.Uint32(b[i:]) {
			return false
		}
		i += 4
	}
	switch n - i {
	case 1:
		return a[i] == b[i]
	case 2:
		return binary.LittleEndian.Uint16(a[i:]) == binary.LittleEndian.Uint16(b[i:])
	case 3:
		return binary.LittleEndian.Uint16(a[i:]) == binary.LittleEndian.Uint16(b[i:]) && a[i+2] == b[i+2]
	}
	return true
}

// equalWide compares 64, 32 and 16 byte chunks through their not-equal
// masks, then hands the remainder to equalGeneric.
func equalWide(a, b []byte) bool {
	n := len(a)
	b = b[:n]
	i := 0
	for ; n-i >= 64; i += 64 {
		if neMask64(a[i:], b[i:]) != 0 {
			return false
		}
	}
	if n-i >= 32 {
		if neMask32(a[i:], b[i:]) != 0 {
			return false
		}
		i += 32
	}
	if n-i >= 16 {
		if neMask16(a[i:], b[i:]) != 0 {
			return false
		}
		i += 16
	}
	return equalGeneric(a[i:], b[i:])
}

// compareWide locates the first differing byte through per-chunk not-equal
// masks; the lowest set bit is the lowest differing index.
func compareWide(a, b []byte) int {
	n := len(a)
	b = b[:n]
	i := 0
	for ; n-i >= 64; i += 64 {
		if m := neMask64(a[i:], b[i:]); m != 0 {
			j := i + bits.TrailingZeros64(m)
			return int(a[j]) - int(b[j])
		}
	}
	if n-i >= 32 {
		if m := neMask32(a[i:], b[i:]); m != 0 {
			j := i + bits.TrailingZeros32(m)
			return int(a[j]) - int(b[j])
		}
		i += 32
	}
	if n-i >= 16 {
		if m := neMask16(a[i:], b[i:]); m != 0 {
			j := i + bits.TrailingZeros16(m)
			return int(a[j]) - int(b[j])
		}
		i += 16
	}
	return compareGeneric(a[i:], b[i:])
}

// compareGeneric compares 8-byte words, finding the first differing byte of
// a mismatched word from the trailing zero count of the XOR, then compares
// the tail byte by byte.
func compareGeneric(a, b []byte) int {
	n := len(a)
	b = b[:n]
	i := 0
	for ; n-i >= 8; i += 8 {
		if x := le64(a[i:]) ^ le64(b[i:]); x != 0 {
			j := i + intbits.FirstByte(x)
			return int(a[j]) - int(b[j])
		}
	}
	for ; i < n; i++ {
		if d := int(a[i]) - int(b[i]); d != 0 {
			return d
		}
	}
	return 0
}
