// Package bits provides low-level bit manipulation primitives.
package bits

import "math/bits"

const (
	lo7  = 0x7f7f7f7f7f7f7f7f
	hi1  = 0x8080808080808080
	lsb1 = 0x0101010101010101

	// gather moves bit 8i of a word to bit 56+i. Each partial product lands
	// on a distinct bit below 56, so no carry reaches the top byte.
	gather = 0x0102040810204080
)

// NonZeroBytes returns an 8-bit mask with bit i set iff byte i of x
// (little-endian order) is non-zero. This is the SWAR equivalent of a
// vector compare followed by a movemask.
func NonZeroBytes(x uint64) uint8 {
	t := (((x & lo7) + lo7) | x) & hi1
	return uint8(((t >> 7) * gather) >> 56)
}

// FirstByte returns the index of the lowest non-zero byte of x.
// Precondition: x != 0.
func FirstByte(x uint64) int {
	return bits.TrailingZeros64(x) >> 3
}

// CeilPow2Above returns the smallest power of two strictly greater than n.
func CeilPow2Above(n uint32) uint32 {
	return uint32(1) << bits.Len32(n)
}

// IsPow2 reports whether n is a non-zero power of two.
func IsPow2(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}

// ParseDigits8 folds eight ASCII digits, loaded little-endian so the most
// significant digit sits in the lowest byte, into their decimal value.
// The result is undefined if any byte is not in '0'..'9'.
func ParseDigits8(v uint64) uint32 {
	v -= 0x30 * lsb1
	v = (v*10 + (v >> 8)) & 0x00ff00ff00ff00ff
	v = (v*100 + (v >> 16)) & 0x0000ffff0000ffff
	v = (v*10000 + (v >> 32)) & 0x00000000ffffffff
	return uint32(v)
}
