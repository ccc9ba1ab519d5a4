// Package encoding provides little-endian packing of fixed-size unsigned
// integers, used for slot hash words and values in the table file.
package encoding

import "encoding/binary"

// PutUint writes the low size bytes of v to dst in little-endian order.
// Optimized for the common sizes (1, 2, 4, 8 bytes).
// Precondition: len(dst) >= size, 0 <= size <= 8.
func PutUint(dst []byte, v uint64, size int) {
	switch size {
	case 1:
		dst[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(dst, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(dst, uint32(v))
	case 8:
		binary.LittleEndian.PutUint64(dst, v)
	default:
		for i := range size {
			dst[i] = byte(v >> (i * 8))
		}
	}
}

// Uint reads a little-endian unsigned integer of size bytes from src.
// This is the read counterpart to PutUint.
// Precondition: len(src) >= size, 0 <= size <= 8.
func Uint(src []byte, size int) uint64 {
	switch size {
	case 1:
		return uint64(src[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(src))
	case 4:
		return uint64(binary.LittleEndian.Uint32(src))
	case 8:
		return binary.LittleEndian.Uint64(src)
	default:
		var v uint64
		for i := range size {
			v |= uint64(src[i]) << (i * 8)
		}
		return v
	}
}

// MaxUint returns the largest value representable in size bytes.
func MaxUint(size int) uint64 {
	if size >= 8 {
		return ^uint64(0)
	}
	return uint64(1)<<(size*8) - 1
}
