package strhash

import (
	"unsafe"

	"github.com/tamirms/strhash/internal/encoding"
)

// ValueCodec encodes index values to a fixed number of bytes on disk.
type ValueCodec[V any] interface {
	// Size returns the encoded size of every value.
	Size() int
	// Put writes v to dst[:Size()].
	Put(dst []byte, v V)
	// Get decodes a value from src[:Size()].
	Get(src []byte) V
}

// UintCodec stores unsigned integers little-endian at their native width.
type UintCodec[V ~uint8 | ~uint16 | ~uint32 | ~uint64] struct{}

func (UintCodec[V]) Size() int {
	var v V
	return int(unsafe.Sizeof(v))
}

func (c UintCodec[V]) Put(dst []byte, v V) {
	encoding.PutUint(dst, uint64(v), c.Size())
}

func (c UintCodec[V]) Get(src []byte) V {
	return V(encoding.Uint(src, c.Size()))
}

type (
	Uint8Codec  = UintCodec[uint8]
	Uint16Codec = UintCodec[uint16]
	Uint32Codec = UintCodec[uint32]
	Uint64Codec = UintCodec[uint64]
)
