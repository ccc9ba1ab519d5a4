package strhash

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"

	"github.com/tamirms/strhash/fixedkey"
	"github.com/tamirms/strhash/internal/encoding"
)

// File layout: [Header 64B][Positions PosLen×2B][NotFound ValueSize B][Slots TableSize×(KeyWidth+HashBytes+ValueSize)][Footer 32B]

// fileHeader returns the file header describing idx encoded with codec.
func (idx *Index[H, A, V]) fileHeader(codec ValueCodec[V]) header {
	return header{
		Magic:     magic,
		Version:   version,
		HashBytes: uint8(hashBytes[H]()),
		HashFunc:  idx.tuning.fn,
		KeyWidth:  uint16(fixedkey.Width[A]()),
		ValueSize: uint16(codec.Size()),
		KeyCount:  uint32(idx.n),
		TableSize: idx.mask + 1,
		Salt:      idx.tuning.salt,
		PosLen:    uint16(len(idx.tuning.pos)),
		Cost:      idx.tuning.cost,
	}
}

// EncodedSize returns the number of bytes Save and AppendBinary produce.
func (idx *Index[H, A, V]) EncodedSize(codec ValueCodec[V]) int {
	hdr := idx.fileHeader(codec)
	return int(hdr.fileSize())
}

// encodeTo writes the complete file image of idx into buf, which must be
// exactly EncodedSize bytes.
func (idx *Index[H, A, V]) encodeTo(buf []byte, codec ValueCodec[V]) {
	hdr := idx.fileHeader(codec)
	hdr.encodeTo(buf[:headerSize])

	off := headerSize
	for _, p := range idx.tuning.pos {
		binary.LittleEndian.PutUint16(buf[off:], p)
		off += positionSize
	}

	valueSize := codec.Size()
	codec.Put(buf[off:off+valueSize], idx.notFound)
	off += valueSize

	hb := int(hdr.HashBytes)
	for i := range idx.slots {
		s := &idx.slots[i]
		off += copy(buf[off:], s.key.View())
		encoding.PutUint(buf[off:], uint64(s.hash), hb)
		off += hb
		codec.Put(buf[off:off+valueSize], s.value)
		off += valueSize
	}

	ftr := footer{
		HeaderHash: xxhash.Sum64(buf[:headerSize]),
		BodyHash:   xxhash.Sum64(buf[headerSize:off]),
	}
	ftr.encodeTo(buf[off:])
}

// AppendBinary appends the file image of idx to dst.
func (idx *Index[H, A, V]) AppendBinary(dst []byte, codec ValueCodec[V]) []byte {
	n := idx.EncodedSize(codec)
	start := len(dst)
	dst = append(dst, make([]byte, n)...)
	idx.encodeTo(dst[start:], codec)
	return dst
}

// Save writes idx to path, replacing any existing file. The file is
// pre-allocated and memory-mapped, and the image is encoded in place.
// On error the partial file is removed.
func (idx *Index[H, A, V]) Save(path string, codec ValueCodec[V]) error {
	size := idx.EncodedSize(codec)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create index file: %w", err)
	}
	fail := func(primaryErr error) error {
		return errors.Join(primaryErr, file.Close(), os.Remove(path))
	}

	// Pre-allocate disk blocks to prevent SIGBUS on disk full
	if err := fallocateFile(file, int64(size)); err != nil {
		return fail(fmt.Errorf("failed to allocate disk space: %w", err))
	}

	mm, err := mmap.MapRegion(file, size, mmap.RDWR, 0, 0)
	if err != nil {
		return fail(fmt.Errorf("failed to mmap file: %w", err))
	}
	prefaultRegion(mm)

	idx.encodeTo(mm, codec)

	// Flush dirty pages to file (ensures writes visible before unmap)
	if err := mm.Flush(); err != nil {
		return fail(errors.Join(fmt.Errorf("mmap flush failed: %w", err), mm.Unmap()))
	}
	if err := mm.Unmap(); err != nil {
		return fail(fmt.Errorf("mmap unmap failed: %w", err))
	}
	return file.Close()
}
