package strhash

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"

	strherrors "github.com/tamirms/strhash/errors"
	"github.com/tamirms/strhash/fixedkey"
	"github.com/tamirms/strhash/internal/bits"
	"github.com/tamirms/strhash/internal/encoding"
)

// minFileSize is the size of an index with no positions, no value bytes
// and no slots: header and footer only.
const minFileSize = headerSize + footerSize

// Open loads an index file written by Save. The file is memory-mapped only
// while it is verified and decoded; the returned Index lives in memory and
// holds no file resources.
//
// H, A and V must match the types the index was saved with, otherwise
// ErrLayoutMismatch is returned.
func Open[H Hash, A fixedkey.Array, V any](path string, codec ValueCodec[V]) (idx *Index[H, A, V], err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index file: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat index file: %w", err)
	}
	if stat.Size() < minFileSize {
		return nil, strherrors.ErrTruncatedFile
	}

	// Decoding reads the file front to back exactly once.
	fadviseSequential(int(file.Fd()), 0, stat.Size())

	mm, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap index file: %w", err)
	}
	defer func() {
		if unmapErr := mm.Unmap(); unmapErr != nil {
			idx = nil
			err = errors.Join(err, fmt.Errorf("mmap unmap failed: %w", unmapErr))
		}
	}()

	return OpenBytes[H, A](mm, codec)
}

// OpenBytes decodes an index from a file image produced by Save or
// AppendBinary. data is not retained.
func OpenBytes[H Hash, A fixedkey.Array, V any](data []byte, codec ValueCodec[V]) (*Index[H, A, V], error) {
	if len(data) < minFileSize {
		return nil, strherrors.ErrTruncatedFile
	}

	hdr, err := decodeHeader(data[:headerSize])
	if err != nil {
		return nil, err
	}
	if err := checkLayout[H, A](hdr, codec); err != nil {
		return nil, err
	}
	if err := checkHeader[H](hdr); err != nil {
		return nil, err
	}

	size := hdr.fileSize()
	if uint64(len(data)) < size {
		return nil, strherrors.ErrTruncatedFile
	}
	if uint64(len(data)) > size {
		return nil, fmt.Errorf("%w: %d trailing bytes", strherrors.ErrCorruptedIndex, uint64(len(data))-size)
	}

	footerOffset := size - footerSize
	ft, err := decodeFooter(data[footerOffset:])
	if err != nil {
		return nil, err
	}
	if xxhash.Sum64(data[:headerSize]) != ft.HeaderHash ||
		xxhash.Sum64(data[headerSize:footerOffset]) != ft.BodyHash {
		return nil, strherrors.ErrChecksumFailed
	}

	return decodeBody[H, A](hdr, data[headerSize:footerOffset], codec)
}

// checkLayout verifies the header describes H, A and V.
func checkLayout[H Hash, A fixedkey.Array, V any](hdr *header, codec ValueCodec[V]) error {
	switch {
	case int(hdr.HashBytes) != hashBytes[H]():
		return fmt.Errorf("%w: file has %d-byte hashes, want %d",
			strherrors.ErrLayoutMismatch, hdr.HashBytes, hashBytes[H]())
	case int(hdr.KeyWidth) != fixedkey.Width[A]():
		return fmt.Errorf("%w: file has %d-byte keys, want %d",
			strherrors.ErrLayoutMismatch, hdr.KeyWidth, fixedkey.Width[A]())
	case int(hdr.ValueSize) != codec.Size():
		return fmt.Errorf("%w: file has %d-byte values, want %d",
			strherrors.ErrLayoutMismatch, hdr.ValueSize, codec.Size())
	}
	return nil
}

// checkHeader verifies the header fields are mutually consistent.
func checkHeader[H Hash](hdr *header) error {
	switch {
	case !hdr.HashFunc.valid():
		return fmt.Errorf("%w: %w %d", strherrors.ErrCorruptedIndex, strherrors.ErrUnknownHashFunc, hdr.HashFunc)
	case !bits.IsPow2(uint64(hdr.TableSize)) || hdr.TableSize > MaxTableSize[H]():
		return fmt.Errorf("%w: table size %d", strherrors.ErrCorruptedIndex, hdr.TableSize)
	case hdr.KeyCount >= hdr.TableSize:
		return fmt.Errorf("%w: %d keys in %d slots", strherrors.ErrCorruptedIndex, hdr.KeyCount, hdr.TableSize)
	case int(hdr.PosLen) > int(hdr.KeyWidth):
		return fmt.Errorf("%w: %d positions for %d-byte keys", strherrors.ErrCorruptedIndex, hdr.PosLen, hdr.KeyWidth)
	}
	return nil
}

// decodeBody rebuilds the in-memory table from the checksummed body and
// checks every occupied slot still hashes to its stored home slot.
func decodeBody[H Hash, A fixedkey.Array, V any](hdr *header, body []byte, codec ValueCodec[V]) (*Index[H, A, V], error) {
	var pos []uint16
	if hdr.PosLen > 0 {
		pos = make([]uint16, hdr.PosLen)
	}
	off := 0
	for i := range pos {
		pos[i] = binary.LittleEndian.Uint16(body[off:])
		if int(pos[i]) >= int(hdr.KeyWidth) {
			return nil, fmt.Errorf("%w: position %d out of range", strherrors.ErrCorruptedIndex, pos[i])
		}
		off += positionSize
	}

	valueSize := int(hdr.ValueSize)
	notFound := codec.Get(body[off : off+valueSize])
	off += valueSize

	t := tuning{
		fn:   hdr.HashFunc,
		pos:  pos,
		salt: hdr.Salt,
		size: hdr.TableSize,
		cost: hdr.Cost,
	}
	idx := newIndex[H, A](t, int(hdr.KeyCount), notFound)
	empty := idx.empty()
	hb := int(hdr.HashBytes)
	width := int(hdr.KeyWidth)

	occupied := 0
	for i := range idx.slots {
		s := &idx.slots[i]
		s.key = fixedkey.New[A](body[off : off+width])
		off += width
		s.hash = H(encoding.Uint(body[off:], hb))
		off += hb
		s.value = codec.Get(body[off : off+valueSize])
		off += valueSize

		if s.hash == empty {
			continue
		}
		if s.hash > empty || H(idx.slotter.Slot(s.key.View())) != s.hash {
			return nil, fmt.Errorf("%w: slot %d", strherrors.ErrCorruptedIndex, i)
		}
		occupied++
	}
	if occupied != idx.n {
		return nil, fmt.Errorf("%w: %d occupied slots, header says %d keys", strherrors.ErrCorruptedIndex, occupied, idx.n)
	}
	return idx, nil
}
