package strhash

import (
	"encoding/binary"

	strherrors "github.com/tamirms/strhash/errors"
)

const (
	// magic number for strhash index files
	// "STRH" in little-endian
	magic = uint32(0x53545248)

	// version is the current format version
	version = uint16(0x0001)

	// headerSize is the exact size of the serialized header (64 bytes)
	headerSize = 64

	// footerSize is the exact size of the serialized footer (32 bytes)
	footerSize = 32

	// positionSize is the encoded size of one hashed byte offset
	positionSize = 2
)

// header is the 64-byte file header.
//
// Layout:
//
//	Offset  Size  Field      Type
//	0       4     Magic      0x53545248 ("STRH")
//	4       2     Version    0x0001
//	6       1     HashBytes  uint8 (2 or 4)
//	7       1     HashFunc   uint8
//	8       2     KeyWidth   uint16_le
//	10      2     ValueSize  uint16_le
//	12      4     KeyCount   uint32_le
//	16      4     TableSize  uint32_le (power of two)
//	20      4     Salt       uint32_le
//	24      2     PosLen     uint16_le
//	26      8     Cost       uint64_le
//	34      30    Reserved   [30]byte (zero)
//
// The header is followed by PosLen uint16 offsets, the not-found value, the
// slots and the footer.
type header struct {
	Magic     uint32
	Version   uint16
	HashBytes uint8
	HashFunc  HashFunc
	KeyWidth  uint16
	ValueSize uint16
	KeyCount  uint32
	TableSize uint32
	Salt      uint32
	PosLen    uint16
	Cost      uint64
	Reserved  [30]byte
}

// encodeTo serializes the header to an existing buffer.
func (h *header) encodeTo(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	binary.LittleEndian.PutUint16(buf[4:6], h.Version)
	buf[6] = h.HashBytes
	buf[7] = uint8(h.HashFunc)
	binary.LittleEndian.PutUint16(buf[8:10], h.KeyWidth)
	binary.LittleEndian.PutUint16(buf[10:12], h.ValueSize)
	binary.LittleEndian.PutUint32(buf[12:16], h.KeyCount)
	binary.LittleEndian.PutUint32(buf[16:20], h.TableSize)
	binary.LittleEndian.PutUint32(buf[20:24], h.Salt)
	binary.LittleEndian.PutUint16(buf[24:26], h.PosLen)
	binary.LittleEndian.PutUint64(buf[26:34], h.Cost)
	copy(buf[34:64], h.Reserved[:])
}

// decodeHeader parses a 64-byte header.
func decodeHeader(buf []byte) (*header, error) {
	if len(buf) < headerSize {
		return nil, strherrors.ErrTruncatedFile
	}

	h := &header{
		Magic:     binary.LittleEndian.Uint32(buf[0:4]),
		Version:   binary.LittleEndian.Uint16(buf[4:6]),
		HashBytes: buf[6],
		HashFunc:  HashFunc(buf[7]),
		KeyWidth:  binary.LittleEndian.Uint16(buf[8:10]),
		ValueSize: binary.LittleEndian.Uint16(buf[10:12]),
		KeyCount:  binary.LittleEndian.Uint32(buf[12:16]),
		TableSize: binary.LittleEndian.Uint32(buf[16:20]),
		Salt:      binary.LittleEndian.Uint32(buf[20:24]),
		PosLen:    binary.LittleEndian.Uint16(buf[24:26]),
		Cost:      binary.LittleEndian.Uint64(buf[26:34]),
	}
	copy(h.Reserved[:], buf[34:64])

	if h.Magic != magic {
		return nil, strherrors.ErrInvalidMagic
	}
	if h.Version != version {
		return nil, strherrors.ErrInvalidVersion
	}
	return h, nil
}

// slotSize returns the encoded size of one slot: key, hash, value.
func (h *header) slotSize() uint64 {
	return uint64(h.KeyWidth) + uint64(h.HashBytes) + uint64(h.ValueSize)
}

// fileSize returns the total encoded size implied by the header.
func (h *header) fileSize() uint64 {
	return headerSize +
		uint64(h.PosLen)*positionSize +
		uint64(h.ValueSize) +
		uint64(h.TableSize)*h.slotSize() +
		footerSize
}

// footer is the 32-byte file footer.
//
// Layout:
//
//	Offset  Size  Field       Type
//	0       8     HeaderHash  uint64_le (xxHash64 of the header)
//	8       8     BodyHash    uint64_le (xxHash64 of positions, not-found value and slots)
//	16      16    Reserved    [16]byte (zero)
type footer struct {
	HeaderHash uint64
	BodyHash   uint64
	Reserved   [16]byte
}

// encodeTo serializes the footer into an existing buffer.
func (f *footer) encodeTo(buf []byte) {
	binary.LittleEndian.PutUint64(buf[0:8], f.HeaderHash)
	binary.LittleEndian.PutUint64(buf[8:16], f.BodyHash)
	copy(buf[16:32], f.Reserved[:])
}

// decodeFooter parses a 32-byte footer.
func decodeFooter(buf []byte) (*footer, error) {
	if len(buf) < footerSize {
		return nil, strherrors.ErrTruncatedFile
	}

	f := &footer{
		HeaderHash: binary.LittleEndian.Uint64(buf[0:8]),
		BodyHash:   binary.LittleEndian.Uint64(buf[8:16]),
	}
	copy(f.Reserved[:], buf[16:32])

	return f, nil
}
