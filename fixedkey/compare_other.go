//go:build !amd64

package fixedkey

import intbits "github.com/tamirms/strhash/internal/bits"

// Without vector masks the word loop in compareGeneric is as fast; the
// SWAR masks below keep the chunked path available to tests.
var useWide = false

// neMask16 returns a mask with bit j set iff a[j] != b[j], j < 16.
func neMask16(a, b []byte) uint16 {
	_, _ = a[15], b[15]
	lo := intbits.NonZeroBytes(le64(a) ^ le64(b))
	hi := intbits.NonZeroBytes(le64(a[8:]) ^ le64(b[8:]))
	return uint16(lo) | uint16(hi)<<8
}

func neMask32(a, b []byte) uint32 {
	return uint32(neMask16(a, b)) | uint32(neMask16(a[16:], b[16:]))<<16
}

func neMask64(a, b []byte) uint64 {
	return uint64(neMask32(a, b)) | uint64(neMask32(a[32:], b[32:]))<<32
}
