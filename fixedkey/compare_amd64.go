//go:build amd64

package fixedkey

import "golang.org/x/sys/cpu"

// useWide routes keys of 16 bytes or more through the vector masks below.
// SSE2 is part of the amd64 baseline; the path is taken once AVX2 is
// available for the 32-byte compare.
var (
	useWide     = cpu.X86.HasAVX2
	hasAVX2     = cpu.X86.HasAVX2
	hasAVX512BW = cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW
)

// neMask16 returns a mask with bit j set iff a[j] != b[j], j < 16.
// Both slices must hold at least 16 bytes.
//
//go:noescape
func neMask16(a, b []byte) uint16

// neMask32AVX2 is neMask16 over 32 bytes.
//
//go:noescape
func neMask32AVX2(a, b []byte) uint32

// neMask64AVX512 is neMask16 over 64 bytes.
//
//go:noescape
func neMask64AVX512(a, b []byte) uint64

func neMask32(a, b []byte) uint32 {
	_, _ = a[31], b[31]
	if hasAVX2 {
		return neMask32AVX2(a, b)
	}
	return uint32(neMask16(a, b)) | uint32(neMask16(a[16:], b[16:]))<<16
}

func neMask64(a, b []byte) uint64 {
	_, _ = a[63], b[63]
	if hasAVX512BW {
		return neMask64AVX512(a, b)
	}
	return uint64(neMask32(a, b)) | uint64(neMask32(a[32:], b[32:]))<<32
}
