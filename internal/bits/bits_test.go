package bits

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"testing"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

// nonZeroBytesSlow is the byte-at-a-time reference for NonZeroBytes.
func nonZeroBytesSlow(x uint64) uint8 {
	var m uint8
	for i := 0; i < 8; i++ {
		if byte(x>>(8*i)) != 0 {
			m |= 1 << i
		}
	}
	return m
}

func TestNonZeroBytesRandom(t *testing.T) {
	rng := newTestRNG(t)
	const iterations = 100000

	for i := 0; i < iterations; i++ {
		x := rng.Uint64()
		// Knock out a random subset of bytes so sparse masks are covered.
		keep := rng.Uint64()
		for b := 0; b < 8; b++ {
			if keep&(1<<b) == 0 {
				x &^= 0xff << (8 * b)
			}
		}
		if got, want := NonZeroBytes(x), nonZeroBytesSlow(x); got != want {
			t.Fatalf("iter %d: NonZeroBytes(0x%016X) = %08b, want %08b", i, x, got, want)
		}
	}
}

// TestNonZeroBytesEdgeCases covers high-bit-only bytes, 0x01 bytes and
// alternating patterns, which are where carry handling would go wrong.
func TestNonZeroBytesEdgeCases(t *testing.T) {
	cases := []uint64{
		0,
		0xFFFFFFFFFFFFFFFF,
		0x8080808080808080,
		0x0101010101010101,
		0x0000000000000080,
		0x8000000000000000,
		0x00FF00FF00FF00FF,
		0xFF00FF00FF00FF00,
		0x0100000000000001,
	}
	for _, x := range cases {
		if got, want := NonZeroBytes(x), nonZeroBytesSlow(x); got != want {
			t.Errorf("NonZeroBytes(0x%016X) = %08b, want %08b", x, got, want)
		}
	}
}

func TestFirstByte(t *testing.T) {
	for i := 0; i < 8; i++ {
		for _, b := range []uint64{0x01, 0x80, 0xFF} {
			x := b << (8 * i)
			// Higher bytes must not influence the result.
			x |= 0xFF << 56
			if i == 7 {
				x = b << 56
			}
			if got := FirstByte(x); got != i {
				t.Errorf("FirstByte(0x%016X) = %d, want %d", x, got, i)
			}
		}
	}
}

func TestCeilPow2Above(t *testing.T) {
	cases := []struct {
		n, want uint32
	}{
		{0, 1},
		{1, 2},
		{2, 4},
		{3, 4},
		{4, 8},
		{1000, 1024},
		{1023, 1024},
		{1024, 2048},
		{32767, 32768},
	}
	for _, tc := range cases {
		if got := CeilPow2Above(tc.n); got != tc.want {
			t.Errorf("CeilPow2Above(%d) = %d, want %d", tc.n, got, tc.want)
		}
	}
}

func TestIsPow2(t *testing.T) {
	for i := 0; i < 64; i++ {
		if !IsPow2(1 << i) {
			t.Errorf("IsPow2(1<<%d) = false", i)
		}
	}
	for _, n := range []uint64{0, 3, 5, 6, 7, 12, 1<<20 + 1} {
		if IsPow2(n) {
			t.Errorf("IsPow2(%d) = true", n)
		}
	}
}

func TestParseDigits8(t *testing.T) {
	rng := newTestRNG(t)
	check := func(v uint32) {
		s := fmt.Sprintf("%08d", v)
		got := ParseDigits8(binary.LittleEndian.Uint64([]byte(s)))
		if got != v {
			t.Fatalf("ParseDigits8(%q) = %d, want %d", s, got, v)
		}
	}
	for _, v := range []uint32{0, 1, 9, 10, 1234, 99999999, 10000000, 12345678} {
		check(v)
	}
	for i := 0; i < 10000; i++ {
		check(rng.Uint32N(100000000))
	}
}
