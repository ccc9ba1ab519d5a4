package fixedkey

import (
	"bytes"
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"
	"sort"
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

func sign(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	}
	return 0
}

// checkPair verifies every comparison path on one pair of equal-length
// buffers against the bytes package.
func checkPair(t *testing.T, a, b []byte) {
	t.Helper()
	wantEq := bytes.Equal(a, b)
	wantCmp := bytes.Compare(a, b)
	if got := equalGeneric(a, b); got != wantEq {
		t.Fatalf("equalGeneric(%x, %x) = %v, want %v", a, b, got, wantEq)
	}
	if got := sign(compareGeneric(a, b)); got != wantCmp {
		t.Fatalf("compareGeneric(%x, %x) sign = %d, want %d", a, b, got, wantCmp)
	}
	if len(a) < 16 {
		return
	}
	if got := equalWide(a, b); got != wantEq {
		t.Fatalf("equalWide(%x, %x) = %v, want %v", a, b, got, wantEq)
	}
	if got, gen := compareWide(a, b), compareGeneric(a, b); got != gen {
		t.Fatalf("compareWide = %d, compareGeneric = %d for %x vs %x", got, gen, a, b)
	}
}

// TestComparePathsAgree flips each byte position in turn, in both
// directions, for every width the wide path splits differently.
func TestComparePathsAgree(t *testing.T) {
	rng := newTestRNG(t)
	widths := []int{1, 2, 3, 4, 5, 7, 8, 9, 12, 15, 16, 17, 24, 31, 32, 33, 48, 63, 64, 65, 96, 100, 128, 200}
	for _, w := range widths {
		a := make([]byte, w)
		for i := range a {
			a[i] = byte(rng.Uint32())
		}
		checkPair(t, a, bytes.Clone(a))
		for pos := 0; pos < w; pos++ {
			b := bytes.Clone(a)
			b[pos] ^= byte(1 + rng.IntN(255))
			checkPair(t, a, b)
			checkPair(t, b, a)

			// A later difference must not mask an earlier one.
			if pos+1 < w {
				b[w-1] ^= 0x80
				checkPair(t, a, b)
			}
		}
	}
}

// refMask is the byte-at-a-time not-equal mask over the first w bytes.
func refMask(a, b []byte, w int) uint64 {
	var m uint64
	for j := range w {
		if a[j] != b[j] {
			m |= 1 << j
		}
	}
	return m
}

// checkMasks compares the 16, 32 and 64 byte masks against refMask for
// chunks that differ at the given positions.
func checkMasks(t *testing.T, rng *rand.Rand, flips ...int) {
	t.Helper()
	a := make([]byte, 64)
	for i := range a {
		a[i] = byte(rng.Uint32())
	}
	b := bytes.Clone(a)
	for _, p := range flips {
		b[p] ^= byte(1 + rng.IntN(255))
	}
	if got, want := uint64(neMask16(a, b)), refMask(a, b, 16); got != want {
		t.Fatalf("neMask16 flips %v = %016b, want %016b", flips, got, want)
	}
	if got, want := uint64(neMask32(a, b)), refMask(a, b, 32); got != want {
		t.Fatalf("neMask32 flips %v = %032b, want %032b", flips, got, want)
	}
	if got, want := neMask64(a, b), refMask(a, b, 64); got != want {
		t.Fatalf("neMask64 flips %v = %064b, want %064b", flips, got, want)
	}
}

func TestNotEqualMasks(t *testing.T) {
	rng := newTestRNG(t)
	checkMasks(t, rng)
	for p := range 64 {
		checkMasks(t, rng, p)
		checkMasks(t, rng, p, 63-p)
	}
	for range 200 {
		checkMasks(t, rng, rng.IntN(64), rng.IntN(64), rng.IntN(64))
	}

	// The masks read only their own chunk.
	a := make([]byte, 80)
	b := make([]byte, 80)
	b[64] = 1
	if m := neMask64(a, b); m != 0 {
		t.Errorf("neMask64 saw byte 64: %b", m)
	}
}

// TestCompareUnsigned checks that bytes above 0x7F sort after lower bytes.
func TestCompareUnsigned(t *testing.T) {
	for _, w := range []int{3, 8, 16, 40, 64} {
		a := make([]byte, w)
		b := make([]byte, w)
		a[w/2] = 0x01
		b[w/2] = 0xFF
		checkPair(t, a, b)
		if c := compareGeneric(a, b); c != 1-0xFF {
			t.Errorf("width %d: compareGeneric = %d, want %d", w, c, 1-0xFF)
		}
		if w >= 16 {
			if c := compareWide(a, b); c != 1-0xFF {
				t.Errorf("width %d: compareWide = %d, want %d", w, c, 1-0xFF)
			}
		}
	}
}

func testKeyContract[A Array](t *testing.T, rng *rand.Rand) {
	t.Helper()
	w := Width[A]()
	keys := make([]Key[A], 64)
	for i := range keys {
		buf := make([]byte, w)
		for j := range buf {
			// Small alphabet so pairs share long prefixes.
			buf[j] = byte('A' + rng.IntN(3))
		}
		keys[i] = New[A](buf)
	}
	for _, a := range keys {
		for _, b := range keys {
			if a.Equal(b) != (a == b) {
				t.Fatalf("W=%d: Equal = %v, == %v", w, a.Equal(b), a == b)
			}
			if sign(a.Compare(b)) != bytes.Compare(a.Bytes(), b.Bytes()) {
				t.Fatalf("W=%d: Compare sign disagrees with bytes.Compare", w)
			}
		}
	}
	sorted := append([]Key[A](nil), keys...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })
	for i := 1; i < len(sorted); i++ {
		if bytes.Compare(sorted[i-1].Bytes(), sorted[i].Bytes()) > 0 {
			t.Fatalf("W=%d: Less ordering is not byte order", w)
		}
	}
}

func TestKeyContract(t *testing.T) {
	rng := newTestRNG(t)
	testKeyContract[[1]byte](t, rng)
	testKeyContract[[3]byte](t, rng)
	testKeyContract[[8]byte](t, rng)
	testKeyContract[[12]byte](t, rng)
	testKeyContract[[16]byte](t, rng)
	testKeyContract[[20]byte](t, rng)
	testKeyContract[[33]byte](t, rng)
	testKeyContract[[64]byte](t, rng)
	testKeyContract[[96]byte](t, rng)
	testKeyContract[[128]byte](t, rng)
}

func TestConstruction(t *testing.T) {
	src := []byte("ABCDEFGHIJKLMNOP")
	k := New[[12]byte](src)
	if got := k.String(); got != "ABCDEFGHIJKL" {
		t.Errorf("New copied %q, want %q", got, "ABCDEFGHIJKL")
	}
	src[0] = 'Z'
	if k.String()[0] != 'A' {
		t.Error("key aliases the source buffer")
	}
	if k != FromString[[12]byte]("ABCDEFGHIJKL") {
		t.Error("FromString differs from New")
	}
	if k != FromArray(k.Array()) {
		t.Error("FromArray(Array()) is not the same key")
	}
	if k.Len() != 12 || Width[[12]byte]() != 12 {
		t.Errorf("Len = %d, Width = %d, want 12", k.Len(), Width[[12]byte]())
	}

	b := k.Bytes()
	b[0] = 'Q'
	if k.String()[0] != 'A' {
		t.Error("Bytes returned an alias")
	}

	var zero Key[[4]byte]
	if !bytes.Equal(zero.Bytes(), make([]byte, 4)) {
		t.Errorf("zero key = %x, want four zero bytes", zero.Bytes())
	}
}

func TestShortBufferPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New with a short buffer did not panic")
		}
	}()
	New[[8]byte]([]byte("short"))
}

func TestKeyAsMapKey(t *testing.T) {
	m := map[Key[[6]byte]]int{}
	m[FromString[[6]byte]("abcdef")] = 1
	m[FromString[[6]byte]("abcdeg")] = 2
	if m[New[[6]byte]([]byte("abcdef"))] != 1 || len(m) != 2 {
		t.Errorf("map lookup by equal key failed: %v", m)
	}
}
