package strhash

import (
	"context"
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"
	"testing"

	"github.com/tamirms/strhash/fixedkey"
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

// fillFromRNG fills buf with pseudo-random bytes from rng.
func fillFromRNG(rng *rand.Rand, buf []byte) {
	for i := 0; i+8 <= len(buf); i += 8 {
		binary.LittleEndian.PutUint64(buf[i:], rng.Uint64())
	}
	if tail := len(buf) % 8; tail > 0 {
		v := rng.Uint64()
		start := len(buf) - tail
		for j := 0; j < tail; j++ {
			buf[start+j] = byte(v >> (j * 8))
		}
	}
}

// generateRandomKeys creates n distinct pseudo-random keys.
func generateRandomKeys[A fixedkey.Array](rng *rand.Rand, n int) []fixedkey.Key[A] {
	seen := make(map[fixedkey.Key[A]]struct{}, n)
	keys := make([]fixedkey.Key[A], 0, n)
	buf := make([]byte, fixedkey.Width[A]())
	for len(keys) < n {
		fillFromRNG(rng, buf)
		k := fixedkey.New[A](buf)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}

// generateSymbolKeys creates n distinct keys shaped like exchange symbols:
// uppercase letters at the front, zero padding at the back, so most byte
// positions carry little information.
func generateSymbolKeys[A fixedkey.Array](rng *rand.Rand, n int) []fixedkey.Key[A] {
	w := fixedkey.Width[A]()
	seen := make(map[fixedkey.Key[A]]struct{}, n)
	keys := make([]fixedkey.Key[A], 0, n)
	buf := make([]byte, w)
	for len(keys) < n {
		clear(buf)
		for i := range min(w, 2+rng.IntN(4)) {
			buf[i] = byte('A' + rng.IntN(26))
		}
		k := fixedkey.New[A](buf)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}

// newTestBuilder returns a builder holding keys[i] -> i+1 with not-found 0.
func newTestBuilder[A fixedkey.Array](t testing.TB, keys []fixedkey.Key[A], opts ...Option) *Builder[A, uint32] {
	t.Helper()
	b, err := NewBuilder[A, uint32](opts...)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	for i, k := range keys {
		if err := b.Add(k, uint32(i+1)); err != nil {
			t.Fatalf("Add(%d): %v", i, err)
		}
	}
	return b
}

// buildCompact freezes keys into a compact index.
func buildCompact[A fixedkey.Array](t testing.TB, keys []fixedkey.Key[A], opts ...Option) *Compact[A, uint32] {
	t.Helper()
	idx, err := newTestBuilder(t, keys, opts...).Freeze(context.Background())
	if err != nil {
		t.Fatalf("Freeze: %v", err)
	}
	return idx
}

// verifyLookups checks that every key maps to its value i+1.
func verifyLookups[H Hash, A fixedkey.Array](t testing.TB, idx *Index[H, A, uint32], keys []fixedkey.Key[A]) {
	t.Helper()
	for i, k := range keys {
		v, ok := idx.Lookup(k)
		if !ok || v != uint32(i+1) {
			t.Fatalf("Lookup(key %d %q) = (%d, %v), want (%d, true)", i, k.String(), v, ok, i+1)
		}
		if got := idx.Find(k); got != uint32(i+1) {
			t.Fatalf("Find(key %d) = %d, want %d", i, got, i+1)
		}
	}
}

// verifyNonMemberRejection probes random keys that were never inserted.
func verifyNonMemberRejection[H Hash, A fixedkey.Array](t testing.TB, rng *rand.Rand, idx *Index[H, A, uint32], keys []fixedkey.Key[A], numProbes int) {
	t.Helper()
	members := make(map[fixedkey.Key[A]]struct{}, len(keys))
	for _, k := range keys {
		members[k] = struct{}{}
	}
	for _, k := range generateRandomKeys[A](rng, numProbes) {
		if _, ok := members[k]; ok {
			continue
		}
		if v, ok := idx.Lookup(k); ok || v != idx.NotFound() {
			t.Fatalf("absent key %q: Lookup = (%d, %v), want (%d, false)", k.String(), v, ok, idx.NotFound())
		}
	}
}
