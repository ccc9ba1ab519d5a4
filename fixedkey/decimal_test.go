package fixedkey

import (
	"fmt"
	"math"
	"strconv"
	"testing"
)

func TestDecimalScenario(t *testing.T) {
	k := FromString[[8]byte]("00001234")
	if got := k.Uint32(); got != 1234 {
		t.Errorf("Uint32 = %d, want 1234", got)
	}
	if got := k.Uint64(); got != 1234 {
		t.Errorf("Uint64 = %d, want 1234", got)
	}
	if got := FromUint64[[8]byte](1234); got != k {
		t.Errorf("FromUint64(1234) = %q, want %q", got.String(), k.String())
	}
}

func testDecimalRoundTrip[A Array](t *testing.T) {
	t.Helper()
	rng := newTestRNG(t)
	w := Width[A]()
	limit := uint64(0)
	if w < 20 {
		limit = 1
		for range w {
			limit *= 10
		}
	}
	for i := 0; i < 500; i++ {
		v := rng.Uint64()
		if limit != 0 {
			v %= limit
		}
		k := FromUint64[A](v)
		want := fmt.Sprintf("%0*d", w, v)
		if w <= 19 {
			if k.String() != want {
				t.Fatalf("W=%d: FromUint64(%d) = %q, want %q", w, v, k.String(), want)
			}
			if got := k.Uint64(); got != v {
				t.Fatalf("W=%d: Uint64(%q) = %d, want %d", w, k.String(), got, v)
			}
		} else if k.String()[w-20:] != fmt.Sprintf("%020d", v) {
			t.Fatalf("W=%d: FromUint64(%d) = %q", w, v, k.String())
		}
		if FromUint64[A](k.Uint64()) != k && w <= 19 {
			t.Fatalf("W=%d: round trip of %q changed the key", w, k.String())
		}
	}
}

func TestDecimalRoundTrip(t *testing.T) {
	t.Run("W1", testDecimalRoundTrip[[1]byte])
	t.Run("W2", testDecimalRoundTrip[[2]byte])
	t.Run("W5", testDecimalRoundTrip[[5]byte])
	t.Run("W8", testDecimalRoundTrip[[8]byte])
	t.Run("W9", testDecimalRoundTrip[[9]byte])
	t.Run("W10", testDecimalRoundTrip[[10]byte])
	t.Run("W16", testDecimalRoundTrip[[16]byte])
	t.Run("W19", testDecimalRoundTrip[[19]byte])
	t.Run("W24", testDecimalRoundTrip[[24]byte])
}

// TestDecimalTrailingDigits checks that only the trailing 10 (32-bit) or
// 19 (64-bit) digits contribute and that 32-bit arithmetic wraps.
func TestDecimalTrailingDigits(t *testing.T) {
	k := FromString[[24]byte]("999990000000000000000042")
	if got := k.Uint64(); got != 42 {
		t.Errorf("Uint64 = %d, want 42", got)
	}
	if got := k.Uint32(); got != 42 {
		t.Errorf("Uint32 = %d, want 42", got)
	}

	ten := FromString[[10]byte]("9999999999")
	if got, want := ten.Uint32(), uint32(9999999999%(1<<32)); got != want {
		t.Errorf("Uint32(9999999999) = %d, want wrapped %d", got, want)
	}
	if got := ten.Uint64(); got != 9999999999 {
		t.Errorf("Uint64 = %d, want 9999999999", got)
	}
}

func TestFromUint64Truncates(t *testing.T) {
	if got := FromUint64[[3]byte](123456).String(); got != "456" {
		t.Errorf("FromUint64[3](123456) = %q, want %q", got, "456")
	}
	if got := FromUint64[[4]byte](7).String(); got != "0007" {
		t.Errorf("FromUint64[4](7) = %q, want %q", got, "0007")
	}
	if got := FromUint64[[1]byte](123).String(); got != "3" {
		t.Errorf("FromUint64[1](123) = %q, want %q", got, "3")
	}
	if got := FromUint64[[5]byte](98765).String(); got != "98765" {
		t.Errorf("FromUint64[5](98765) = %q, want %q", got, "98765")
	}
	if got := FromUint64[[19]byte](math.MaxUint64).String(); got != "8446744073709551615" {
		t.Errorf("FromUint64[19](MaxUint64) = %q", got)
	}
	if got := FromUint64[[21]byte](math.MaxUint64).String(); got != "018446744073709551615" {
		t.Errorf("FromUint64[21](MaxUint64) = %q", got)
	}

	var k Key[[6]byte]
	k.SetUint64(42)
	k.SetUint64(9)
	if got := k.String(); got != "000009" {
		t.Errorf("SetUint64 left stale digits: %q", got)
	}
}

func TestParseDecimalBlocks(t *testing.T) {
	for _, s := range []string{"0", "7", "12345678", "123456789", "1234567812345678", "18446744073709551615"} {
		want, _ := strconv.ParseUint(s, 10, 64)
		if got := parseDecimal([]byte(s)); got != want {
			t.Errorf("parseDecimal(%q) = %d, want %d", s, got, want)
		}
	}
}
