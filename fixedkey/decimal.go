package fixedkey

import (
	"encoding/binary"

	"github.com/tamirms/strhash/internal/bits"
)

const (
	maxDigits32 = 10
	maxDigits64 = 19
)

// digitPairs holds "00".."99" back to back; pair i starts at 2*i.
const digitPairs = "00010203040506070809" +
	"10111213141516171819" +
	"20212223242526272829" +
	"30313233343536373839" +
	"40414243444546474849" +
	"50515253545556575859" +
	"60616263646566676869" +
	"70717273747576777879" +
	"80818283848586878889" +
	"90919293949596979899"

// Uint32 interprets the key as ASCII decimal digits, most significant
// first, and returns its value. Only the trailing min(W, 10) digits
// contribute and the arithmetic wraps at 32 bits. Non-digit bytes yield an
// unspecified result.
func (k Key[A]) Uint32() uint32 {
	v := k.View()
	return uint32(parseDecimal(v[len(v)-min(len(v), maxDigits32):]))
}

// Uint64 is Uint32 over the trailing min(W, 19) digits.
func (k Key[A]) Uint64() uint64 {
	v := k.View()
	return parseDecimal(v[len(v)-min(len(v), maxDigits64):])
}

// parseDecimal consumes the len(d)%8 leading digits one at a time, then
// folds each remaining block of eight in a single SWAR step.
func parseDecimal(d []byte) uint64 {
	var v uint64
	r := len(d) % 8
	for _, c := range d[:r] {
		v = v*10 + uint64(c-'0')
	}
	for i := r; i < len(d); i += 8 {
		v = v*100000000 + uint64(bits.ParseDigits8(binary.LittleEndian.Uint64(d[i:])))
	}
	return v
}

// pow100[p] is 100^p; p >= len(pow100) exceeds every uint64.
var pow100 = [...]uint64{
	1, 1e2, 1e4, 1e6, 1e8, 1e10, 1e12, 1e14, 1e16, 1e18,
}

// SetUint64 overwrites k with n as W zero-padded ASCII digits. Digits of n
// that do not fit in W positions are dropped. For odd W the single leading
// digit goes first, then pairs from the least significant end.
func (k *Key[A]) SetUint64(n uint64) {
	v := k.View()
	lead := len(v) % 2
	if lead == 1 {
		var d uint64
		if p := len(v) / 2; p < len(pow100) {
			d = n / pow100[p] % 10
		}
		v[0] = byte('0' + d)
	}
	for i := len(v); i > lead; {
		i -= 2
		p := (n % 100) * 2
		v[i], v[i+1] = digitPairs[p], digitPairs[p+1]
		n /= 100
	}
}

// FromUint64 returns n formatted as a W-digit key.
func FromUint64[A Array](n uint64) Key[A] {
	var k Key[A]
	k.SetUint64(n)
	return k
}
