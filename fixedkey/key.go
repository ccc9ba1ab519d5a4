// Package fixedkey implements a fixed-width binary key.
//
// A Key[A] holds exactly len(A) opaque bytes, where A is a byte array type
// such as [12]byte. The width is fixed at compile time by the type argument,
// so every comparison and conversion runs over a length the compiler knows.
//
//	type Symbol = fixedkey.Key[[12]byte]
//
//	k := fixedkey.FromString[[12]byte]("AAPL.XNAS.EQ")
//	if k.Equal(other) { ... }
//
// Keys are comparable values: == agrees with Equal, so a Key can be used
// directly as a Go map key. Ordering is unsigned byte-lexicographic.
package fixedkey

import (
	"unsafe"
)

// Key is a fixed-width byte string. The zero value is W zero bytes.
type Key[A Array] struct {
	s A
}

// Width returns the key width W for array type A.
func Width[A Array]() int {
	var a A
	return len(a)
}

// New copies exactly W bytes from b into a new key.
// b must hold at least W bytes; a shorter buffer panics.
func New[A Array](b []byte) Key[A] {
	var k Key[A]
	v := k.View()
	_ = b[len(v)-1]
	copy(v, b)
	return k
}

// FromString copies exactly W bytes from s into a new key.
// s must hold at least W bytes; a shorter string panics.
func FromString[A Array](s string) Key[A] {
	var k Key[A]
	v := k.View()
	_ = s[len(v)-1]
	copy(v, s)
	return k
}

// FromArray wraps a.
func FromArray[A Array](a A) Key[A] {
	return Key[A]{s: a}
}

// View returns the key bytes without copying. The slice aliases k and must
// not be modified while k is shared.
func (k *Key[A]) View() []byte {
	return unsafe.Slice(&k.s[0], len(k.s))
}

// Len returns W.
func (k Key[A]) Len() int {
	return len(k.s)
}

// Array returns a copy of the key storage.
func (k Key[A]) Array() A {
	return k.s
}

// Bytes returns a copy of the key bytes.
func (k Key[A]) Bytes() []byte {
	return append([]byte(nil), k.View()...)
}

// String returns the raw key bytes as a string.
func (k Key[A]) String() string {
	return string(k.View())
}

// Equal reports whether all W bytes of k and other match.
func (k Key[A]) Equal(other Key[A]) bool {
	a, b := k.View(), other.View()
	if useWide && len(a) >= 16 {
		return equalWide(a, b)
	}
	return equalGeneric(a, b)
}

// Compare returns a negative number, zero or a positive number as k sorts
// before, equal to or after other in unsigned byte order. A non-zero result
// is the difference of the first differing byte pair.
func (k Key[A]) Compare(other Key[A]) int {
	a, b := k.View(), other.View()
	if useWide && len(a) >= 16 {
		return compareWide(a, b)
	}
	return compareGeneric(a, b)
}

// Less reports whether k sorts before other.
func (k Key[A]) Less(other Key[A]) bool {
	return k.Compare(other) < 0
}
