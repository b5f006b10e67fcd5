// Package consttime provides length-checked, constant-time byte
// comparison for material derived from decryption or hashing, so that
// padding and signature checks never leak through branch timing.
package consttime

import "crypto/subtle"

// Eq reports whether a and b are equal. It returns false immediately on a
// length mismatch (a cheap, public-length check), and otherwise compares
// in constant time using crypto/subtle the way lib/crypto/elg/elg.go
// compares its decrypted digest.
func Eq(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Select copies b into dst when v == 1, and leaves dst untouched when v == 0.
// v must be 0 or 1. Used to merge a decode failure into a single branch-free
// outcome before returning to the caller.
func Select(v int, dst, b []byte) {
	subtle.ConstantTimeCopy(v, dst, b)
}
