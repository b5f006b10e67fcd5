// Package padding implements the PKCS#1 v2.1 encryption padding schemes:
// EME-OAEP (RFC 3447 §7.1) and EME-PKCS1-v1_5 (RFC 3447 §7.2).
package padding

import (
	"hash"
	"io"

	"github.com/go-i2p/logger"
	"github.com/martynask/phpseclib/consttime"
	"github.com/martynask/phpseclib/mgf1"
	"github.com/samber/oops"
)

var log = logger.GetGoI2PLogger()

// Sentinel errors. Root package rsa re-exports/maps these into its own
// ErrLength / ErrDecryption kinds; kept local here so this package has no
// dependency on the root package (which depends on this one).
var (
	ErrTooLong  = oops.Errorf("padding: message too long")
	ErrDecode   = oops.Errorf("padding: decryption error")
	ErrMGFRange = oops.Errorf("padding: mask length exceeds MGF1 limit")
)

// EncodeOAEP implements EME-OAEP-ENCODE. k is the byte length of the RSA
// modulus, h is a fresh hash used for both the label hash and MGF1, and
// label is the OAEP label (nil/empty for the default empty label).
func EncodeOAEP(random io.Reader, h hash.Hash, k int, message, label []byte) ([]byte, error) {
	hLen := h.Size()
	if len(message) > k-2*hLen-2 {
		log.WithField("message_len", len(message)).Debug("OAEP message too long")
		return nil, ErrTooLong
	}

	h.Reset()
	h.Write(label)
	lHash := h.Sum(nil)
	h.Reset()

	em := make([]byte, k)
	seed := em[1 : 1+hLen]
	db := em[1+hLen:]

	copy(db[:hLen], lHash)
	db[len(db)-len(message)-1] = 0x01
	copy(db[len(db)-len(message):], message)

	if _, err := io.ReadFull(random, seed); err != nil {
		return nil, oops.Errorf("padding: failed to read OAEP seed: %w", err)
	}

	mgf1.XOR(db, h, seed)
	mgf1.XOR(seed, h, db)

	return em, nil
}

// DecodeOAEP implements EME-OAEP-DECODE. em must already be exactly k
// bytes (the caller left-pads a short block with zero bytes first, per
// spec.md §4.7). All three RFC 3447 checks (leading zero octet, label
// hash, 0x01 separator) are combined into one boolean before any error is
// returned, so no failure path is individually observable.
func DecodeOAEP(h hash.Hash, em, label []byte) ([]byte, error) {
	hLen := h.Size()
	k := len(em)
	if k < 2*hLen+2 {
		log.Debug("OAEP decode: encoded message too short for hash size")
		return nil, ErrDecode
	}

	h.Reset()
	h.Write(label)
	lHash := h.Sum(nil)
	h.Reset()

	y := em[0]
	seed := make([]byte, hLen)
	copy(seed, em[1:1+hLen])
	db := make([]byte, k-hLen-1)
	copy(db, em[1+hLen:])

	mgf1.XOR(seed, h, db)
	mgf1.XOR(db, h, seed)

	gotLHash := db[:hLen]
	rest := db[hLen:]

	lHashOK := consttime.Eq(gotLHash, lHash)
	yOK := y == 0x00

	// Find the 0x01 separator without branching on its absence: scan the
	// whole field every time to avoid encoding a success/failure signal
	// into the number of comparisons performed. While still looking for
	// the separator (sepFound == 0), any byte that is neither 0x00 (PS
	// padding) nor 0x01 (the separator itself) latches invalid, per
	// RFC 3447 §7.1.2's "looking" flag.
	sepIndex := -1
	sepFound := 0
	invalid := 0
	for i, b := range rest {
		isOne := 0
		if b == 0x01 {
			isOne = 1
		}
		isZero := 0
		if b == 0x00 {
			isZero = 1
		}
		stillLooking := 1 ^ sepFound
		invalid |= stillLooking & (1 ^ isOne) & (1 ^ isZero)

		// Record the first 0x01 we see (once sepFound latches, further
		// matches are ignored), but keep scanning to the end.
		take := isOne & stillLooking
		if take == 1 {
			sepIndex = i
		}
		sepFound |= isOne
	}

	ok := yOK && lHashOK && sepFound == 1 && invalid == 0

	// Fold the combined outcome into the returned message itself, branch-free,
	// before the single branch that decides whether to surface it.
	okByte := 0
	if ok {
		okByte = 1
	}
	result := make([]byte, len(rest))
	consttime.Select(okByte, result, rest)

	if !ok {
		log.Debug("OAEP decode failed")
		return nil, ErrDecode
	}
	return result[sepIndex+1:], nil
}
