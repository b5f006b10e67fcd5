// Package sig implements the PKCS#1 v2.1 signature encodings:
// EMSA-PSS (RFC 3447 §8.1) and EMSA-PKCS1-v1_5 (RFC 3447 §8.2, §9.2).
package sig

import (
	"hash"

	"github.com/go-i2p/logger"
	"github.com/martynask/phpseclib/consttime"
	"github.com/martynask/phpseclib/mgf1"
	"github.com/samber/oops"
)

var log = logger.GetGoI2PLogger()

var (
	ErrEncoding     = oops.Errorf("sig: encoding error")
	ErrInconsistent = oops.Errorf("sig: inconsistent")
)

// EncodePSS implements EMSA-PSS-ENCODE. mHash is H(M), salt has the
// caller-chosen sLen, mgfHash is the hash used inside MGF1 (independent
// of the hash used for mHash, per spec.md §3), and emBits is 8k-1 for an
// RSA modulus of k bytes.
func EncodePSS(mHash, salt []byte, emBits int, h, mgfHash hash.Hash) ([]byte, error) {
	hLen := h.Size()
	sLen := len(salt)
	emLen := (emBits + 7) / 8

	if emLen < hLen+sLen+2 {
		log.Debug("PSS encode: emLen too small for hash/salt length")
		return nil, ErrEncoding
	}

	h.Reset()
	h.Write(make([]byte, 8))
	h.Write(mHash)
	h.Write(salt)
	hOut := h.Sum(nil)

	db := make([]byte, emLen-sLen-hLen-2+1+sLen)
	db[emLen-sLen-hLen-2] = 0x01
	copy(db[emLen-sLen-hLen-1:], salt)

	mgf1.XOR(db, mgfHash, hOut)
	db[0] &= 0xFF >> uint(8*emLen-emBits)

	em := make([]byte, emLen)
	copy(em, db)
	copy(em[len(db):], hOut)
	em[emLen-1] = 0xBC
	return em, nil
}

// VerifyPSS implements EMSA-PSS-VERIFY. Every comparison over material
// recovered from em is constant-time, per spec.md §4.4 and Design Note
// "Constant-time discipline".
func VerifyPSS(mHash, em []byte, emBits, sLen int, h, mgfHash hash.Hash) error {
	hLen := h.Size()
	emLen := (emBits + 7) / 8

	if emLen < hLen+sLen+2 || len(em) != emLen {
		return ErrInconsistent
	}

	trailerOK := em[len(em)-1] == 0xBC

	db := make([]byte, emLen-hLen-1)
	copy(db, em[:emLen-hLen-1])
	hOut := em[emLen-hLen-1 : emLen-1]

	topBitsOK := em[0]&(0xFF<<uint(8-(8*emLen-emBits))) == 0

	mgf1.XOR(db, mgfHash, hOut)
	db[0] &= 0xFF >> uint(8*emLen-emBits)

	zerosLen := emLen - hLen - sLen - 2
	zerosOK := 1
	if zerosLen < 0 {
		zerosOK = 0
	} else {
		for _, b := range db[:zerosLen] {
			if b != 0x00 {
				zerosOK = 0
			}
		}
		if db[zerosLen] != 0x01 {
			zerosOK = 0
		}
	}

	salt := make([]byte, sLen)
	if zerosLen >= 0 && zerosLen+1+sLen <= len(db) {
		copy(salt, db[zerosLen+1:])
	}

	h.Reset()
	h.Write(make([]byte, 8))
	h.Write(mHash)
	h.Write(salt)
	hPrime := h.Sum(nil)

	hashOK := consttime.Eq(hPrime, hOut)

	if !(trailerOK && topBitsOK && zerosOK == 1 && hashOK) {
		log.Debug("PSS verification failed")
		return ErrInconsistent
	}
	return nil
}
