package padding

import (
	"io"
)

// BlockType selects the EME-PKCS1-v1_5 padding-string construction.
type BlockType byte

const (
	// BlockTypePublic is block type 2: public-key encryption, PS is
	// nonzero random bytes.
	BlockTypePublic BlockType = 0x02
	// BlockTypePrivate is block type 1: legacy private-key "encryption",
	// PS is 0xFF bytes.
	BlockTypePrivate BlockType = 0x01
)

// EncodePKCS1v15 implements EME-PKCS1-v1_5-ENCODE (RFC 3447 §7.2.1).
func EncodePKCS1v15(random io.Reader, k int, message []byte, bt BlockType) ([]byte, error) {
	if len(message) > k-11 {
		log.WithField("message_len", len(message)).Debug("PKCS1v1.5 message too long")
		return nil, ErrTooLong
	}

	em := make([]byte, k)
	em[1] = byte(bt)
	psLen := k - len(message) - 3

	switch bt {
	case BlockTypePublic:
		if err := fillNonZero(random, em[2:2+psLen]); err != nil {
			return nil, err
		}
	case BlockTypePrivate:
		for i := 2; i < 2+psLen; i++ {
			em[i] = 0xFF
		}
	default:
		return nil, ErrDecode
	}

	em[2+psLen] = 0x00
	copy(em[3+psLen:], message)
	return em, nil
}

func fillNonZero(random io.Reader, buf []byte) error {
	for i := range buf {
		for {
			if _, err := io.ReadFull(random, buf[i:i+1]); err != nil {
				return err
			}
			if buf[i] != 0 {
				break
			}
		}
	}
	return nil
}

// DecodePKCS1v15 implements EME-PKCS1-v1_5-DECODE (RFC 3447 §7.2.2). em
// must already be exactly k bytes. Block types 0, 1, and 2 are all
// accepted for interop, matching spec.md §4.3. The separator must appear
// at index >= 10 (|PS| >= 8); any failure collapses to one outcome before
// returning.
func DecodePKCS1v15(em []byte) ([]byte, error) {
	k := len(em)
	if k < 11 {
		return nil, ErrDecode
	}

	firstOK := em[0] == 0x00
	secondOK := em[1] <= 0x02

	sepIndex := -1
	sepFound := 0
	for i := 2; i < k; i++ {
		isZero := 0
		if em[i] == 0x00 {
			isZero = 1
		}
		take := isZero & (1 ^ sepFound)
		if take == 1 {
			sepIndex = i
		}
		sepFound |= isZero
	}

	lengthOK := sepFound == 1 && sepIndex >= 10
	ok := firstOK && secondOK && lengthOK

	if !ok {
		log.Debug("PKCS1v1.5 decode failed")
		return nil, ErrDecode
	}
	out := make([]byte, k-sepIndex-1)
	copy(out, em[sepIndex+1:])
	return out, nil
}
