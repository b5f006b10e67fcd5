// Package mgf1 implements the MGF1 mask generation function from RFC 3447
// Appendix B.2.1.
package mgf1

import (
	"encoding/binary"
	"hash"

	"github.com/go-i2p/logger"
)

var log = logger.GetGoI2PLogger()

// XOR XORs out in place with a mask of len(out) bytes generated from seed
// using h. This mirrors the teacher's mgf1XOR helper in lib/crypto/rsa
// (itself ported from crypto/rsa) but is generalized to any hash.Hash
// rather than being fixed to a single algorithm.
func XOR(out []byte, h hash.Hash, seed []byte) {
	var counter [4]byte
	var digest []byte

	log.WithField("out_len", len(out)).Debug("generating MGF1 mask")

	hLen := h.Size()
	done := 0
	for done < len(out) {
		h.Reset()
		h.Write(seed)
		h.Write(counter[:])
		digest = h.Sum(digest[:0])

		n := hLen
		if rem := len(out) - done; rem < n {
			n = rem
		}
		for i := 0; i < n; i++ {
			out[done+i] ^= digest[i]
		}
		done += n
		incCounter(&counter)
	}
}

func incCounter(c *[4]byte) {
	binary.BigEndian.PutUint32(c[:], binary.BigEndian.Uint32(c[:])+1)
}
