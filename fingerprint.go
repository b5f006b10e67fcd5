package rsa

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"
)

// sshWireEncode builds the SSH public-key wire format used for
// fingerprinting, per spec.md §6: uint32-length-prefixed "ssh-rsa", e,
// and n, each big-endian with a leading sign byte so the high bit of a
// leading 0x80+ byte never reads as negative.
func sshWireEncode(e, n []byte) []byte {
	algo := []byte("ssh-rsa")
	var out []byte
	out = appendSSHString(out, algo)
	out = appendSSHString(out, sshMPInt(e))
	out = appendSSHString(out, sshMPInt(n))
	return out
}

func appendSSHString(dst, s []byte) []byte {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(s)))
	dst = append(dst, lenBuf[:]...)
	return append(dst, s...)
}

// sshMPInt prepends a zero byte to b if its high bit is set, so the SSH
// multiple-precision integer encoding reads as non-negative.
func sshMPInt(b []byte) []byte {
	// Trim any incidental leading zero bytes first so we control exactly
	// one sign byte.
	for len(b) > 0 && b[0] == 0x00 {
		b = b[1:]
	}
	if len(b) == 0 {
		return []byte{0x00}
	}
	if b[0]&0x80 != 0 {
		out := make([]byte, len(b)+1)
		copy(out[1:], b)
		return out
	}
	return b
}

// GetPublicKeyFingerprint implements spec.md §6 getPublicKeyFingerprint:
// "md5" returns colon-separated hex, "sha256" returns unpadded base64.
func (k *RsaKey) GetPublicKeyFingerprint(algo string) (string, error) {
	if k.n == nil || k.e == nil {
		return "", ErrMalformedKey
	}
	wire := sshWireEncode(k.e.Bytes(), k.n.Bytes())

	switch strings.ToLower(algo) {
	case "md5":
		sum := md5.Sum(wire)
		parts := make([]string, len(sum))
		for i, b := range sum {
			parts[i] = fmt.Sprintf("%02x", b)
		}
		return strings.Join(parts, ":"), nil
	case "sha256":
		sum := sha256.Sum256(wire)
		return strings.TrimRight(base64.StdEncoding.EncodeToString(sum[:]), "="), nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
