// Package hashalg resolves the hash-function names RsaKey accepts
// (md2, md5, sha1, sha256, sha384, sha512) to hash.Hash constructors and
// their RFC 3447 §9.2 DigestInfo DER prefixes.
package hashalg

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"

	"github.com/go-i2p/logger"
)

var log = logger.GetGoI2PLogger()

// Name identifies a supported hash algorithm by its phpseclib-style
// lowercase name.
type Name string

const (
	MD2    Name = "md2"
	MD5    Name = "md5"
	SHA1   Name = "sha1"
	SHA256 Name = "sha256"
	SHA384 Name = "sha384"
	SHA512 Name = "sha512"
)

// DefaultHash is the hash used when an RsaKey has not configured one.
const DefaultHash = SHA1

type entry struct {
	new    func() hash.Hash
	size   int
	digest []byte // DigestInfo DER prefix, RFC 3447 section 9.2
}

var registry = map[Name]entry{
	MD2: {
		new:  func() hash.Hash { return newMD2() },
		size: 16,
		digest: []byte{
			0x30, 0x20, 0x30, 0x0c, 0x06, 0x08, 0x2a, 0x86, 0x48, 0x86, 0xf7,
			0x0d, 0x02, 0x02, 0x05, 0x00, 0x04, 0x10,
		},
	},
	MD5: {
		new:  md5.New,
		size: md5.Size,
		digest: []byte{
			0x30, 0x20, 0x30, 0x0c, 0x06, 0x08, 0x2a, 0x86, 0x48, 0x86, 0xf7,
			0x0d, 0x02, 0x05, 0x05, 0x00, 0x04, 0x10,
		},
	},
	SHA1: {
		new:  sha1.New,
		size: sha1.Size,
		digest: []byte{
			0x30, 0x21, 0x30, 0x09, 0x06, 0x05, 0x2b, 0x0e, 0x03, 0x02, 0x1a,
			0x05, 0x00, 0x04, 0x14,
		},
	},
	SHA256: {
		new:  sha256.New,
		size: sha256.Size,
		digest: []byte{
			0x30, 0x31, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65,
			0x03, 0x04, 0x02, 0x01, 0x05, 0x00, 0x04, 0x20,
		},
	},
	SHA384: {
		new:  sha512.New384,
		size: sha512.Size384,
		digest: []byte{
			0x30, 0x41, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65,
			0x03, 0x04, 0x02, 0x02, 0x05, 0x00, 0x04, 0x30,
		},
	},
	SHA512: {
		new:  sha512.New,
		size: sha512.Size,
		digest: []byte{
			0x30, 0x51, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65,
			0x03, 0x04, 0x02, 0x03, 0x05, 0x00, 0x04, 0x40,
		},
	},
}

// New returns a fresh hash.Hash for name, and false if name is unknown.
func New(name Name) (hash.Hash, bool) {
	e, ok := registry[name]
	if !ok {
		log.WithField("hash", string(name)).Warn("unknown hash algorithm requested")
		return nil, false
	}
	return e.new(), true
}

// Size returns the output length in bytes of name, and false if unknown.
func Size(name Name) (int, bool) {
	e, ok := registry[name]
	if !ok {
		return 0, false
	}
	return e.size, true
}

// DigestInfoPrefix returns the DER-encoded DigestInfo prefix (the
// SEQUENCE/AlgorithmIdentifier/OCTET-STRING-length header preceding the
// raw hash) used to build EMSA-PKCS1-v1_5 encodings, and false if name is
// unknown.
func DigestInfoPrefix(name Name) ([]byte, bool) {
	e, ok := registry[name]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(e.digest))
	copy(out, e.digest)
	return out, true
}

// Valid reports whether name is a supported hash algorithm.
func Valid(name Name) bool {
	_, ok := registry[name]
	return ok
}
