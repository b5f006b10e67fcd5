// Package rsa implements the RSA public-key cryptosystem per PKCS#1 v2.1
// (RFC 3447): OAEP/PKCS#1-v1.5 encryption, PSS/PKCS#1-v1.5 signatures,
// CRT exponentiation with blinding, multi-prime key generation, and
// load/save across PKCS#1, PKCS#8 (including PBES1/PBES2 password
// protection), raw, and XML encodings.
//
// The design mirrors the teacher repo's per-concern package layout
// (lib/crypto/<algo>/*.go in go-i2p): this package holds the RsaKey
// aggregate and its primitives, and delegates padding, signature
// encoding, CRT math, hash selection, key formats, and the PKCS#8
// envelope to focused sibling packages.
package rsa

import (
	"math/big"

	"github.com/go-i2p/logger"
	"github.com/martynask/phpseclib/crt"
	"github.com/martynask/phpseclib/hashalg"
)

var log = logger.GetGoI2PLogger()

// EncryptionMode selects the padding scheme used by Encrypt/Decrypt.
type EncryptionMode int

const (
	EncryptionOAEP EncryptionMode = iota
	EncryptionPKCS1
	EncryptionNone
)

// SignatureMode selects the encoding scheme used by Sign/Verify.
type SignatureMode int

const (
	SignaturePSS SignatureMode = iota
	SignaturePKCS1
)

// RsaKey aggregates the modulus, exponent(s), optional CRT material, and
// the configuration (hash, MGF hash, salt length, encryption/signature
// mode, serialization formats, password) described in spec.md §3.
//
// A zero-value RsaKey is not ready for use; construct one with New.
type RsaKey struct {
	n *big.Int
	e *big.Int // publicExponent; present for public keys and decorated private keys
	d *big.Int // private exponent; present for private keys

	primes    []*big.Int
	crtMaterial *crt.Material

	k int // ceil(bitlen(n)/8)

	hash        hashalg.Name
	mgfHash     hashalg.Name
	mgfHashSet  bool
	saltLen     int
	saltLenSet  bool

	encMode EncryptionMode
	sigMode SignatureMode

	privateKeyFormat string
	publicKeyFormat  string

	password []byte
}

// New returns an RsaKey with spec.md §3's defaults: hash=sha1,
// encryption mode=OAEP, signature mode=PSS, no modulus/exponent set.
func New() *RsaKey {
	return &RsaKey{
		hash:             hashalg.DefaultHash,
		encMode:          EncryptionOAEP,
		sigMode:          SignaturePSS,
		privateKeyFormat: "PKCS8",
		publicKeyFormat:  "PKCS8",
	}
}

// Clone performs a deep copy of k's BigInt members and hash descriptors,
// per spec.md §3 "Lifecycle".
func (k *RsaKey) Clone() *RsaKey {
	c := &RsaKey{
		hash:             k.hash,
		mgfHash:          k.mgfHash,
		mgfHashSet:       k.mgfHashSet,
		saltLen:          k.saltLen,
		saltLenSet:       k.saltLenSet,
		encMode:          k.encMode,
		sigMode:          k.sigMode,
		privateKeyFormat: k.privateKeyFormat,
		publicKeyFormat:  k.publicKeyFormat,
		k:                k.k,
	}
	if k.n != nil {
		c.n = new(big.Int).Set(k.n)
	}
	if k.e != nil {
		c.e = new(big.Int).Set(k.e)
	}
	if k.d != nil {
		c.d = new(big.Int).Set(k.d)
	}
	if k.password != nil {
		c.password = append([]byte(nil), k.password...)
	}
	// Copy primes from the source key's own arrays, not from the
	// just-allocated (and therefore still-empty) target arrays — an early
	// draft of Clone/SetPrivateKey iterated over the emptied target by
	// mistake; see DESIGN.md's "Open question" note.
	if len(k.primes) > 0 {
		c.primes = make([]*big.Int, len(k.primes))
		for i, p := range k.primes {
			c.primes[i] = new(big.Int).Set(p)
		}
	}
	if k.crtMaterial != nil && c.d != nil {
		mat, err := crt.Precompute(c.primes, c.d)
		if err == nil {
			c.crtMaterial = mat
		}
	}
	return c
}

// SetPublicKey reassigns k's role to public-only, dropping the private
// exponent and CRT material without regenerating n/e, per spec.md §3
// "setPublicKey/setPrivateKey (role reassignment without regeneration)".
func (k *RsaKey) SetPublicKey() {
	k.d = nil
	k.primes = nil
	k.crtMaterial = nil
}

// SetPrivateKey copies the private components (d, primes) from src into
// k, keeping k's own n/e if already set (otherwise adopting src's),
// reassigning k's role to private. Copies src's arrays directly, per the
// "Open question" fix noted in DESIGN.md.
func (k *RsaKey) SetPrivateKey(src *RsaKey) error {
	if src.d == nil || len(src.primes) < 2 {
		return ErrMalformedKey
	}
	if k.n == nil {
		k.n = new(big.Int).Set(src.n)
		k.k = src.k
	}
	if k.e == nil && src.e != nil {
		k.e = new(big.Int).Set(src.e)
	}
	k.d = new(big.Int).Set(src.d)
	k.primes = make([]*big.Int, len(src.primes))
	for i, p := range src.primes {
		k.primes[i] = new(big.Int).Set(p)
	}
	mat, err := crt.Precompute(k.primes, k.d)
	if err != nil {
		return ErrMalformedKey
	}
	k.crtMaterial = mat
	return nil
}

// setModulus sets k.n and recomputes k.k = ceil(bitlen(n)/8), the byte
// length invariant from spec.md §3(iii).
func (k *RsaKey) setModulus(n *big.Int) {
	k.n = n
	k.k = (n.BitLen() + 7) / 8
}

// GetSize returns the bit length of the modulus.
func (k *RsaKey) GetSize() int {
	if k.n == nil {
		return 0
	}
	return k.n.BitLen()
}

// IsPrivate reports whether k holds a private exponent.
func (k *RsaKey) IsPrivate() bool {
	return k.d != nil
}

// SetHash sets the hash used by OAEP's label hash and EMSA-PKCS1-v1_5's
// DigestInfo, validating against the supported set in spec.md §3.
func (k *RsaKey) SetHash(name hashalg.Name) error {
	if !hashalg.Valid(name) {
		log.WithField("hash", string(name)).Warn("rejected unsupported hash")
		return ErrUnsupportedAlgorithm
	}
	k.hash = name
	return nil
}

// SetMGFHash sets the hash used inside MGF1, independent of SetHash.
func (k *RsaKey) SetMGFHash(name hashalg.Name) error {
	if !hashalg.Valid(name) {
		return ErrUnsupportedAlgorithm
	}
	k.mgfHash = name
	k.mgfHashSet = true
	return nil
}

// SetSaltLength sets the PSS salt length. A negative value is rejected;
// when never called, the salt length defaults to hLen (spec.md §3).
func (k *RsaKey) SetSaltLength(n int) error {
	if n < 0 {
		return ErrLength
	}
	k.saltLen = n
	k.saltLenSet = true
	return nil
}

// SetEncryptionMode selects the padding scheme Encrypt/Decrypt use.
func (k *RsaKey) SetEncryptionMode(mode EncryptionMode) {
	k.encMode = mode
}

// SetSignatureMode selects the encoding scheme Sign/Verify use.
func (k *RsaKey) SetSignatureMode(mode SignatureMode) {
	k.sigMode = mode
}

// SetPassword sets the password used when loading or saving an encrypted
// PKCS#8 private key. Passing nil clears it.
func (k *RsaKey) SetPassword(password []byte) {
	if password == nil {
		k.password = nil
		return
	}
	k.password = append([]byte(nil), password...)
}

// resolvedHash returns k's configured hash name, defaulting to
// hashalg.DefaultHash when unset.
func (k *RsaKey) resolvedHash() hashalg.Name {
	if k.hash == "" {
		return hashalg.DefaultHash
	}
	return k.hash
}

func (k *RsaKey) resolvedMGFHash() hashalg.Name {
	if k.mgfHashSet {
		return k.mgfHash
	}
	return k.resolvedHash()
}

func (k *RsaKey) resolvedSaltLen(hLen int) int {
	if k.saltLenSet {
		return k.saltLen
	}
	return hLen
}
