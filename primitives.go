package rsa

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/martynask/phpseclib/consttime"
	"github.com/martynask/phpseclib/crt"
	"github.com/martynask/phpseclib/hashalg"
	"github.com/martynask/phpseclib/padding"
	"github.com/martynask/phpseclib/sig"
)

// I2OSP big-endian encodes x into exactly xLen bytes, per RFC 3447 §4.1.
// It fails if x would not fit.
func I2OSP(x *big.Int, xLen int) ([]byte, error) {
	if x.Sign() < 0 {
		return nil, ErrOutOfRange
	}
	b := x.Bytes()
	if len(b) > xLen {
		return nil, ErrLength
	}
	out := make([]byte, xLen)
	copy(out[xLen-len(b):], b)
	return out, nil
}

// OS2IP big-endian decodes b to a non-negative integer, per RFC 3447 §4.2.
func OS2IP(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// RSAEP is the RSA encryption primitive: m^e mod n.
func (k *RsaKey) RSAEP(m *big.Int) (*big.Int, error) {
	if k.n == nil || k.e == nil {
		return nil, ErrMalformedKey
	}
	if m.Sign() < 0 || m.Cmp(k.n) >= 0 {
		return nil, ErrOutOfRange
	}
	return new(big.Int).Exp(m, k.e, k.n), nil
}

// RSASP1 is the RSA signature primitive: m^d mod n, using CRT and
// blinding when available.
func (k *RsaKey) RSASP1(m *big.Int) (*big.Int, error) {
	if k.n == nil || k.d == nil {
		return nil, ErrMalformedKey
	}
	if m.Sign() < 0 || m.Cmp(k.n) >= 0 {
		return nil, ErrOutOfRange
	}
	return k.exponentiatePrivate(m)
}

// RSADP is the RSA decryption primitive: c^d mod n, using CRT and
// blinding when available.
func (k *RsaKey) RSADP(c *big.Int) (*big.Int, error) {
	if k.n == nil || k.d == nil {
		return nil, ErrMalformedKey
	}
	if c.Sign() < 0 || c.Cmp(k.n) >= 0 {
		return nil, ErrOutOfRange
	}
	return k.exponentiatePrivate(c)
}

// RSAVP1 is the RSA verification primitive: s^e mod n.
func (k *RsaKey) RSAVP1(s *big.Int) (*big.Int, error) {
	return k.RSAEP(s)
}

func (k *RsaKey) exponentiatePrivate(x *big.Int) (*big.Int, error) {
	return crt.Exponentiate(rand.Reader, x, k.n, k.d, k.e, k.crtMaterial)
}

func (k *RsaKey) hLen() int {
	n, _ := hashalg.Size(k.resolvedHash())
	return n
}

// blockSize returns the maximum plaintext chunk size for the active
// encryption mode, per spec.md §4.7 "encrypt(plaintext)".
func (k *RsaKey) blockSize() int {
	switch k.encMode {
	case EncryptionOAEP:
		return k.k - 2*k.hLen() - 2
	case EncryptionPKCS1:
		return k.k - 11
	default:
		return k.k
	}
}

// Encrypt splits plaintext into blocks sized for the active encryption
// mode and concatenates the per-block RSAEP output, per spec.md §4.7.
func (k *RsaKey) Encrypt(plaintext []byte) ([]byte, error) {
	if k.n == nil || k.e == nil {
		return nil, ErrMalformedKey
	}
	blockSize := k.blockSize()
	if blockSize <= 0 {
		return nil, ErrLength
	}

	var out []byte
	for off := 0; ; {
		end := off + blockSize
		if end > len(plaintext) {
			end = len(plaintext)
		}
		block := plaintext[off:end]

		em, err := k.encodeBlock(block)
		if err != nil {
			return nil, err
		}
		m := OS2IP(em)
		c, err := k.RSAEP(m)
		if err != nil {
			return nil, err
		}
		cBytes, err := I2OSP(c, k.k)
		if err != nil {
			return nil, err
		}
		out = append(out, cBytes...)

		off = end
		if off >= len(plaintext) {
			break
		}
	}
	return out, nil
}

func (k *RsaKey) encodeBlock(block []byte) ([]byte, error) {
	h, ok := hashalg.New(k.resolvedHash())
	if !ok {
		return nil, ErrUnsupportedAlgorithm
	}
	switch k.encMode {
	case EncryptionOAEP:
		return padding.EncodeOAEP(rand.Reader, h, k.k, block, nil)
	case EncryptionPKCS1:
		return padding.EncodePKCS1v15(rand.Reader, k.k, block, padding.BlockTypePublic)
	default:
		if len(block) > k.k {
			return nil, ErrLength
		}
		em := make([]byte, k.k)
		copy(em[k.k-len(block):], block)
		return em, nil
	}
}

// Decrypt splits ciphertext into k-byte blocks, decodes each with the
// inverse padding, and concatenates the results. Any per-block failure
// aborts the whole operation with DecryptionError, per spec.md §4.7.
// ciphertext's length must be an exact, non-zero multiple of k; Encrypt
// never produces anything else, so a caller handing back a shorter
// final block (as some implementations allow) must left-pad it to k
// with zero bytes first.
func (k *RsaKey) Decrypt(ciphertext []byte) ([]byte, error) {
	if k.n == nil || k.d == nil {
		return nil, ErrMalformedKey
	}
	if len(ciphertext) == 0 || len(ciphertext)%k.k != 0 {
		log.Debug("decrypt: ciphertext length is not a multiple of the modulus size")
		return nil, ErrDecryption
	}

	h, ok := hashalg.New(k.resolvedHash())
	if !ok {
		return nil, ErrUnsupportedAlgorithm
	}

	var out []byte
	for off := 0; off < len(ciphertext); off += k.k {
		block := ciphertext[off : off+k.k]
		c := OS2IP(block)
		m, err := k.RSADP(c)
		if err != nil {
			log.Debug("decrypt: primitive rejected ciphertext block")
			return nil, ErrDecryption
		}
		em, err := I2OSP(m, k.k)
		if err != nil {
			return nil, ErrDecryption
		}

		var plain []byte
		switch k.encMode {
		case EncryptionOAEP:
			plain, err = padding.DecodeOAEP(h, em, nil)
		case EncryptionPKCS1:
			plain, err = padding.DecodePKCS1v15(em)
		default:
			plain = em
		}
		if err != nil {
			return nil, ErrDecryption
		}
		out = append(out, plain...)
		h.Reset()
	}
	return out, nil
}

// Sign hashes the full message (no chunking) and encodes it per the
// active signature mode, per spec.md §4.7 "sign(message)".
func (k *RsaKey) Sign(message []byte) ([]byte, error) {
	if k.n == nil || k.d == nil {
		return nil, ErrMalformedKey
	}

	h, ok := hashalg.New(k.resolvedHash())
	if !ok {
		return nil, ErrUnsupportedAlgorithm
	}
	h.Write(message)
	mHash := h.Sum(nil)

	var em []byte
	var err error
	switch k.sigMode {
	case SignaturePSS:
		hLen := k.hLen()
		sLen := k.resolvedSaltLen(hLen)
		emBits := 8*k.k - 1
		salt := make([]byte, sLen)
		if _, err = io.ReadFull(rand.Reader, salt); err != nil {
			return nil, err
		}
		mgfH, ok := hashalg.New(k.resolvedMGFHash())
		if !ok {
			return nil, ErrUnsupportedAlgorithm
		}
		em, err = sig.EncodePSS(mHash, salt, emBits, h, mgfH)
	case SignaturePKCS1:
		prefix, ok := hashalg.DigestInfoPrefix(k.resolvedHash())
		if !ok {
			return nil, ErrUnsupportedAlgorithm
		}
		em, err = sig.EncodePKCS1v15(prefix, mHash, k.k)
	}
	if err != nil {
		// Both encoders fail only when the modulus is too short for the
		// digest (and salt).
		return nil, ErrLength
	}

	m := OS2IP(em)
	s, err := k.RSASP1(m)
	if err != nil {
		return nil, err
	}
	return I2OSP(s, k.k)
}

// Verify rejects a signature whose length differs from k, then runs the
// arithmetic primitive and the matching encoding check, per spec.md §4.7
// "verify(message, signature)".
func (k *RsaKey) Verify(message, signature []byte) (bool, error) {
	if k.n == nil || k.e == nil {
		return false, ErrMalformedKey
	}
	if len(signature) != k.k {
		return false, nil
	}

	s := OS2IP(signature)
	m, err := k.RSAVP1(s)
	if err != nil {
		return false, nil
	}
	em, err := I2OSP(m, k.k)
	if err != nil {
		return false, nil
	}

	h, ok := hashalg.New(k.resolvedHash())
	if !ok {
		return false, ErrUnsupportedAlgorithm
	}
	h.Write(message)
	mHash := h.Sum(nil)

	switch k.sigMode {
	case SignaturePSS:
		hLen := k.hLen()
		sLen := k.resolvedSaltLen(hLen)
		emBits := 8*k.k - 1
		mgfH, ok := hashalg.New(k.resolvedMGFHash())
		if !ok {
			return false, ErrUnsupportedAlgorithm
		}
		if err := sig.VerifyPSS(mHash, em, emBits, sLen, h, mgfH); err != nil {
			return false, nil
		}
		return true, nil
	case SignaturePKCS1:
		prefix, ok := hashalg.DigestInfoPrefix(k.resolvedHash())
		if !ok {
			return false, ErrUnsupportedAlgorithm
		}
		want, err := sig.EncodePKCS1v15(prefix, mHash, k.k)
		if err != nil {
			return false, nil
		}
		return consttime.Eq(want, em), nil
	}
	return false, ErrUnsupportedAlgorithm
}
