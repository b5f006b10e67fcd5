package pkcs8

import (
	"encoding/asn1"

	"github.com/go-i2p/logger"
	"github.com/martynask/phpseclib/blockcipher"
	"github.com/martynask/phpseclib/hashalg"
)

var log = logger.GetGoI2PLogger()

// pbes1Scheme pairs the hash and cipher that a PBES1 OID names, per
// RFC 2898 Appendix A.3.
type pbes1Scheme struct {
	hash     hashalg.Name
	cipher   string // "des" or "rc2"
	pkcs12   bool   // true for the pbeWithSHAAnd* family (Annex B KDF)
	rc2EffBits int
}

var pbes1Table = map[string]pbes1Scheme{
	OIDPbeWithMD2AndDESCBC.String():  {hash: hashalg.MD2, cipher: "des"},
	OIDPbeWithMD2AndRC2CBC.String():  {hash: hashalg.MD2, cipher: "rc2", rc2EffBits: 64},
	OIDPbeWithMD5AndDESCBC.String():  {hash: hashalg.MD5, cipher: "des"},
	OIDPbeWithMD5AndRC2CBC.String():  {hash: hashalg.MD5, cipher: "rc2", rc2EffBits: 64},
	OIDPbeWithSHA1AndDESCBC.String(): {hash: hashalg.SHA1, cipher: "des"},
	OIDPbeWithSHA1AndRC2CBC.String(): {hash: hashalg.SHA1, cipher: "rc2", rc2EffBits: 64},

	OIDPbeWithSHA1And3DES.String(): {hash: hashalg.SHA1, cipher: "des3", pkcs12: true},
	OIDPbeWithSHA1AndRC2.String():  {hash: hashalg.SHA1, cipher: "rc2", pkcs12: true, rc2EffBits: 128},
	OIDPbeWithSHA1AndRC4.String():  {hash: hashalg.SHA1, cipher: "rc4", pkcs12: true},
}

// pbkdf1 implements RFC 2898's PBKDF1: DK = Hash^c(P || S), truncated to
// dkLen bytes, valid only while dkLen does not exceed the hash's output
// size.
func pbkdf1(hashName hashalg.Name, password, salt []byte, iterations, dkLen int) ([]byte, error) {
	h, ok := hashalg.New(hashName)
	if !ok {
		return nil, ErrUnsupportedAlgorithm
	}
	if dkLen > h.Size() {
		return nil, ErrUnsupportedAlgorithm
	}
	h.Write(password)
	h.Write(salt)
	t := h.Sum(nil)
	for i := 1; i < iterations; i++ {
		h.Reset()
		h.Write(t)
		t = h.Sum(nil)
	}
	return t[:dkLen], nil
}

// pkcs12KDF implements the PKCS#12 Appendix B key-derivation function:
// password and salt are each tiled to a multiple of the hash's block
// size, hashed iteratively, and the hash chain is extended by
// big-integer addition of the tiled salt+password until enough
// material has been produced. id selects the purpose byte (1 = key
// material, 2 = IV, 3 = MAC key).
func pkcs12KDF(hashName hashalg.Name, password, salt []byte, iterations, id, n int) ([]byte, error) {
	h, ok := hashalg.New(hashName)
	if !ok {
		return nil, ErrUnsupportedAlgorithm
	}
	v := 64 // block size for MD5/SHA1-family hashes used here

	bmpPassword := toBMPString(password)

	diversifier := make([]byte, v)
	for i := range diversifier {
		diversifier[i] = byte(id)
	}

	saltBlock := fillToBlock(salt, v)
	passBlock := fillToBlock(bmpPassword, v)

	result := make([]byte, 0, n+h.Size())
	for len(result) < n {
		h.Reset()
		h.Write(diversifier)
		h.Write(saltBlock)
		h.Write(passBlock)
		a := h.Sum(nil)
		for i := 1; i < iterations; i++ {
			h.Reset()
			h.Write(a)
			a = h.Sum(nil)
		}
		result = append(result, a...)

		// B = a tiled to block size v, then each v-byte block of
		// saltBlock and passBlock += (B+1), mod 2^(8v), per Annex B.3.
		b := fillToBlock(a, v)
		addOne(b)
		for j := 0; j < len(saltBlock); j += v {
			addBlocks(saltBlock[j:j+v], b)
		}
		for j := 0; j < len(passBlock); j += v {
			addBlocks(passBlock[j:j+v], b)
		}
	}
	return result[:n], nil
}

func fillToBlock(src []byte, blockSize int) []byte {
	if len(src) == 0 {
		return make([]byte, blockSize)
	}
	out := make([]byte, ((len(src)+blockSize-1)/blockSize)*blockSize)
	for i := range out {
		out[i] = src[i%len(src)]
	}
	return out
}

// addOne adds 1 to the big-endian byte string b in place, modulo 2^(8*len(b)).
func addOne(b []byte) {
	for i := len(b) - 1; i >= 0; i-- {
		b[i]++
		if b[i] != 0 {
			return
		}
	}
}

// addBlocks adds src into dst in place (big-endian, mod 2^(8*len(dst))),
// per PKCS#12 Annex B.3's Ij = (Ij + B + 1) treatment.
func addBlocks(dst, src []byte) {
	carry := 0
	for i := len(dst) - 1; i >= 0; i-- {
		sum := int(dst[i]) + int(src[i]) + carry
		dst[i] = byte(sum)
		carry = sum >> 8
	}
}

// toBMPString encodes an ASCII/UTF-8 password as UTF-16BE (BMPString)
// with a trailing null terminator, per PKCS#12 Annex B.1. Inputs
// outside the basic multilingual plane are not supported by this
// envelope.
func toBMPString(password []byte) []byte {
	out := make([]byte, 0, len(password)*2+2)
	for _, r := range string(password) {
		out = append(out, byte(r>>8), byte(r))
	}
	out = append(out, 0, 0)
	return out
}

// decryptPBES1 derives the key (and IV, where the cipher needs one
// separate from the key material) for a PBES1 OID and decrypts
// ciphertext, per spec.md §4.10 step 2's PBES1 branch.
func decryptPBES1(oid asn1.ObjectIdentifier, password, salt []byte, iterations int, ciphertext []byte) ([]byte, error) {
	scheme, ok := pbes1Table[oid.String()]
	if !ok {
		log.WithField("oid", oid.String()).Debug("pkcs8: unrecognized PBES1 algorithm")
		return nil, ErrUnsupportedAlgorithm
	}

	if scheme.pkcs12 {
		return decryptPBES1PKCS12(scheme, password, salt, iterations, ciphertext)
	}

	keyLen := 8
	dk, err := pbkdf1(scheme.hash, password, salt, iterations, 16)
	if err != nil {
		return nil, err
	}
	key, iv := dk[:keyLen], dk[keyLen:16]

	switch scheme.cipher {
	case "des":
		c, err := blockcipher.NewDES(key, iv)
		if err != nil {
			return nil, err
		}
		return c.Decrypt(ciphertext)
	case "rc2":
		c, err := blockcipher.NewRC2(key, iv, scheme.rc2EffBits)
		if err != nil {
			return nil, err
		}
		return c.Decrypt(ciphertext)
	default:
		return nil, ErrUnsupportedAlgorithm
	}
}

func decryptPBES1PKCS12(scheme pbes1Scheme, password, salt []byte, iterations int, ciphertext []byte) ([]byte, error) {
	var keyLen int
	switch scheme.cipher {
	case "des3":
		keyLen = 24
	case "rc2":
		keyLen = 16 // 128-bit RC2: pkcs-12PbeIds arc 5 is pbeWithSHAAnd128BitRC2-CBC
	case "rc4":
		keyLen = 16
	default:
		return nil, ErrUnsupportedAlgorithm
	}

	key, err := pkcs12KDF(scheme.hash, password, salt, iterations, 1, keyLen)
	if err != nil {
		return nil, err
	}

	switch scheme.cipher {
	case "rc4":
		c, err := blockcipher.NewRC4(key)
		if err != nil {
			return nil, err
		}
		return c.Decrypt(ciphertext)
	case "des3":
		iv, err := pkcs12KDF(scheme.hash, password, salt, iterations, 2, 8)
		if err != nil {
			return nil, err
		}
		c, err := blockcipher.NewDES3(key, iv)
		if err != nil {
			return nil, err
		}
		return c.Decrypt(ciphertext)
	case "rc2":
		iv, err := pkcs12KDF(scheme.hash, password, salt, iterations, 2, 8)
		if err != nil {
			return nil, err
		}
		c, err := blockcipher.NewRC2(key, iv, scheme.rc2EffBits)
		if err != nil {
			return nil, err
		}
		return c.Decrypt(ciphertext)
	default:
		return nil, ErrUnsupportedAlgorithm
	}
}

// encryptPBES1 is the write-side counterpart, used only by callers that
// explicitly request a legacy PBES1 envelope rather than the PBES2
// default.
func encryptPBES1(oid asn1.ObjectIdentifier, password, salt []byte, iterations int, plaintext []byte) ([]byte, error) {
	scheme, ok := pbes1Table[oid.String()]
	if !ok {
		return nil, ErrUnsupportedAlgorithm
	}
	if scheme.pkcs12 {
		return encryptPBES1PKCS12(scheme, password, salt, iterations, plaintext)
	}

	dk, err := pbkdf1(scheme.hash, password, salt, iterations, 16)
	if err != nil {
		return nil, err
	}
	key, iv := dk[:8], dk[8:16]

	switch scheme.cipher {
	case "des":
		c, err := blockcipher.NewDES(key, iv)
		if err != nil {
			return nil, err
		}
		return c.Encrypt(plaintext)
	case "rc2":
		c, err := blockcipher.NewRC2(key, iv, scheme.rc2EffBits)
		if err != nil {
			return nil, err
		}
		return c.Encrypt(plaintext)
	default:
		return nil, ErrUnsupportedAlgorithm
	}
}

func encryptPBES1PKCS12(scheme pbes1Scheme, password, salt []byte, iterations int, plaintext []byte) ([]byte, error) {
	var keyLen int
	switch scheme.cipher {
	case "des3":
		keyLen = 24
	case "rc2":
		keyLen = 16
	case "rc4":
		keyLen = 16
	default:
		return nil, ErrUnsupportedAlgorithm
	}
	key, err := pkcs12KDF(scheme.hash, password, salt, iterations, 1, keyLen)
	if err != nil {
		return nil, err
	}
	switch scheme.cipher {
	case "rc4":
		c, err := blockcipher.NewRC4(key)
		if err != nil {
			return nil, err
		}
		return c.Encrypt(plaintext)
	case "des3":
		iv, err := pkcs12KDF(scheme.hash, password, salt, iterations, 2, 8)
		if err != nil {
			return nil, err
		}
		c, err := blockcipher.NewDES3(key, iv)
		if err != nil {
			return nil, err
		}
		return c.Encrypt(plaintext)
	case "rc2":
		iv, err := pkcs12KDF(scheme.hash, password, salt, iterations, 2, 8)
		if err != nil {
			return nil, err
		}
		c, err := blockcipher.NewRC2(key, iv, scheme.rc2EffBits)
		if err != nil {
			return nil, err
		}
		return c.Encrypt(plaintext)
	default:
		return nil, ErrUnsupportedAlgorithm
	}
}
