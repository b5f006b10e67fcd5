package pkcs8

import (
	"crypto/rand"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/pem"

	"github.com/martynask/phpseclib/blockcipher"
	"github.com/samber/oops"
)

// PrivateKeyInfo is RFC 5208's unencrypted private key container.
type PrivateKeyInfo struct {
	Version             int
	PrivateKeyAlgorithm pkix.AlgorithmIdentifier
	PrivateKey          []byte
}

// PublicKeyInfo is X.509's SubjectPublicKeyInfo, reused by PKCS#8 for
// public keys per spec.md §4.9.
type PublicKeyInfo struct {
	Algorithm pkix.AlgorithmIdentifier
	PublicKey asn1.BitString
}

// EncryptedPrivateKeyInfo is RFC 5208's password-protected container.
type EncryptedPrivateKeyInfo struct {
	EncryptionAlgorithm pkix.AlgorithmIdentifier
	EncryptedData       []byte
}

// EnvelopeConfig carries the write-side defaults spec.md §4.10 names
// (defaultEncryptionAlgorithm/Scheme/PRF/IterationCount). It is passed
// explicitly to Wrap rather than held in package globals, per the
// "module-level defaults" design note.
type EnvelopeConfig struct {
	EncryptionScheme asn1.ObjectIdentifier // default: aes128-CBC-PAD
	PRF              asn1.ObjectIdentifier // default: id-hmacWithSHA256
	IterationCount   int                   // default: 2048
	SaltLength       int                   // default: 8
}

// DefaultEnvelopeConfig matches spec.md §4.10's write-side defaults.
func DefaultEnvelopeConfig() EnvelopeConfig {
	return EnvelopeConfig{
		EncryptionScheme: OIDAES128CBC,
		PRF:              OIDHMACWithSHA256,
		IterationCount:   2048,
		SaltLength:       8,
	}
}

// Parse implements spec.md §4.10's parse side: strip PEM armor if
// present, then either decrypt an EncryptedPrivateKeyInfo with
// password, or map directly as PrivateKeyInfo/PublicKeyInfo.
func Parse(der []byte, password []byte) (isPublic bool, privateKeyInfo *PrivateKeyInfo, publicKeyInfo *PublicKeyInfo, err error) {
	der = stripPEM(der)

	if len(password) > 0 {
		var enc EncryptedPrivateKeyInfo
		if _, err := asn1.Unmarshal(der, &enc); err == nil {
			plaintext, derr := decryptEnvelope(enc.EncryptionAlgorithm, password, enc.EncryptedData)
			if derr != nil {
				return false, nil, nil, derr
			}
			var pki PrivateKeyInfo
			if _, err := asn1.Unmarshal(plaintext, &pki); err != nil {
				return false, nil, nil, oops.Errorf("pkcs8: decrypted payload is not a valid PrivateKeyInfo: %w", err)
			}
			return false, &pki, nil, nil
		}
	}

	var pki PrivateKeyInfo
	if _, err := asn1.Unmarshal(der, &pki); err == nil {
		return false, &pki, nil, nil
	}

	var pub PublicKeyInfo
	if _, err := asn1.Unmarshal(der, &pub); err != nil {
		return false, nil, nil, oops.Errorf("pkcs8: input is neither PrivateKeyInfo nor PublicKeyInfo: %w", err)
	}
	if pub.PublicKey.BitLength%8 != 0 {
		// The subjectPublicKey BIT STRING wraps a whole DER encoding, so
		// its unused-bits count must be zero; anything else means the
		// bit string's leading pad byte was non-zero.
		return false, nil, nil, ErrMalformedPublicKeyPadding
	}
	return true, nil, &pub, nil
}

// ErrMalformedPublicKeyPadding is returned when a PublicKeyInfo's
// leading bit-string pad byte is not zero, per spec.md §4.10 step 3.
var ErrMalformedPublicKeyPadding = oops.Errorf("pkcs8: public key bit string has non-zero padding")

func decryptEnvelope(alg pkix.AlgorithmIdentifier, password, ciphertext []byte) ([]byte, error) {
	if alg.Algorithm.Equal(OIDPBES2) {
		return decryptPBES2(alg.Parameters.FullBytes, password, ciphertext)
	}

	var pbeParams PBEParameter
	if _, err := asn1.Unmarshal(alg.Parameters.FullBytes, &pbeParams); err != nil {
		return nil, ErrUnsupportedAlgorithm
	}
	return decryptPBES1(alg.Algorithm, password, pbeParams.Salt, pbeParams.IterationCount, ciphertext)
}

// Wrap implements spec.md §4.10's write side: encrypt a PrivateKeyInfo
// payload under cfg's defaults (or an explicit config) and return the
// DER-encoded EncryptedPrivateKeyInfo.
func Wrap(privateKeyDER []byte, password []byte, cfg EnvelopeConfig, randSalt, randIV []byte) ([]byte, error) {
	keyLen := pbes2KeyLength(cfg.EncryptionScheme, nil)
	if keyLen == 0 {
		return nil, ErrUnsupportedAlgorithm
	}

	kdfParams := PBKDF2Params{
		Salt:           randSalt,
		IterationCount: cfg.IterationCount,
		KeyLength:      keyLen,
		PRF:            pkix.AlgorithmIdentifier{Algorithm: cfg.PRF},
	}
	key := deriveKeyPBES2(password, kdfParams, keyLen)

	cbc, err := buildPBES2Cipher(cfg.EncryptionScheme, nil, key, randIV)
	if err != nil {
		return nil, err
	}
	ciphertext, err := cbc.Encrypt(privateKeyDER)
	if err != nil {
		return nil, err
	}

	kdfParamsRaw, err := asn1.Marshal(kdfParams)
	if err != nil {
		return nil, err
	}
	encSchemeAlg, err := algorithmIdentifierWithIV(cfg.EncryptionScheme, randIV)
	if err != nil {
		return nil, err
	}

	pbes2Params := PBES2Params{
		KeyDerivationFunc: pkix.AlgorithmIdentifier{
			Algorithm:  OIDPBKDF2,
			Parameters: asn1.RawValue{FullBytes: kdfParamsRaw},
		},
		EncryptionScheme: encSchemeAlg,
	}
	pbes2ParamsRaw, err := asn1.Marshal(pbes2Params)
	if err != nil {
		return nil, err
	}

	enc := EncryptedPrivateKeyInfo{
		EncryptionAlgorithm: pkix.AlgorithmIdentifier{
			Algorithm:  OIDPBES2,
			Parameters: asn1.RawValue{FullBytes: pbes2ParamsRaw},
		},
		EncryptedData: ciphertext,
	}
	return asn1.Marshal(enc)
}

// RandomSaltAndIV produces the write side's random salt (8 bytes per
// spec.md §4.10) and a cipher-block-length IV.
func RandomSaltAndIV(ivLen int) (salt, iv []byte, err error) {
	salt = make([]byte, 8)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, err
	}
	iv, err = blockcipher.RandomIV(ivLen)
	if err != nil {
		return nil, nil, err
	}
	return salt, iv, nil
}

func stripPEM(data []byte) []byte {
	block, _ := pem.Decode(data)
	if block == nil {
		return data
	}
	return block.Bytes
}
