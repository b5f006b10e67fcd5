package pkcs8

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/x509/pkix"
	"encoding/asn1"
	"hash"

	"github.com/martynask/phpseclib/blockcipher"
	"golang.org/x/crypto/pbkdf2"
)

func prfHash(oid asn1.ObjectIdentifier) func() hash.Hash {
	switch {
	case oid.Equal(OIDHMACWithSHA256):
		return sha256.New
	case oid.Equal(OIDHMACWithSHA1):
		return sha1.New
	default:
		return sha1.New // id-hmacWithSHA1 is the default per RFC 2898
	}
}

// deriveKeyPBES2 runs PBKDF2 per the parsed PBKDF2Params, using
// golang.org/x/crypto/pbkdf2.
func deriveKeyPBES2(password []byte, p PBKDF2Params, keyLen int) []byte {
	prf := prfHash(p.PRF.Algorithm)
	if p.PRF.Algorithm == nil {
		prf = sha1.New
	}
	return pbkdf2.Key(password, p.Salt, p.IterationCount, keyLen, prf)
}

// buildPBES2Cipher constructs the CBC cipher a PBES2 encryptionScheme
// AlgorithmIdentifier names, per spec.md §4.10's dispatch table. params
// is the DER encoding of the AlgorithmIdentifier's parameters field
// (an OCTET STRING IV for des-CBC/des-EDE3-CBC/AES, an RC2CBCParameter
// SEQUENCE for rc2CBC), not the bare IV bytes.
func buildPBES2Cipher(oid asn1.ObjectIdentifier, params []byte, key, defaultIV []byte) (*blockcipher.CBC, error) {
	switch {
	case oid.Equal(OIDDESCBC):
		iv, err := unmarshalIVParam(params, defaultIV)
		if err != nil {
			return nil, err
		}
		return blockcipher.NewDES(key, iv)
	case oid.Equal(OIDDESEDE3CBC):
		iv, err := unmarshalIVParam(params, defaultIV)
		if err != nil {
			return nil, err
		}
		return blockcipher.NewDES3(key, iv)
	case oid.Equal(OIDRC2CBC):
		effBits := 128
		iv := defaultIV
		var rc2p RC2CBCParameter
		if len(params) > 0 {
			if _, err := asn1.Unmarshal(params, &rc2p); err == nil {
				effBits = RC2EffectiveKeyBits(rc2p.RC2ParameterVersion)
				iv = rc2p.IV
			}
		}
		return blockcipher.NewRC2(key, iv, effBits)
	case oid.Equal(OIDAES128CBC), oid.Equal(OIDAES192CBC), oid.Equal(OIDAES256CBC):
		iv, err := unmarshalIVParam(params, defaultIV)
		if err != nil {
			return nil, err
		}
		return blockcipher.NewAES(key, iv)
	case oid.Equal(OIDRC5CBCPAD), oid.Equal(OIDPBMAC1):
		return nil, ErrUnsupportedAlgorithm
	default:
		log.WithField("oid", oid.String()).Debug("pkcs8: unrecognized PBES2 encryption scheme")
		return nil, ErrUnsupportedAlgorithm
	}
}

// unmarshalIVParam decodes a DER OCTET STRING IV from an
// AlgorithmIdentifier's parameters field, falling back to defaultIV
// when params is empty (the write side passes the IV straight through
// without DER-wrapping it first).
func unmarshalIVParam(params, defaultIV []byte) ([]byte, error) {
	if len(params) == 0 {
		return defaultIV, nil
	}
	var iv []byte
	if _, err := asn1.Unmarshal(params, &iv); err != nil {
		return nil, ErrUnsupportedAlgorithm
	}
	return iv, nil
}

func pbes2KeyLength(oid asn1.ObjectIdentifier, params []byte) int {
	switch {
	case oid.Equal(OIDDESCBC):
		return 8
	case oid.Equal(OIDDESEDE3CBC):
		return 24
	case oid.Equal(OIDRC2CBC):
		var rc2p RC2CBCParameter
		if len(params) > 0 {
			if _, err := asn1.Unmarshal(params, &rc2p); err == nil {
				return 16
			}
		}
		return 16
	case oid.Equal(OIDAES128CBC):
		return 16
	case oid.Equal(OIDAES192CBC):
		return 24
	case oid.Equal(OIDAES256CBC):
		return 32
	default:
		return 0
	}
}

// decryptPBES2 implements spec.md §4.10 step 2's PBES2 branch end to
// end: parse PBES2-params, derive the key via PBKDF2, build the named
// cipher, and decrypt.
func decryptPBES2(params []byte, password, ciphertext []byte) ([]byte, error) {
	var p PBES2Params
	if _, err := asn1.Unmarshal(params, &p); err != nil {
		return nil, ErrUnsupportedAlgorithm
	}
	if !p.KeyDerivationFunc.Algorithm.Equal(OIDPBKDF2) {
		log.Debug("pkcs8: PBES2 key derivation function is not PBKDF2")
		return nil, ErrUnsupportedAlgorithm
	}

	var kdfParams PBKDF2Params
	if _, err := asn1.Unmarshal(p.KeyDerivationFunc.Parameters.FullBytes, &kdfParams); err != nil {
		return nil, ErrUnsupportedAlgorithm
	}

	encOID := p.EncryptionScheme.Algorithm
	encParams := p.EncryptionScheme.Parameters.FullBytes

	keyLen := kdfParams.KeyLength
	if keyLen == 0 {
		keyLen = pbes2KeyLength(encOID, encParams)
	}
	key := deriveKeyPBES2(password, kdfParams, keyLen)

	cbc, err := buildPBES2Cipher(encOID, encParams, key, nil)
	if err != nil {
		return nil, err
	}
	return cbc.Decrypt(ciphertext)
}

// algorithmIdentifierWithIV builds the encryptionScheme
// AlgorithmIdentifier for Wrap's output. des-CBC/des-EDE3-CBC/AES take a
// bare IV OCTET STRING; RC2 needs the RC2CBCParameter SEQUENCE so a
// reader can recover the effective key length.
func algorithmIdentifierWithIV(oid asn1.ObjectIdentifier, iv []byte) (pkix.AlgorithmIdentifier, error) {
	var raw []byte
	var err error
	if oid.Equal(OIDRC2CBC) {
		raw, err = asn1.Marshal(RC2CBCParameter{RC2ParameterVersion: 58, IV: iv})
	} else {
		raw, err = asn1.Marshal(iv)
	}
	if err != nil {
		return pkix.AlgorithmIdentifier{}, err
	}
	return pkix.AlgorithmIdentifier{
		Algorithm:  oid,
		Parameters: asn1.RawValue{FullBytes: raw},
	}, nil
}
