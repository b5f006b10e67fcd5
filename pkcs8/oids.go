// Package pkcs8 implements the EncryptedPrivateKeyInfo / PrivateKeyInfo /
// PublicKeyInfo envelope of spec.md §4.10: PBES1 and PBES2 parameter
// parsing, cipher+KDF selection from an AlgorithmIdentifier, and the
// write side's default-parameter wrapping. ASN.1 struct shapes follow
// the style of crypto/x509/pkix.AlgorithmIdentifier as used throughout
// the grounding pack (mdean75-cms-lib's pkix.go).
package pkcs8

import (
	"crypto/x509/pkix"
	"encoding/asn1"

	"github.com/samber/oops"
)

var (
	// ErrUnsupportedAlgorithm covers rc5-CBC-PAD, id-PBMAC1, and any OID
	// this envelope does not recognize.
	ErrUnsupportedAlgorithm = oops.Errorf("pkcs8: unsupported encryption or KDF algorithm")
)

// OID roots used throughout PKCS#5/#8/#12.
var (
	oidPKCS5  = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 5}
	oidPKCS12 = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 12, 1}
)

func pkcs5OID(arc int) asn1.ObjectIdentifier {
	return append(append(asn1.ObjectIdentifier{}, oidPKCS5...), arc)
}

func pkcs12OID(arc int) asn1.ObjectIdentifier {
	return append(append(asn1.ObjectIdentifier{}, oidPKCS12...), arc)
}

// PBES1 algorithm OIDs, RFC 2898 Appendix A.3 plus the PKCS#12
// pbeWithSHAAnd* family used by legacy tooling this envelope must still
// read.
var (
	OIDPbeWithMD2AndDESCBC  = pkcs5OID(1)
	OIDPbeWithMD2AndRC2CBC  = pkcs5OID(4)
	OIDPbeWithMD5AndDESCBC  = pkcs5OID(3)
	OIDPbeWithMD5AndRC2CBC  = pkcs5OID(6)
	OIDPbeWithSHA1AndDESCBC = pkcs5OID(10)
	OIDPbeWithSHA1AndRC2CBC = pkcs5OID(11)

	OIDPbeWithSHA1And3DES = pkcs12OID(3)
	OIDPbeWithSHA1AndRC2  = pkcs12OID(5)
	OIDPbeWithSHA1AndRC4  = pkcs12OID(1)
)

// PBES2 top-level and component OIDs, RFC 2898 Appendix A.4.
var (
	OIDPBES2  = pkcs5OID(13)
	OIDPBKDF2 = pkcs5OID(12)

	OIDHMACWithSHA1   = asn1.ObjectIdentifier{1, 2, 840, 113549, 2, 7}
	OIDHMACWithSHA256 = asn1.ObjectIdentifier{1, 2, 840, 113549, 2, 9}

	OIDDESCBC    = asn1.ObjectIdentifier{1, 3, 14, 3, 2, 7}
	OIDDESEDE3CBC = asn1.ObjectIdentifier{1, 2, 840, 113549, 3, 7}
	OIDRC2CBC    = asn1.ObjectIdentifier{1, 2, 840, 113549, 3, 2}
	OIDRC5CBCPAD = asn1.ObjectIdentifier{1, 2, 840, 113549, 3, 9}
	OIDAES128CBC = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 1, 2}
	OIDAES192CBC = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 1, 22}
	OIDAES256CBC = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 1, 42}

	OIDPBMAC1 = pkcs5OID(14)
)

// PBEParameter is RFC 2898's PBES1 parameter structure.
type PBEParameter struct {
	Salt           []byte
	IterationCount int
}

// PBES2Params is RFC 2898's PBES2-params structure.
type PBES2Params struct {
	KeyDerivationFunc pkix.AlgorithmIdentifier
	EncryptionScheme  pkix.AlgorithmIdentifier
}

// PBKDF2Params is RFC 2898's PBKDF2-params structure. KeyLength and PRF
// are both optional; a nil PRF OID means id-hmacWithSHA1.
type PBKDF2Params struct {
	Salt           []byte
	IterationCount int
	KeyLength      int                      `asn1:"optional"`
	PRF            pkix.AlgorithmIdentifier `asn1:"optional"`
}

// RC2CBCParameter is RFC 2898's RC2-CBC parameter structure used both
// standalone (PBES1) and nested in PBES2's encryptionScheme parameters.
type RC2CBCParameter struct {
	RC2ParameterVersion int `asn1:"optional"`
	IV                  []byte
}

// RC2EffectiveKeyBits maps an RC2CBCParameter version number to its
// documented effective key length in bits, per spec.md §4.10.
func RC2EffectiveKeyBits(version int) int {
	switch version {
	case 160:
		return 40
	case 120:
		return 64
	case 58:
		return 128
	default:
		return 256
	}
}
