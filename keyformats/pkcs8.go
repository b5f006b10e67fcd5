package keyformats

import (
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/pem"
	"math/big"

	"github.com/martynask/phpseclib/pkcs8"
	"github.com/samber/oops"
)

// oidRSAEncryption is RFC 3447's rsaEncryption algorithm identifier,
// used as PrivateKeyInfo/PublicKeyInfo's AlgorithmIdentifier.
var oidRSAEncryption = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 1}

// PKCS8Format implements spec.md §4.9's PKCS#8 format: DER wrapped
// inside EncryptedPrivateKeyInfo | PrivateKeyInfo | PublicKeyInfo, with
// the PKCS#1 RSAPrivateKey/RSAPublicKey DER as the nested payload.
// Parsing and the PBES1/PBES2 envelope logic itself live in the pkcs8
// package; this file only adapts Components <-> that package's types.
type PKCS8Format struct {
	// Config controls the write-side envelope parameters when a
	// password is supplied; the zero value falls back to
	// pkcs8.DefaultEnvelopeConfig().
	Config *pkcs8.EnvelopeConfig
}

func (PKCS8Format) Name() string { return "pkcs8" }

func (f PKCS8Format) Load(data []byte, password []byte) (*Components, bool) {
	isPublic, privInfo, pubInfo, err := pkcs8.Parse(data, password)
	if err != nil {
		return nil, false
	}

	var inner PKCS1Format
	if isPublic {
		c, ok := inner.Load(pubInfo.PublicKey.RightAlign(), nil)
		if !ok {
			return nil, false
		}
		return c, true
	}

	c, ok := inner.Load(privInfo.PrivateKey, nil)
	if !ok {
		return nil, false
	}
	return c, true
}

func (f PKCS8Format) SavePublicKey(c *Components) ([]byte, error) {
	if c.Modulus == nil || c.PublicExponent == nil {
		return nil, ErrMalformedKey
	}
	inner, err := asn1.Marshal(struct {
		N *big.Int
		E *big.Int
	}{c.Modulus, c.PublicExponent})
	if err != nil {
		return nil, err
	}

	pub := pkcs8.PublicKeyInfo{
		Algorithm: pkix.AlgorithmIdentifier{Algorithm: oidRSAEncryption},
		PublicKey: asn1.BitString{Bytes: inner, BitLength: len(inner) * 8},
	}
	der, err := asn1.Marshal(pub)
	if err != nil {
		return nil, oops.Errorf("keyformats: marshaling PKCS#8 public key: %w", err)
	}
	return encodePEM(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}

func (f PKCS8Format) SavePrivateKey(c *Components, password []byte) ([]byte, error) {
	var inner PKCS1Format
	innerDER, err := inner.SavePrivateKey(c, nil)
	if err != nil {
		return nil, err
	}
	innerBlock, _ := pem.Decode(innerDER)
	privDER := innerBlock.Bytes

	pki := pkcs8.PrivateKeyInfo{
		PrivateKeyAlgorithm: pkix.AlgorithmIdentifier{Algorithm: oidRSAEncryption},
		PrivateKey:          privDER,
	}
	pkiDER, err := asn1.Marshal(pki)
	if err != nil {
		return nil, oops.Errorf("keyformats: marshaling PrivateKeyInfo: %w", err)
	}

	if len(password) == 0 {
		return encodePEM(&pem.Block{Type: "PRIVATE KEY", Bytes: pkiDER}), nil
	}

	cfg := pkcs8.DefaultEnvelopeConfig()
	if f.Config != nil {
		cfg = *f.Config
	}
	salt, iv, err := pkcs8.RandomSaltAndIV(16)
	if err != nil {
		return nil, err
	}
	wrapped, err := pkcs8.Wrap(pkiDER, password, cfg, salt, iv)
	if err != nil {
		return nil, err
	}
	return encodePEM(&pem.Block{Type: "ENCRYPTED PRIVATE KEY", Bytes: wrapped}), nil
}
