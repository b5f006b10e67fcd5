package keyformats

import (
	"encoding/asn1"
	"encoding/pem"
	"math/big"

	"github.com/samber/oops"
)

// PKCS1Format implements spec.md §4.9's PKCS#1 (RFC 3447 Appendix A)
// RSAPrivateKey/RSAPublicKey DER, ASN.1 struct shapes grounded on the
// pkcs1BigPrivateKey/pkcs1BigPublicKey pair from the x509big reference
// implementation, generalized to *big.Int fields throughout since this
// package never needs crypto/rsa's fixed-size internal representation.
type PKCS1Format struct{}

func (PKCS1Format) Name() string { return "pkcs1" }

type pkcs1AdditionalPrime struct {
	Prime *big.Int
	Exp   *big.Int
	Coeff *big.Int
}

type pkcs1PrivateKey struct {
	Version          int
	N                *big.Int
	E                *big.Int
	D                *big.Int
	P                *big.Int
	Q                *big.Int
	Dp               *big.Int               `asn1:"optional"`
	Dq               *big.Int               `asn1:"optional"`
	Qinv             *big.Int               `asn1:"optional"`
	AdditionalPrimes []pkcs1AdditionalPrime `asn1:"optional,omitempty"`
}

type pkcs1PublicKey struct {
	N *big.Int
	E *big.Int
}

func (PKCS1Format) Load(data []byte, password []byte) (*Components, bool) {
	der := stripPEM(data)

	var priv pkcs1PrivateKey
	if rest, err := asn1.Unmarshal(der, &priv); err == nil && len(rest) == 0 {
		if priv.N == nil || priv.E == nil || priv.D == nil || priv.P == nil || priv.Q == nil {
			return nil, false
		}
		primes := []*big.Int{priv.P, priv.Q}
		exponents := []*big.Int{priv.Dp, priv.Dq}
		var coefficients []*big.Int
		if priv.Qinv != nil {
			coefficients = append(coefficients, priv.Qinv)
		}
		for _, ap := range priv.AdditionalPrimes {
			primes = append(primes, ap.Prime)
			exponents = append(exponents, ap.Exp)
			coefficients = append(coefficients, ap.Coeff)
		}
		return &Components{
			IsPublicKey:     false,
			Modulus:         priv.N,
			PublicExponent:  priv.E,
			PrivateExponent: priv.D,
			Primes:          primes,
			Exponents:       exponents,
			Coefficients:    coefficients,
		}, true
	}

	var pub pkcs1PublicKey
	if rest, err := asn1.Unmarshal(der, &pub); err == nil && len(rest) == 0 {
		if pub.N == nil || pub.E == nil {
			return nil, false
		}
		return &Components{
			IsPublicKey:    true,
			Modulus:        pub.N,
			PublicExponent: pub.E,
		}, true
	}

	return nil, false
}

func (PKCS1Format) SavePublicKey(c *Components) ([]byte, error) {
	if c.Modulus == nil || c.PublicExponent == nil {
		return nil, ErrMalformedKey
	}
	der, err := asn1.Marshal(pkcs1PublicKey{N: c.Modulus, E: c.PublicExponent})
	if err != nil {
		return nil, oops.Errorf("keyformats: marshaling PKCS#1 public key: %w", err)
	}
	return encodePEM(&pem.Block{Type: "RSA PUBLIC KEY", Bytes: der}), nil
}

func (PKCS1Format) SavePrivateKey(c *Components, password []byte) ([]byte, error) {
	if c.PrivateExponent == nil || len(c.Primes) < 2 {
		return nil, ErrMalformedKey
	}
	priv := pkcs1PrivateKey{
		N: c.Modulus,
		E: c.PublicExponent,
		D: c.PrivateExponent,
		P: c.Primes[0],
		Q: c.Primes[1],
	}
	if len(c.Exponents) >= 2 {
		priv.Dp = c.Exponents[0]
		priv.Dq = c.Exponents[1]
	}
	if len(c.Coefficients) >= 1 {
		priv.Qinv = c.Coefficients[0]
	}
	for i := 2; i < len(c.Primes); i++ {
		ap := pkcs1AdditionalPrime{Prime: c.Primes[i]}
		if i < len(c.Exponents) {
			ap.Exp = c.Exponents[i]
		}
		if i-1 < len(c.Coefficients) {
			ap.Coeff = c.Coefficients[i-1]
		}
		priv.AdditionalPrimes = append(priv.AdditionalPrimes, ap)
	}
	if len(priv.AdditionalPrimes) > 0 {
		priv.Version = 1
	}

	der, err := asn1.Marshal(priv)
	if err != nil {
		return nil, oops.Errorf("keyformats: marshaling PKCS#1 private key: %w", err)
	}

	header := "RSA PRIVATE KEY"
	if password != nil {
		return nil, oops.Errorf("keyformats: PKCS#1 does not support password protection, use PKCS#8")
	}
	return encodePEM(&pem.Block{Type: header, Bytes: der}), nil
}

func stripPEM(data []byte) []byte {
	block, _ := pem.Decode(data)
	if block == nil {
		return data
	}
	return block.Bytes
}
