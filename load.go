package rsa

import (
	"math/big"

	"github.com/martynask/phpseclib/crt"
	"github.com/martynask/phpseclib/keyformats"
	"github.com/samber/oops"
)

// Load implements spec.md §4.9's load operation: try formatName (or,
// if empty, every registered format in order) against data, and adopt
// whichever component set succeeds as k's role and material.
func (k *RsaKey) Load(data []byte, formatName string) error {
	components, _, ok := loadComponents(data, k.password, formatName)
	if !ok {
		log.Debug("rsa: no format could parse key material")
		return ErrMalformedKey
	}
	return k.adopt(components)
}

func loadComponents(data []byte, password []byte, formatName string) (*keyformats.Components, keyformats.Format, bool) {
	if formatName == "" {
		return keyformats.Load(data, password)
	}
	f := keyformats.ByName(formatName)
	if f == nil {
		return nil, nil, false
	}
	c, ok := f.Load(data, password)
	return c, f, ok
}

// adopt copies a Components result into k per spec.md §4.9's returned
// shape, precomputing CRT material when private components are present.
func (k *RsaKey) adopt(c *keyformats.Components) error {
	if c.Modulus == nil || c.PublicExponent == nil {
		return ErrMalformedKey
	}
	k.setModulus(new(big.Int).Set(c.Modulus))
	k.e = new(big.Int).Set(c.PublicExponent)

	if c.IsPublicKey || c.PrivateExponent == nil {
		k.d = nil
		k.primes = nil
		k.crtMaterial = nil
		return nil
	}

	k.d = new(big.Int).Set(c.PrivateExponent)
	k.primes = make([]*big.Int, len(c.Primes))
	for i, p := range c.Primes {
		k.primes[i] = new(big.Int).Set(p)
	}
	if len(k.primes) < 2 {
		return ErrMalformedKey
	}
	mat, err := crt.Precompute(k.primes, k.d)
	if err != nil {
		log.WithError(err).Debug("rsa: CRT precompute failed while loading private key")
		return ErrMalformedKey
	}
	k.crtMaterial = mat
	return nil
}

// toComponents exports k's material into keyformats.Components for
// GetPublicKey/GetPrivateKey's save path.
func (k *RsaKey) toComponents() *keyformats.Components {
	c := &keyformats.Components{
		IsPublicKey:    !k.IsPrivate(),
		Modulus:        k.n,
		PublicExponent: k.e,
	}
	if !k.IsPrivate() {
		return c
	}
	c.IsPublicKey = false
	c.PrivateExponent = k.d
	c.Primes = k.primes
	if k.crtMaterial != nil {
		c.Exponents = append([]*big.Int{k.crtMaterial.Dp, k.crtMaterial.Dq}, expsFromCRTValues(k.crtMaterial.CRTValues)...)
		// PKCS#1 reserves CRTValues for the third-and-later-prime
		// historical case; the first coefficient (qInv mod p) is carried
		// on Material directly.
		c.Coefficients = append([]*big.Int{k.crtMaterial.Qinv}, coeffsFromCRTValues(k.crtMaterial.CRTValues)...)
	}
	return c
}

func coeffsFromCRTValues(values []crt.CRTValue) []*big.Int {
	out := make([]*big.Int, len(values))
	for i, v := range values {
		out[i] = v.Coeff
	}
	return out
}

func expsFromCRTValues(values []crt.CRTValue) []*big.Int {
	out := make([]*big.Int, len(values))
	for i, v := range values {
		out[i] = v.Exp
	}
	return out
}

// GetPublicKey serializes k's public components in the named format
// ("pkcs1", "pkcs8", or "xml"), per spec.md §4.9/§6. "raw" has no byte
// encoding and returns keyformats.ErrRawHasNoSerialization.
func (k *RsaKey) GetPublicKey(formatName string) ([]byte, error) {
	f := keyformats.ByName(formatName)
	if f == nil {
		return nil, oops.Errorf("rsa: %w: %w", ErrUnsupportedAlgorithm, keyformats.ErrUnsupportedFormat)
	}
	return f.SavePublicKey(k.toComponents())
}

// GetPrivateKey serializes k's private components in the named format,
// encrypting under k's configured password when one has been set via
// SetPassword (only meaningful for "pkcs8").
func (k *RsaKey) GetPrivateKey(formatName string) ([]byte, error) {
	if !k.IsPrivate() {
		return nil, ErrMalformedKey
	}
	f := keyformats.ByName(formatName)
	if f == nil {
		return nil, oops.Errorf("rsa: %w: %w", ErrUnsupportedAlgorithm, keyformats.ErrUnsupportedFormat)
	}
	return f.SavePrivateKey(k.toComponents(), k.password)
}
