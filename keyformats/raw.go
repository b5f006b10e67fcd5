package keyformats

import "math/big"

// RawFormat implements spec.md §4.9's Raw format: a keyed mapping
// exposing only the modulus and public exponent, with no primes. It has
// no byte encoding; LoadRawKey takes the fixed-field RawKey, and mapping
// phpseclib's key-name aliases onto it is left to the caller.
type RawFormat struct{}

func (RawFormat) Name() string { return "raw" }

// RawKey is the keyed-mapping shape LoadRawKey operates on,
// since Go has no dynamically-keyed map literal equivalent to
// phpseclib's associative array; callers build one from whichever
// alias they have.
type RawKey struct {
	Modulus        *big.Int
	PublicExponent *big.Int
}

// Load never succeeds from a byte stream; Raw format construction goes
// through LoadRawKey instead, since "raw" has no serialized encoding of
// its own — it is the in-memory {e, n} pair itself.
func (RawFormat) Load(data []byte, password []byte) (*Components, bool) {
	return nil, false
}

// LoadRawKey converts a RawKey's {e, n} pair into Components, per
// spec.md §4.9's accepted key names `{e, exponent, publicExponent, 0}`
// and `{n, modulo, modulus, 1}` (name aliasing is the caller's
// responsibility when building a RawKey from an arbitrary mapping).
func LoadRawKey(raw RawKey) (*Components, bool) {
	if raw.Modulus == nil || raw.PublicExponent == nil {
		return nil, false
	}
	return &Components{
		IsPublicKey:    true,
		Modulus:        raw.Modulus,
		PublicExponent: raw.PublicExponent,
	}, true
}

func (RawFormat) SavePublicKey(c *Components) ([]byte, error) {
	return nil, ErrRawHasNoSerialization
}

func (RawFormat) SavePrivateKey(c *Components, password []byte) ([]byte, error) {
	return nil, ErrRawHasNoSerialization
}
