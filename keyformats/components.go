// Package keyformats implements the polymorphic load/save formats of
// spec.md §4.9: Raw, PKCS#1, PKCS#8, and XML. Each format is a small
// Format implementation registered in order; Load tries each in turn
// and accepts the first success, the way a small ordered-registry
// dispatch would in the teacher's package-per-concern style.
package keyformats

import (
	"math/big"
	"strings"

	"github.com/go-i2p/logger"
)

var log = logger.GetGoI2PLogger()

// Components is the format-neutral view of a key's numeric material,
// matching spec.md §4.9's `{isPublicKey, modulus, publicExponent,
// [privateExponent, primes, exponents, coefficients]}` result shape.
type Components struct {
	IsPublicKey bool

	Modulus        *big.Int
	PublicExponent *big.Int

	PrivateExponent *big.Int
	Primes          []*big.Int

	// Exponents and Coefficients are CRT material: Exponents[i] = d mod
	// (Primes[i]-1); Coefficients[i] (for i >= 2) is PKCS#1's R value
	// used by the historical two-prime-special-case CRT representation.
	Exponents    []*big.Int
	Coefficients []*big.Int
}

// Format is one serialization this package knows how to load and save.
type Format interface {
	Name() string
	Load(data []byte, password []byte) (*Components, bool)
	SavePublicKey(c *Components) ([]byte, error)
	SavePrivateKey(c *Components, password []byte) ([]byte, error)
}

// registry lists formats in the order Load tries them, per spec.md
// §4.9's "tries all registered formats in order" rule. PKCS#8 is tried
// before PKCS#1 because a PKCS#8-wrapped key also happens to parse as
// several bytes of structurally-plausible garbage under a looser
// format; trying the more specific envelope first avoids that.
var registry = []Format{
	&PKCS8Format{},
	&PKCS1Format{},
	&XMLFormat{},
	&RawFormat{},
}

// ByName returns the registered format with the given case-insensitive
// name, or nil if none matches.
func ByName(name string) Format {
	for _, f := range registry {
		if strings.EqualFold(f.Name(), name) {
			return f
		}
	}
	return nil
}

// Load tries every registered format in order and returns the first
// one that succeeds, per spec.md §4.9's "load with no declared format".
func Load(data []byte, password []byte) (*Components, Format, bool) {
	for _, f := range registry {
		if c, ok := f.Load(data, password); ok {
			log.WithField("format", f.Name()).Debug("keyformats: load succeeded")
			return c, f, true
		}
	}
	log.Debug("keyformats: no registered format could parse input")
	return nil, nil, false
}
