// Package crt implements RSA decryption/signing exponentiation, with
// Chinese-Remainder-Theorem acceleration and multiplicative blinding
// against timing side-channels. Grounded on the blinding-and-CRT
// decrypt() routine in monnand-rsa/utils.go (itself ported from Go's
// crypto/rsa), generalized from the fixed two-prime case to Garner's
// algorithm over u >= 2 primes per spec.md §4.6.
package crt

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/go-i2p/logger"
	"github.com/samber/oops"
)

var log = logger.GetGoI2PLogger()

var ErrNoPrimes = oops.Errorf("crt: at least two primes are required")

var (
	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
)

// CRTValue holds Garner's-algorithm precomputation for the third and
// later primes, mirroring sourcekris-x509big's CRTValue / standard
// library rsa.CRTValue.
type CRTValue struct {
	Exp   *big.Int // d mod (prime-1)
	Coeff *big.Int // R * Coeff === 1 mod prime
	R     *big.Int // product of primes prior to this one
}

// Material is the CRT precomputation for a private key: per-prime
// exponents d_i = d mod (p_i - 1), the first coefficient
// Qinv = q^-1 mod p, and CRTValues for primes 3..u.
type Material struct {
	Primes    []*big.Int
	Dp, Dq    *big.Int // d mod (p-1), d mod (q-1)
	Qinv      *big.Int // q^-1 mod p
	CRTValues []CRTValue
}

// Precompute derives Material from the modulus's prime factorization and
// private exponent, mirroring BigPrivateKey.precompute in
// sourcekris-x509big__x509big.go.
func Precompute(primes []*big.Int, d *big.Int) (*Material, error) {
	if len(primes) < 2 {
		return nil, ErrNoPrimes
	}
	m := &Material{Primes: primes}

	m.Dp = new(big.Int).Sub(primes[0], bigOne)
	m.Dp.Mod(d, m.Dp)

	m.Dq = new(big.Int).Sub(primes[1], bigOne)
	m.Dq.Mod(d, m.Dq)

	m.Qinv = new(big.Int).ModInverse(primes[1], primes[0])

	r := new(big.Int).Mul(primes[0], primes[1])
	m.CRTValues = make([]CRTValue, len(primes)-2)
	for i := 2; i < len(primes); i++ {
		prime := primes[i]
		v := &m.CRTValues[i-2]
		v.Exp = new(big.Int).Sub(prime, bigOne)
		v.Exp.Mod(d, v.Exp)
		v.R = new(big.Int).Set(r)
		v.Coeff = new(big.Int).ModInverse(r, prime)
		r.Mul(r, prime)
	}
	return m, nil
}

// Exponentiate computes x^d mod n. If crt is nil, it falls back to plain
// modular exponentiation with exponent d (the "no CRT material" path of
// spec.md §4.6). Otherwise it applies multiplicative blinding with
// publicExponent e (skipped only when e is nil, per spec.md §4.6 "Blinding
// is skipped only when publicExponent is unavailable") and then combines
// the per-prime results with Garner's algorithm.
func Exponentiate(random io.Reader, x, n, d, e *big.Int, crt *Material) (*big.Int, error) {
	if crt == nil {
		log.Debug("CRT: no precomputed material, using plain modular exponentiation")
		return new(big.Int).Exp(x, d, n), nil
	}

	c := x
	var unblind *big.Int
	if e != nil {
		blinded, ir, err := blind(random, x, n, e)
		if err != nil {
			return nil, oops.Errorf("crt: failed to generate blinding factor: %w", err)
		}
		c = blinded
		unblind = ir
	} else {
		log.Debug("CRT: publicExponent unavailable, blinding skipped")
	}

	p, q := crt.Primes[0], crt.Primes[1]
	m := new(big.Int).Exp(c, crt.Dp, p)
	m2 := new(big.Int).Exp(c, crt.Dq, q)
	m.Sub(m, m2)
	if m.Sign() < 0 {
		m.Add(m, p)
	}
	m.Mul(m, crt.Qinv)
	m.Mod(m, p)
	m.Mul(m, q)
	m.Add(m, m2)

	for i, v := range crt.CRTValues {
		prime := crt.Primes[2+i]
		mi := new(big.Int).Exp(c, v.Exp, prime)
		mi.Sub(mi, m)
		mi.Mul(mi, v.Coeff)
		mi.Mod(mi, prime)
		if mi.Sign() < 0 {
			mi.Add(mi, prime)
		}
		mi.Mul(mi, v.R)
		m.Add(m, mi)
	}

	if unblind != nil {
		m.Mul(m, unblind)
		m.Mod(m, n)
	}
	return m, nil
}

// blind multiplies x by r^e mod n for a uniformly random r in
// [1, n), and returns the blinded value together with r^-1 mod n so the
// caller can unblind the result after exponentiation.
func blind(random io.Reader, x, n, e *big.Int) (blinded, inverse *big.Int, err error) {
	var r, ir *big.Int
	for {
		r, err = rand.Int(random, n)
		if err != nil {
			return nil, nil, err
		}
		if r.Sign() == 0 {
			r = bigOne
		}
		ir = new(big.Int).ModInverse(r, n)
		if ir != nil {
			break
		}
	}

	rpowe := new(big.Int).Exp(r, e, n)
	c := new(big.Int).Mul(x, rpowe)
	c.Mod(c, n)
	return c, ir, nil
}
