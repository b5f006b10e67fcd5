package rsa

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/martynask/phpseclib/crt"
)

// DefaultPublicExponent is the public exponent used by Generate when the
// caller does not supply one.
var DefaultPublicExponent = big.NewInt(65537)

// DefaultSmallestPrime bounds the per-prime bit length used to decide how
// many primes a key needs, per spec.md §4.8 step 2.
const DefaultSmallestPrime = 4096

// PartialKey is the resumable state KeyGen emits when its time budget
// expires before enough primes have been found, per spec.md §4.8 step 4
// and §5.
type PartialKey struct {
	Bits            int
	PublicExponent  *big.Int
	PrimeBitLengths []int
	Primes          []*big.Int
	LcmNumerator    *big.Int
	LcmDenominator  *big.Int
}

var bigOne = big.NewInt(1)

// primeBitLengths computes the per-prime target bit lengths for a u-prime
// key of the given total bits, per spec.md §4.8 steps 2-3: equal-size
// primes except the last, which absorbs the remainder so the product
// meets the 2^(bits-1) floor.
func primeBitLengths(bits, smallestPrime int) []int {
	u := 2
	if bits/2 > smallestPrime {
		u = bits / smallestPrime
		if u < 2 {
			u = 2
		}
	}
	t := bits / u
	lengths := make([]int, u)
	sum := 0
	for i := 0; i < u-1; i++ {
		lengths[i] = t
		sum += t
	}
	lengths[u-1] = bits - sum
	return lengths
}

// Generate produces a multi-prime key per spec.md §4.8. timeout is a
// wall-clock budget; a zero timeout means "no limit". partial resumes a
// prior call that ran out of time. On expiry Generate returns a non-nil
// *PartialKey and a nil *RsaKey; on success it returns a ready RsaKey and
// a nil *PartialKey.
func Generate(bits int, timeout time.Duration, partial *PartialKey) (*RsaKey, *PartialKey, error) {
	if bits < 8 {
		return nil, nil, ErrLength
	}

	e := DefaultPublicExponent
	var lengths []int
	var primes []*big.Int

	if partial != nil {
		e = partial.PublicExponent
		lengths = partial.PrimeBitLengths
		primes = partial.Primes
	} else {
		lengths = primeBitLengths(bits, DefaultSmallestPrime)
	}

	deadline := time.Time{}
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	for {
		for len(primes) < len(lengths) {
			if !deadline.IsZero() && time.Now().After(deadline) {
				log.WithField("primes_found", len(primes)).Debug("key generation timed out, returning partial state")
				num, den := big.NewInt(1), big.NewInt(1)
				if len(primes) > 0 {
					num = carmichael(primes)
				}
				return nil, &PartialKey{
					Bits:            bits,
					PublicExponent:  e,
					PrimeBitLengths: lengths,
					Primes:          primes,
					LcmNumerator:    num,
					LcmDenominator:  den,
				}, nil
			}

			p, err := rand.Prime(rand.Reader, lengths[len(primes)])
			if err != nil {
				return nil, nil, err
			}
			if containsPrime(primes, p) {
				continue
			}
			primes = append(primes, p)
		}

		n := new(big.Int).SetInt64(1)
		for _, p := range primes {
			n.Mul(n, p)
		}

		lambda := carmichael(primes)
		g := new(big.Int).GCD(nil, nil, lambda, e)
		if g.Cmp(bigOne) == 0 {
			d := new(big.Int).ModInverse(e, lambda)
			if d != nil {
				k := New()
				k.setModulus(n)
				k.e = new(big.Int).Set(e)
				k.d = d
				k.primes = primes
				mat, err := crt.Precompute(primes, d)
				if err != nil {
					return nil, nil, err
				}
				k.crtMaterial = mat
				log.WithField("bits", bits).Debug("key generation succeeded")
				return k, nil, nil
			}
		}

		// gcd(lambda(n), e) != 1: discard the last prime and retry, per
		// spec.md §4.8 step 5.
		primes = primes[:len(primes)-1]
	}
}

func containsPrime(primes []*big.Int, p *big.Int) bool {
	for _, q := range primes {
		if q.Cmp(p) == 0 {
			return true
		}
	}
	return false
}

// carmichael computes lcm(p_i - 1) over all primes.
func carmichael(primes []*big.Int) *big.Int {
	lcm := big.NewInt(1)
	for _, p := range primes {
		pm1 := new(big.Int).Sub(p, bigOne)
		g := new(big.Int).GCD(nil, nil, lcm, pm1)
		lcm.Mul(lcm, new(big.Int).Div(pm1, g))
	}
	return lcm
}
