package rsa

import "github.com/samber/oops"

// Error kinds produced by this package's primitives, padding schemes, and
// key-serialization pipeline. Wrap one of these with %w so callers can
// errors.Is against the kind while still getting an oops trace.
var (
	// ErrUnsupportedAlgorithm covers an unknown hash name, fingerprint
	// algorithm, or key-format name. An encrypted PKCS#8 key under an
	// unrecognized OID makes Load fail with ErrMalformedKey instead, and
	// multi-prime keys do not produce it: XML output carries only the
	// first two primes.
	ErrUnsupportedAlgorithm = oops.Errorf("rsa: unsupported algorithm")

	// ErrDecryption covers any OAEP/PKCS#1-v1.5 decode failure or
	// ciphertext length mismatch. A wrong password on an encrypted PKCS#8
	// key makes Load fail with ErrMalformedKey, not with this error.
	// Every branch that can produce this must be indistinguishable in
	// message and timing from every other branch within the same scheme.
	ErrDecryption = oops.Errorf("rsa: decryption error")

	// ErrInvalidSignature names the signature-verification failure kind.
	// Verify reports PSS/PKCS#1-v1.5 verification failure and signature
	// length mismatch as a false result with a nil error; it does not
	// return this error.
	ErrInvalidSignature = oops.Errorf("rsa: invalid signature")

	// ErrOutOfRange covers a primitive input outside [0, n).
	ErrOutOfRange = oops.Errorf("rsa: integer out of range")

	// ErrLength covers a modulus too short for the chosen encoding (Encrypt,
	// Sign), an integer that does not fit I2OSP's output length, a negative
	// PSS salt length, and a Generate bit size below 8. Encrypt splits a
	// long plaintext into blocks, so plaintext length alone never produces
	// it.
	ErrLength = oops.Errorf("rsa: length error")

	// ErrMalformedKey covers ASN.1 decode failure, a missing required
	// field, or a non-zero bit-string pad byte in a public-key envelope.
	ErrMalformedKey = oops.Errorf("rsa: malformed key")
)
