package keyformats

import "github.com/samber/oops"

var (
	// ErrRawHasNoSerialization signals that Raw is an in-memory-only
	// format: it has no byte encoding to produce, per spec.md §4.9.
	ErrRawHasNoSerialization = oops.Errorf("keyformats: raw format has no serialized encoding")

	// ErrUnsupportedFormat is chained into the error a caller gets back
	// from GetPublicKey/GetPrivateKey when ByName finds no registered
	// format under the requested name.
	ErrUnsupportedFormat = oops.Errorf("keyformats: unsupported key format")

	// ErrMalformedKey covers DER/XML input that parses structurally but
	// fails a required invariant (missing exponent, odd prime count,
	// non-zero bit-string padding, and the like).
	ErrMalformedKey = oops.Errorf("keyformats: malformed key")
)
