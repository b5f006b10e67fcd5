package blockcipher

import "crypto/rc4"

// NewRC4 builds an RC4 keystream cipher for the legacy
// pbeWithSHAAnd40BitRC2-CBC sibling rc4Stream OID family some PKCS#12
// profiles use; RC4 has no IV or block structure.
func NewRC4(key []byte) (*Stream, error) {
	c, err := rc4.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return NewStream(c), nil
}
