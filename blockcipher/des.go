package blockcipher

import "crypto/des"

// NewDES builds a single-DES CBC cipher, used by the legacy PBES1
// OIDs (pbeWithMD5AndDES-CBC and friends) per spec.md §4.10.
func NewDES(key, iv []byte) (*CBC, error) {
	block, err := des.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return NewCBC(block, iv)
}

// NewDES3 builds a triple-DES (EDE, three distinct keys concatenated)
// CBC cipher, used by PBES2's des-EDE3-CBC content-encryption OID.
func NewDES3(key, iv []byte) (*CBC, error) {
	block, err := des.NewTripleDESCipher(key)
	if err != nil {
		return nil, err
	}
	return NewCBC(block, iv)
}
