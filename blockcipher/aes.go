package blockcipher

import "crypto/aes"

// NewAES builds an AES-CBC cipher for any of the three AES key sizes,
// used by PBES2's aes{128,192,256}-CBC-PAD content-encryption OIDs. The
// pad/unpad wrapping lives in CBC, generalized from the
// AESSymmetricEncrypter/Decrypter pair in the teacher's lib/crypto/aes
// package.
func NewAES(key, iv []byte) (*CBC, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return NewCBC(block, iv)
}
