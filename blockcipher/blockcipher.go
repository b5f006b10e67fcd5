// Package blockcipher provides the symmetric block ciphers used by the
// PKCS#8 envelope (DES, 3DES, RC2, RC4, AES-CBC) behind a common
// CBC-with-PKCS#7-padding interface, mirroring the
// encrypt/decrypt-plus-pkcs7-pad-unpad shape of lib/crypto/aes in the
// teacher repo but generalized across cipher.Block implementations
// instead of being hard-wired to AES.
package blockcipher

import (
	"crypto/cipher"
	"crypto/rand"

	"github.com/go-i2p/logger"
	"github.com/samber/oops"
)

var log = logger.GetGoI2PLogger()

var (
	ErrBadPadding   = oops.Errorf("blockcipher: invalid padding")
	ErrBadBlockSize = oops.Errorf("blockcipher: ciphertext is not a multiple of the block size")
)

// CBC wraps a cipher.Block in CBC mode with PKCS#7 padding, the way
// AESSymmetricEncrypter/Decrypter do for AES specifically in the teacher
// repo.
type CBC struct {
	block cipher.Block
	iv    []byte
}

// NewCBC constructs a CBC helper from an already-built cipher.Block and
// IV. Algorithm-specific constructors (NewDES, NewAES, ...) build the
// block and call this.
func NewCBC(block cipher.Block, iv []byte) (*CBC, error) {
	if len(iv) != block.BlockSize() {
		return nil, oops.Errorf("blockcipher: IV length %d does not match block size %d", len(iv), block.BlockSize())
	}
	return &CBC{block: block, iv: iv}, nil
}

// Encrypt PKCS#7-pads data to the block size and encrypts it under CBC.
func (c *CBC) Encrypt(data []byte) ([]byte, error) {
	log.WithField("data_length", len(data)).Debug("blockcipher: encrypting")
	padded := pkcs7Pad(data, c.block.BlockSize())
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, c.iv).CryptBlocks(out, padded)
	return out, nil
}

// Decrypt decrypts data under CBC and removes PKCS#7 padding.
func (c *CBC) Decrypt(data []byte) ([]byte, error) {
	if len(data)%c.block.BlockSize() != 0 {
		log.Debug("blockcipher: ciphertext is not a multiple of the block size")
		return nil, ErrBadBlockSize
	}
	plain := make([]byte, len(data))
	cipher.NewCBCDecrypter(c.block, c.iv).CryptBlocks(plain, data)
	return pkcs7Unpad(plain, c.block.BlockSize())
}

// Stream wraps an RC4 keystream cipher, which has no block/padding
// structure.
type Stream struct {
	s cipher.Stream
}

func NewStream(s cipher.Stream) *Stream { return &Stream{s: s} }

func (s *Stream) Encrypt(data []byte) ([]byte, error) {
	out := make([]byte, len(data))
	s.s.XORKeyStream(out, data)
	return out, nil
}

func (s *Stream) Decrypt(data []byte) ([]byte, error) {
	out := make([]byte, len(data))
	s.s.XORKeyStream(out, data)
	return out, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - (len(data) % blockSize)
	out := make([]byte, len(data)+padding)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(padding)
	}
	return out
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrBadPadding
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize || padding > len(data) {
		log.Debug("blockcipher: invalid PKCS#7 padding")
		return nil, ErrBadPadding
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, ErrBadPadding
		}
	}
	return data[:len(data)-padding], nil
}

// RandomIV returns a cryptographically random IV of the given length,
// used by the PKCS#8 envelope's write side.
func RandomIV(length int) ([]byte, error) {
	iv := make([]byte, length)
	if _, err := rand.Read(iv); err != nil {
		return nil, err
	}
	return iv, nil
}
