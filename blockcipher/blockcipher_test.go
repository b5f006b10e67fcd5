package blockcipher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAESCBCRoundTrip(t *testing.T) {
	key := make([]byte, 16)
	iv := make([]byte, 16)
	for i := range key {
		key[i] = byte(i)
	}
	for i := range iv {
		iv[i] = byte(i + 1)
	}

	c, err := NewAES(key, iv)
	require.NoError(t, err)

	plaintext := []byte("some plaintext that is not block aligned")
	ct, err := c.Encrypt(plaintext)
	require.NoError(t, err)
	assert.Equal(t, 0, len(ct)%16)

	dc, err := NewAES(key, iv)
	require.NoError(t, err)
	pt, err := dc.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, plaintext, pt)
}

func TestAESCBCEmptyPlaintext(t *testing.T) {
	key := make([]byte, 32)
	iv := make([]byte, 16)
	c, err := NewAES(key, iv)
	require.NoError(t, err)

	ct, err := c.Encrypt(nil)
	require.NoError(t, err)
	assert.Len(t, ct, 16)

	pt, err := c.Decrypt(ct)
	require.NoError(t, err)
	assert.Empty(t, pt)
}

func TestDESCBCRoundTrip(t *testing.T) {
	key := []byte("8bytekey")
	iv := []byte("ivbytes!")

	c, err := NewDES(key, iv)
	require.NoError(t, err)
	ct, err := c.Encrypt([]byte("hello world"))
	require.NoError(t, err)

	dc, err := NewDES(key, iv)
	require.NoError(t, err)
	pt, err := dc.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello world"), pt)
}

func TestDES3CBCRoundTrip(t *testing.T) {
	key := make([]byte, 24)
	for i := range key {
		key[i] = byte(i * 3)
	}
	iv := make([]byte, 8)

	c, err := NewDES3(key, iv)
	require.NoError(t, err)
	ct, err := c.Encrypt([]byte("triple des payload"))
	require.NoError(t, err)

	dc, err := NewDES3(key, iv)
	require.NoError(t, err)
	pt, err := dc.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, []byte("triple des payload"), pt)
}

func TestRC4RoundTrip(t *testing.T) {
	key := []byte("rc4testkey")
	c, err := NewRC4(key)
	require.NoError(t, err)
	ct, err := c.Encrypt([]byte("stream cipher data"))
	require.NoError(t, err)

	dc, err := NewRC4(key)
	require.NoError(t, err)
	pt, err := dc.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, []byte("stream cipher data"), pt)
}

func TestRC2CBCRoundTrip(t *testing.T) {
	key := []byte("0123456789abcdef")
	iv := []byte("rc2ivbb")
	iv = append(iv, 0)

	c, err := NewRC2(key, iv, 0)
	require.NoError(t, err)
	ct, err := c.Encrypt([]byte("rc2 payload needing padding"))
	require.NoError(t, err)

	dc, err := NewRC2(key, iv, 0)
	require.NoError(t, err)
	pt, err := dc.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, []byte("rc2 payload needing padding"), pt)
}

func TestRC2EffectiveKeyLengthTruncatesSchedule(t *testing.T) {
	key := make([]byte, 16)
	for i := range key {
		key[i] = byte(i + 1)
	}

	full := NewRC2Block(key, 0)
	truncated := NewRC2Block(key, 40)
	assert.NotEqual(t, full.K, truncated.K)
}

func TestPKCS7PadUnpadRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 7, 8, 9, 15, 16, 17} {
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(i)
		}
		padded := pkcs7Pad(data, 8)
		assert.Equal(t, 0, len(padded)%8)
		unpadded, err := pkcs7Unpad(padded, 8)
		require.NoError(t, err)
		assert.Equal(t, data, unpadded)
	}
}

func TestPKCS7UnpadRejectsBadPadding(t *testing.T) {
	_, err := pkcs7Unpad([]byte{1, 2, 3, 4, 5, 6, 7, 0}, 8)
	assert.ErrorIs(t, err, ErrBadPadding)

	_, err = pkcs7Unpad([]byte{}, 8)
	assert.ErrorIs(t, err, ErrBadPadding)
}

func TestCBCRejectsNonBlockAlignedCiphertext(t *testing.T) {
	key := make([]byte, 16)
	iv := make([]byte, 16)
	c, err := NewAES(key, iv)
	require.NoError(t, err)

	_, err = c.Decrypt(make([]byte, 15))
	assert.ErrorIs(t, err, ErrBadBlockSize)
}
