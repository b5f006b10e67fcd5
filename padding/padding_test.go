package padding

import (
	"crypto/rand"
	"crypto/sha256"
	"testing"

	"github.com/martynask/phpseclib/mgf1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOAEPRoundTrip(t *testing.T) {
	k := 256 // RSA-2048
	h := sha256.New()
	message := []byte("hello")

	em, err := EncodeOAEP(rand.Reader, h, k, message, nil)
	require.NoError(t, err)
	require.Len(t, em, k)

	got, err := DecodeOAEP(sha256.New(), em, nil)
	require.NoError(t, err)
	assert.Equal(t, message, got)
}

func TestOAEPBoundary(t *testing.T) {
	k := 256
	h := sha256.New()
	hLen := h.Size()

	maxMsg := make([]byte, k-2*hLen-2)
	_, err := EncodeOAEP(rand.Reader, h, k, maxMsg, nil)
	assert.NoError(t, err)

	tooLong := make([]byte, k-2*hLen-1)
	_, err = EncodeOAEP(rand.Reader, h, k, tooLong, nil)
	assert.ErrorIs(t, err, ErrTooLong)
}

func TestOAEPWrongLabelFails(t *testing.T) {
	k := 256
	h := sha256.New()
	em, err := EncodeOAEP(rand.Reader, h, k, []byte("hi"), []byte("label-a"))
	require.NoError(t, err)

	_, err = DecodeOAEP(sha256.New(), em, []byte("label-b"))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestOAEPDecodeRejectsNonZeroPSByte(t *testing.T) {
	k := 256
	h := sha256.New()
	hLen := h.Size()

	h.Write(nil)
	lHash := h.Sum(nil)
	h.Reset()

	message := []byte("hello")
	db := make([]byte, k-hLen-1)
	copy(db[:hLen], lHash)
	db[len(db)-len(message)-1] = 0x01
	copy(db[len(db)-len(message):], message)
	// Corrupt a PS byte that should be zero, leaving the 0x01 separator
	// and message after it untouched. A decoder that only scans for the
	// first 0x01 would still accept this and return message.
	db[hLen] = 0x42

	seed := make([]byte, hLen)
	_, err := rand.Read(seed)
	require.NoError(t, err)

	mgf1.XOR(db, h, seed)
	mgf1.XOR(seed, h, db)

	em := make([]byte, k)
	copy(em[1:1+hLen], seed)
	copy(em[1+hLen:], db)

	_, err = DecodeOAEP(sha256.New(), em, nil)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestPKCS1v15RoundTripPublic(t *testing.T) {
	k := 256
	message := []byte("a 245-byte-capable message")

	em, err := EncodePKCS1v15(rand.Reader, k, message, BlockTypePublic)
	require.NoError(t, err)
	require.Len(t, em, k)
	assert.Equal(t, byte(0x00), em[0])
	assert.Equal(t, byte(0x02), em[1])

	got, err := DecodePKCS1v15(em)
	require.NoError(t, err)
	assert.Equal(t, message, got)
}

func TestPKCS1v15BoundaryMessageLength(t *testing.T) {
	k := 256
	max := make([]byte, k-11)
	_, err := EncodePKCS1v15(rand.Reader, k, max, BlockTypePublic)
	assert.NoError(t, err)

	tooLong := make([]byte, k-10)
	_, err = EncodePKCS1v15(rand.Reader, k, tooLong, BlockTypePublic)
	assert.ErrorIs(t, err, ErrTooLong)
}

func TestPKCS1v15DecodeRejectsShortPadding(t *testing.T) {
	k := 11
	em := make([]byte, k)
	em[1] = 0x02
	// separator at index 9: |PS| = 7, one short of the required 8.
	em[9] = 0x00
	for i := 2; i < 9; i++ {
		em[i] = 0x11
	}
	_, err := DecodePKCS1v15(em)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestPKCS1v15DecodeAcceptsMinimalPadding(t *testing.T) {
	k := 11
	em := make([]byte, k)
	em[1] = 0x02
	// separator at index 10: |PS| = 8, the minimum allowed.
	em[10] = 0x00
	for i := 2; i < 10; i++ {
		em[i] = 0x11
	}
	_, err := DecodePKCS1v15(em)
	assert.NoError(t, err)
}

func TestPKCS1v15BlockTypePrivate(t *testing.T) {
	k := 64
	message := []byte("legacy")
	em, err := EncodePKCS1v15(rand.Reader, k, message, BlockTypePrivate)
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), em[1])
	for i := 2; i < k-len(message)-1; i++ {
		assert.Equal(t, byte(0xFF), em[i])
	}
}
