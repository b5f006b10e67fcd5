package rsa

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSmallKeyAndRoundTrip(t *testing.T) {
	// Small modulus so the test runs quickly; correctness of the
	// primitives themselves is covered by key_test.go.
	k, partial, err := Generate(256, 0, nil)
	require.NoError(t, err)
	require.Nil(t, partial)
	require.NotNil(t, k)

	assert.True(t, k.IsPrivate())
	assert.Len(t, k.primes, 2)
	assert.InDelta(t, 256, k.GetSize(), 8)

	// PSS requires emLen >= hLen+sLen+2; at this modulus size the default
	// salt length (hLen, from SHA-1) leaves no room, so pin it down.
	require.NoError(t, k.SetSaltLength(0))

	sigBytes, err := k.Sign([]byte("msg"))
	require.NoError(t, err)
	ok, err := k.Verify([]byte("msg"), sigBytes)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGenerateRejectsTooSmallBits(t *testing.T) {
	_, _, err := Generate(4, 0, nil)
	assert.ErrorIs(t, err, ErrLength)
}

func TestGenerateTimeoutProducesPartialKey(t *testing.T) {
	k, partial, err := Generate(4096, time.Nanosecond, nil)
	require.NoError(t, err)
	assert.Nil(t, k)
	require.NotNil(t, partial)
	assert.Equal(t, 4096, partial.Bits)
}

func TestGenerateResumesFromPartial(t *testing.T) {
	_, partial, err := Generate(512, time.Nanosecond, nil)
	require.NoError(t, err)
	require.NotNil(t, partial)

	k, finalPartial, err := Generate(512, 0, partial)
	require.NoError(t, err)
	assert.Nil(t, finalPartial)
	require.NotNil(t, k)
	assert.True(t, k.IsPrivate())
}
