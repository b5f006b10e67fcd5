package rsa

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/martynask/phpseclib/crt"
	"github.com/martynask/phpseclib/hashalg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testKeyPair builds a minimal RsaKey directly from freshly generated
// primes, bypassing KeyGen so primitive-level tests run fast.
func testKeyPair(t *testing.T, bits int) *RsaKey {
	half := bits / 2
	p, err := rand.Prime(rand.Reader, half)
	require.NoError(t, err)
	q, err := rand.Prime(rand.Reader, half)
	require.NoError(t, err)
	for p.Cmp(q) == 0 {
		q, _ = rand.Prime(rand.Reader, half)
	}

	n := new(big.Int).Mul(p, q)
	e := big.NewInt(65537)
	phi := new(big.Int).Mul(
		new(big.Int).Sub(p, big.NewInt(1)),
		new(big.Int).Sub(q, big.NewInt(1)),
	)
	d := new(big.Int).ModInverse(e, phi)
	require.NotNil(t, d)

	k := New()
	k.setModulus(n)
	k.e = e
	k.d = d
	k.primes = []*big.Int{p, q}
	mat, err := crt.Precompute(k.primes, d)
	require.NoError(t, err)
	k.crtMaterial = mat
	return k
}

func TestOAEPEncryptDecryptHello(t *testing.T) {
	k := testKeyPair(t, 2048)
	require.NoError(t, k.SetHash(hashalg.SHA256))

	ct, err := k.Encrypt([]byte("hello"))
	require.NoError(t, err)

	pt, err := k.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), pt)
}

func TestPKCS1v15EncryptDecryptBoundary(t *testing.T) {
	k := testKeyPair(t, 2048)
	k.SetEncryptionMode(EncryptionPKCS1)

	msg := make([]byte, k.k-11)
	for i := range msg {
		msg[i] = byte(i)
	}
	ct, err := k.Encrypt(msg)
	require.NoError(t, err)
	pt, err := k.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, msg, pt)

	tooLong := make([]byte, k.k-10)
	_, err = k.Encrypt(tooLong)
	assert.ErrorIs(t, err, ErrLength)
}

func TestPSSSignVerify(t *testing.T) {
	k := testKeyPair(t, 2048)
	require.NoError(t, k.SetHash(hashalg.SHA256))
	require.NoError(t, k.SetSaltLength(32))

	sigBytes, err := k.Sign([]byte(""))
	require.NoError(t, err)

	ok, err := k.Verify([]byte(""), sigBytes)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPKCS1v15SignVerifyBitFlip(t *testing.T) {
	k := testKeyPair(t, 2048)
	require.NoError(t, k.SetHash(hashalg.SHA1))
	k.SetSignatureMode(SignaturePKCS1)

	message := []byte("attack at dawn")
	sigBytes, err := k.Sign(message)
	require.NoError(t, err)

	ok, err := k.Verify(message, sigBytes)
	require.NoError(t, err)
	assert.True(t, ok)

	sigBytes[len(sigBytes)-1] ^= 0x01
	ok, err = k.Verify(message, sigBytes)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyFailsOnFlippedMessage(t *testing.T) {
	k := testKeyPair(t, 2048)
	require.NoError(t, k.SetHash(hashalg.SHA256))

	sigBytes, err := k.Sign([]byte("original"))
	require.NoError(t, err)

	ok, err := k.Verify([]byte("original!"), sigBytes)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCloneDeepCopiesPrimes(t *testing.T) {
	k := testKeyPair(t, 1024)
	clone := k.Clone()

	require.Len(t, clone.primes, len(k.primes))
	for i := range k.primes {
		assert.Equal(t, k.primes[i], clone.primes[i])
		assert.NotSame(t, k.primes[i], clone.primes[i])
	}
	assert.NotNil(t, clone.crtMaterial)
}

func TestSetPublicKeyDropsPrivateMaterial(t *testing.T) {
	k := testKeyPair(t, 1024)
	k.SetPublicKey()
	assert.Nil(t, k.d)
	assert.Nil(t, k.primes)
	assert.False(t, k.IsPrivate())
}

func TestSetPrivateKeyCopiesFromSource(t *testing.T) {
	src := testKeyPair(t, 1024)
	dst := New()
	err := dst.SetPrivateKey(src)
	require.NoError(t, err)

	require.Len(t, dst.primes, 2)
	assert.Equal(t, src.primes[0], dst.primes[0])
	assert.Equal(t, src.primes[1], dst.primes[1])
	assert.NotNil(t, dst.crtMaterial)
}

func TestGetSize(t *testing.T) {
	k := testKeyPair(t, 2048)
	assert.InDelta(t, 2048, k.GetSize(), 8)
}

func TestI2OSPOS2IPRoundTrip(t *testing.T) {
	b := []byte{0x01, 0x02, 0x03, 0xFF}
	x := OS2IP(b)
	out, err := I2OSP(x, len(b))
	require.NoError(t, err)
	assert.Equal(t, b, out)
}

func TestI2OSPRejectsOverflow(t *testing.T) {
	x := big.NewInt(1000)
	_, err := I2OSP(x, 1)
	assert.ErrorIs(t, err, ErrLength)
}
