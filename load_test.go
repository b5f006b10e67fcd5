package rsa

import (
	"errors"
	"testing"

	"github.com/martynask/phpseclib/keyformats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPrivateKeyAndLoadPKCS1RoundTrip(t *testing.T) {
	k := testKeyPair(t, 512)

	der, err := k.GetPrivateKey("pkcs1")
	require.NoError(t, err)

	loaded := New()
	err = loaded.Load(der, "")
	require.NoError(t, err)
	assert.True(t, loaded.IsPrivate())
	assert.Equal(t, k.n, loaded.n)
	assert.Equal(t, k.d, loaded.d)
}

func TestGetPublicKeyAndLoadPKCS8RoundTrip(t *testing.T) {
	k := testKeyPair(t, 512)

	der, err := k.GetPublicKey("pkcs8")
	require.NoError(t, err)

	loaded := New()
	err = loaded.Load(der, "pkcs8")
	require.NoError(t, err)
	assert.False(t, loaded.IsPrivate())
	assert.Equal(t, k.n, loaded.n)
	assert.Equal(t, k.e, loaded.e)
}

func TestGetPrivateKeyPKCS8EncryptedRoundTrip(t *testing.T) {
	k := testKeyPair(t, 512)
	k.SetPassword([]byte("hunter2"))

	der, err := k.GetPrivateKey("pkcs8")
	require.NoError(t, err)

	loaded := New()
	loaded.SetPassword([]byte("hunter2"))
	err = loaded.Load(der, "pkcs8")
	require.NoError(t, err)
	assert.True(t, loaded.IsPrivate())
	assert.Equal(t, k.d, loaded.d)

	wrongPassword := New()
	wrongPassword.SetPassword([]byte("wrong"))
	err = wrongPassword.Load(der, "pkcs8")
	assert.Error(t, err)
}

func TestLoadWithNoFormatTriesAllRegistered(t *testing.T) {
	k := testKeyPair(t, 512)
	der, err := k.GetPrivateKey("pkcs1")
	require.NoError(t, err)

	loaded := New()
	err = loaded.Load(der, "")
	require.NoError(t, err)
	assert.Equal(t, k.d, loaded.d)
}

func TestGetPrivateKeyRejectsPublicOnlyKey(t *testing.T) {
	k := testKeyPair(t, 512)
	k.SetPublicKey()

	_, err := k.GetPrivateKey("pkcs8")
	assert.ErrorIs(t, err, ErrMalformedKey)
}

func TestGetPublicKeyRejectsUnknownFormat(t *testing.T) {
	k := testKeyPair(t, 512)
	_, err := k.GetPublicKey("openssh")
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
	assert.ErrorIs(t, err, keyformats.ErrUnsupportedFormat)
}

func TestGetPrivateKeyRejectsUnknownFormat(t *testing.T) {
	k := testKeyPair(t, 512)
	_, err := k.GetPrivateKey("openssh")
	assert.True(t, errors.Is(err, ErrUnsupportedAlgorithm) && errors.Is(err, keyformats.ErrUnsupportedFormat))
}

func TestXMLRoundTripThroughLoad(t *testing.T) {
	k := testKeyPair(t, 512)
	doc, err := k.GetPrivateKey("xml")
	require.NoError(t, err)

	loaded := New()
	err = loaded.Load(doc, "xml")
	require.NoError(t, err)
	assert.Equal(t, k.d, loaded.d)
}
