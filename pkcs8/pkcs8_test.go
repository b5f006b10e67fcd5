package pkcs8

import (
	"encoding/asn1"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPBKDF1DerivesDeterministicKey(t *testing.T) {
	dk1, err := pbkdf1("sha1", []byte("password"), []byte("saltsalt"), 1000, 16)
	require.NoError(t, err)
	dk2, err := pbkdf1("sha1", []byte("password"), []byte("saltsalt"), 1000, 16)
	require.NoError(t, err)
	assert.Equal(t, dk1, dk2)
	assert.Len(t, dk1, 16)
}

func TestPBKDF1RejectsOversizedOutput(t *testing.T) {
	_, err := pbkdf1("md5", []byte("password"), []byte("salt"), 1, 17)
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}

func TestPKCS12KDFIsDeterministicAndPurposeDependent(t *testing.T) {
	key, err := pkcs12KDF("sha1", []byte("password"), []byte("saltsalt"), 1000, 1, 24)
	require.NoError(t, err)
	iv, err := pkcs12KDF("sha1", []byte("password"), []byte("saltsalt"), 1000, 2, 8)
	require.NoError(t, err)
	assert.Len(t, key, 24)
	assert.Len(t, iv, 8)
	assert.NotEqual(t, key[:8], iv)
}

func TestPBES1DESRoundTrip(t *testing.T) {
	salt := []byte("12345678")
	plaintext := []byte("a private key payload, padded by the caller")

	ct, err := encryptPBES1(OIDPbeWithMD5AndDESCBC, []byte("hunter2"), salt, 4, plaintext)
	require.NoError(t, err)

	pt, err := decryptPBES1(OIDPbeWithMD5AndDESCBC, []byte("hunter2"), salt, 4, ct)
	require.NoError(t, err)
	assert.Equal(t, plaintext, pt)
}

func TestPBES1PKCS12RC4RoundTrip(t *testing.T) {
	salt := []byte("saltsalt")
	plaintext := []byte("rc4 stream content, any length at all")

	ct, err := encryptPBES1(OIDPbeWithSHA1AndRC4, []byte("swordfish"), salt, 4, plaintext)
	require.NoError(t, err)

	pt, err := decryptPBES1(OIDPbeWithSHA1AndRC4, []byte("swordfish"), salt, 4, ct)
	require.NoError(t, err)
	assert.Equal(t, plaintext, pt)
}

func TestRC2EffectiveKeyBitsTable(t *testing.T) {
	assert.Equal(t, 40, RC2EffectiveKeyBits(160))
	assert.Equal(t, 64, RC2EffectiveKeyBits(120))
	assert.Equal(t, 128, RC2EffectiveKeyBits(58))
	assert.Equal(t, 256, RC2EffectiveKeyBits(99))
}

func TestWrapAndParseRoundTrip(t *testing.T) {
	cfg := DefaultEnvelopeConfig()
	salt, iv, err := RandomSaltAndIV(16)
	require.NoError(t, err)

	privateKeyDER := []byte("stand-in DER payload for a PrivateKeyInfo")
	wrapped, err := Wrap(privateKeyDER, []byte("correct horse battery staple"), cfg, salt, iv)
	require.NoError(t, err)
	require.NotEmpty(t, wrapped)

	var enc EncryptedPrivateKeyInfo
	_, err = asn1.Unmarshal(wrapped, &enc)
	require.NoError(t, err)
	assert.True(t, enc.EncryptionAlgorithm.Algorithm.Equal(OIDPBES2))

	plaintext, err := decryptPBES2(enc.EncryptionAlgorithm.Parameters.FullBytes, []byte("correct horse battery staple"), enc.EncryptedData)
	require.NoError(t, err)
	assert.Equal(t, privateKeyDER, plaintext)
}

func TestParseRejectsUnparsableInput(t *testing.T) {
	_, _, _, err := Parse([]byte{0xff, 0xff, 0xff}, nil)
	assert.Error(t, err)
}
