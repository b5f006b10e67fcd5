package keyformats

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleComponents() *Components {
	return &Components{
		IsPublicKey:     false,
		Modulus:         big.NewInt(3233),
		PublicExponent:  big.NewInt(17),
		PrivateExponent: big.NewInt(2753),
		Primes:          []*big.Int{big.NewInt(61), big.NewInt(53)},
		Exponents:       []*big.Int{big.NewInt(53), big.NewInt(49)},
		Coefficients:    []*big.Int{big.NewInt(38)},
	}
}

func TestPKCS1RoundTripPrivateKey(t *testing.T) {
	var f PKCS1Format
	c := sampleComponents()

	der, err := f.SavePrivateKey(c, nil)
	require.NoError(t, err)

	loaded, ok := f.Load(der, nil)
	require.True(t, ok)
	assert.False(t, loaded.IsPublicKey)
	assert.Equal(t, c.Modulus, loaded.Modulus)
	assert.Equal(t, c.PrivateExponent, loaded.PrivateExponent)
	assert.Equal(t, c.Primes, loaded.Primes)
}

func TestPKCS1RoundTripPublicKey(t *testing.T) {
	var f PKCS1Format
	c := sampleComponents()

	der, err := f.SavePublicKey(c)
	require.NoError(t, err)

	loaded, ok := f.Load(der, nil)
	require.True(t, ok)
	assert.True(t, loaded.IsPublicKey)
	assert.Equal(t, c.Modulus, loaded.Modulus)
	assert.Equal(t, c.PublicExponent, loaded.PublicExponent)
}

func TestPKCS1RejectsPasswordProtection(t *testing.T) {
	var f PKCS1Format
	_, err := f.SavePrivateKey(sampleComponents(), []byte("secret"))
	assert.Error(t, err)
}

func TestPKCS1SavePrivateKeyUsesCRLFLineEndings(t *testing.T) {
	var f PKCS1Format
	der, err := f.SavePrivateKey(sampleComponents(), nil)
	require.NoError(t, err)

	s := string(der)
	assert.NotContains(t, s, "\r\n\r\n", "no doubled line endings")
	for i, b := range s {
		if b == '\n' {
			require.Greater(t, i, 0)
			assert.Equal(t, byte('\r'), s[i-1], "every LF must be preceded by CR")
		}
	}
}

func TestXMLRoundTripPrivateKey(t *testing.T) {
	var f XMLFormat
	c := sampleComponents()

	doc, err := f.SavePrivateKey(c, nil)
	require.NoError(t, err)
	assert.Contains(t, string(doc), "<RSAKeyValue>")

	loaded, ok := f.Load(doc, nil)
	require.True(t, ok)
	assert.False(t, loaded.IsPublicKey)
	assert.Equal(t, c.Modulus, loaded.Modulus)
	assert.Equal(t, c.PrivateExponent, loaded.PrivateExponent)
}

func TestXMLLoadIsCaseInsensitive(t *testing.T) {
	var f XMLFormat
	doc := []byte("<rsakeyvalue><MODULUS>DKE=</MODULUS><exponent>EQ==</exponent></rsakeyvalue>")
	loaded, ok := f.Load(doc, nil)
	require.True(t, ok)
	assert.True(t, loaded.IsPublicKey)
}

func TestPKCS8RoundTripUnencrypted(t *testing.T) {
	f := PKCS8Format{}
	c := sampleComponents()

	pemBytes, err := f.SavePrivateKey(c, nil)
	require.NoError(t, err)

	loaded, ok := f.Load(pemBytes, nil)
	require.True(t, ok)
	assert.False(t, loaded.IsPublicKey)
	assert.Equal(t, c.Modulus, loaded.Modulus)
	assert.Equal(t, c.PrivateExponent, loaded.PrivateExponent)
}

func TestPKCS8RoundTripEncrypted(t *testing.T) {
	f := PKCS8Format{}
	c := sampleComponents()
	password := []byte("correct horse battery staple")

	pemBytes, err := f.SavePrivateKey(c, password)
	require.NoError(t, err)

	loaded, ok := f.Load(pemBytes, password)
	require.True(t, ok)
	assert.Equal(t, c.PrivateExponent, loaded.PrivateExponent)

	_, ok = f.Load(pemBytes, []byte("wrong password"))
	assert.False(t, ok)
}

func TestPKCS8RoundTripPublicKey(t *testing.T) {
	f := PKCS8Format{}
	c := sampleComponents()

	pemBytes, err := f.SavePublicKey(c)
	require.NoError(t, err)

	loaded, ok := f.Load(pemBytes, nil)
	require.True(t, ok)
	assert.True(t, loaded.IsPublicKey)
	assert.Equal(t, c.Modulus, loaded.Modulus)
	assert.Equal(t, c.PublicExponent, loaded.PublicExponent)
}

func TestLoadRawKey(t *testing.T) {
	c, ok := LoadRawKey(RawKey{Modulus: big.NewInt(3233), PublicExponent: big.NewInt(17)})
	require.True(t, ok)
	assert.True(t, c.IsPublicKey)
}

func TestLoadRawKeyRejectsMissingFields(t *testing.T) {
	_, ok := LoadRawKey(RawKey{Modulus: big.NewInt(3233)})
	assert.False(t, ok)
}

func TestByNameIsCaseInsensitive(t *testing.T) {
	assert.NotNil(t, ByName("PKCS8"))
	assert.NotNil(t, ByName("pkcs1"))
	assert.Nil(t, ByName("openssh"))
}

func TestLoadTriesFormatsInOrder(t *testing.T) {
	var f PKCS1Format
	der, err := f.SavePublicKey(sampleComponents())
	require.NoError(t, err)

	c, matched, ok := Load(der, nil)
	require.True(t, ok)
	assert.Equal(t, "pkcs1", matched.Name())
	assert.True(t, c.IsPublicKey)
}
