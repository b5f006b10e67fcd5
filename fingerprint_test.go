package rsa

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintFormats(t *testing.T) {
	k := testKeyPair(t, 1024)

	md5fp, err := k.GetPublicKeyFingerprint("md5")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^([0-9a-f]{2}:){15}[0-9a-f]{2}$`), md5fp)

	sha256fp, err := k.GetPublicKeyFingerprint("sha256")
	require.NoError(t, err)
	assert.NotContains(t, sha256fp, "=")
	assert.NotEmpty(t, sha256fp)
}

func TestFingerprintRejectsUnknownAlgo(t *testing.T) {
	k := testKeyPair(t, 1024)
	_, err := k.GetPublicKeyFingerprint("sha1")
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}
