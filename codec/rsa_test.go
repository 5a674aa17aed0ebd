package codec

import (
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/x509"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRSARoundTrip(t *testing.T) {
	key, err := GenerateRSA(2048)
	require.NoError(t, err)
	require.True(t, key.Private())
	orig := key.(*rsaPrivateKey).priv

	privDER := mustBytes(t, key.PrivateBytes)
	pubDER := mustBytes(t, key.PublicBytes)

	// our PKCS#8 parses with the platform parser and matches it byte
	// for byte
	parsed, err := x509.ParsePKCS8PrivateKey(privDER)
	require.NoError(t, err)
	rsaParsed, ok := parsed.(*rsa.PrivateKey)
	require.True(t, ok)
	require.Zero(t, orig.N.Cmp(rsaParsed.N))
	require.Equal(t, orig.E, rsaParsed.E)
	require.Zero(t, orig.D.Cmp(rsaParsed.D))

	want, err := x509.MarshalPKCS8PrivateKey(orig)
	require.NoError(t, err)
	assert.Equal(t, want, privDER)

	wantPub, err := x509.MarshalPKIXPublicKey(&orig.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, wantPub, pubDER)

	// decode back and compare the public output
	decoded, err := RSA.DecodePrivate(privDER)
	require.NoError(t, err)
	assert.Equal(t, pubDER, mustBytes(t, decoded.PublicBytes))
	assert.Equal(t, key.SKI(), decoded.SKI())

	pub, err := RSA.DecodePublic(pubDER)
	require.NoError(t, err)
	require.False(t, pub.Private())
	assert.Equal(t, pubDER, mustBytes(t, pub.PublicBytes))
}

func TestRSADecodeBarePKCS1(t *testing.T) {
	key, err := GenerateRSA(2048)
	require.NoError(t, err)
	priv := key.(*rsaPrivateKey).priv

	k1, err := RSA.DecodePrivate(x509.MarshalPKCS1PrivateKey(priv))
	require.NoError(t, err)
	require.True(t, k1.Private())
	assert.Equal(t, key.SKI(), k1.SKI())

	k2, err := RSA.DecodePublic(x509.MarshalPKCS1PublicKey(&priv.PublicKey))
	require.NoError(t, err)
	require.False(t, k2.Private())
	assert.Equal(t, key.SKI(), k2.SKI())
}

func TestRSARejectsForeignOID(t *testing.T) {
	ecKey, err := GenerateECDSA(elliptic.P256())
	require.NoError(t, err)

	_, err = RSA.DecodePrivate(mustBytes(t, ecKey.PrivateBytes))
	require.Error(t, err)
	assert.True(t, IsMismatch(err), "expected identity mismatch, got: %v", err)

	_, err = RSA.DecodePublic(mustBytes(t, ecKey.PublicBytes))
	require.Error(t, err)
	assert.True(t, IsMismatch(err), "expected identity mismatch, got: %v", err)
}

func TestRSAPublicOnlyHasNoPrivateForm(t *testing.T) {
	key, err := GenerateRSA(2048)
	require.NoError(t, err)
	pub, err := key.PublicKey()
	require.NoError(t, err)

	_, err = pub.PrivateBytes()
	require.Error(t, err)
	assert.True(t, IsNoPrivateKey(err))
}
