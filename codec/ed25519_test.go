package codec

import (
	stded "crypto/ed25519"
	"crypto/x509"
	"testing"

	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEd25519RoundTrip(t *testing.T) {
	key, err := GenerateEd25519()
	require.NoError(t, err)
	require.True(t, key.Private())
	orig := key.(*ed25519PrivateKey).priv

	privDER := mustBytes(t, key.PrivateBytes)
	pubDER := mustBytes(t, key.PublicBytes)

	// the platform parser accepts our PKCS#8 and agrees on the seed
	parsed, err := x509.ParsePKCS8PrivateKey(privDER)
	require.NoError(t, err)
	stdPriv, ok := parsed.(stded.PrivateKey)
	require.True(t, ok)
	assert.Equal(t, orig.Seed(), stdPriv.Seed())

	// and both marshalled forms match the platform's byte for byte
	want, err := x509.MarshalPKCS8PrivateKey(stded.NewKeyFromSeed(orig.Seed()))
	require.NoError(t, err)
	assert.Equal(t, want, privDER)

	stdPub := stded.PublicKey(orig.Public().(ed25519.PublicKey))
	wantPub, err := x509.MarshalPKIXPublicKey(stdPub)
	require.NoError(t, err)
	assert.Equal(t, wantPub, pubDER)

	decoded, err := Ed25519.DecodePrivate(privDER)
	require.NoError(t, err)
	assert.Equal(t, pubDER, mustBytes(t, decoded.PublicBytes))
	assert.Equal(t, key.SKI(), decoded.SKI())

	pub, err := Ed25519.DecodePublic(pubDER)
	require.NoError(t, err)
	require.False(t, pub.Private())
	assert.Equal(t, key.SKI(), pub.SKI())
}

func TestEd25519RejectsForeignOID(t *testing.T) {
	rsaKey, err := GenerateRSA(2048)
	require.NoError(t, err)

	_, err = Ed25519.DecodePrivate(mustBytes(t, rsaKey.PrivateBytes))
	require.Error(t, err)
	assert.True(t, IsMismatch(err), "expected identity mismatch, got: %v", err)

	_, err = Ed25519.DecodePublic(mustBytes(t, rsaKey.PublicBytes))
	require.Error(t, err)
	assert.True(t, IsMismatch(err), "expected identity mismatch, got: %v", err)
}

func TestEd25519RejectsShortSeed(t *testing.T) {
	key, err := GenerateEd25519()
	require.NoError(t, err)
	privDER := mustBytes(t, key.PrivateBytes)

	// corrupting the envelope length fails the parse, not the identity
	_, err = Ed25519.DecodePrivate(privDER[:len(privDER)-1])
	require.Error(t, err)
	assert.False(t, IsMismatch(err))
}

func TestEd25519PublicOnlyFallsBack(t *testing.T) {
	key, err := GenerateEd25519()
	require.NoError(t, err)
	pub, err := key.PublicKey()
	require.NoError(t, err)

	der, err := Encode(pub)
	require.NoError(t, err)
	assert.Equal(t, mustBytes(t, pub.PublicBytes), der)
}
