package codec

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509/pkix"
	"encoding/asn1"

	cferr "github.com/cloudflare/cfssl/errors"
	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/pkg/errors"
)

var oidEd25519 = asn1.ObjectIdentifier{1, 3, 101, 112}

// Ed25519 is the codec for id-Ed25519 keys (RFC 8410): the PKCS#8 form
// wraps the 32 byte seed in a nested OCTET STRING, the PKIX form carries
// the raw 32 byte public key in the BIT STRING. The algorithm identifier
// has no parameters, not even a NULL.
var Ed25519 Codec = ed25519Codec{}

type ed25519Codec struct{}

func (ed25519Codec) OID() asn1.ObjectIdentifier { return oidEd25519 }

func (ed25519Codec) ParamOID() (asn1.ObjectIdentifier, bool) { return nil, false }

func (ed25519Codec) DecodePrivate(der []byte) (Key, error) {
	info, ok := unmarshalPKCS8(der)
	if !ok {
		return nil, cferr.New(cferr.PrivateKeyError, cferr.ParseFailed)
	}
	if !info.Algorithm.Algorithm.Equal(oidEd25519) {
		return nil, mismatch(oidEd25519, info.Algorithm.Algorithm)
	}
	var seed []byte
	rest, err := asn1.Unmarshal(info.PrivateKey, &seed)
	if err != nil || len(rest) != 0 {
		return nil, cferr.New(cferr.PrivateKeyError, cferr.ParseFailed)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, cferr.New(cferr.PrivateKeyError, cferr.ParseFailed)
	}
	return &ed25519PrivateKey{ed25519.NewKeyFromSeed(seed)}, nil
}

func (ed25519Codec) DecodePublic(der []byte) (Key, error) {
	info, ok := unmarshalSPKI(der)
	if !ok {
		return nil, errors.New("codec: not a SubjectPublicKeyInfo structure")
	}
	if !info.Algorithm.Algorithm.Equal(oidEd25519) {
		return nil, mismatch(oidEd25519, info.Algorithm.Algorithm)
	}
	raw := info.PublicKey.RightAlign()
	if len(raw) != ed25519.PublicKeySize {
		return nil, errors.Errorf("codec: invalid Ed25519 public key length %d", len(raw))
	}
	pub := make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(pub, raw)
	return &ed25519PublicKey{pub}, nil
}

type ed25519PrivateKey struct {
	priv ed25519.PrivateKey
}

func (k *ed25519PrivateKey) PublicBytes() ([]byte, error) {
	return marshalEd25519PublicKey(k.priv.Public().(ed25519.PublicKey))
}

func (k *ed25519PrivateKey) PrivateBytes() ([]byte, error) {
	seed, err := asn1.Marshal(k.priv.Seed())
	if err != nil {
		return nil, errors.Wrap(err, "codec: marshal Ed25519 seed")
	}
	return asn1.Marshal(privateKeyInfo{
		Version:    0,
		Algorithm:  pkix.AlgorithmIdentifier{Algorithm: oidEd25519},
		PrivateKey: seed,
	})
}

func (k *ed25519PrivateKey) SKI() []byte {
	pub := k.priv.Public().(ed25519.PublicKey)
	hash := sha256.New()
	hash.Write(pub)
	return hash.Sum(nil)
}

func (k *ed25519PrivateKey) Private() bool {
	return true
}

func (k *ed25519PrivateKey) PublicKey() (Key, error) {
	return &ed25519PublicKey{k.priv.Public().(ed25519.PublicKey)}, nil
}

type ed25519PublicKey struct {
	puk ed25519.PublicKey
}

func (pub *ed25519PublicKey) PublicBytes() ([]byte, error) {
	return marshalEd25519PublicKey(pub.puk)
}

func (pub *ed25519PublicKey) PrivateBytes() ([]byte, error) {
	return nil, errors.WithStack(ErrNoPrivateKey)
}

func (pub *ed25519PublicKey) SKI() []byte {
	hash := sha256.New()
	hash.Write(pub.puk)
	return hash.Sum(nil)
}

func (pub *ed25519PublicKey) Private() bool {
	return false
}

func (pub *ed25519PublicKey) PublicKey() (Key, error) {
	return pub, nil
}

type ed25519KeyGenerator struct{}

func (ed25519KeyGenerator) KeyGen() (Key, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "codec: generate Ed25519 key")
	}
	return &ed25519PrivateKey{priv}, nil
}

// GenerateEd25519 generates a fresh Ed25519 private key.
func GenerateEd25519() (Key, error) {
	return ed25519KeyGenerator{}.KeyGen()
}

func marshalEd25519PublicKey(pub ed25519.PublicKey) ([]byte, error) {
	return asn1.Marshal(pkixPublicKey{
		Algorithm: pkix.AlgorithmIdentifier{Algorithm: oidEd25519},
		PublicKey: asn1.BitString{Bytes: pub, BitLength: 8 * len(pub)},
	})
}
