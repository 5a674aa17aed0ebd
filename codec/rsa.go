package codec

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"math/big"

	cferr "github.com/cloudflare/cfssl/errors"
	"github.com/pkg/errors"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"

	"github.com/godzilla-s/keycodec-go/internal/derutil"
)

var oidRSA = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 1}

// RSA is the codec for rsaEncryption keys: PKCS#1 bodies wrapped in
// PKCS#8/PKIX envelopes with NULL parameters, plus the bare PKCS#1
// legacy forms (RFC 8017).
var RSA Codec = rsaCodec{}

type rsaCodec struct{}

func (rsaCodec) OID() asn1.ObjectIdentifier { return oidRSA }

func (rsaCodec) ParamOID() (asn1.ObjectIdentifier, bool) { return nil, false }

func (rsaCodec) DecodePrivate(der []byte) (Key, error) {
	if info, ok := unmarshalPKCS8(der); ok {
		if !info.Algorithm.Algorithm.Equal(oidRSA) {
			return nil, mismatch(oidRSA, info.Algorithm.Algorithm)
		}
		priv, err := x509.ParsePKCS1PrivateKey(info.PrivateKey)
		if err != nil {
			return nil, cferr.New(cferr.PrivateKeyError, cferr.ParseFailed)
		}
		return &rsaPrivateKey{priv}, nil
	}
	priv, err := x509.ParsePKCS1PrivateKey(der)
	if err != nil {
		return nil, cferr.New(cferr.PrivateKeyError, cferr.ParseFailed)
	}
	return &rsaPrivateKey{priv}, nil
}

func (rsaCodec) DecodePublic(der []byte) (Key, error) {
	if info, ok := unmarshalSPKI(der); ok {
		if !info.Algorithm.Algorithm.Equal(oidRSA) {
			return nil, mismatch(oidRSA, info.Algorithm.Algorithm)
		}
		pub, err := x509.ParsePKCS1PublicKey(info.PublicKey.RightAlign())
		if err != nil {
			return nil, errors.Wrap(err, "codec: parse RSA public key body")
		}
		return &rsaPublicKey{pub}, nil
	}
	pub, err := x509.ParsePKCS1PublicKey(der)
	if err != nil {
		return nil, errors.Wrap(err, "codec: parse RSA public key DER")
	}
	return &rsaPublicKey{pub}, nil
}

type rsaPrivateKey struct {
	priv *rsa.PrivateKey
}

func (k *rsaPrivateKey) PublicBytes() ([]byte, error) {
	return marshalRSAPublicKey(&k.priv.PublicKey)
}

func (k *rsaPrivateKey) PrivateBytes() ([]byte, error) {
	body, err := marshalPKCS1PrivateKey(k.priv)
	if err != nil {
		return nil, err
	}
	return asn1.Marshal(privateKeyInfo{
		Version: 0,
		Algorithm: pkix.AlgorithmIdentifier{
			Algorithm:  oidRSA,
			Parameters: asn1.NullRawValue,
		},
		PrivateKey: body,
	})
}

func (k *rsaPrivateKey) SKI() []byte {
	return rsaSKI(&k.priv.PublicKey)
}

func (k *rsaPrivateKey) Private() bool {
	return true
}

func (k *rsaPrivateKey) PublicKey() (Key, error) {
	return &rsaPublicKey{&k.priv.PublicKey}, nil
}

type rsaPublicKey struct {
	puk *rsa.PublicKey
}

func (pub *rsaPublicKey) PublicBytes() ([]byte, error) {
	return marshalRSAPublicKey(pub.puk)
}

func (pub *rsaPublicKey) PrivateBytes() ([]byte, error) {
	return nil, errors.WithStack(ErrNoPrivateKey)
}

func (pub *rsaPublicKey) SKI() []byte {
	return rsaSKI(pub.puk)
}

func (pub *rsaPublicKey) Private() bool {
	return false
}

func (pub *rsaPublicKey) PublicKey() (Key, error) {
	return pub, nil
}

type rsaKeyGenerator struct {
	bits int
}

func (g *rsaKeyGenerator) KeyGen() (Key, error) {
	priv, err := rsa.GenerateKey(rand.Reader, g.bits)
	if err != nil {
		return nil, errors.Wrap(err, "codec: generate RSA key")
	}
	return &rsaPrivateKey{priv}, nil
}

// GenerateRSA generates a fresh RSA private key with a modulus of the
// given bit size.
func GenerateRSA(bits int) (Key, error) {
	gen := &rsaKeyGenerator{bits: bits}
	return gen.KeyGen()
}

// marshalPKCS1PrivateKey builds the PKCS#1 RSAPrivateKey body. Every
// INTEGER field goes through the I2OSP writer so the DER sign and
// padding rules are applied uniformly.
func marshalPKCS1PrivateKey(priv *rsa.PrivateKey) ([]byte, error) {
	if len(priv.Primes) != 2 {
		return nil, errors.Errorf("codec: unsupported RSA key with %d primes", len(priv.Primes))
	}
	priv.Precompute()
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		derutil.AddInt(b, big.NewInt(0)) // two-prime version
		derutil.AddInt(b, priv.N)
		derutil.AddInt(b, big.NewInt(int64(priv.E)))
		derutil.AddInt(b, priv.D)
		derutil.AddInt(b, priv.Primes[0])
		derutil.AddInt(b, priv.Primes[1])
		derutil.AddInt(b, priv.Precomputed.Dp)
		derutil.AddInt(b, priv.Precomputed.Dq)
		derutil.AddInt(b, priv.Precomputed.Qinv)
	})
	return b.Bytes()
}

func marshalPKCS1PublicKey(pub *rsa.PublicKey) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		derutil.AddInt(b, pub.N)
		derutil.AddInt(b, big.NewInt(int64(pub.E)))
	})
	return b.Bytes()
}

func marshalRSAPublicKey(pub *rsa.PublicKey) ([]byte, error) {
	body, err := marshalPKCS1PublicKey(pub)
	if err != nil {
		return nil, err
	}
	return asn1.Marshal(pkixPublicKey{
		Algorithm: pkix.AlgorithmIdentifier{
			Algorithm:  oidRSA,
			Parameters: asn1.NullRawValue,
		},
		PublicKey: asn1.BitString{Bytes: body, BitLength: 8 * len(body)},
	})
}

func rsaSKI(pub *rsa.PublicKey) []byte {
	raw, err := marshalPKCS1PublicKey(pub)
	if err != nil {
		return nil
	}
	hash := sha256.New()
	hash.Write(raw)
	return hash.Sum(nil)
}
