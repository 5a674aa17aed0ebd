package codec

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"math/big"

	cferr "github.com/cloudflare/cfssl/errors"
	"github.com/pkg/errors"
)

var oidECPublicKey = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}

var (
	oidNamedCurveP224 = asn1.ObjectIdentifier{1, 3, 132, 0, 33}
	oidNamedCurveP256 = asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7}
	oidNamedCurveP384 = asn1.ObjectIdentifier{1, 3, 132, 0, 34}
	oidNamedCurveP521 = asn1.ObjectIdentifier{1, 3, 132, 0, 35}
)

// Per-curve ECDSA codecs. The algorithm identity is the id-ecPublicKey
// OID qualified by the named curve OID, so each curve is its own codec.
var (
	P224 Codec = ecdsaCodec{elliptic.P224(), oidNamedCurveP224}
	P256 Codec = ecdsaCodec{elliptic.P256(), oidNamedCurveP256}
	P384 Codec = ecdsaCodec{elliptic.P384(), oidNamedCurveP384}
	P521 Codec = ecdsaCodec{elliptic.P521(), oidNamedCurveP521}
)

func oidFromNamedCurve(curve elliptic.Curve) (asn1.ObjectIdentifier, bool) {
	switch curve {
	case elliptic.P224():
		return oidNamedCurveP224, true
	case elliptic.P256():
		return oidNamedCurveP256, true
	case elliptic.P384():
		return oidNamedCurveP384, true
	case elliptic.P521():
		return oidNamedCurveP521, true
	}
	return nil, false
}

type ecdsaCodec struct {
	curve    elliptic.Curve
	curveOID asn1.ObjectIdentifier
}

func (c ecdsaCodec) OID() asn1.ObjectIdentifier { return oidECPublicKey }

func (c ecdsaCodec) ParamOID() (asn1.ObjectIdentifier, bool) { return c.curveOID, true }

func (c ecdsaCodec) DecodePrivate(der []byte) (Key, error) {
	if info, ok := unmarshalPKCS8(der); ok {
		if !info.Algorithm.Algorithm.Equal(oidECPublicKey) {
			return nil, mismatch(oidECPublicKey, info.Algorithm.Algorithm)
		}
		namedCurve, err := paramsOID(info.Algorithm.Parameters)
		if err != nil {
			return nil, cferr.New(cferr.PrivateKeyError, cferr.ParseFailed)
		}
		if !namedCurve.Equal(c.curveOID) {
			return nil, mismatch(c.curveOID, namedCurve)
		}
		var ec ecPrivateKey
		rest, err := asn1.Unmarshal(info.PrivateKey, &ec)
		if err != nil || len(rest) != 0 {
			return nil, cferr.New(cferr.PrivateKeyError, cferr.ParseFailed)
		}
		// The inner curve OID is optional inside PKCS#8 but must agree
		// with the envelope when present.
		if ec.NamedCurveOID != nil && !ec.NamedCurveOID.Equal(c.curveOID) {
			return nil, mismatch(c.curveOID, ec.NamedCurveOID)
		}
		return c.keyFromSEC1(&ec)
	}
	var ec ecPrivateKey
	rest, err := asn1.Unmarshal(der, &ec)
	if err != nil || len(rest) != 0 {
		return nil, cferr.New(cferr.PrivateKeyError, cferr.ParseFailed)
	}
	// A bare SEC1 key carries its identity only in the curve OID.
	if ec.NamedCurveOID == nil {
		return nil, cferr.New(cferr.PrivateKeyError, cferr.ParseFailed)
	}
	if !ec.NamedCurveOID.Equal(c.curveOID) {
		return nil, mismatch(c.curveOID, ec.NamedCurveOID)
	}
	return c.keyFromSEC1(&ec)
}

func (c ecdsaCodec) DecodePublic(der []byte) (Key, error) {
	info, ok := unmarshalSPKI(der)
	if !ok {
		return nil, errors.New("codec: not a SubjectPublicKeyInfo structure")
	}
	if !info.Algorithm.Algorithm.Equal(oidECPublicKey) {
		return nil, mismatch(oidECPublicKey, info.Algorithm.Algorithm)
	}
	namedCurve, err := paramsOID(info.Algorithm.Parameters)
	if err != nil {
		return nil, errors.Wrap(err, "codec: parse EC public key parameters")
	}
	if !namedCurve.Equal(c.curveOID) {
		return nil, mismatch(c.curveOID, namedCurve)
	}
	x, y := elliptic.Unmarshal(c.curve, info.PublicKey.RightAlign())
	if x == nil {
		return nil, errors.New("codec: invalid EC point")
	}
	return &ecdsaPublicKey{&ecdsa.PublicKey{Curve: c.curve, X: x, Y: y}}, nil
}

func (c ecdsaCodec) keyFromSEC1(ec *ecPrivateKey) (Key, error) {
	if ec.Version != 1 {
		return nil, cferr.New(cferr.PrivateKeyError, cferr.ParseFailed)
	}
	d := new(big.Int).SetBytes(ec.PrivateKey)
	if d.Sign() <= 0 || d.Cmp(c.curve.Params().N) >= 0 {
		return nil, cferr.New(cferr.PrivateKeyError, cferr.ParseFailed)
	}
	priv := new(ecdsa.PrivateKey)
	priv.Curve = c.curve
	priv.D = d
	priv.PublicKey.X, priv.PublicKey.Y = c.curve.ScalarBaseMult(ec.PrivateKey)
	return &ecdsaPrivateKey{priv}, nil
}

type ecdsaPrivateKey struct {
	priv *ecdsa.PrivateKey
}

func (k *ecdsaPrivateKey) PublicBytes() ([]byte, error) {
	return x509.MarshalPKIXPublicKey(&k.priv.PublicKey)
}

func (k *ecdsaPrivateKey) PrivateBytes() ([]byte, error) {
	oidNamedCurve, ok := oidFromNamedCurve(k.priv.Curve)
	if !ok {
		return nil, errors.Errorf("codec: unsupported curve %s", k.priv.Curve.Params().Name)
	}
	privateKeyBytes := k.priv.D.Bytes()
	paddedPrivateKey := make([]byte, (k.priv.Curve.Params().N.BitLen()+7)/8)
	copy(paddedPrivateKey[len(paddedPrivateKey)-len(privateKeyBytes):], privateKeyBytes)
	pub := elliptic.Marshal(k.priv.Curve, k.priv.PublicKey.X, k.priv.PublicKey.Y)
	body, err := asn1.Marshal(ecPrivateKey{
		Version:    1,
		PrivateKey: paddedPrivateKey,
		PublicKey:  asn1.BitString{Bytes: pub, BitLength: 8 * len(pub)},
	})
	if err != nil {
		return nil, errors.Wrap(err, "codec: marshal EC private key body")
	}
	curveDER, err := asn1.Marshal(oidNamedCurve)
	if err != nil {
		return nil, errors.Wrap(err, "codec: marshal named curve OID")
	}
	return asn1.Marshal(privateKeyInfo{
		Version: 0,
		Algorithm: pkix.AlgorithmIdentifier{
			Algorithm:  oidECPublicKey,
			Parameters: asn1.RawValue{FullBytes: curveDER},
		},
		PrivateKey: body,
	})
}

func (k *ecdsaPrivateKey) SKI() []byte {
	if k.priv == nil {
		return nil
	}
	raw := elliptic.Marshal(k.priv.Curve, k.priv.PublicKey.X, k.priv.PublicKey.Y)
	hash := sha256.New()
	hash.Write(raw)
	return hash.Sum(nil)
}

func (k *ecdsaPrivateKey) Private() bool {
	return true
}

func (k *ecdsaPrivateKey) PublicKey() (Key, error) {
	return &ecdsaPublicKey{&k.priv.PublicKey}, nil
}

type ecdsaPublicKey struct {
	puk *ecdsa.PublicKey
}

func (pub *ecdsaPublicKey) PublicBytes() ([]byte, error) {
	return x509.MarshalPKIXPublicKey(pub.puk)
}

func (pub *ecdsaPublicKey) PrivateBytes() ([]byte, error) {
	return nil, errors.WithStack(ErrNoPrivateKey)
}

func (pub *ecdsaPublicKey) SKI() []byte {
	if pub.puk == nil {
		return nil
	}
	raw := elliptic.Marshal(pub.puk.Curve, pub.puk.X, pub.puk.Y)
	hash := sha256.New()
	hash.Write(raw)
	return hash.Sum(nil)
}

func (pub *ecdsaPublicKey) Private() bool {
	return false
}

func (pub *ecdsaPublicKey) PublicKey() (Key, error) {
	return pub, nil
}

type ecdsaKeyGenerator struct {
	curve elliptic.Curve
}

func (g *ecdsaKeyGenerator) KeyGen() (Key, error) {
	if _, ok := oidFromNamedCurve(g.curve); !ok {
		return nil, errors.Errorf("codec: unsupported curve %s", g.curve.Params().Name)
	}
	priv, err := ecdsa.GenerateKey(g.curve, rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "codec: generate ECDSA key")
	}
	return &ecdsaPrivateKey{priv}, nil
}

// GenerateECDSA generates a fresh ECDSA private key on one of the NIST
// curves with a codec in this package.
func GenerateECDSA(curve elliptic.Curve) (Key, error) {
	gen := &ecdsaKeyGenerator{curve: curve}
	return gen.KeyGen()
}
