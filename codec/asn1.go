package codec

import (
	"crypto/x509/pkix"
	"encoding/asn1"

	"github.com/pkg/errors"
)

// privateKeyInfo reflects the PKCS#8 PrivateKeyInfo structure (RFC 5208).
type privateKeyInfo struct {
	Version    int
	Algorithm  pkix.AlgorithmIdentifier
	PrivateKey []byte
}

// publicKeyInfo reflects the X.509 SubjectPublicKeyInfo structure on the
// way in; pkixPublicKey is its marshalling counterpart (RawContent is
// meaningful only to Unmarshal).
type publicKeyInfo struct {
	Raw       asn1.RawContent
	Algorithm pkix.AlgorithmIdentifier
	PublicKey asn1.BitString
}

type pkixPublicKey struct {
	Algorithm pkix.AlgorithmIdentifier
	PublicKey asn1.BitString
}

// ecPrivateKey reflects the SEC1 ECPrivateKey structure (RFC 5915). The
// curve OID is optional inside PKCS#8, where the outer algorithm
// parameters carry it instead.
type ecPrivateKey struct {
	Version       int
	PrivateKey    []byte
	NamedCurveOID asn1.ObjectIdentifier `asn1:"optional,explicit,tag:0"`
	PublicKey     asn1.BitString        `asn1:"optional,explicit,tag:1"`
}

// unmarshalPKCS8 parses the outer PKCS#8 envelope. A decode is
// all-or-nothing: trailing bytes after the structure fail it.
func unmarshalPKCS8(der []byte) (*privateKeyInfo, bool) {
	var info privateKeyInfo
	rest, err := asn1.Unmarshal(der, &info)
	if err != nil || len(rest) != 0 {
		return nil, false
	}
	return &info, true
}

func unmarshalSPKI(der []byte) (*publicKeyInfo, bool) {
	var info publicKeyInfo
	rest, err := asn1.Unmarshal(der, &info)
	if err != nil || len(rest) != 0 {
		return nil, false
	}
	return &info, true
}

// paramsOID extracts the single OID held in an AlgorithmIdentifier's
// parameters field.
func paramsOID(params asn1.RawValue) (asn1.ObjectIdentifier, error) {
	var oid asn1.ObjectIdentifier
	rest, err := asn1.Unmarshal(params.FullBytes, &oid)
	if err != nil {
		return nil, errors.Wrap(err, "codec: parse algorithm parameters OID")
	}
	if len(rest) != 0 {
		return nil, errors.New("codec: trailing bytes after algorithm parameters OID")
	}
	return oid, nil
}
