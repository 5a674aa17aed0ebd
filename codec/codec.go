// Package codec converts asymmetric key material between in-memory key
// instances and ASN.1 DER byte sequences (PKCS#8/PKIX with the legacy bare
// forms where an algorithm has one). It classifies bytes as private or
// public key material by structural decode, verifies the algorithm
// identity on every decode, and produces the canonical DER layouts other
// systems expect. PEM wrapping and key arithmetic live elsewhere.
package codec

import (
	"encoding/asn1"

	"github.com/pkg/errors"
)

// Codec describes one asymmetric key algorithm: its fixed algorithm
// identity and the constructors turning DER bytes into Key instances.
// Codec values are package level singletons; the identity never varies
// between instances of the same key type.
type Codec interface {
	// OID returns the primary algorithm OID.
	OID() asn1.ObjectIdentifier
	// ParamOID returns the secondary OID qualifying the algorithm
	// parameters (the named curve for ECDSA) and whether one exists.
	ParamOID() (asn1.ObjectIdentifier, bool)
	// DecodePublic constructs a Key from a DER encoded public key
	// (SubjectPublicKeyInfo, or the algorithm's bare legacy form).
	DecodePublic(der []byte) (Key, error)
	// DecodePrivate constructs a Key from a DER encoded private key
	// (PKCS#8, or the algorithm's bare legacy form).
	DecodePrivate(der []byte) (Key, error)
}

// Key is a decoded key instance. Instances are immutable; every operation
// allocates its own output and is safe for concurrent use.
type Key interface {
	// PublicBytes returns the PKIX (SubjectPublicKeyInfo) DER encoding of
	// the public key, deriving it from private material when necessary.
	PublicBytes() ([]byte, error)
	// PrivateBytes returns the PKCS#8 DER encoding of the private key. It
	// fails with ErrNoPrivateKey on an instance holding only the public
	// half.
	PrivateBytes() ([]byte, error)
	// SKI returns the subject key identifier, the SHA-256 digest of the
	// marshalled public key.
	SKI() []byte
	Private() bool
	// PublicKey returns the public half as a new Key.
	PublicKey() (Key, error)
}

// KeyGenerator produces fresh private keys for one algorithm.
type KeyGenerator interface {
	KeyGen() (Key, error)
}

// Decode constructs a Key from DER bytes of unknown classification. The
// private form is tried first: private structures are a superset of the
// public ones for the supported algorithms, so this order cannot succeed
// on a structurally compatible but wrong interpretation. The public form
// is attempted exactly once, and only if the private attempt failed.
func Decode(c Codec, der []byte) (Key, error) {
	key, privErr := c.DecodePrivate(der)
	if privErr == nil {
		return key, nil
	}
	key, pubErr := c.DecodePublic(der)
	if pubErr == nil {
		return key, nil
	}
	// An identity mismatch from either attempt is the informative
	// failure: the input parsed structurally but named another
	// algorithm. Keep it as the cause so callers can classify.
	if IsMismatch(pubErr) && !IsMismatch(privErr) {
		return nil, errors.Wrapf(pubErr, "codec: not a private or public key (private attempt: %v)", privErr)
	}
	return nil, errors.Wrapf(privErr, "codec: not a private or public key (public attempt: %v)", pubErr)
}

// Encode returns the key's external representation: the PKCS#8 private
// DER when private material is present, otherwise the PKIX public DER.
// The public fallback applies only to instances holding no private
// material; any other private-encode failure propagates rather than
// silently downgrading the export.
func Encode(k Key) ([]byte, error) {
	der, privErr := k.PrivateBytes()
	if privErr == nil {
		return der, nil
	}
	if !IsNoPrivateKey(privErr) {
		return nil, privErr
	}
	der, pubErr := k.PublicBytes()
	if pubErr != nil {
		return nil, errors.Wrapf(privErr, "codec: no encodable form (public attempt: %v)", pubErr)
	}
	return der, nil
}

// EncodePublic returns the PKIX public DER regardless of whether k holds
// private material.
func EncodePublic(k Key) ([]byte, error) {
	return k.PublicBytes()
}
