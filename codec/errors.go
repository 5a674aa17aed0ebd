package codec

import (
	"encoding/asn1"
	"fmt"

	"github.com/pkg/errors"
)

// ErrNoPrivateKey reports a private key encode requested on an instance
// holding only public material.
var ErrNoPrivateKey = errors.New("codec: key holds no private material")

type errMismatch struct {
	want asn1.ObjectIdentifier
	got  asn1.ObjectIdentifier
}

func (e errMismatch) Error() string {
	return fmt.Sprintf("codec: algorithm OID %v does not match expected %v", e.got, e.want)
}

// IsMismatch reports whether err is an algorithm identity mismatch: the
// input parsed structurally but named a different algorithm or curve than
// the codec it was decoded with.
func IsMismatch(err error) bool {
	_, ok := errors.Cause(err).(errMismatch)
	return ok
}

// IsNoPrivateKey reports whether err came from encoding private material
// absent from the instance.
func IsNoPrivateKey(err error) bool {
	return errors.Cause(err) == ErrNoPrivateKey
}

func mismatch(want, got asn1.ObjectIdentifier) error {
	return errors.WithStack(errMismatch{want: want, got: got})
}
