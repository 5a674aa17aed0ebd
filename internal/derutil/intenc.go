package derutil

import (
	"math/big"

	"github.com/pkg/errors"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// AddInt writes x to b as a DER INTEGER. Zero encodes as the single octet
// 0x00. Key material never carries negative values, so a negative x
// poisons the builder instead of encoding two's complement.
func AddInt(b *cryptobyte.Builder, x *big.Int) {
	if x.Sign() < 0 {
		b.SetError(errors.New("derutil: refusing to encode negative INTEGER"))
		return
	}
	b.AddASN1(cbasn1.INTEGER, func(c *cryptobyte.Builder) {
		mag := x.Bytes()
		size := len(mag)
		if size == 0 {
			size = 1
		}
		c.AddBytes(I2OSP(mag, size))
	})
}
