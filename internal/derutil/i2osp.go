package derutil

// I2OSP converts a nonnegative big-endian integer x into an octet string
// of at least size bytes, per RFC 3447 §4.1 with the DER INTEGER sign
// correction: x is left padded with zero bytes up to size, and when the
// most significant byte of the result has its high bit set one more zero
// byte is prepended so the encoding cannot be read as negative. The input
// is never truncated, so the result is size or size+1 bytes (or
// len(x)/len(x)+1 when x is already longer than size). Leading zero bytes
// in x are tolerated.
//
// I2OSP(nil, 0) returns an empty slice: the sign check is defined over
// the first byte of the result and an empty sequence has none.
func I2OSP(x []byte, size int) []byte {
	return AppendI2OSP(nil, x, size)
}

// AppendI2OSP appends the I2OSP encoding of x to dst and returns the
// extended buffer.
func AppendI2OSP(dst, x []byte, size int) []byte {
	if len(x) >= size {
		if len(x) > 0 && x[0]&0x80 != 0 {
			dst = append(dst, 0x00)
		}
		return append(dst, x...)
	}
	// The pad bytes become the most significant octets, so the high bit
	// of the result is always clear here.
	dst = append(dst, make([]byte, size-len(x))...)
	return append(dst, x...)
}
