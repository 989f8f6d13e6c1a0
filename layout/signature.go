package layout

import "github.com/joshuapare/nvkit/internal/format"

// Fold mixes one item size into a running signature.
//
// The previous value is shifted left and XORed with the size, then the low
// bit is flipped when the previous value's high bit was clear. A zero result
// is bumped to 1 so a non-empty layout never produces format.Unfinalized.
// Sizes wider than 16 bits are truncated.
func Fold(sig uint16, size int) uint16 {
	var carry uint16
	if sig&format.SignatureHighBit == 0 {
		carry = 1
	}
	next := ((sig << 1) ^ uint16(size)) ^ carry
	if next == format.Unfinalized {
		next++
	}
	return next
}

// Signature folds sizes in the order given. An empty list yields
// format.Unfinalized.
func Signature(sizes ...int) uint16 {
	sig := format.Unfinalized
	for _, s := range sizes {
		sig = Fold(sig, s)
	}
	return sig
}
