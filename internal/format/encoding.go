package format

import "encoding/binary"

// Binary encoding utilities for little-endian integers.
//
// Signatures and typed item values are stored little-endian so images are
// identical regardless of the host that wrote them.

// PutU16 writes a uint16 value to the buffer at the specified offset in little-endian format.
func PutU16(b []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(b[off:off+2], v)
}

// ReadU16 reads a uint16 value from the buffer at the specified offset in little-endian format.
func ReadU16(b []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(b[off : off+2])
}

// EncodeSignature returns the on-store representation of sig.
func EncodeSignature(sig uint16) [SignatureSize]byte {
	var out [SignatureSize]byte
	PutU16(out[:], 0, sig)
	return out
}
