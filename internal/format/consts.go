package format

// Persisted layout constants.
//
// An image is the concatenation of every registered item's raw bytes in
// offset order, followed by the layout signature. Everything after the
// signature is unused and may be wiped to ErasedByte.
const (
	// SignatureSize is the number of bytes the layout signature occupies
	// immediately after the last item.
	SignatureSize = 2

	// ErasedByte is the value of an erased EEPROM cell and the wipe sentinel.
	ErasedByte = 0xFF

	// SignatureHighBit is the bit tested by the signature fold.
	SignatureHighBit = 0x8000

	// Unfinalized is the reserved signature value meaning "no layout".
	Unfinalized uint16 = 0
)

// DefaultStoreSize is the EEPROM size of the ATmega328P (1 KiB), used when a
// manifest does not specify one.
const DefaultStoreSize = 1024
