package format

import "errors"

var (
	// ErrOutOfRange indicates an access beyond the end of the store.
	ErrOutOfRange = errors.New("format: address out of range")
	// ErrLayoutTooLarge indicates the registered items plus signature do not fit the store.
	ErrLayoutTooLarge = errors.New("format: layout exceeds store size")
	// ErrUnknownType indicates a manifest named an item type that has no codec.
	ErrUnknownType = errors.New("format: unknown item type")
	// ErrBadValue indicates a value could not be parsed for its item type.
	ErrBadValue = errors.New("format: bad value")
)
