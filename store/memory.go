package store

import "github.com/joshuapare/nvkit/internal/format"

// Memory is a RAM-backed EEPROM.
type Memory struct {
	cells
}

// NewMemory returns an erased store of size bytes.
func NewMemory(size int) *Memory {
	data := make([]byte, size)
	for i := range data {
		data[i] = format.ErasedByte
	}
	return &Memory{cells{data: data}}
}

// NewMemoryFrom returns a store backed directly by b. Writes through the
// store are visible in b.
func NewMemoryFrom(b []byte) *Memory {
	return &Memory{cells{data: b}}
}

// Bytes returns the live contents of the store.
func (m *Memory) Bytes() []byte { return m.data }
