package store

import (
	"github.com/joshuapare/nvkit/internal/buf"
	"github.com/joshuapare/nvkit/internal/format"
)

// Device is the set of primitives the persistence controller needs from a
// non-volatile store.
type Device interface {
	// Size returns the total number of addressable bytes.
	Size() int
	// LoadByte returns the byte at addr.
	LoadByte(addr int) byte
	// StoreByte writes b at addr.
	StoreByte(addr int, b byte)
	// LoadBlock fills dst with the bytes starting at addr.
	LoadBlock(dst []byte, addr int)
	// StoreBlock writes src starting at addr.
	StoreBlock(src []byte, addr int)
	// VerifyBlock reports whether the bytes starting at addr equal src.
	VerifyBlock(src []byte, addr int) bool
}

// cells is the shared implementation of Device over a byte slice. Memory
// and File both embed it.
type cells struct {
	data  []byte
	touch func(off, n int) // called after every successful store
}

func (c *cells) Size() int { return len(c.data) }

func (c *cells) LoadByte(addr int) byte {
	if !buf.Has(c.data, addr, 1) {
		return format.ErasedByte
	}
	return c.data[addr]
}

func (c *cells) StoreByte(addr int, b byte) {
	if !buf.Has(c.data, addr, 1) {
		return
	}
	c.data[addr] = b
	c.touched(addr, 1)
}

func (c *cells) LoadBlock(dst []byte, addr int) {
	src, ok := buf.Slice(c.data, addr, len(dst))
	if !ok {
		for i := range dst {
			dst[i] = c.LoadByte(addr + i)
		}
		return
	}
	copy(dst, src)
}

func (c *cells) StoreBlock(src []byte, addr int) {
	dst, ok := buf.Slice(c.data, addr, len(src))
	if !ok {
		return
	}
	copy(dst, src)
	c.touched(addr, len(src))
}

// VerifyBlock compares byte by byte against the live cells, stopping at the
// first difference.
func (c *cells) VerifyBlock(src []byte, addr int) bool {
	if !buf.Has(c.data, addr, len(src)) {
		return false
	}
	for i, b := range src {
		if c.data[addr+i] != b {
			return false
		}
	}
	return true
}

func (c *cells) touched(off, n int) {
	if c.touch != nil {
		c.touch(off, n)
	}
}

// Erase sets every byte of dev to format.ErasedByte, skipping bytes that
// already hold it.
func Erase(dev Device) {
	for addr := 0; addr < dev.Size(); addr++ {
		if dev.LoadByte(addr) != format.ErasedByte {
			dev.StoreByte(addr, format.ErasedByte)
		}
	}
}
