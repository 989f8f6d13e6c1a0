package item

import (
	"bytes"
	"encoding/binary"

	"github.com/joshuapare/nvkit/layout"
	"github.com/joshuapare/nvkit/nvm"
)

// Value is a persisted value of a fixed-size type, encoded little-endian.
//
// T must have a fixed encoded size (see encoding/binary.Size). Types
// without one register with size 0 and are never persisted.
type Value[T any] struct {
	m   *nvm.Manager
	it  *layout.Item
	buf []byte
}

// New registers a value named name with default def.
func New[T any](m *nvm.Manager, name string, def T) *Value[T] {
	v := &Value[T]{m: m}
	if n := binary.Size(def); n > 0 {
		v.buf = make([]byte, n)
		_, _ = binary.Encode(v.buf, binary.LittleEndian, def)
	}
	v.it = m.Register(name, v)
	return v
}

// Bytes returns the encoded value. It implements layout.Data.
func (v *Value[T]) Bytes() []byte { return v.buf }

// Item returns the layout slot.
func (v *Value[T]) Item() *layout.Item { return v.it }

// Get decodes the current value.
func (v *Value[T]) Get() T {
	var out T
	if len(v.buf) > 0 {
		_, _ = binary.Decode(v.buf, binary.LittleEndian, &out)
	}
	return out
}

// Set replaces the value and stores it when its encoding changed.
func (v *Value[T]) Set(x T) {
	if len(v.buf) == 0 {
		return
	}
	next := make([]byte, len(v.buf))
	if _, err := binary.Encode(next, binary.LittleEndian, x); err != nil {
		return
	}
	if bytes.Equal(next, v.buf) {
		return
	}
	copy(v.buf, next)
	v.m.Store(v.it)
}

// Store writes the value to the store.
func (v *Value[T]) Store() { v.m.Store(v.it) }

// Retrieve loads the value from the store.
func (v *Value[T]) Retrieve() bool { return v.m.Retrieve(v.it) }

// Verify reports whether the stored value equals the in-memory one.
func (v *Value[T]) Verify() bool { return v.m.Verify(v.it) }
