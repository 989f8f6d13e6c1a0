package item

import (
	"bytes"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/joshuapare/nvkit/layout"
	"github.com/joshuapare/nvkit/nvm"
)

// Text is a persisted string in a fixed number of bytes, encoded as
// Windows-1252 and padded with NUL. Runes outside the code page are
// replaced and strings longer than the capacity are truncated.
type Text struct {
	m   *nvm.Manager
	it  *layout.Item
	buf []byte
}

// NewText registers a text slot of capacity bytes with default def.
func NewText(m *nvm.Manager, name string, capacity int, def string) *Text {
	t := &Text{m: m}
	if capacity > 0 {
		t.buf = make([]byte, capacity)
		t.buf = encodeText(t.buf, def)
	}
	t.it = m.Register(name, t)
	return t
}

// Bytes returns the encoded text. It implements layout.Data.
func (t *Text) Bytes() []byte { return t.buf }

// Item returns the layout slot.
func (t *Text) Item() *layout.Item { return t.it }

// Cap returns the capacity in bytes.
func (t *Text) Cap() int { return len(t.buf) }

// Get decodes the text up to the first NUL.
func (t *Text) Get() string {
	return DecodeText(t.buf)
}

// Set replaces the text and stores it when its encoding changed.
func (t *Text) Set(s string) {
	if len(t.buf) == 0 {
		return
	}
	next := encodeText(make([]byte, len(t.buf)), s)
	if bytes.Equal(next, t.buf) {
		return
	}
	copy(t.buf, next)
	t.m.Store(t.it)
}

// Store writes the text to the store.
func (t *Text) Store() { t.m.Store(t.it) }

// Retrieve loads the text from the store.
func (t *Text) Retrieve() bool { return t.m.Retrieve(t.it) }

// Verify reports whether the stored text equals the in-memory one.
func (t *Text) Verify() bool { return t.m.Verify(t.it) }

// DecodeText decodes a NUL-padded Windows-1252 slot.
func DecodeText(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	s, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}

// EncodeText encodes s into a new NUL-padded slot of n bytes.
func EncodeText(s string, n int) []byte {
	return encodeText(make([]byte, n), s)
}

// encodeText fills dst with s, truncated to len(dst) and NUL padded.
func encodeText(dst []byte, s string) []byte {
	clear(dst)
	enc, err := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		enc = []byte(s)
	}
	copy(dst, enc)
	return dst
}
