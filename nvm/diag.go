package nvm

import (
	"fmt"

	"github.com/joshuapare/nvkit/internal/format"
	"github.com/joshuapare/nvkit/layout"
)

// Slot describes one item's place in the store.
type Slot struct {
	Name string `json:"name"`
	Addr int    `json:"addr"`
	Size int    `json:"size"`
}

// Layout returns the linked items in offset order.
func (m *Manager) Layout() []Slot {
	items := m.reg.Items()
	out := make([]Slot, 0, len(items))
	for _, it := range items {
		out = append(out, Slot{Name: it.Name(), Addr: it.Addr(), Size: it.Size()})
	}
	return out
}

// Mismatch describes a difference between the store and memory.
type Mismatch struct {
	Name      string `json:"name,omitempty"`
	Addr      int    `json:"addr"`
	Size      int    `json:"size"`
	Offset    int    `json:"offset"`              // absolute address of the first differing byte
	Signature bool   `json:"signature,omitempty"` // the layout signature itself differs
	Stored    uint16 `json:"stored,omitempty"`    // signature found in the store
	Expected  uint16 `json:"expected,omitempty"`  // signature of the current layout
}

func (e *Mismatch) Error() string {
	if e.Signature {
		return fmt.Sprintf("signature mismatch at offset 0x%X: stored 0x%04X, want 0x%04X", e.Offset, e.Stored, e.Expected)
	}
	return fmt.Sprintf("item %q at 0x%X (%d bytes) differs at offset 0x%X", e.Name, e.Addr, e.Size, e.Offset)
}

// Diff reports every difference between the store and memory, in offset
// order. When the stored signature does not match, that is the only
// difference reported since item bytes cannot be trusted. A nil result
// means VerifyAll would return true.
func (m *Manager) Diff() []Mismatch {
	if !m.VerifySignature() {
		addr := m.SignatureAddr()
		var stored [format.SignatureSize]byte
		m.dev.LoadBlock(stored[:], addr)
		return []Mismatch{{
			Addr:      addr,
			Size:      format.SignatureSize,
			Offset:    m.firstDiff(signatureBytes(m.reg.Signature()), addr),
			Signature: true,
			Stored:    format.ReadU16(stored[:], 0),
			Expected:  m.reg.Signature(),
		}}
	}

	var out []Mismatch
	for _, it := range m.reg.Items() {
		b := it.Buffer()
		if b == nil || m.dev.VerifyBlock(b, it.Addr()) {
			continue
		}
		out = append(out, Mismatch{
			Name:   it.Name(),
			Addr:   it.Addr(),
			Size:   it.Size(),
			Offset: m.firstDiff(b, it.Addr()),
		})
	}
	return out
}

// Snapshot returns a copy of the stored bytes for it, or nil for excluded
// items.
func (m *Manager) Snapshot(it *layout.Item) []byte {
	if it == nil || it.Size() == 0 {
		return nil
	}
	b := make([]byte, it.Size())
	m.dev.LoadBlock(b, it.Addr())
	return b
}

func (m *Manager) firstDiff(want []byte, addr int) int {
	for i, b := range want {
		if m.dev.LoadByte(addr+i) != b {
			return addr + i
		}
	}
	return addr
}

func signatureBytes(sig uint16) []byte {
	b := format.EncodeSignature(sig)
	return b[:]
}
