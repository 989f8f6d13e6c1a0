package nvm

import (
	"log/slog"

	"github.com/joshuapare/nvkit/internal/format"
	"github.com/joshuapare/nvkit/internal/logger"
	"github.com/joshuapare/nvkit/layout"
	"github.com/joshuapare/nvkit/store"
)

// Manager ties a layout registry to a backing store.
type Manager struct {
	reg *layout.Registry
	dev store.Device
	log *slog.Logger
}

// New returns a Manager for reg on dev. A nil reg selects layout.Default.
func New(reg *layout.Registry, dev store.Device, cfg Config) *Manager {
	if reg == nil {
		reg = layout.Default
	}
	return &Manager{
		reg: reg,
		dev: dev,
		log: logger.Or(cfg.Logger),
	}
}

// Registry returns the layout registry.
func (m *Manager) Registry() *layout.Registry { return m.reg }

// Device returns the backing store.
func (m *Manager) Device() store.Device { return m.dev }

// Register adds d to the layout. See layout.Registry.Register.
func (m *Manager) Register(name string, d layout.Data) *layout.Item {
	it := m.reg.Register(name, d)
	if !it.Linked() {
		m.log.Debug("item excluded from layout", "name", name, "finalized", m.reg.Finalized())
	}
	return it
}

// Unregister removes it from the layout. The layout must be finalized again
// before any further persistence.
func (m *Manager) Unregister(it *layout.Item) {
	m.reg.Unregister(it)
}

// Finalize computes the layout signature and compares it with the one in the
// store, then stores, wipes or retrieves according to opts. It returns
// whether the store's prior contents matched the layout, regardless of the
// action taken afterwards.
//
// An empty layout, or one that does not fit in the store, returns false and
// leaves the store untouched.
func (m *Manager) Finalize(opts Options) bool {
	sig := m.reg.Finalize()
	if sig == format.Unfinalized {
		m.log.Debug("finalize: empty layout")
		return false
	}

	if need := m.reg.End() + format.SignatureSize; need > m.dev.Size() {
		m.reg.Invalidate()
		m.log.Error("finalize: layout does not fit store",
			"need", need, "size", m.dev.Size(), "err", format.ErrLayoutTooLarge)
		return false
	}

	valid := m.VerifySignature()
	m.log.Debug("finalize", "signature", sig, "end", m.reg.End(), "items", m.reg.Len(), "valid", valid)

	switch {
	case opts.StoreAlways || (!valid && opts.StoreIfInvalid):
		m.StoreAll(false)
		if opts.WipeUnusedAreas {
			m.wipe()
		}
	case opts.RetrieveIfValid && valid:
		m.RetrieveAll()
	}

	return valid
}

// wipe erases every byte after the signature, skipping bytes that are
// already erased.
func (m *Manager) wipe() {
	written := 0
	for addr := m.SignatureAddr() + format.SignatureSize; addr < m.dev.Size(); addr++ {
		if m.dev.LoadByte(addr) != format.ErasedByte {
			m.dev.StoreByte(addr, format.ErasedByte)
			written++
		}
	}
	m.log.Info("wiped unused area", "from", m.SignatureAddr()+format.SignatureSize, "written", written)
}

// active reports whether bulk operations may touch the store.
func (m *Manager) active() bool {
	return m.reg.End() != 0 && m.reg.Finalized()
}

// VerifySignature reports whether the store holds the current signature.
// It is false while the layout is unfinalized.
func (m *Manager) VerifySignature() bool {
	if !m.reg.Finalized() {
		return false
	}
	sig := format.EncodeSignature(m.reg.Signature())
	return m.dev.VerifyBlock(sig[:], m.SignatureAddr())
}

// SignatureAddr returns the offset of the signature in the store.
func (m *Manager) SignatureAddr() int { return m.reg.End() }

// StoreAll writes every item to the store, then the signature if force is
// set or the stored one differs. It does nothing while the layout is empty
// or unfinalized.
func (m *Manager) StoreAll(force bool) {
	if !m.active() {
		return
	}

	m.reg.Each(func(it *layout.Item) bool {
		m.store(it)
		return true
	})

	if force || !m.VerifySignature() {
		sig := format.EncodeSignature(m.reg.Signature())
		m.dev.StoreBlock(sig[:], m.SignatureAddr())
		m.log.Debug("signature written", "signature", m.reg.Signature(), "addr", m.SignatureAddr())
	}
}

// RetrieveAll loads every item from the store when the stored signature
// matches. Either all items are loaded or none are.
func (m *Manager) RetrieveAll() bool {
	if !m.active() || !m.VerifySignature() {
		return false
	}
	m.reg.Each(func(it *layout.Item) bool {
		m.retrieve(it)
		return true
	})
	return true
}

// VerifyAll reports whether the stored signature matches and every item's
// stored bytes equal its in-memory value.
func (m *Manager) VerifyAll() bool {
	if !m.VerifySignature() {
		return false
	}
	ok := true
	m.reg.Each(func(it *layout.Item) bool {
		ok = m.verify(it)
		return ok
	})
	return ok
}

// Store writes a single item. It does nothing before the layout has been
// finalized or for excluded items.
func (m *Manager) Store(it *layout.Item) {
	if m.ready(it) {
		m.store(it)
	}
}

// Retrieve loads a single item from the store. It returns false before the
// layout has been finalized or for excluded items. The stored signature is
// not checked.
func (m *Manager) Retrieve(it *layout.Item) bool {
	if !m.ready(it) {
		return false
	}
	m.retrieve(it)
	return true
}

// Verify reports whether a single item's stored bytes equal its in-memory
// value. Excluded items and unfinalized layouts always report false.
func (m *Manager) Verify(it *layout.Item) bool {
	return m.ready(it) && m.verify(it)
}

func (m *Manager) ready(it *layout.Item) bool {
	return it != nil && it.Size() > 0 && m.reg.Finalized()
}

func (m *Manager) store(it *layout.Item) {
	if b := it.Buffer(); b != nil {
		m.dev.StoreBlock(b, it.Addr())
	}
}

func (m *Manager) retrieve(it *layout.Item) {
	if b := it.Buffer(); b != nil {
		m.dev.LoadBlock(b, it.Addr())
	}
}

func (m *Manager) verify(it *layout.Item) bool {
	b := it.Buffer()
	return b != nil && m.dev.VerifyBlock(b, it.Addr())
}
