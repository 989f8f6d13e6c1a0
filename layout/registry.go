package layout

import "github.com/joshuapare/nvkit/internal/format"

// Registry tracks the next free offset, the registered items and the
// layout signature.
type Registry struct {
	next      int
	items     []*Item // registration order; nil entries are unregistered slots
	active    int
	signature uint16
}

// Default is the process-wide registry used by the package-level helpers.
var Default = New()

// New returns an empty, unfinalized registry.
func New() *Registry {
	return &Registry{}
}

// Register creates an item for d. While the registry is unfinalized and d
// is non-empty, the item is assigned the next free offset and linked into
// the layout. Otherwise it is returned with size 0 and is never persisted.
func (r *Registry) Register(name string, d Data) *Item {
	size := 0
	if d != nil {
		size = len(d.Bytes())
	}

	it := &Item{name: name, data: d, addr: r.next, size: size, slot: -1}
	if r.signature != format.Unfinalized || size == 0 {
		it.size = 0
		return it
	}

	r.next += size
	it.slot = len(r.items)
	r.items = append(r.items, it)
	r.active++
	return it
}

// Unregister removes a linked item from the layout and invalidates the
// signature. The item is excluded from persistence from then on. Items that
// were never linked are ignored.
func (r *Registry) Unregister(it *Item) {
	if it == nil || !it.Linked() || it.slot >= len(r.items) || r.items[it.slot] != it {
		return
	}
	r.items[it.slot] = nil
	it.slot = -1
	it.size = 0
	r.active--
	r.signature = format.Unfinalized
}

// Finalize recomputes the signature from the current items and closes the
// registration phase. It returns the new signature, which is
// format.Unfinalized when the registry holds no items.
func (r *Registry) Finalize() uint16 {
	r.signature = format.Unfinalized
	sig := format.Unfinalized
	r.Each(func(it *Item) bool {
		sig = Fold(sig, it.size)
		return true
	})
	r.signature = sig
	return sig
}

// Invalidate drops the registry back to the unfinalized state without
// touching the items.
func (r *Registry) Invalidate() {
	r.signature = format.Unfinalized
}

// Each calls fn for every linked item, most recently registered first,
// until fn returns false.
func (r *Registry) Each(fn func(*Item) bool) {
	for i := len(r.items) - 1; i >= 0; i-- {
		it := r.items[i]
		if it == nil {
			continue
		}
		if !fn(it) {
			return
		}
	}
}

// Items returns the linked items in registration (offset) order.
func (r *Registry) Items() []*Item {
	out := make([]*Item, 0, r.active)
	for _, it := range r.items {
		if it != nil {
			out = append(out, it)
		}
	}
	return out
}

// End returns the next free offset, which is also where the signature lives.
func (r *Registry) End() int { return r.next }

// Signature returns the current signature, or format.Unfinalized.
func (r *Registry) Signature() uint16 { return r.signature }

// Finalized reports whether the registry has a valid signature.
func (r *Registry) Finalized() bool { return r.signature != format.Unfinalized }

// Len returns the number of linked items.
func (r *Registry) Len() int { return r.active }

// Register adds d to the Default registry.
func Register(name string, d Data) *Item { return Default.Register(name, d) }

// Unregister removes it from the Default registry.
func Unregister(it *Item) { Default.Unregister(it) }
