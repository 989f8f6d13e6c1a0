package layout

// Data is the raw byte view of an item's in-memory value.
//
// The returned slice is read from and written to in place by the controller,
// and its length is the item's size. It must not change length after the
// item is registered.
type Data interface {
	Bytes() []byte
}

// Bytes adapts a plain byte slice to Data.
type Bytes []byte

// Bytes returns b itself.
func (b Bytes) Bytes() []byte { return b }

// Item is a registered slot in the store.
type Item struct {
	name string
	data Data
	addr int
	size int
	slot int // index in Registry.items, -1 when never linked
}

// Name returns the label given at registration.
func (it *Item) Name() string { return it.name }

// Addr returns the byte offset of the item in the store.
func (it *Item) Addr() int { return it.addr }

// Size returns the number of bytes the item occupies. Zero means the item
// is excluded from persistence.
func (it *Item) Size() int { return it.size }

// Data returns the item's in-memory value.
func (it *Item) Data() Data { return it.data }

// Linked reports whether the item was accepted into a registry layout.
func (it *Item) Linked() bool { return it.slot >= 0 && it.size > 0 }

// Buffer returns the in-memory bytes backing the item, trimmed to Size.
// Excluded items return nil.
func (it *Item) Buffer() []byte {
	if it.size == 0 || it.data == nil {
		return nil
	}
	b := it.data.Bytes()
	if len(b) < it.size {
		return nil
	}
	return b[:it.size]
}
