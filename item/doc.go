// Package item provides typed values that register themselves in a
// Manager's layout.
//
// A Value[T] owns an encoded copy of a fixed-size T and behaves like a
// variable that persists itself: Set writes the item to the store when the
// value actually changes.
//
//	count := item.New[uint32](m, "boot_count", 0)
//	m.Finalize(nvm.DefaultOptions())
//	count.Set(count.Get() + 1)
//
// Declare items once, during start-up and in a fixed order: an item's
// offset depends on everything registered before it.
package item
