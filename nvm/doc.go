// Package nvm persists a layout of registered items to a non-volatile store.
//
// # Start-up
//
// Items are registered first, then Finalize is called once to close the
// layout, compute its signature and decide what to do with the store:
//
//	m := nvm.New(layout.New(), dev, nvm.Config{})
//	speed := item.New[uint16](m, "speed", 1200)
//	mode := item.New[uint8](m, "mode", 1)
//
//	valid := m.Finalize(nvm.Options{StoreIfInvalid: true, RetrieveIfValid: true})
//
// On first boot (or after the set of items changed) the stored signature
// does not match: the defaults are written along with the new signature.
// On later boots the signature matches and the stored values replace the
// defaults. The return value reports which case happened.
//
// # Store Layout
//
//	[0, End)                 item bytes, packed in registration order
//	[End, End+2)             signature, little-endian
//	[End+2, Size)            unused; optionally wiped to 0xFF
//
// # Wear
//
// The signature is only rewritten when it differs from what is stored, and
// the wipe skips bytes that are already 0xFF.
//
// # Thread Safety
//
// A Manager is not thread-safe. All calls run to completion synchronously
// on the caller's goroutine.
package nvm
