// Package layout assigns byte ranges in a fixed-size store to registered items.
//
// # Overview
//
// Every persisted value is an Item: a slot of fixed size at a fixed offset.
// Items are registered during start-up, before any storage operation, and
// offsets are handed out contiguously in registration order:
//
//	reg := layout.New()
//	a := reg.Register("threshold", thresholdBuf) // addr 0, size 4
//	b := reg.Register("mode", modeBuf)           // addr 4, size 1
//
// # Finalization
//
// Finalize closes the registration phase and derives a 16-bit signature from
// the sequence of item sizes. The signature is stored right after the last
// item (at End()) and lets the nvm package detect an uninitialized store or
// one written by a different layout. Zero is reserved for "unfinalized".
//
// Items registered after finalization, or with a zero size, are created with
// size 0 and never take part in persistence. This is not an error; callers
// that need to know can check Item.Linked.
//
// # Removal
//
// Unregister marks an item's slot inactive and drops the registry back to
// the unfinalized state. Offsets are never reused: End() only grows.
//
// # Thread Safety
//
// Registry instances are not thread-safe. Registration is expected to happen
// from a single initialization path.
package layout
