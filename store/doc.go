// Package store provides the byte-addressable backing stores that items are
// persisted to.
//
// A Device is a flat, linearly addressed array of Size() bytes with the five
// primitives an EEPROM offers: single-byte load and store, block load and
// store, and a block compare against the live contents. All calls are
// synchronous and complete before returning.
//
// Implementations in this package:
//
//   - Memory: a RAM-backed EEPROM, erased to 0xFF on creation.
//   - File: an image file mapped read/write, with dirty-page flushing.
//   - Instrumented: a wrapper that counts operations in Prometheus counters.
//
// Accesses outside [0, Size()) never panic: loads read as erased (0xFF),
// stores are dropped and VerifyBlock reports false.
package store
