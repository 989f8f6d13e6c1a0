// Package dirty tracks modified byte ranges of a mapped store image.
//
// # Overview
//
// File-backed stores write into a memory mapping. Rather than flushing the
// whole image on every sync, writes are recorded here and coalesced into
// page-aligned ranges so only touched pages reach the disk:
//
//	t := dirty.NewTracker(4096)
//	t.Add(0x10, 4)
//	t.Add(0x14, 2)
//	for _, r := range t.Ranges() {
//	    // flush data[r.Off : r.Off+r.Len]
//	}
//	t.Reset()
//
// # Range Coalescing
//
// Ranges() rounds every range out to page boundaries, sorts them and merges
// overlapping or adjacent ones:
//
//	Dirty pages: [0, 1, 2, 5, 6] → Ranges: [0x0-0x3000, 0x5000-0x7000]
//
// # Thread Safety
//
// Tracker instances are not thread-safe.
package dirty
