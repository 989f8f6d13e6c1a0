//go:build linux || freebsd

package store

import (
	"golang.org/x/sys/unix"

	"github.com/joshuapare/nvkit/store/dirty"
)

// flushRanges msyncs each dirty range and then fdatasyncs the descriptor.
//
// On Linux and FreeBSD msync() accepts page-aligned sub-slices of the mapping.
func (fl *File) flushRanges(ranges []dirty.Range) error {
	for _, r := range ranges {
		if r.End() > int64(len(fl.data)) {
			continue
		}
		if err := unix.Msync(fl.data[r.Off:r.End()], unix.MS_SYNC); err != nil {
			return err
		}
	}
	return unix.Fdatasync(int(fl.f.Fd()))
}
