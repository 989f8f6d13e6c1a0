//go:build darwin

package store

import (
	"golang.org/x/sys/unix"

	"github.com/joshuapare/nvkit/store/dirty"
)

// flushRanges flushes the mapping and fsyncs the descriptor.
//
// On macOS, msync() requires the address to match the original mmap() address,
// so the whole region is synced. The kernel only writes pages that are dirty.
func (fl *File) flushRanges(_ []dirty.Range) error {
	if err := unix.Msync(fl.data, unix.MS_SYNC); err != nil {
		return err
	}
	return unix.Fsync(int(fl.f.Fd()))
}
