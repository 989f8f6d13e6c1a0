//go:build !linux && !darwin && !freebsd

package store

import (
	"io"
	"os"

	"github.com/joshuapare/nvkit/store/dirty"
)

// mapFile reads the entire file when mmap is not available.
func mapFile(f *os.File, size int) ([]byte, func() error, error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(io.NewSectionReader(f, 0, int64(size)), data); err != nil {
		return nil, nil, err
	}
	return data, func() error { return nil }, nil
}

func pageSize() int { return dirty.DefaultPageSize }

// flushRanges writes each dirty range back to the file and syncs it.
func (fl *File) flushRanges(ranges []dirty.Range) error {
	for _, r := range ranges {
		if _, err := fl.f.WriteAt(fl.data[r.Off:r.End()], r.Off); err != nil {
			return err
		}
	}
	return fl.f.Sync()
}
