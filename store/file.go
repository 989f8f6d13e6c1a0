package store

import (
	"errors"
	"fmt"
	"os"

	"github.com/joshuapare/nvkit/internal/format"
	"github.com/joshuapare/nvkit/store/dirty"
)

// File is an EEPROM image file opened read/write.
//
// On linux, darwin and freebsd the image is memory-mapped and writes land in
// the mapping directly; elsewhere it is read into memory. Either way every
// store is recorded in a dirty tracker and Sync only writes back the pages
// that changed.
//
// NOT thread-safe.
type File struct {
	cells
	f       *os.File
	path    string
	tracker *dirty.Tracker
	unmap   func() error
}

// Create writes a new erased image of size bytes at path, replacing any
// existing file, and opens it.
func Create(path string, size int) (*File, error) {
	if size <= 0 {
		return nil, fmt.Errorf("store: invalid image size %d", size)
	}
	img := make([]byte, size)
	for i := range img {
		img[i] = format.ErasedByte
	}
	if err := os.WriteFile(path, img, 0o644); err != nil {
		return nil, fmt.Errorf("store: create image: %w", err)
	}
	return Open(path)
}

// Open maps the image at path read/write.
func Open(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	sz := st.Size()
	if sz == 0 {
		_ = f.Close()
		return nil, fmt.Errorf("store: empty image file: %s", path)
	}
	if sz > int64(^uint(0)>>1) {
		_ = f.Close()
		return nil, fmt.Errorf("store: image too large to map (%d bytes)", sz)
	}

	data, unmap, err := mapFile(f, int(sz))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("store: map %s: %w", path, err)
	}

	fl := &File{
		f:       f,
		path:    path,
		tracker: dirty.NewTracker(pageSize()),
		unmap:   unmap,
	}
	fl.cells = cells{data: data, touch: fl.tracker.Add}
	return fl, nil
}

// Path returns the image file path.
func (fl *File) Path() string { return fl.path }

// Bytes returns the live image contents. The slice is invalid after Close.
func (fl *File) Bytes() []byte { return fl.data }

// Dirty returns the number of writes recorded since the last Sync.
func (fl *File) Dirty() int { return fl.tracker.Len() }

// Sync writes back every dirty page and syncs the file descriptor.
func (fl *File) Sync() error {
	if fl.f == nil {
		return errors.New("store: sync on closed image")
	}
	if fl.tracker.Len() == 0 {
		return nil
	}
	if err := fl.flushRanges(fl.tracker.Ranges(int64(len(fl.data)))); err != nil {
		return fmt.Errorf("store: flush %s: %w", fl.path, err)
	}
	fl.tracker.Reset()
	return nil
}

// Close syncs pending writes, unmaps the image and closes the file.
func (fl *File) Close() error {
	if fl.f == nil {
		return nil
	}
	err := fl.Sync()
	if fl.unmap != nil {
		if uerr := fl.unmap(); uerr != nil && err == nil {
			err = uerr
		}
		fl.unmap = nil
	}
	fl.data = nil
	if cerr := fl.f.Close(); cerr != nil && err == nil {
		err = cerr
	}
	fl.f = nil
	return err
}
