package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/joshuapare/nvkit/internal/buf"
	"github.com/joshuapare/nvkit/internal/format"
	"github.com/joshuapare/nvkit/internal/logger"
	"github.com/joshuapare/nvkit/layout"
	"github.com/joshuapare/nvkit/nvm"
	"github.com/joshuapare/nvkit/store"
)

// slot is a manifest item bound to a registered layout item.
type slot struct {
	spec  ItemSpec
	codec codec
	buf   layout.Bytes
	item  *layout.Item
}

// Value decodes the slot's in-memory bytes.
func (s *slot) Value() string { return s.codec.decode(s.buf) }

// Set encodes v into the slot's in-memory bytes.
func (s *slot) Set(v string) error { return s.codec.encode(s.buf, v) }

// session is an open image with the manifest's layout registered on it.
type session struct {
	manifest *Manifest
	file     *store.File
	metrics  *prometheus.Registry
	mgr      *nvm.Manager
	slots    []*slot
}

// bindLayout registers every manifest item, with its default value, on m.
func bindLayout(m *nvm.Manager, man *Manifest) ([]*slot, error) {
	slots := make([]*slot, 0, len(man.Items))
	for _, spec := range man.Items {
		c, err := codecFor(spec)
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", spec.Name, err)
		}
		s := &slot{spec: spec, codec: c, buf: make(layout.Bytes, c.size)}
		if spec.Default != "" {
			if err := s.Set(spec.Default); err != nil {
				return nil, fmt.Errorf("item %q default: %w", spec.Name, err)
			}
		}
		s.item = m.Register(spec.Name, s.buf)
		slots = append(slots, s)
	}
	return slots, nil
}

// openSession opens (or, when create is set and it does not exist, creates)
// the image at path and binds the manifest layout to it. Nothing is
// finalized yet. An image that cannot hold the layout and its signature is
// rejected with format.ErrOutOfRange.
func openSession(path string, man *Manifest, create bool) (*session, error) {
	fl, err := store.Open(path)
	if errors.Is(err, os.ErrNotExist) && create {
		printVerbose("Creating image: %s (%d bytes)\n", path, man.Size)
		fl, err = store.Create(path, man.Size)
	}
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	if fl.Size() != man.Size {
		logger.L.Warn("image size differs from manifest", "image", fl.Size(), "manifest", man.Size)
	}

	reg := prometheus.NewRegistry()
	dev := store.Instrument(fl, store.NewMetrics(reg))
	mgr := nvm.New(layout.New(), dev, nvm.Config{Logger: logger.L})

	slots, err := bindLayout(mgr, man)
	if err != nil {
		_ = fl.Close()
		return nil, err
	}
	if _, err := buf.CheckRange(fl.Size(), 0, mgr.Registry().End()+format.SignatureSize); err != nil {
		_ = fl.Close()
		return nil, fmt.Errorf("image %s too small for layout: %w: %w", path, format.ErrOutOfRange, err)
	}

	return &session{
		manifest: man,
		file:     fl,
		metrics:  reg,
		mgr:      mgr,
		slots:    slots,
	}, nil
}

// slot returns the slot named name.
func (s *session) slot(name string) (*slot, bool) {
	for _, sl := range s.slots {
		if sl.spec.Name == name {
			return sl, true
		}
	}
	return nil, false
}

// bytesWritten sums the store counters recorded so far.
func (s *session) bytesWritten() int {
	families, err := s.metrics.Gather()
	if err != nil {
		return 0
	}
	total := 0.0
	for _, f := range families {
		if f.GetName() != "nvkit_store_bytes_total" {
			continue
		}
		for _, mt := range f.GetMetric() {
			for _, lp := range mt.GetLabel() {
				if lp.GetName() == "op" && (lp.GetValue() == store.OpStoreBlock || lp.GetValue() == store.OpStoreByte) {
					total += mt.GetCounter().GetValue()
				}
			}
		}
	}
	return int(total)
}

// Close flushes the image.
func (s *session) Close() error {
	return s.file.Close()
}

// openManifest loads the manifest named by the global flag.
func openManifest() (*Manifest, error) {
	printVerbose("Loading manifest: %s\n", manifestPath)
	return loadManifest(manifestPath)
}
