package store

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Operation labels used by Instrumented.
const (
	OpLoadByte    = "load_byte"
	OpStoreByte   = "store_byte"
	OpLoadBlock   = "load_block"
	OpStoreBlock  = "store_block"
	OpVerifyBlock = "verify_block"
)

// Metrics tracks device traffic in Prometheus counters.
//
// Write counters are the closest thing to a wear gauge an EEPROM has: every
// byte counted under store_byte or store_block is one cell write cycle.
type Metrics struct {
	// OpsTotal counts primitive calls by operation
	OpsTotal *prometheus.CounterVec

	// BytesTotal counts bytes moved by operation
	BytesTotal *prometheus.CounterVec
}

// NewMetrics creates device metrics with the nvkit_store_ prefix and
// registers them with reg. A nil reg leaves them unregistered.
// Panics if registration fails (expected during initialization only).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OpsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nvkit_store_ops_total",
				Help: "Total backing-store primitive calls by operation",
			},
			[]string{"op"},
		),
		BytesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nvkit_store_bytes_total",
				Help: "Total bytes transferred by backing-store operation",
			},
			[]string{"op"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.OpsTotal, m.BytesTotal)
	}

	return m
}

func (m *Metrics) record(op string, n int) {
	if m == nil {
		return
	}
	m.OpsTotal.WithLabelValues(op).Inc()
	m.BytesTotal.WithLabelValues(op).Add(float64(n))
}

// Instrumented wraps a Device and records every call in Metrics.
type Instrumented struct {
	Device
	m *Metrics
}

// Instrument wraps dev. A nil m disables recording.
func Instrument(dev Device, m *Metrics) *Instrumented {
	return &Instrumented{Device: dev, m: m}
}

// Metrics returns the counters this wrapper records into.
func (d *Instrumented) Metrics() *Metrics { return d.m }

func (d *Instrumented) LoadByte(addr int) byte {
	d.m.record(OpLoadByte, 1)
	return d.Device.LoadByte(addr)
}

func (d *Instrumented) StoreByte(addr int, b byte) {
	d.m.record(OpStoreByte, 1)
	d.Device.StoreByte(addr, b)
}

func (d *Instrumented) LoadBlock(dst []byte, addr int) {
	d.m.record(OpLoadBlock, len(dst))
	d.Device.LoadBlock(dst, addr)
}

func (d *Instrumented) StoreBlock(src []byte, addr int) {
	d.m.record(OpStoreBlock, len(src))
	d.Device.StoreBlock(src, addr)
}

func (d *Instrumented) VerifyBlock(src []byte, addr int) bool {
	d.m.record(OpVerifyBlock, len(src))
	return d.Device.VerifyBlock(src, addr)
}
