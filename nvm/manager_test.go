package nvm

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/nvkit/layout"
	"github.com/joshuapare/nvkit/store"
)

type fixture struct {
	m   *Manager
	mem *store.Memory
	dev *store.Instrumented
}

// newFixture returns a Manager over a zero-filled store of size bytes.
func newFixture(t testing.TB, size int) *fixture {
	t.Helper()
	mem := store.NewMemoryFrom(make([]byte, size))
	dev := store.Instrument(mem, store.NewMetrics(nil))
	return &fixture{
		m:   New(layout.New(), dev, Config{}),
		mem: mem,
		dev: dev,
	}
}

// writes returns the number of bytes written to the store so far.
func (f *fixture) writes() float64 {
	mt := f.dev.Metrics()
	return testutil.ToFloat64(mt.BytesTotal.WithLabelValues(store.OpStoreBlock)) +
		testutil.ToFloat64(mt.BytesTotal.WithLabelValues(store.OpStoreByte))
}

func TestFinalize_FirstBootScenario(t *testing.T) {
	f := newFixture(t, 64)
	a := f.m.Register("a", layout.Bytes{0x44, 0x33, 0x22, 0x11})
	b := f.m.Register("b", layout.Bytes{0xFF})
	require.Equal(t, 0, a.Addr())
	require.Equal(t, 4, b.Addr())

	valid := f.m.Finalize(Options{StoreIfInvalid: true, WipeUnusedAreas: true})
	require.False(t, valid, "zeroed store cannot hold a valid signature")

	raw := f.mem.Bytes()
	assert.Equal(t, []byte{0x44, 0x33, 0x22, 0x11}, raw[0:4])
	assert.Equal(t, byte(0xFF), raw[4])
	assert.Equal(t, []byte{0x07, 0x00}, raw[5:7])
	for i := 7; i < len(raw); i++ {
		require.Equal(t, byte(0xFF), raw[i], "byte %d not wiped", i)
	}
	assert.Equal(t, 4.0+1+2+57, f.writes())

	before := f.writes()
	valid = f.m.Finalize(Options{StoreIfInvalid: true, WipeUnusedAreas: true})
	assert.True(t, valid)
	assert.Equal(t, before, f.writes(), "matching store must not be rewritten")
}

func TestFinalize_EmptyLayout(t *testing.T) {
	f := newFixture(t, 16)
	assert.False(t, f.m.Finalize(Options{StoreAlways: true, WipeUnusedAreas: true}))
	assert.Zero(t, f.writes())
	assert.False(t, f.m.Registry().Finalized())
}

func TestFinalize_LayoutTooLarge(t *testing.T) {
	f := newFixture(t, 5)
	it := f.m.Register("big", make(layout.Bytes, 4))

	assert.False(t, f.m.Finalize(Options{StoreAlways: true}))
	assert.Zero(t, f.writes())
	assert.False(t, f.m.Registry().Finalized(), "oversized layouts stay unfinalized")
	assert.False(t, f.m.Verify(it))
}

func TestFinalize_ReturnsPriorValidity(t *testing.T) {
	f := newFixture(t, 32)
	f.m.Register("a", layout.Bytes{1, 2})
	require.False(t, f.m.Finalize(Options{StoreAlways: true}))

	// StoreAlways rewrites items but keeps the already valid signature.
	before := f.writes()
	assert.True(t, f.m.Finalize(Options{StoreAlways: true}))
	assert.Equal(t, before+2, f.writes())
}

func TestFinalize_NoActionRequested(t *testing.T) {
	f := newFixture(t, 32)
	f.m.Register("a", layout.Bytes{1, 2})
	assert.False(t, f.m.Finalize(Options{}))
	assert.Zero(t, f.writes())
	assert.True(t, f.m.Registry().Finalized(), "signature is computed even when nothing is stored")
}

func TestFinalize_WipeOnlyAfterStore(t *testing.T) {
	f := newFixture(t, 32)
	f.m.Register("a", layout.Bytes{1})
	f.m.StoreAll(true)
	require.Zero(t, f.writes(), "StoreAll before Finalize is a no-op")

	require.False(t, f.m.Finalize(Options{WipeUnusedAreas: true}))
	assert.Zero(t, f.writes())
}

func TestFinalize_RetrieveIfValid(t *testing.T) {
	f := newFixture(t, 32)
	buf := layout.Bytes{0xAA, 0xBB}
	f.m.Register("a", buf)
	require.False(t, f.m.Finalize(DefaultOptions()))

	// Simulate a reboot: same layout, different defaults in memory.
	next := New(layout.New(), f.dev, Config{})
	fresh := layout.Bytes{0, 0}
	next.Register("a", fresh)
	require.True(t, next.Finalize(DefaultOptions()))
	assert.Equal(t, layout.Bytes{0xAA, 0xBB}, fresh)
}

func TestFinalize_StoreTakesPrecedenceOverRetrieve(t *testing.T) {
	f := newFixture(t, 32)
	buf := layout.Bytes{1}
	f.m.Register("a", buf)
	require.False(t, f.m.Finalize(DefaultOptions()))

	buf[0] = 9
	require.True(t, f.m.Finalize(Options{StoreAlways: true, RetrieveIfValid: true}))
	assert.Equal(t, byte(9), buf[0], "memory value stored, not overwritten")
	assert.Equal(t, byte(9), f.mem.Bytes()[0])
}

func TestFinalize_LayoutChangeInvalidatesStore(t *testing.T) {
	f := newFixture(t, 32)
	f.m.Register("a", layout.Bytes{1, 2, 3, 4})
	require.False(t, f.m.Finalize(DefaultOptions()))

	next := New(layout.New(), f.dev, Config{})
	next.Register("a", layout.Bytes{0, 0, 0, 0})
	next.Register("b", layout.Bytes{0})
	assert.False(t, next.Finalize(Options{RetrieveIfValid: true}))
	assert.False(t, next.RetrieveAll())
}

func TestStoreRetrieveAll_RoundTrip(t *testing.T) {
	f := newFixture(t, 64)
	a := layout.Bytes{1, 2, 3, 4}
	b := layout.Bytes{5}
	c := layout.Bytes{6, 7}
	f.m.Register("a", a)
	f.m.Register("b", b)
	f.m.Register("c", c)
	f.m.Finalize(Options{})

	f.m.StoreAll(false)
	copy(a, []byte{0, 0, 0, 0})
	b[0] = 0
	copy(c, []byte{0, 0})

	require.True(t, f.m.RetrieveAll())
	assert.Equal(t, layout.Bytes{1, 2, 3, 4}, a)
	assert.Equal(t, layout.Bytes{5}, b)
	assert.Equal(t, layout.Bytes{6, 7}, c)
}

func TestStoreAll_SignatureWrittenOnlyWhenNeeded(t *testing.T) {
	f := newFixture(t, 16)
	f.m.Register("a", layout.Bytes{1})
	f.m.Finalize(Options{})

	f.m.StoreAll(false)
	assert.Equal(t, 3.0, f.writes(), "item plus signature")

	f.m.StoreAll(false)
	assert.Equal(t, 4.0, f.writes(), "item only")

	f.m.StoreAll(true)
	assert.Equal(t, 7.0, f.writes(), "forced signature")
}

func TestRetrieveAll_MismatchLoadsNothing(t *testing.T) {
	f := newFixture(t, 16)
	buf := layout.Bytes{7, 7}
	f.m.Register("a", buf)
	f.m.Finalize(Options{})

	assert.False(t, f.m.RetrieveAll())
	assert.Equal(t, layout.Bytes{7, 7}, buf)
}

func TestVerifyAll(t *testing.T) {
	f := newFixture(t, 32)
	a := layout.Bytes{1, 2, 3, 4}
	b := layout.Bytes{9}
	f.m.Register("a", a)
	f.m.Register("b", b)

	assert.False(t, f.m.VerifyAll(), "unfinalized")
	f.m.Finalize(Options{})
	assert.False(t, f.m.VerifyAll(), "signature not stored")

	f.m.StoreAll(false)
	assert.True(t, f.m.VerifyAll())
	assert.Nil(t, f.m.Diff())

	a[2] = 0xEE
	assert.False(t, f.m.VerifyAll())
	diff := f.m.Diff()
	require.Len(t, diff, 1)
	assert.Equal(t, "a", diff[0].Name)
	assert.Equal(t, 2, diff[0].Offset)
	assert.Contains(t, diff[0].Error(), `item "a"`)
}

func TestVerifyAll_SignatureMismatchSkipsItems(t *testing.T) {
	f := newFixture(t, 32)
	f.m.Register("a", layout.Bytes{0, 0})
	f.m.Finalize(Options{})

	before := testutil.ToFloat64(f.dev.Metrics().OpsTotal.WithLabelValues(store.OpVerifyBlock))
	assert.False(t, f.m.VerifyAll())
	after := testutil.ToFloat64(f.dev.Metrics().OpsTotal.WithLabelValues(store.OpVerifyBlock))
	assert.Equal(t, before+1, after, "only the signature is compared")

	diff := f.m.Diff()
	require.Len(t, diff, 1)
	assert.True(t, diff[0].Signature)
	assert.Equal(t, 2, diff[0].Addr)
	assert.Equal(t, 2, diff[0].Offset)
	assert.Equal(t, uint16(0), diff[0].Stored)
	assert.Equal(t, f.m.Registry().Signature(), diff[0].Expected)
	assert.Contains(t, diff[0].Error(), "signature mismatch")
	assert.Contains(t, diff[0].Error(), "stored 0x0000")
}

func TestDiff_ReportsStoredSignature(t *testing.T) {
	f := newFixture(t, 16)
	f.m.Register("a", layout.Bytes{1})
	f.m.Finalize(Options{})
	f.mem.Bytes()[1] = 0x34
	f.mem.Bytes()[2] = 0x12

	diff := f.m.Diff()
	require.Len(t, diff, 1)
	assert.Equal(t, uint16(0x1234), diff[0].Stored)
	assert.Equal(t, uint16(1), diff[0].Expected)
	assert.Equal(t, 1, diff[0].Offset)
	assert.Equal(t, "signature mismatch at offset 0x1: stored 0x1234, want 0x0001", diff[0].Error())
}

func TestFinalize_WipeSkipsErasedBytes(t *testing.T) {
	f := newFixture(t, 64)
	f.m.Register("a", layout.Bytes{0x44, 0x33, 0x22, 0x11})
	f.m.Register("b", layout.Bytes{0xFF})
	require.False(t, f.m.Finalize(Options{StoreIfInvalid: true, WipeUnusedAreas: true}))

	before := f.writes()
	assert.True(t, f.m.Finalize(Options{StoreAlways: true, WipeUnusedAreas: true}))
	assert.Equal(t, before+5, f.writes(), "only item bytes are rewritten")

	f.mem.Bytes()[40] = 0x00
	before = f.writes()
	f.m.Finalize(Options{StoreAlways: true, WipeUnusedAreas: true})
	assert.Equal(t, before+5+1, f.writes())
	assert.Equal(t, byte(0xFF), f.mem.Bytes()[40])
}

func TestItemOps(t *testing.T) {
	f := newFixture(t, 32)
	buf := layout.Bytes{1, 2}
	it := f.m.Register("a", buf)

	f.m.Store(it)
	assert.Zero(t, f.writes(), "unfinalized")
	assert.False(t, f.m.Retrieve(it))
	assert.False(t, f.m.Verify(it))

	f.m.Finalize(Options{})
	f.m.Store(it)
	assert.True(t, f.m.Verify(it))
	assert.Equal(t, []byte{1, 2}, f.m.Snapshot(it))

	buf[0] = 0
	assert.False(t, f.m.Verify(it))
	assert.True(t, f.m.Retrieve(it), "single-item retrieve ignores the signature")
	assert.Equal(t, layout.Bytes{1, 2}, buf)
}

func TestLateItemNeverVerifies(t *testing.T) {
	f := newFixture(t, 32)
	f.m.Register("a", layout.Bytes{1})
	f.m.Finalize(Options{StoreIfInvalid: true})

	// The late item's bytes happen to match what sits at its would-be offset.
	late := f.m.Register("late", layout.Bytes{0x01})
	require.False(t, late.Linked())
	assert.False(t, f.m.Verify(late))
	assert.False(t, f.m.Retrieve(late))
	assert.Nil(t, f.m.Snapshot(late))

	before := f.writes()
	f.m.Store(late)
	assert.Equal(t, before, f.writes())
	assert.True(t, f.m.VerifyAll(), "late items do not take part in bulk verify")
}

func TestUnregister_ForcesRefinalize(t *testing.T) {
	f := newFixture(t, 32)
	a := f.m.Register("a", layout.Bytes{1})
	b := f.m.Register("b", layout.Bytes{2})
	f.m.Finalize(Options{StoreIfInvalid: true})
	require.True(t, f.m.VerifyAll())

	f.m.Unregister(a)
	before := f.writes()
	f.m.StoreAll(true)
	assert.Equal(t, before, f.writes())
	assert.False(t, f.m.RetrieveAll())
	assert.False(t, f.m.VerifyAll())
	assert.False(t, f.m.Verify(b))

	// The signature now covers only b and lives at the unchanged end offset.
	assert.False(t, f.m.Finalize(Options{StoreIfInvalid: true}))
	assert.True(t, f.m.VerifyAll())
	assert.Equal(t, layout.Signature(1), f.m.Registry().Signature())
	assert.Equal(t, 2, f.m.SignatureAddr())
}

func TestLayoutSlots(t *testing.T) {
	f := newFixture(t, 32)
	f.m.Register("a", make(layout.Bytes, 4))
	f.m.Register("skip", layout.Bytes{})
	f.m.Register("b", make(layout.Bytes, 2))

	assert.Equal(t, []Slot{
		{Name: "a", Addr: 0, Size: 4},
		{Name: "b", Addr: 4, Size: 2},
	}, f.m.Layout())
}

func TestNew_DefaultRegistry(t *testing.T) {
	m := New(nil, store.NewMemory(8), Config{})
	assert.Same(t, layout.Default, m.Registry())
	assert.NotNil(t, m.Device())
}
