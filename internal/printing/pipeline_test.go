package printing

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order_kiosk/internal/escpos"
	"order_kiosk/internal/models"
	"order_kiosk/internal/notify"
	"order_kiosk/internal/store"
)

type fakeTransport struct {
	mu     sync.Mutex
	writes [][]byte
	fail   bool
}

func (f *fakeTransport) Write(p []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("printer offline")
	}
	f.writes = append(f.writes, append([]byte(nil), p...))
	return nil
}

func (f *fakeTransport) Close() error { return nil }

func (f *fakeTransport) all() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []byte
	for _, w := range f.writes {
		out = append(out, w...)
	}
	return out
}

type memSink struct {
	mu     sync.Mutex
	events []notify.Event
}

func (m *memSink) Publish(ev notify.Event) {
	m.mu.Lock()
	m.events = append(m.events, ev)
	m.mu.Unlock()
}

func (m *memSink) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, ev := range m.events {
		out = append(out, ev.Type)
	}
	return out
}

func newTestPipeline(t *testing.T) (*Pipeline, *store.Store, *fakeTransport, *memSink) {
	t.Helper()
	st, err := store.Open(t.TempDir())
	require.NoError(t, err)
	_, err = st.Recover()
	require.NoError(t, err)

	transport := &fakeTransport{}
	sink := &memSink{}
	// No font face: jobs take the text fallback path, which keeps the
	// output assertable byte for byte.
	p := New(st, transport, sink, nil, escpos.DotWidth)
	return p, st, transport, sink
}

func createOrder(t *testing.T, st *store.Store) models.Order {
	t.Helper()
	order, err := st.CreateOrder(st.BuildLines(store.OrderRequest{Lines: []store.OrderLine{
		{Type: "MAIN_SINGLE", Qty: 1, MainSKU: "M001"},
	}}))
	require.NoError(t, err)
	return order
}

func TestProcessPrintsTextFallback(t *testing.T) {
	p, st, transport, sink := newTestPipeline(t)
	order := createOrder(t, st)

	job, err := p.Enqueue(order)
	require.NoError(t, err)
	p.process(job)

	out := transport.all()
	assert.Equal(t, escpos.Init(), out[:len(escpos.Init())], "stream starts with printer init")
	assert.Contains(t, string(out), "Order No. "+order.OrderNo)
	assert.Contains(t, string(out), "TOTAL: 500 YEN")
	assert.Equal(t, []byte{0x1D, 0x56, 0x42, 0x00}, out[len(out)-4:], "stream ends with a cut")

	assert.Contains(t, sink.types(), notify.EventPrintPrinted)

	printed, ok := st.FindOrder(order.OrderNo)
	require.True(t, ok)
	assert.True(t, printed.Printed)
}

func TestProcessPublishesFailure(t *testing.T) {
	p, st, transport, sink := newTestPipeline(t)
	transport.fail = true
	order := createOrder(t, st)

	job, err := p.Enqueue(order)
	require.NoError(t, err)
	p.process(job)

	assert.Contains(t, sink.types(), notify.EventPrintFailed)
	assert.NotContains(t, sink.types(), notify.EventPrintPrinted)
}

func TestPaperOutHoldsAndReleases(t *testing.T) {
	p, st, _, _ := newTestPipeline(t)
	st.SetPaperOut(true)
	order := createOrder(t, st)

	job, err := p.Enqueue(order)
	require.NoError(t, err)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, 1, p.Pending())
	assert.Equal(t, 1, st.PrinterState().HoldJobs)
	assert.Len(t, p.queue, 0, "held jobs never reach the worker")

	st.SetPaperOut(false)
	released := p.ReleaseHeld()
	assert.Equal(t, 1, released)
	assert.Equal(t, 0, st.PrinterState().HoldJobs)
	assert.Len(t, p.queue, 1)
}

func TestTestPagePrints(t *testing.T) {
	p, _, transport, sink := newTestPipeline(t)

	job, err := p.EnqueueTestPage()
	require.NoError(t, err)
	p.process(job)

	assert.Contains(t, string(transport.all()), "TEST PRINT")
	assert.Contains(t, sink.types(), notify.EventPrintPrinted)
}
