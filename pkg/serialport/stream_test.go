package serialport

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyPort accepts acceptBytes of the first write, then errors. Replacement
// ports created after it succeed fully.
type flakyPort struct {
	acceptBytes int
	failed      bool
	received    []byte
	closed      bool
}

func (f *flakyPort) Write(p []byte) (int, error) {
	if !f.failed && len(p) > f.acceptBytes {
		f.received = append(f.received, p[:f.acceptBytes]...)
		f.failed = true
		return f.acceptBytes, errors.New("device reset")
	}
	f.received = append(f.received, p...)
	return len(p), nil
}

func (f *flakyPort) Close() error {
	f.closed = true
	return nil
}

func TestStreamWriteResumesAfterReopen(t *testing.T) {
	first := &flakyPort{acceptBytes: 60}
	second := &flakyPort{acceptBytes: 1 << 20}
	opened := 0
	s := &StreamPort{
		open: func() (io.WriteCloser, error) {
			opened++
			return second, nil
		},
		sleep: func(time.Duration) {},
		port:  first,
	}

	payload := make([]byte, 100)
	for i := range payload {
		payload[i] = byte(i)
	}
	require.NoError(t, s.Write(payload))

	assert.True(t, first.closed)
	assert.Equal(t, 1, opened)
	assert.Equal(t, payload[:60], first.received)
	// The retry resumes from byte 60 instead of restarting the job.
	assert.Equal(t, payload[60:], second.received)
}

func TestStreamWriteGivesUp(t *testing.T) {
	broken := func() (io.WriteCloser, error) {
		return &flakyPort{acceptBytes: 0}, nil
	}
	s := &StreamPort{open: broken, sleep: func(time.Duration) {}, port: &flakyPort{acceptBytes: 10}}

	err := s.Write(make([]byte, 100))
	var werr *WriteError
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, 10, werr.Written)
}

func TestStreamWriteBackoffDoubles(t *testing.T) {
	broken := func() (io.WriteCloser, error) {
		return &flakyPort{acceptBytes: 0}, nil
	}
	var pauses []time.Duration
	s := &StreamPort{
		open:  broken,
		sleep: func(d time.Duration) { pauses = append(pauses, d) },
	}

	err := s.Write(make([]byte, 10))
	require.Error(t, err)
	assert.Equal(t, []time.Duration{reopenDelay, 2 * reopenDelay}, pauses)
}

func TestCharDeviceMissingIsUnavailable(t *testing.T) {
	dev := NewCharDevice(filepath.Join(t.TempDir(), "no-such-printer"))

	err := dev.Write([]byte{0x1B, 0x40})
	assert.ErrorIs(t, err, ErrUnavailable)
	var werr *WriteError
	assert.False(t, errors.As(err, &werr), "an unopenable device is not a partial write")
}

func TestCharDeviceWritesWholePayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lp0")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	dev := NewCharDevice(path)

	require.NoError(t, dev.Write([]byte("ticket")))
}

func TestStreamWriteReopensWhenClosed(t *testing.T) {
	port := &flakyPort{acceptBytes: 1 << 20}
	s := &StreamPort{open: func() (io.WriteCloser, error) { return port, nil }}

	require.NoError(t, s.Write([]byte("hello")))
	assert.Equal(t, []byte("hello"), port.received)
	require.NoError(t, s.Close())
	assert.True(t, port.closed)
}
