// Package serialport wraps the serial link to the receipt printer.
package serialport

import (
	"errors"
	"fmt"
	"os"
)

// ErrUnavailable means the printer link could not be established.
var ErrUnavailable = errors.New("serialport: device unavailable")

// Transport is the byte sink the print pipeline writes command streams to.
type Transport interface {
	Write(p []byte) error
	Close() error
}

// WriteError reports a write that failed partway so the caller knows how
// much the printer already consumed.
type WriteError struct {
	Written int
	Err     error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("serial write failed after %d bytes: %v", e.Written, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Open builds a transport for the configured mode: "chardev" opens the
// device node per write (RPi-style usblp/tty char device), anything else
// keeps a persistent serial stream.
func Open(device string, baud int, mode string) (Transport, error) {
	if mode == "chardev" {
		return NewCharDevice(device), nil
	}
	return OpenStream(device, baud)
}

// CharDevice writes through a character device node, opening and closing
// it around every write. Kernel printer drivers buffer per open, so this
// keeps jobs atomic from the driver's point of view.
type CharDevice struct {
	path string
}

func NewCharDevice(path string) *CharDevice {
	return &CharDevice{path: path}
}

func (c *CharDevice) Write(p []byte) error {
	f, err := os.OpenFile(c.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open %s (%v): %w", c.path, err, ErrUnavailable)
	}
	defer f.Close()
	n, err := f.Write(p)
	if err != nil {
		return &WriteError{Written: n, Err: err}
	}
	return nil
}

func (c *CharDevice) Close() error { return nil }

// Discard swallows all writes. Used when the server runs without a
// printer attached so the rest of the pipeline still exercises.
type Discard struct{}

func (Discard) Write(p []byte) error { return nil }
func (Discard) Close() error { return nil }
