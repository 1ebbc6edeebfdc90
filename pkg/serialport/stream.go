package serialport

import (
	"fmt"
	"io"
	"log"
	"time"

	"go.bug.st/serial"
)

const (
	writeRetries = 3
	reopenDelay  = 200 * time.Millisecond
)

// StreamPort keeps one serial connection open across jobs and reopens it
// on write failure, resuming the job from the last confirmed byte instead
// of restarting it. Restarting mid-raster would double-print bands.
type StreamPort struct {
	open  func() (io.WriteCloser, error)
	sleep func(time.Duration)
	port  io.WriteCloser
}

// OpenStream dials the serial device at the given baud rate.
func OpenStream(device string, baud int) (*StreamPort, error) {
	opener := func() (io.WriteCloser, error) {
		return serial.Open(device, &serial.Mode{BaudRate: baud})
	}
	port, err := opener()
	if err != nil {
		return nil, fmt.Errorf("open serial %s (%v): %w", device, err, ErrUnavailable)
	}
	return &StreamPort{open: opener, port: port}, nil
}

func (s *StreamPort) Write(p []byte) error {
	written := 0
	for attempt := 0; attempt < writeRetries; attempt++ {
		if attempt > 0 {
			// Backoff doubles per attempt so a printer that is
			// resetting gets progressively more time to come back.
			s.pause(reopenDelay << (attempt - 1))
		}
		if s.port == nil {
			port, err := s.open()
			if err != nil {
				log.Printf("[serial] reopen failed: %v", err)
				continue
			}
			s.port = port
		}
		n, err := s.port.Write(p[written:])
		written += n
		if err == nil && written == len(p) {
			return nil
		}
		log.Printf("[serial] write stalled at %d/%d bytes: %v", written, len(p), err)
		s.port.Close()
		s.port = nil
	}
	return &WriteError{Written: written, Err: fmt.Errorf("gave up after %d attempts", writeRetries)}
}

func (s *StreamPort) pause(d time.Duration) {
	if s.sleep != nil {
		s.sleep(d)
		return
	}
	time.Sleep(d)
}

func (s *StreamPort) Close() error {
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	return err
}
