package transport

import (
	"fmt"
	"time"
)

// Transport is the byte-stream interface the controller drives.
// Implemented by SerialPort; tests substitute scripted doubles.
type Transport interface {
	// Write sends raw bytes on the link.
	Write(p []byte) error

	// ReadExact blocks until exactly n bytes have been received or the
	// configured timeout elapses, failing with a *TimeoutError.
	ReadExact(n int) ([]byte, error)

	// ReadAvailable drains and returns any buffered bytes without
	// blocking. Used to detect unexpected extra data on the link.
	ReadAvailable() ([]byte, error)

	// Close closes the underlying link. A blocked ReadExact on another
	// goroutine surfaces an I/O failure.
	Close() error
}

// TimeoutError reports an incomplete read within the deadline.
type TimeoutError struct {
	// Wanted is the number of bytes requested.
	Wanted int

	// Got is the number of bytes received before the deadline.
	Got int

	// Elapsed is the deadline that elapsed.
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("read timed out after %v: got %d of %d bytes", e.Elapsed, e.Got, e.Wanted)
}

// Timeout reports that this error is a timeout, matching the
// net.Error convention.
func (e *TimeoutError) Timeout() bool { return true }
