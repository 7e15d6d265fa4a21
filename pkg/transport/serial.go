package transport

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// Serial port defaults. The TMCM-140 ships configured for 9600 baud.
const (
	DefaultBaud    = 9600
	DefaultTimeout = 500 * time.Millisecond

	// pollInterval is the per-read timeout of the underlying port.
	// ReadExact and ReadAvailable poll in slices of this size so a
	// caller-level deadline can be honored without reopening the port.
	pollInterval = 10 * time.Millisecond
)

// Config holds serial port configuration.
type Config struct {
	// Device is the serial device path (e.g. /dev/ttyACM0, COM3).
	Device string

	// Baud is the line rate. Defaults to DefaultBaud when zero.
	Baud int

	// Timeout is the ReadExact deadline. Defaults to DefaultTimeout
	// when zero.
	Timeout time.Duration
}

// SerialPort is a Transport over a physical serial link.
type SerialPort struct {
	port    io.ReadWriteCloser
	timeout time.Duration
}

// Open opens the configured serial device.
func Open(cfg Config) (*SerialPort, error) {
	if cfg.Baud == 0 {
		cfg.Baud = DefaultBaud
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: pollInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}

	return &SerialPort{port: port, timeout: cfg.Timeout}, nil
}

// newSerialPort wraps an already-open stream. Used by tests.
func newSerialPort(rwc io.ReadWriteCloser, timeout time.Duration) *SerialPort {
	return &SerialPort{port: rwc, timeout: timeout}
}

// Write sends raw bytes on the link.
func (s *SerialPort) Write(p []byte) error {
	n, err := s.port.Write(p)
	if err != nil {
		return fmt.Errorf("serial write failed: %w", err)
	}
	if n != len(p) {
		return fmt.Errorf("serial write truncated: wrote %d of %d bytes", n, len(p))
	}
	return nil
}

// ReadExact blocks until exactly n bytes arrive or the configured
// timeout elapses.
func (s *SerialPort) ReadExact(n int) ([]byte, error) {
	buf := make([]byte, n)
	got := 0
	deadline := time.Now().Add(s.timeout)

	for got < n {
		c, err := s.port.Read(buf[got:])
		got += c
		if err != nil && !errors.Is(err, io.EOF) {
			return buf[:got], fmt.Errorf("serial read failed: %w", err)
		}
		// The port read times out in pollInterval slices; io.EOF or a
		// zero-byte read just means no data arrived in this slice.
		if got < n && time.Now().After(deadline) {
			return buf[:got], &TimeoutError{Wanted: n, Got: got, Elapsed: s.timeout}
		}
	}
	return buf, nil
}

// ReadAvailable drains buffered bytes without blocking beyond one poll
// interval.
func (s *SerialPort) ReadAvailable() ([]byte, error) {
	var out []byte
	buf := make([]byte, 64)

	for {
		n, err := s.port.Read(buf)
		out = append(out, buf[:n]...)
		if err != nil && !errors.Is(err, io.EOF) {
			return out, fmt.Errorf("serial read failed: %w", err)
		}
		if n == 0 {
			return out, nil
		}
	}
}

// Close closes the serial port.
func (s *SerialPort) Close() error {
	return s.port.Close()
}

// Compile-time interface satisfaction check.
var _ Transport = (*SerialPort)(nil)
