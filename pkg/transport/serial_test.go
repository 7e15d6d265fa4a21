package transport

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"
)

// chunkedStream feeds reads from queued chunks, one chunk per Read
// call, simulating a serial port that delivers data in fragments. An
// empty queue behaves like a port read timing out with no data.
type chunkedStream struct {
	chunks  [][]byte
	written bytes.Buffer
	readErr error
	closed  bool
}

func (c *chunkedStream) Read(p []byte) (int, error) {
	if c.readErr != nil {
		return 0, c.readErr
	}
	if len(c.chunks) == 0 {
		return 0, io.EOF // poll slice elapsed with no data
	}
	chunk := c.chunks[0]
	n := copy(p, chunk)
	if n < len(chunk) {
		c.chunks[0] = chunk[n:]
	} else {
		c.chunks = c.chunks[1:]
	}
	return n, nil
}

func (c *chunkedStream) Write(p []byte) (int, error) {
	return c.written.Write(p)
}

func (c *chunkedStream) Close() error {
	c.closed = true
	return nil
}

func TestReadExactAssemblesFragments(t *testing.T) {
	stream := &chunkedStream{chunks: [][]byte{
		{0x02, 0x01},
		{0x64},
		{0x06, 0x00, 0x00, 0x04, 0xd2, 0x43},
	}}
	port := newSerialPort(stream, 100*time.Millisecond)

	got, err := port.ReadExact(9)
	if err != nil {
		t.Fatalf("ReadExact failed: %v", err)
	}
	want := []byte{0x02, 0x01, 0x64, 0x06, 0x00, 0x00, 0x04, 0xd2, 0x43}
	if !bytes.Equal(got, want) {
		t.Errorf("read % x, want % x", got, want)
	}
}

func TestReadExactTimeout(t *testing.T) {
	stream := &chunkedStream{chunks: [][]byte{{0x02, 0x01}}}
	port := newSerialPort(stream, 20*time.Millisecond)

	_, err := port.ReadExact(9)
	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("expected *TimeoutError, got %v", err)
	}
	if timeoutErr.Wanted != 9 || timeoutErr.Got != 2 {
		t.Errorf("timeout got %d of %d, want 2 of 9", timeoutErr.Got, timeoutErr.Wanted)
	}
	if !timeoutErr.Timeout() {
		t.Error("Timeout() = false, want true")
	}
}

func TestReadExactPassesThroughErrors(t *testing.T) {
	ioErr := errors.New("device unplugged")
	stream := &chunkedStream{readErr: ioErr}
	port := newSerialPort(stream, 100*time.Millisecond)

	_, err := port.ReadExact(9)
	if !errors.Is(err, ioErr) {
		t.Errorf("expected wrapped device error, got %v", err)
	}
}

func TestReadAvailable(t *testing.T) {
	stream := &chunkedStream{chunks: [][]byte{{0xaa, 0xbb}, {0xcc}}}
	port := newSerialPort(stream, 100*time.Millisecond)

	got, err := port.ReadAvailable()
	if err != nil {
		t.Fatalf("ReadAvailable failed: %v", err)
	}
	if !bytes.Equal(got, []byte{0xaa, 0xbb, 0xcc}) {
		t.Errorf("drained % x, want aa bb cc", got)
	}

	// A second drain finds nothing.
	got, err = port.ReadAvailable()
	if err != nil {
		t.Fatalf("ReadAvailable failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("drained % x from empty port", got)
	}
}

func TestWrite(t *testing.T) {
	stream := &chunkedStream{}
	port := newSerialPort(stream, 100*time.Millisecond)

	frame := []byte{0x01, 0x04, 0x00, 0x00, 0x00, 0x00, 0x0f, 0xa0, 0xb4}
	if err := port.Write(frame); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !bytes.Equal(stream.written.Bytes(), frame) {
		t.Errorf("wrote % x, want % x", stream.written.Bytes(), frame)
	}
}

func TestClose(t *testing.T) {
	stream := &chunkedStream{}
	port := newSerialPort(stream, time.Second)

	if err := port.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !stream.closed {
		t.Error("underlying stream not closed")
	}
}
