package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Codec errors.
var (
	// ErrUnknownCommand indicates a command mnemonic not present in the
	// command table.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrValueRange indicates a value that fits neither int32 nor uint32.
	ErrValueRange = errors.New("value out of 32-bit range")

	// ErrChecksum indicates a reply frame whose checksum does not match
	// its contents.
	ErrChecksum = errors.New("invalid checksum")

	// ErrFrameSize indicates a reply of the wrong length was handed to
	// the decoder.
	ErrFrameSize = errors.New("wrong frame size")
)

// Encode packs the request into a 9-byte wire frame and appends the
// checksum. The value is packed unsigned-first with a signed fallback.
func (r *Request) Encode() ([FrameSize]byte, error) {
	var frame [FrameSize]byte
	frame[0] = r.ModuleAddr
	frame[1] = r.Opcode
	frame[2] = r.Type
	frame[3] = r.Motor

	switch {
	case r.Value >= 0 && r.Value <= math.MaxUint32:
		binary.BigEndian.PutUint32(frame[4:8], uint32(r.Value))
	case r.Value < 0 && r.Value >= math.MinInt32:
		binary.BigEndian.PutUint32(frame[4:8], uint32(int32(r.Value)))
	default:
		return frame, fmt.Errorf("%w: %d", ErrValueRange, r.Value)
	}

	frame[8] = Checksum(frame[:checksumLen])
	return frame, nil
}

// EncodeCommand resolves a command mnemonic and encodes the full
// request frame in one step.
func EncodeCommand(moduleAddr uint8, name string, typ, motor uint8, value int64) ([FrameSize]byte, error) {
	op, err := Opcode(name)
	if err != nil {
		return [FrameSize]byte{}, err
	}
	req := Request{
		ModuleAddr: moduleAddr,
		Opcode:     op,
		Type:       typ,
		Motor:      motor,
		Value:      value,
	}
	return req.Encode()
}

// DecodeReply parses and validates a 9-byte reply frame.
//
// The checksum is verified first; a mismatch returns ErrChecksum. A
// status code below 100 is a device-reported error and returns a
// *StatusError carrying the decoded code. Only frames that pass both
// checks yield a Reply.
func DecodeReply(frame []byte) (*Reply, error) {
	if len(frame) != FrameSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrFrameSize, len(frame), FrameSize)
	}

	if got, want := frame[8], Checksum(frame[:checksumLen]); got != want {
		return nil, fmt.Errorf("%w: frame carries 0x%02x, computed 0x%02x", ErrChecksum, got, want)
	}

	reply := &Reply{
		ReplyAddr:  frame[0],
		ModuleAddr: frame[1],
		Status:     Status(frame[2]),
		Opcode:     frame[3],
		Value:      int32(binary.BigEndian.Uint32(frame[4:8])),
	}

	if reply.Status.IsError() {
		return nil, &StatusError{Status: reply.Status}
	}

	return reply, nil
}
