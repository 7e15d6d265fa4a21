package wire

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func TestRequestEncodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{
			name: "move to position",
			req:  Request{ModuleAddr: 1, Opcode: 4, Type: 0, Motor: 0, Value: 4000},
		},
		{
			name: "negative value",
			req:  Request{ModuleAddr: 1, Opcode: 5, Type: 6, Motor: 0, Value: -1},
		},
		{
			name: "max uint32",
			req:  Request{ModuleAddr: 1, Opcode: 4, Type: 0, Motor: 0, Value: math.MaxUint32},
		},
		{
			name: "min int32",
			req:  Request{ModuleAddr: 1, Opcode: 4, Type: 1, Motor: 0, Value: math.MinInt32},
		},
		{
			name: "zero",
			req:  Request{ModuleAddr: 3, Opcode: 3, Type: 0, Motor: 0, Value: 0},
		},
		{
			name: "max module address",
			req:  Request{ModuleAddr: 255, Opcode: 6, Type: 206, Motor: 0, Value: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := tt.req.Encode()
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			if frame[0] != tt.req.ModuleAddr || frame[1] != tt.req.Opcode ||
				frame[2] != tt.req.Type || frame[3] != tt.req.Motor {
				t.Errorf("header bytes = % x, want [%d %d %d %d]",
					frame[:4], tt.req.ModuleAddr, tt.req.Opcode, tt.req.Type, tt.req.Motor)
			}

			if got, want := frame[8], Checksum(frame[:8]); got != want {
				t.Errorf("checksum = 0x%02x, want 0x%02x", got, want)
			}

			// A request frame with a success status in the right slot is
			// shaped like a reply, so the decoder can recover the value
			// field for values in the signed range.
			if tt.req.Value >= math.MinInt32 && tt.req.Value <= math.MaxInt32 {
				echo := replyFrame(2, tt.req.ModuleAddr, 100, tt.req.Opcode, int32(tt.req.Value))
				reply, err := DecodeReply(echo)
				if err != nil {
					t.Fatalf("DecodeReply failed: %v", err)
				}
				if reply.Value != int32(tt.req.Value) {
					t.Errorf("round-trip value = %d, want %d", reply.Value, tt.req.Value)
				}
			}
		})
	}
}

func TestRequestEncodeValueRange(t *testing.T) {
	tests := []struct {
		name  string
		value int64
	}{
		{"above uint32", math.MaxUint32 + 1},
		{"below int32", math.MinInt32 - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := Request{ModuleAddr: 1, Opcode: 4, Value: tt.value}
			if _, err := req.Encode(); !errors.Is(err, ErrValueRange) {
				t.Errorf("expected ErrValueRange, got %v", err)
			}
		})
	}
}

func TestUnsignedSignedOverlap(t *testing.T) {
	// -1 packed signed and 0xFFFFFFFF packed unsigned must produce
	// identical value bytes.
	neg := Request{ModuleAddr: 1, Opcode: 5, Value: -1}
	pos := Request{ModuleAddr: 1, Opcode: 5, Value: math.MaxUint32}

	negFrame, err := neg.Encode()
	if err != nil {
		t.Fatalf("Encode(-1) failed: %v", err)
	}
	posFrame, err := pos.Encode()
	if err != nil {
		t.Fatalf("Encode(MaxUint32) failed: %v", err)
	}

	if !bytes.Equal(negFrame[4:8], posFrame[4:8]) {
		t.Errorf("value bytes differ: % x vs % x", negFrame[4:8], posFrame[4:8])
	}
}

func TestEncodeCommand(t *testing.T) {
	frame, err := EncodeCommand(1, "mvp", 0, 0, 4000)
	if err != nil {
		t.Fatalf("EncodeCommand failed: %v", err)
	}
	if frame[1] != 4 {
		t.Errorf("opcode = %d, want 4 (mvp)", frame[1])
	}

	if _, err := EncodeCommand(1, "warp", 0, 0, 0); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("expected ErrUnknownCommand, got %v", err)
	}
}

func TestDecodeReplyChecksum(t *testing.T) {
	frame := replyFrame(2, 1, 100, 6, 1234)

	// Flip a single bit in each position covered by the checksum and
	// verify the corruption is detected. A mod-256 sum always detects a
	// single-bit flip: the byte sum changes by a nonzero power of two.
	for pos := 0; pos < 8; pos++ {
		for bit := 0; bit < 8; bit++ {
			corrupted := make([]byte, FrameSize)
			copy(corrupted, frame)
			corrupted[pos] ^= 1 << bit

			if _, err := DecodeReply(corrupted); !errors.Is(err, ErrChecksum) {
				t.Fatalf("bit %d of byte %d flipped: expected ErrChecksum, got %v", bit, pos, err)
			}
		}
	}
}

func TestDecodeReplyStatusError(t *testing.T) {
	tests := []struct {
		status  Status
		message string
	}{
		{StatusWrongChecksum, "Wrong checksum"},
		{StatusInvalidCommand, "Invalid command"},
		{StatusWrongType, "Wrong type"},
		{StatusInvalidValue, "Invalid value"},
		{StatusEEPROMLocked, "Configuration EEPROM locked"},
		{StatusCommandUnavailable, "Command not available"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			frame := replyFrame(2, 1, uint8(tt.status), 6, 0)

			_, err := DecodeReply(frame)
			var statusErr *StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("expected *StatusError, got %v", err)
			}
			if statusErr.Status != tt.status {
				t.Errorf("status = %d, want %d", statusErr.Status, tt.status)
			}
			if got := tt.status.String(); got != tt.message {
				t.Errorf("message = %q, want %q", got, tt.message)
			}
		})
	}
}

func TestDecodeReplyWrongSize(t *testing.T) {
	if _, err := DecodeReply([]byte{1, 2, 3}); !errors.Is(err, ErrFrameSize) {
		t.Errorf("expected ErrFrameSize, got %v", err)
	}
	if _, err := DecodeReply(make([]byte, 10)); !errors.Is(err, ErrFrameSize) {
		t.Errorf("expected ErrFrameSize, got %v", err)
	}
}

func TestDecodeReplyNegativeValue(t *testing.T) {
	frame := replyFrame(2, 1, 100, 6, -42)

	reply, err := DecodeReply(frame)
	if err != nil {
		t.Fatalf("DecodeReply failed: %v", err)
	}
	if reply.Value != -42 {
		t.Errorf("value = %d, want -42", reply.Value)
	}
}

func TestOpcodeTable(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint8
	}{
		{"ror", 1},
		{"rol", 2},
		{"mst", 3},
		{"mvp", 4},
		{"sap", 5},
		{"gap", 6},
		{"sgp", 9},
		{"ggp", 10},
		{"stop_application", 128},
		{"run_application", 129},
		{"start_download", 132},
		{"stop_download", 133},
		{"get_application_status", 135},
		{"get_firmware_version", 136},
	}

	for _, tt := range tests {
		op, err := Opcode(tt.name)
		if err != nil {
			t.Errorf("Opcode(%q) failed: %v", tt.name, err)
			continue
		}
		if op != tt.opcode {
			t.Errorf("Opcode(%q) = %d, want %d", tt.name, op, tt.opcode)
		}
	}

	names := CommandNames()
	if len(names) != len(commands) {
		t.Errorf("CommandNames returned %d entries, want %d", len(names), len(commands))
	}
}

// replyFrame builds a valid reply frame with a correct checksum.
func replyFrame(replyAddr, moduleAddr, status, opcode uint8, value int32) []byte {
	frame := make([]byte, FrameSize)
	frame[0] = replyAddr
	frame[1] = moduleAddr
	frame[2] = status
	frame[3] = opcode
	frame[4] = byte(uint32(value) >> 24)
	frame[5] = byte(uint32(value) >> 16)
	frame[6] = byte(uint32(value) >> 8)
	frame[7] = byte(uint32(value))
	frame[8] = Checksum(frame[:8])
	return frame
}
