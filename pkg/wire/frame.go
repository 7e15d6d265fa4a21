package wire

// FrameSize is the fixed size of every TMCL frame, in bytes, in both
// directions. The last byte is always the checksum.
const FrameSize = 9

// checksumLen is the number of bytes covered by the checksum.
const checksumLen = FrameSize - 1

// Request is a decoded command frame sent to the module.
type Request struct {
	// ModuleAddr is the target module address (1..255).
	ModuleAddr uint8

	// Opcode is the numeric command code.
	Opcode uint8

	// Type is the command type operand (parameter number, motion type, ...).
	Type uint8

	// Motor is the motor or bank index.
	Motor uint8

	// Value is the 32-bit command operand. It is held as int64 so both
	// the signed and unsigned 32-bit ranges are representable; Encode
	// rejects values outside [-2^31, 2^32).
	Value int64
}

// Reply is a decoded reply frame received from the module.
type Reply struct {
	// ReplyAddr is the address of the replying host (serial: 2).
	ReplyAddr uint8

	// ModuleAddr is the address of the module that executed the command.
	ModuleAddr uint8

	// Status is the command status code. DecodeReply rejects frames
	// whose status indicates an error, so a returned Reply always
	// carries a success status.
	Status Status

	// Opcode echoes the command code this reply answers.
	Opcode uint8

	// Value is the 32-bit result operand.
	Value int32
}

// Checksum computes the TMCL checksum: the unsigned sum of b modulo 256.
func Checksum(b []byte) byte {
	var sum byte
	for _, c := range b {
		sum += c
	}
	return sum
}
