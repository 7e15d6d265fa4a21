package log

import "time"

// Event represents one protocol log event. CBOR encoding uses integer
// keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID uniquely identifies the controller session (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates frame flow relative to the host.
	Direction Direction `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// Port is the serial device path.
	Port string `cbor:"5,keyasint,omitempty"`

	// ModuleAddr is the module address of the session.
	ModuleAddr uint8 `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame       *FrameEvent       `cbor:"7,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"8,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"9,keyasint,omitempty"`
}

// Direction indicates the direction of frame flow.
type Direction uint8

const (
	// DirectionIn indicates a frame received from the module.
	DirectionIn Direction = 0
	// DirectionOut indicates a frame sent to the module.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryFrame indicates a protocol frame on the link.
	CategoryFrame Category = 0
	// CategoryState indicates a session state change (open/close).
	CategoryState Category = 1
	// CategoryError indicates a failed exchange.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryFrame:
		return "FRAME"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures one 9-byte frame plus its decoded fields.
type FrameEvent struct {
	// Raw is the frame exactly as it appeared on the link.
	Raw []byte `cbor:"1,keyasint"`

	// Command is the mnemonic resolved at send time (requests only).
	Command string `cbor:"2,keyasint,omitempty"`

	// Opcode is the numeric command code.
	Opcode uint8 `cbor:"3,keyasint"`

	// Type is the type operand (requests only).
	Type uint8 `cbor:"4,keyasint,omitempty"`

	// Motor is the motor/bank operand (requests only).
	Motor uint8 `cbor:"5,keyasint,omitempty"`

	// Value is the 32-bit operand or result.
	Value int64 `cbor:"6,keyasint"`

	// Status is the decoded reply status (replies only).
	Status uint8 `cbor:"7,keyasint,omitempty"`
}

// StateChangeEvent captures a session lifecycle transition.
type StateChangeEvent struct {
	OldState string `cbor:"1,keyasint"`
	NewState string `cbor:"2,keyasint"`
	Reason   string `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures a failed exchange.
type ErrorEventData struct {
	// Message is the error text.
	Message string `cbor:"1,keyasint"`

	// Command is the mnemonic of the exchange that failed, if known.
	Command string `cbor:"2,keyasint,omitempty"`
}
