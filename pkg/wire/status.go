package wire

import "fmt"

// Status represents a reply status code. Codes below 100 are
// device-reported errors; codes of 100 and above indicate success.
type Status uint8

const (
	// StatusWrongChecksum indicates the module rejected the request checksum.
	StatusWrongChecksum Status = 1

	// StatusInvalidCommand indicates an opcode the firmware doesn't know.
	StatusInvalidCommand Status = 2

	// StatusWrongType indicates an invalid type operand for the opcode.
	StatusWrongType Status = 3

	// StatusInvalidValue indicates a value operand out of range.
	StatusInvalidValue Status = 4

	// StatusEEPROMLocked indicates the configuration EEPROM is locked.
	StatusEEPROMLocked Status = 5

	// StatusCommandUnavailable indicates the command cannot run right now.
	StatusCommandUnavailable Status = 6

	// StatusOK is the success code the firmware replies with.
	StatusOK Status = 100
)

// errorThreshold separates device error codes from success codes.
const errorThreshold = 100

// statusMessages holds the human-readable text for each device error
// code, verbatim from the TMCL protocol documentation.
var statusMessages = map[Status]string{
	StatusWrongChecksum:      "Wrong checksum",
	StatusInvalidCommand:     "Invalid command",
	StatusWrongType:          "Wrong type",
	StatusInvalidValue:       "Invalid value",
	StatusEEPROMLocked:       "Configuration EEPROM locked",
	StatusCommandUnavailable: "Command not available",
}

// IsError reports whether the status is a device-reported error code.
func (s Status) IsError() bool {
	return s < errorThreshold
}

// String returns the status message.
func (s Status) String() string {
	if msg, ok := statusMessages[s]; ok {
		return msg
	}
	if s.IsError() {
		return fmt.Sprintf("Unknown error (status %d)", uint8(s))
	}
	return fmt.Sprintf("OK (status %d)", uint8(s))
}

// StatusError is a device-reported command failure decoded from a
// reply frame.
type StatusError struct {
	Status Status
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("module error %d: %s", uint8(e.Status), e.Status)
}
