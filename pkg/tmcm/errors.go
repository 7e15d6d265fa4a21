package tmcm

import "errors"

// Controller errors.
var (
	// ErrAwaitingReply indicates a command was issued while a previous
	// reply is still outstanding. The session lock makes this
	// unreachable under normal use.
	ErrAwaitingReply = errors.New("previous reply has not been received yet")

	// ErrExtraData indicates unexpected bytes on the link beyond a
	// complete reply frame. The module must never pipeline replies, so
	// this points at a driver or hardware bug.
	ErrExtraData = errors.New("extra data on serial link")

	// ErrVelocityRange indicates a rotation velocity outside ±2047.
	ErrVelocityRange = errors.New("velocity out of range")

	// ErrPositionRange indicates a move target outside the module's
	// position range.
	ErrPositionRange = errors.New("position out of range")

	// ErrCurrentTooHigh guards maximum_current writes above the safe
	// threshold; values beyond it can damage the motor coil. Use
	// ForceSetParameter to override deliberately.
	ErrCurrentTooHigh = errors.New("refusing to set maximum_current above safe threshold (use ForceSetParameter to override)")

	// ErrNotImplemented marks declared extension points with no
	// implementation yet.
	ErrNotImplemented = errors.New("not implemented")

	// ErrClosed indicates the controller session has been closed.
	ErrClosed = errors.New("controller is closed")
)
