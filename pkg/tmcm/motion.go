package tmcm

import "fmt"

// MaxVelocity is the largest rotation speed the module accepts.
const MaxVelocity = 2047

// maxPosition bounds move targets, matching the module's documented
// position range. Values in [-2^32, -2^31) pass this check but are not
// representable in the 4-byte value field and fail encoding.
const maxPosition = int64(1) << 32

// Rotate starts the motor turning at the given velocity.
//
// The velocity must be within ±MaxVelocity; negative values turn left,
// positive values turn right. Rotation continues until Stop or a
// positioning command.
func (c *Controller) Rotate(velocity int) error {
	if velocity < -MaxVelocity || velocity > MaxVelocity {
		return fmt.Errorf("%w: %d not within ±%d", ErrVelocityRange, velocity, MaxVelocity)
	}

	name := "ror"
	if velocity < 0 {
		name = "rol"
		velocity = -velocity
	}
	_, err := c.Command(name, 0, 0, int64(velocity))
	return err
}

// Stop stops the motor.
//
// Note: does not stop a currently running TMCL program; use StopProgram
// for that.
func (c *Controller) Stop() error {
	_, err := c.Command("mst", 0, 0, 0)
	return err
}

// Move rotates until reaching pos. When relative is true, pos is
// interpreted relative to the current position.
func (c *Controller) Move(pos int64, relative bool) error {
	if pos < -maxPosition || pos >= maxPosition {
		return fmt.Errorf("%w: %d", ErrPositionRange, pos)
	}

	var typ uint8
	if relative {
		typ = 1
	}
	_, err := c.Command("mvp", typ, 0, pos)
	return err
}

// MoveAtVelocity is a declared extension point: move to pos after
// setting the target velocity. The velocity argument is validated but
// the combined operation is not implemented yet and always returns
// ErrNotImplemented.
func (c *Controller) MoveAtVelocity(pos int64, relative bool, velocity int) error {
	if velocity < 0 || velocity > MaxVelocity {
		return fmt.Errorf("%w: %d not within 0..%d", ErrVelocityRange, velocity, MaxVelocity)
	}
	return fmt.Errorf("%w: velocity override on move", ErrNotImplemented)
}

// RefSearchAction selects the reference search operation.
type RefSearchAction uint8

const (
	// RefSearchStart begins a reference search.
	RefSearchStart RefSearchAction = 0
	// RefSearchStop aborts a running reference search.
	RefSearchStop RefSearchAction = 1
	// RefSearchStatus queries progress; the result is nonzero while
	// the search is still running.
	RefSearchStatus RefSearchAction = 2
)

// ReferenceSearch drives the module's reference search (rfs) and
// returns the reply value, which is meaningful for RefSearchStatus.
func (c *Controller) ReferenceSearch(action RefSearchAction) (int32, error) {
	reply, err := c.Command("rfs", uint8(action), 0, 0)
	if err != nil {
		return 0, err
	}
	return reply.Value, nil
}
