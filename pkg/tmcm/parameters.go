package tmcm

import (
	"fmt"

	"github.com/tmcl-protocol/tmcm-go/pkg/params"
	"github.com/tmcl-protocol/tmcm-go/pkg/profile"
)

// MaxSafeCurrent is the highest maximum_current value accepted without
// force. Values above it can physically damage the motor coil.
const MaxSafeCurrent = 100

// maximumCurrentNumber is the wire code of the guarded parameter.
const maximumCurrentNumber = 6

// GetParameter reads a named axis parameter.
func (c *Controller) GetParameter(name string) (int32, error) {
	code, err := params.Resolve(name)
	if err != nil {
		return 0, err
	}
	reply, err := c.Command("gap", code.Number(), 0, 0)
	if err != nil {
		return 0, err
	}
	return reply.Value, nil
}

// SetParameter writes a named axis parameter.
//
// Writes to read-only parameters fail with params.ErrReadOnlyParameter.
// Setting maximum_current above MaxSafeCurrent fails with
// ErrCurrentTooHigh; use ForceSetParameter to override deliberately.
func (c *Controller) SetParameter(name string, value int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setParameterLocked(name, value, false)
}

// ForceSetParameter writes a named axis parameter, bypassing the
// maximum_current safety guard. The read-only check still applies.
func (c *Controller) ForceSetParameter(name string, value int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setParameterLocked(name, value, true)
}

// SetParameters applies multiple parameter writes under a single lock
// acquisition, so no other caller's exchange interleaves with the
// batch. Each write is still a full command/reply exchange; a failure
// partway through leaves prior writes applied (no rollback). Iteration
// order over the map is unspecified.
func (c *Controller) SetParameters(values map[string]int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for name, value := range values {
		if err := c.setParameterLocked(name, value, false); err != nil {
			return fmt.Errorf("setting %q: %w", name, err)
		}
	}
	return nil
}

// ApplyProfile applies a stored parameter profile as one batch.
func (c *Controller) ApplyProfile(p *profile.Profile) error {
	return c.SetParameters(p.Parameters)
}

func (c *Controller) setParameterLocked(name string, value int64, force bool) error {
	code, err := params.Resolve(name)
	if err != nil {
		return err
	}
	if !code.Writable() {
		return fmt.Errorf("%w: %q", params.ErrReadOnlyParameter, name)
	}
	if code.Number() == maximumCurrentNumber && value > MaxSafeCurrent && !force {
		return fmt.Errorf("%w: %d > %d", ErrCurrentTooHigh, value, MaxSafeCurrent)
	}

	_, err = c.commandLocked("sap", code.Number(), 0, value)
	return err
}

// GetGlobalParameter reads a named controller-wide parameter.
func (c *Controller) GetGlobalParameter(name string) (int32, error) {
	code, err := params.ResolveGlobal(name)
	if err != nil {
		return 0, err
	}
	reply, err := c.Command("ggp", code.Number(), 0, 0)
	if err != nil {
		return 0, err
	}
	return reply.Value, nil
}

// SetGlobalParameter writes a named controller-wide parameter.
// Writes to read-only parameters fail with params.ErrReadOnlyParameter.
func (c *Controller) SetGlobalParameter(name string, value int64) error {
	code, err := params.ResolveGlobal(name)
	if err != nil {
		return err
	}
	if !code.Writable() {
		return fmt.Errorf("%w: %q", params.ErrReadOnlyParameter, name)
	}
	_, err = c.Command("sgp", code.Number(), 0, value)
	return err
}
