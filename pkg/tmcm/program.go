package tmcm

// ProgramState is the execution state of the onboard TMCL program.
type ProgramState uint8

const (
	// ProgramStopped means no program is executing.
	ProgramStopped ProgramState = 0
	// ProgramRunning means a program is executing.
	ProgramRunning ProgramState = 1
	// ProgramStepping means a program is in single-step mode.
	ProgramStepping ProgramState = 2
	// ProgramReset means the program counter was reset.
	ProgramReset ProgramState = 3
)

// String returns the state name.
func (s ProgramState) String() string {
	switch s {
	case ProgramStopped:
		return "stopped"
	case ProgramRunning:
		return "running"
	case ProgramStepping:
		return "stepping"
	case ProgramReset:
		return "reset"
	default:
		return "unknown"
	}
}

// StopProgram stops the currently running TMCL program.
func (c *Controller) StopProgram() error {
	_, err := c.Command("stop_application", 0, 0, 0)
	return err
}

// StartProgram starts the TMCL program from the current address.
func (c *Controller) StartProgram() error {
	_, err := c.Command("run_application", 0, 0, 0)
	return err
}

// StartProgramAt starts the TMCL program from the given address.
func (c *Controller) StartProgramAt(address int64) error {
	_, err := c.Command("run_application", 1, 0, address)
	return err
}

// StartDownload begins loading TMCL instructions into EEPROM at the
// given address.
func (c *Controller) StartDownload(address int64) error {
	_, err := c.Command("start_download", 0, 0, address)
	return err
}

// StopDownload finishes loading TMCL instructions into EEPROM.
func (c *Controller) StopDownload() error {
	_, err := c.Command("stop_download", 0, 0, 0)
	return err
}

// ProgramStatus returns the execution state of the onboard program.
func (c *Controller) ProgramStatus() (ProgramState, error) {
	reply, err := c.Command("get_application_status", 0, 0, 0)
	if err != nil {
		return 0, err
	}
	return ProgramState(reply.Value), nil
}

// FirmwareVersion returns the module firmware version in its binary
// reply format (type 1). The ASCII variant replies without a standard
// frame and is not supported.
func (c *Controller) FirmwareVersion() (int32, error) {
	reply, err := c.Command("get_firmware_version", 1, 0, 0)
	if err != nil {
		return 0, err
	}
	return reply.Value, nil
}
