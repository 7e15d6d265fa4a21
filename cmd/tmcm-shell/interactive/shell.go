// Package interactive provides the interactive command-line interface
// for tmcm-shell.
package interactive

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/tmcl-protocol/tmcm-go/pkg/params"
	"github.com/tmcl-protocol/tmcm-go/pkg/profile"
	"github.com/tmcl-protocol/tmcm-go/pkg/tmcm"
	"github.com/tmcl-protocol/tmcm-go/pkg/wire"
)

// Shell handles interactive mode for tmcm-shell.
type Shell struct {
	ctrl     *tmcm.Controller
	profiles *profile.Store
	rl       *readline.Instance
}

// New creates a new interactive shell around a connected controller.
func New(ctrl *tmcm.Controller, profiles *profile.Store) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "tmcm> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Shell{
		ctrl:     ctrl,
		profiles: profiles,
		rl:       rl,
	}, nil
}

// Stdout returns a writer that coordinates with the readline prompt.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Run starts the interactive command loop. It returns when the user
// exits or closes the input.
func (s *Shell) Run() {
	defer s.rl.Close()

	s.printHelp()

	for {
		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "rotate", "rot":
			s.cmdRotate(args)

		case "stop":
			s.cmdStop()

		case "move", "mv":
			s.cmdMove(args)

		case "refsearch", "rfs":
			s.cmdRefSearch(args)

		case "get", "g":
			s.cmdGet(args)

		case "set":
			s.cmdSet(args)

		case "gget":
			s.cmdGlobalGet(args)

		case "gset":
			s.cmdGlobalSet(args)

		case "params":
			s.cmdParams()

		case "globals":
			s.cmdGlobals()

		case "program", "prog":
			s.cmdProgram(args)

		case "download", "dl":
			s.cmdDownload(args)

		case "profile":
			s.cmdProfile(args)

		case "raw":
			s.cmdRaw(args)

		case "version":
			s.cmdVersion()

		case "quit", "exit", "q":
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			return

		default:
			fmt.Fprintf(s.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.rl.Stdout(), `
TMCM-140 Commands:
  Motion:
    rotate <velocity>      - Rotate at velocity (-2047..2047, sign sets direction)
    stop                   - Stop the motor
    move <pos> [rel]       - Move to absolute position (or relative offset)
    refsearch start|stop|status - Control the reference search

  Parameters:
    get <name>             - Read an axis parameter
    set <name> <val> [force] - Write an axis parameter (force overrides guards)
    gget <name>            - Read a global parameter
    gset <name> <val>      - Write a global parameter
    params                 - List axis parameter names
    globals                - List global parameter names

  Profiles:
    profile list                - List saved profiles
    profile save <name>         - Snapshot writable axis parameters
    profile show <name>         - Show a saved profile
    profile apply <name>        - Apply a saved profile to the module
    profile delete <name>       - Delete a saved profile

  Stored Programs:
    program status         - Show program execution state
    program start [addr]   - Run the stored program (from addr if given)
    program stop           - Halt the stored program
    download start <addr>  - Enter download mode at addr
    download stop          - Leave download mode

  General:
    raw <cmd> <type> <motor> <value> - Send an arbitrary command
    version                - Show firmware version
    help                   - Show this help
    quit                   - Exit shell`)
}

// printError prints a one-line error, with a hint for guarded writes.
func (s *Shell) printError(err error) {
	fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
	if errors.Is(err, tmcm.ErrCurrentTooHigh) {
		fmt.Fprintf(s.rl.Stdout(), "Use 'set %s <value> force' to override (max safe is %d).\n",
			"maximum_current", tmcm.MaxSafeCurrent)
	}
}

func (s *Shell) cmdRotate(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: rotate <velocity>")
		return
	}
	velocity, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Invalid velocity: %v\n", err)
		return
	}
	if err := s.ctrl.Rotate(velocity); err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "Rotating at %d\n", velocity)
}

func (s *Shell) cmdStop() {
	if err := s.ctrl.Stop(); err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintln(s.rl.Stdout(), "Stopped")
}

func (s *Shell) cmdMove(args []string) {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: move <pos> [rel]")
		return
	}
	pos, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Invalid position: %v\n", err)
		return
	}
	relative := false
	if len(args) == 2 {
		if args[1] != "rel" {
			fmt.Fprintln(s.rl.Stdout(), "Usage: move <pos> [rel]")
			return
		}
		relative = true
	}
	if err := s.ctrl.Move(pos, relative); err != nil {
		s.printError(err)
		return
	}
	if relative {
		fmt.Fprintf(s.rl.Stdout(), "Moving by %d\n", pos)
	} else {
		fmt.Fprintf(s.rl.Stdout(), "Moving to %d\n", pos)
	}
}

func (s *Shell) cmdRefSearch(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: refsearch start|stop|status")
		return
	}

	var action tmcm.RefSearchAction
	switch args[0] {
	case "start":
		action = tmcm.RefSearchStart
	case "stop":
		action = tmcm.RefSearchStop
	case "status":
		action = tmcm.RefSearchStatus
	default:
		fmt.Fprintln(s.rl.Stdout(), "Usage: refsearch start|stop|status")
		return
	}

	value, err := s.ctrl.ReferenceSearch(action)
	if err != nil {
		s.printError(err)
		return
	}
	if action == tmcm.RefSearchStatus {
		if value == 0 {
			fmt.Fprintln(s.rl.Stdout(), "Reference search: idle")
		} else {
			fmt.Fprintf(s.rl.Stdout(), "Reference search: active (%d)\n", value)
		}
		return
	}
	fmt.Fprintln(s.rl.Stdout(), "OK")
}

func (s *Shell) cmdGet(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: get <name>")
		return
	}
	value, err := s.ctrl.GetParameter(args[0])
	if err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "%s = %d\n", args[0], value)
}

func (s *Shell) cmdSet(args []string) {
	if len(args) < 2 || len(args) > 3 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: set <name> <value> [force]")
		return
	}
	value, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Invalid value: %v\n", err)
		return
	}

	force := false
	if len(args) == 3 {
		if args[2] != "force" {
			fmt.Fprintln(s.rl.Stdout(), "Usage: set <name> <value> [force]")
			return
		}
		force = true
	}

	if force {
		err = s.ctrl.ForceSetParameter(args[0], value)
	} else {
		err = s.ctrl.SetParameter(args[0], value)
	}
	if err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "%s = %d\n", args[0], value)
}

func (s *Shell) cmdGlobalGet(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: gget <name>")
		return
	}
	value, err := s.ctrl.GetGlobalParameter(args[0])
	if err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "%s = %d\n", args[0], value)
}

func (s *Shell) cmdGlobalSet(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: gset <name> <value>")
		return
	}
	value, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Invalid value: %v\n", err)
		return
	}
	if err := s.ctrl.SetGlobalParameter(args[0], value); err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "%s = %d\n", args[0], value)
}

func (s *Shell) cmdParams() {
	for _, name := range params.Names() {
		code, _ := params.Resolve(name)
		access := "rw"
		if !code.Writable() {
			access = "ro"
		}
		fmt.Fprintf(s.rl.Stdout(), "  %-32s %3d %s\n", name, code.Number(), access)
	}
}

func (s *Shell) cmdGlobals() {
	for _, name := range params.GlobalNames() {
		code, _ := params.ResolveGlobal(name)
		access := "rw"
		if !code.Writable() {
			access = "ro"
		}
		fmt.Fprintf(s.rl.Stdout(), "  %-32s %3d %s\n", name, code.Number(), access)
	}
}

func (s *Shell) cmdProgram(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: program status|start [addr]|stop")
		return
	}

	switch args[0] {
	case "status":
		state, err := s.ctrl.ProgramStatus()
		if err != nil {
			s.printError(err)
			return
		}
		fmt.Fprintf(s.rl.Stdout(), "Program state: %s\n", state)

	case "start":
		var err error
		if len(args) == 2 {
			addr, parseErr := strconv.ParseInt(args[1], 10, 64)
			if parseErr != nil {
				fmt.Fprintf(s.rl.Stdout(), "Invalid address: %v\n", parseErr)
				return
			}
			err = s.ctrl.StartProgramAt(addr)
		} else {
			err = s.ctrl.StartProgram()
		}
		if err != nil {
			s.printError(err)
			return
		}
		fmt.Fprintln(s.rl.Stdout(), "Program started")

	case "stop":
		if err := s.ctrl.StopProgram(); err != nil {
			s.printError(err)
			return
		}
		fmt.Fprintln(s.rl.Stdout(), "Program stopped")

	default:
		fmt.Fprintln(s.rl.Stdout(), "Usage: program status|start [addr]|stop")
	}
}

func (s *Shell) cmdDownload(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: download start <addr>|stop")
		return
	}

	switch args[0] {
	case "start":
		if len(args) != 2 {
			fmt.Fprintln(s.rl.Stdout(), "Usage: download start <addr>")
			return
		}
		addr, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			fmt.Fprintf(s.rl.Stdout(), "Invalid address: %v\n", err)
			return
		}
		if err := s.ctrl.StartDownload(addr); err != nil {
			s.printError(err)
			return
		}
		fmt.Fprintf(s.rl.Stdout(), "Download mode entered at %d\n", addr)

	case "stop":
		if err := s.ctrl.StopDownload(); err != nil {
			s.printError(err)
			return
		}
		fmt.Fprintln(s.rl.Stdout(), "Download mode left")

	default:
		fmt.Fprintln(s.rl.Stdout(), "Usage: download start <addr>|stop")
	}
}

func (s *Shell) cmdProfile(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: profile list|save|show|apply|delete")
		return
	}

	switch args[0] {
	case "list":
		names, err := s.profiles.Names()
		if err != nil {
			s.printError(err)
			return
		}
		if len(names) == 0 {
			fmt.Fprintln(s.rl.Stdout(), "No saved profiles")
			return
		}
		for _, name := range names {
			fmt.Fprintf(s.rl.Stdout(), "  %s\n", name)
		}

	case "save":
		if len(args) != 2 {
			fmt.Fprintln(s.rl.Stdout(), "Usage: profile save <name>")
			return
		}
		s.saveProfile(args[1])

	case "show":
		if len(args) != 2 {
			fmt.Fprintln(s.rl.Stdout(), "Usage: profile show <name>")
			return
		}
		p, err := s.profiles.Load(args[1])
		if err != nil {
			s.printError(err)
			return
		}
		if p == nil {
			fmt.Fprintf(s.rl.Stdout(), "No such profile: %s\n", args[1])
			return
		}
		fmt.Fprintf(s.rl.Stdout(), "%s (saved %s)\n", p.Name, p.SavedAt.Format(time.RFC3339))
		for name, value := range p.Parameters {
			fmt.Fprintf(s.rl.Stdout(), "  %-32s %d\n", name, value)
		}

	case "apply":
		if len(args) != 2 {
			fmt.Fprintln(s.rl.Stdout(), "Usage: profile apply <name>")
			return
		}
		p, err := s.profiles.Load(args[1])
		if err != nil {
			s.printError(err)
			return
		}
		if p == nil {
			fmt.Fprintf(s.rl.Stdout(), "No such profile: %s\n", args[1])
			return
		}
		if err := s.ctrl.ApplyProfile(p); err != nil {
			s.printError(err)
			return
		}
		fmt.Fprintf(s.rl.Stdout(), "Applied %d parameters\n", len(p.Parameters))

	case "delete":
		if len(args) != 2 {
			fmt.Fprintln(s.rl.Stdout(), "Usage: profile delete <name>")
			return
		}
		if err := s.profiles.Delete(args[1]); err != nil {
			s.printError(err)
			return
		}
		fmt.Fprintln(s.rl.Stdout(), "Deleted")

	default:
		fmt.Fprintln(s.rl.Stdout(), "Usage: profile list|save|show|apply|delete")
	}
}

// saveProfile reads every writable axis parameter from the module and
// stores the snapshot. Parameters the firmware rejects are skipped.
func (s *Shell) saveProfile(name string) {
	values := make(map[string]int64)
	for _, paramName := range params.Names() {
		code, err := params.Resolve(paramName)
		if err != nil || !code.Writable() {
			continue
		}
		value, err := s.ctrl.GetParameter(paramName)
		if err != nil {
			fmt.Fprintf(s.rl.Stdout(), "Skipping %s: %v\n", paramName, err)
			continue
		}
		values[paramName] = int64(value)
	}

	if len(values) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "Nothing to save")
		return
	}

	err := s.profiles.Save(profile.Profile{
		Name:       name,
		Parameters: values,
		SavedAt:    time.Now(),
	})
	if err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "Saved %d parameters as %q\n", len(values), name)
}

func (s *Shell) cmdRaw(args []string) {
	if len(args) != 4 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: raw <cmd> <type> <motor> <value>")
		return
	}
	typ, err := strconv.ParseUint(args[1], 10, 8)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Invalid type: %v\n", err)
		return
	}
	motor, err := strconv.ParseUint(args[2], 10, 8)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Invalid motor: %v\n", err)
		return
	}
	value, err := strconv.ParseInt(args[3], 10, 64)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Invalid value: %v\n", err)
		return
	}

	reply, err := s.ctrl.Command(args[0], uint8(typ), uint8(motor), value)
	if err != nil {
		s.printError(err)
		if errors.Is(err, wire.ErrUnknownCommand) {
			fmt.Fprintf(s.rl.Stdout(), "Known commands: %s\n", strings.Join(wire.CommandNames(), " "))
		}
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "Status: %s  Value: %d\n", reply.Status, reply.Value)
}

func (s *Shell) cmdVersion() {
	version, err := s.ctrl.FirmwareVersion()
	if err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "Firmware version: %d\n", version)
}
