package wire

import (
	"fmt"
	"sort"
)

// commands maps symbolic TMCL instruction mnemonics to opcodes.
// The table is fixed at init and never mutated.
var commands = map[string]uint8{
	// Motion
	"rol": 2,  // rotate left
	"ror": 1,  // rotate right
	"mvp": 4,  // move to position
	"mst": 3,  // motor stop
	"rfs": 13, // reference search

	// Axis and global parameters
	"sap":  5,  // set axis parameter
	"gap":  6,  // get axis parameter
	"stap": 7,  // store axis parameter to EEPROM
	"rsap": 8,  // restore axis parameter from EEPROM
	"sgp":  9,  // set global parameter
	"ggp":  10, // get global parameter
	"stgp": 11, // store global parameter to EEPROM
	"rsgp": 12, // restore global parameter from EEPROM

	// I/O
	"sio": 14,
	"gio": 15,

	// TMCL program instructions
	"calc":  19,
	"comp":  20,
	"jc":    21, // jump conditional
	"ja":    22, // jump always
	"csub":  23, // call subroutine
	"rsub":  24, // return from subroutine
	"wait":  27,
	"stop":  28,
	"sco":   30, // set coordinate
	"gco":   31, // get coordinate
	"cco":   32, // capture coordinate
	"calcx": 33,
	"aap":   34, // accumulator to axis parameter
	"agp":   35, // accumulator to global parameter
	"aco":   39, // accumulator to coordinate
	"sac":   29,

	// Application control
	"stop_application":         128,
	"run_application":          129,
	"step_application":         130,
	"reset_application":        131,
	"start_download":           132,
	"stop_download":            133,
	"get_application_status":   135,
	"get_firmware_version":     136,
	"restore_factory_settings": 137,
}

// Opcode resolves a command mnemonic to its numeric opcode.
// Unknown mnemonics are a programming error and fail fast with
// ErrUnknownCommand.
func Opcode(name string) (uint8, error) {
	op, ok := commands[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	return op, nil
}

// CommandNames returns all known command mnemonics, sorted.
func CommandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
