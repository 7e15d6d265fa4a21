package params

import (
	"errors"
	"fmt"
	"sort"
)

// Table lookup errors.
var (
	// ErrUnknownParameter indicates a parameter name not present in the
	// table. This is a programming error and fails fast.
	ErrUnknownParameter = errors.New("unknown parameter")

	// ErrReadOnlyParameter indicates a write attempt on a parameter the
	// module exposes read-only.
	ErrReadOnlyParameter = errors.New("parameter is read-only")
)

// Code is a signed parameter code from one of the static tables.
// Negative codes mark read-only parameters.
type Code int

// Number returns the numeric code transmitted on the wire.
func (c Code) Number() uint8 {
	if c < 0 {
		return uint8(-c)
	}
	return uint8(c)
}

// Writable reports whether the parameter accepts writes.
func (c Code) Writable() bool {
	return c >= 0
}

// axisParameters maps axis parameter names to codes.
var axisParameters = map[string]Code{
	"target_position":             0,
	"actual_position":             1,
	"target_speed":                2,
	"actual_speed":                3,
	"maximum_speed":               4,
	"maximum_acceleration":        5,
	"maximum_current":             6,
	"standby_current":             7,
	"target_pos_reached":          8,
	"ref_switch_status":           9,
	"right_limit_switch_status":   10,
	"left_limit_switch_status":    11,
	"right_limit_switch_disable":  12,
	"left_limit_switch_disable":   13,
	"minimum_speed":               -130,
	"acceleration":                -135,
	"ramp_mode":                   138,
	"microstep_resolution":        140,
	"soft_stop_flag":              149,
	"ramp_divisor":                153,
	"pulse_divisor":               154,
	"referencing_mode":            193,
	"referencing_search_speed":    194,
	"referencing_switch_speed":    195,
	"distance_end_switches":       196,
	"mixed_decay_threshold":       203,
	"freewheeling":                204,
	"stall_detection_threshold":   205,
	"actual_load_value":           206,
	"driver_error_flags":          -208,
	"encoder_position":            209,
	"encoder_prescaler":           210,
	"fullstep_threshold":          211,
	"maximum_encoder_deviation":   212,
	"power_down_delay":            214,
	"absolute_encoder_value":      -215,
}

// globalParameters maps controller-wide parameter names to codes.
var globalParameters = map[string]Code{
	"eeprom_magic":            64,
	"baud_rate":               65,
	"serial_address":          66,
	"ascii_mode":              67,
	"eeprom_lock":             73,
	"auto_start_mode":         77,
	"tmcl_code_protection":    81,
	"coordinate_storage":      84,
	"tmcl_application_status": 128,
	"download_mode":           129,
	"tmcl_program_counter":    130,
	"tick_timer":              132,
	"random_number":           -133,
}

// operators maps TMCL calc/calcx operand names to operator codes.
var operators = map[string]uint8{
	"add":  0,
	"sub":  1,
	"mul":  2,
	"div":  3,
	"mod":  4,
	"and":  5,
	"or":   6,
	"xor":  7,
	"not":  8,
	"load": 9,
}

// Resolve looks up an axis parameter by name.
func Resolve(name string) (Code, error) {
	code, ok := axisParameters[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	return code, nil
}

// ResolveGlobal looks up a global parameter by name.
func ResolveGlobal(name string) (Code, error) {
	code, ok := globalParameters[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	return code, nil
}

// Operator looks up a calc/calcx operator by name.
func Operator(name string) (uint8, error) {
	op, ok := operators[name]
	if !ok {
		return 0, fmt.Errorf("%w: operator %q", ErrUnknownParameter, name)
	}
	return op, nil
}

// Names returns all axis parameter names, sorted.
func Names() []string {
	return sortedKeys(axisParameters)
}

// GlobalNames returns all global parameter names, sorted.
func GlobalNames() []string {
	return sortedKeys(globalParameters)
}

func sortedKeys(table map[string]Code) []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
