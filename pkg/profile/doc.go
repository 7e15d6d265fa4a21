// Package profile provides persistence for named sets of axis
// parameters.
//
// A Profile captures the parameter writes needed to bring a motor into
// a known configuration (microstep resolution, current limits, ramp
// settings, ...) so they can be reapplied after power cycles. Profiles
// are stored as a JSON file next to the application's other state.
package profile
