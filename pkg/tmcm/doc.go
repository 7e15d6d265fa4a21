// Package tmcm implements the controller for Trinamic TMCM-140 stepper
// motor modules over their binary serial protocol (TMCL).
//
// A Controller owns one serial transport and serializes all traffic on
// it: each public operation performs a complete command/reply exchange
// under a single mutex hold, so concurrent callers (a GUI thread and a
// polling goroutine, say) never interleave bytes on the wire.
//
// All failures surface synchronously and nothing is retried here. An
// interrupted exchange resets the session to idle, but the caller
// cannot know whether the module executed the command; treat a timeout
// as an ambiguous outcome.
package tmcm
