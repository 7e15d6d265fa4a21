// Package transport provides reliable byte-level I/O over a serial
// link for the TMCL protocol.
//
// The layer is deliberately thin: write raw bytes, read an exact count
// with a deadline, or drain whatever is buffered. No retries happen
// here; retry policy, if any, belongs to the caller.
package transport
