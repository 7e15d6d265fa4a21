// Package log provides structured logging of TMCL protocol exchanges.
//
// Every frame written to or read from a controller can be captured as
// an Event and handed to a Logger. Events serialize to CBOR with
// integer keys, so long captures against a live motor stay compact and
// can be replayed or analyzed offline (see cmd/tmcm-log).
//
// FileLogger appends CBOR events to a file, SlogAdapter bridges events
// into log/slog for development, MultiLogger fans out to both, and
// Reader iterates a capture file back into Events.
package log
