// Package params holds the static TMCM-140 parameter tables: symbolic
// names mapped to protocol-level numeric codes.
//
// The sign of the stored constant encodes writability: a negative code
// marks a read-only parameter. This convention is preserved verbatim
// from the protocol documentation; the numeric code sent on the wire is
// always the absolute value.
package params
