// Package wire defines the binary frame format for the TMCL protocol
// spoken by Trinamic TMCM modules over a serial link.
//
// Both directions use fixed 9-byte frames, big-endian:
//
//	Request: [moduleAddr][opcode][type][motor][value:4][checksum]
//	Reply:   [replyAddr][moduleAddr][status][opcode][value:4][checksum]
//
// The checksum is the unsigned sum of the preceding 8 bytes modulo 256.
// It detects transmission corruption on a best-effort basis only; it is
// not a cryptographic integrity check.
//
// # Value packing
//
// The 4-byte value field carries either a signed or unsigned integer
// depending on the opcode. The encoder packs unsigned-first and falls
// back to signed for negative values; the two representations share bit
// patterns in the overlap region, so the order is unambiguous and
// lossless.
//
// # Status codes
//
// Reply status codes below 100 are device-reported errors (wrong
// checksum, invalid command, ...). Codes of 100 and above indicate
// success; the observed firmware always replies 100.
package wire
