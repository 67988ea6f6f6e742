package tlsrecord

import "errors"

var (
	// ErrBadRecordMAC is returned by Decrypt on authentication failure,
	// either a stream-suite MAC mismatch or an AEAD open failure
	// (spec.md §4.6, §7). Fatal to the connection.
	ErrBadRecordMAC = errors.New("tlsrecord: bad record MAC")

	// ErrUnsupportedSuite is returned when a half-connection's suite
	// category/version combination has no defined encrypt/decrypt
	// rule (spec.md §4.6, §7).
	ErrUnsupportedSuite = errors.New("tlsrecord: unsupported suite")

	// ErrSeqOverflow is returned when the 64-bit per-direction sequence
	// counter would wrap from all-ones to all-zero. The half-connection
	// becomes unusable afterward (spec.md §4.6, §7, §9).
	ErrSeqOverflow = errors.New("tlsrecord: sequence number overflow")
)
