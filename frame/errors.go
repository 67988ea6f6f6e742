package frame

import "errors"

// Error kinds raised by the frame codec (spec.md §7). They are local,
// comparable sentinels in the teacher's errors.go style
// (github.com/dgrr/http2's NoError/ProtocolError/... table), not an
// exported struct hierarchy.
var (
	// ErrShortBuffer is returned by Serialize when the output buffer is
	// smaller than the frame's Size. Truncated input surfaces instead as
	// varint.ErrShortBuffer from the reader. Recoverable by
	// accumulating more bytes.
	ErrShortBuffer = errors.New("frame: short buffer")

	// ErrWrongType is returned when a deserialize call's leading type
	// tag does not match the target frame type.
	ErrWrongType = errors.New("frame: wrong type tag")

	// ErrOverflow is returned when an embedded length field exceeds
	// the remaining input. Fatal to the datagram, not the connection.
	ErrOverflow = errors.New("frame: length exceeds remaining input")
)
