package packet

import "errors"

// ErrShortBuffer is returned by any header parse that would need more
// bytes than are available.
var ErrShortBuffer = errors.New("packet: short buffer")
