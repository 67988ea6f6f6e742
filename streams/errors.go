package streams

import "errors"

// ErrCallbackFailed wraps the propagated failure of an inner
// completion callback invoked through a Sender (spec.md §4.5, §7).
var ErrCallbackFailed = errors.New("streams: callback failed")
