package flowcontrol

import "errors"

// ErrAllocFailed mirrors spec.md §7's AllocFailed kind (resource
// exhaustion while building a control frame during a drain). Go's
// allocator does not expose partial-failure the way the C evidence's
// manual allocator does, so nothing in this package raises it today;
// it is kept as the sentinel a FrameSink is free to return (and that
// QueueAll propagates) if a downstream resource limit is hit.
var ErrAllocFailed = errors.New("flowcontrol: frame allocation failed")
