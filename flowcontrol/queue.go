package flowcontrol

import (
	"sync"

	"github.com/zaoshangyaochifan/libgquic/frame"
	"github.com/zaoshangyaochifan/libgquic/streamset"
)

// WindowUpdater is the subset of Controller that UpdateQueue needs
// from a stream's flow-control state.
type WindowUpdater interface {
	GetWindowUpdate() uint64
}

// StreamLookup resolves a stream ID to its receive-side flow-control
// state. Implementations should return a nil WindowUpdater (and a nil
// error) for a stream that no longer exists — QueueAll treats that the
// same as a lookup error: the ID stays queued for the next drain
// rather than being dropped, matching the C evidence's
// `if (ret != 0 || str == NULL) { continue; }`, which skips the
// deletion-list append on both outcomes.
type StreamLookup interface {
	GetOrOpenRecvStream(id uint64) (WindowUpdater, error)
}

// FrameSink consumes a single outgoing control frame, e.g. by handing
// it to the packet packer. An error aborts the current QueueAll call.
type FrameSink func(frame.Frame) error

// UpdateQueue accumulates the set of streams (and, optionally, the
// connection) that owe a window-update frame, and drains them into a
// FrameSink on demand (spec.md §4.4).
//
// Grounded on original_source/flowcontrol/wnd_update_queue.c. As there,
// MAX_DATA is emitted whenever the connection is queued regardless of
// what the connection controller currently reports, including 0. One
// correction is documented in DESIGN.md: a failure partway through the
// stream drain leaves the queue's contents untouched rather than
// committing the removals decided before the failing frame.
type UpdateQueue struct {
	mu        sync.Mutex
	streams   streamset.Set
	queueConn bool

	lookup StreamLookup
	connFC WindowUpdater
	sink   FrameSink
}

// NewUpdateQueue builds an UpdateQueue. lookup resolves stream IDs at
// drain time, connFC is the connection-wide controller, and sink
// receives each frame QueueAll produces.
func NewUpdateQueue(lookup StreamLookup, connFC WindowUpdater, sink FrameSink) *UpdateQueue {
	return &UpdateQueue{lookup: lookup, connFC: connFC, sink: sink}
}

// AddStream marks id as owing a MAX_STREAM_DATA announcement next
// drain. Idempotent.
func (q *UpdateQueue) AddStream(id uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.streams.Add(id)
}

// AddConnection marks the connection as owing a MAX_DATA announcement
// next drain. Idempotent.
func (q *UpdateQueue) AddConnection() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.queueConn = true
}

// Pending reports whether any stream or the connection is currently
// queued for an announcement.
func (q *UpdateQueue) Pending() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.queueConn || q.streams.Len() > 0
}

// QueueAll drains the queue, calling sink once per frame produced. The
// connection's MAX_DATA, if queued, is always sent first. Streams are
// visited in ascending ID order; a stream whose controller currently
// has nothing to announce (GetWindowUpdate returns 0), or whose lookup
// misses or errors, stays queued for the next drain. If sink returns
// an error partway through the stream pass, QueueAll returns that
// error immediately and leaves every stream still queued — including
// ones already drained in this call — so nothing is silently lost.
func (q *UpdateQueue) QueueAll() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.queueConn {
		f := &frame.MaxData{Maximum: q.connFC.GetWindowUpdate()}
		if err := q.sink(f); err != nil {
			return err
		}
		q.queueConn = false
	}

	var drained []uint64
	var failed error
	q.streams.Each(func(id uint64) {
		if failed != nil {
			return
		}
		str, err := q.lookup.GetOrOpenRecvStream(id)
		if err != nil || str == nil {
			return
		}
		offset := str.GetWindowUpdate()
		if offset == 0 {
			return
		}
		f := &frame.MaxStreamData{StreamID: id, Maximum: offset}
		if err := q.sink(f); err != nil {
			failed = err
			return
		}
		drained = append(drained, id)
	})
	if failed != nil {
		return failed
	}
	for _, id := range drained {
		q.streams.Remove(id)
	}
	return nil
}
