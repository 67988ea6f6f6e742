// Package streams implements the stream-facing collaborators of the
// QUIC transport core: the outward-facing sender capability set of
// spec.md §4.5 and §3, and the stream lookup table used by the window
// update queue (spec.md §6's stream_getter interface).
//
// The C evidence models a sender as a struct of three function
// pointers plus a void* self context, with the uni-directional
// variant built by copying two of those pointers and substituting the
// third. Go closures already carry their own context, so there is no
// need for the explicit self pointer — each field of Sender is a
// closure that captures whatever state it needs.
package streams

import (
	"fmt"

	"github.com/zaoshangyaochifan/libgquic/frame"
)

// Sender is the downward-facing capability set a stream uses to talk
// back to the connection (spec.md §3 "Stream sender"). Each field is
// nil-checked by callers the same way the C evidence nil-checks a
// missing function pointer before invoking it.
type Sender struct {
	// QueueCtrlFrame hands a control frame to the connection for
	// sending (e.g. STREAM_DATA_BLOCKED, RETIRE_CONNECTION_ID).
	QueueCtrlFrame func(frame.Frame) error

	// OnHasStreamData signals the readiness edge: this stream now has
	// data available to send.
	OnHasStreamData func(streamID uint64)

	// OnStreamCompleted signals that streamID has reached a terminal
	// state and can be torn down.
	OnStreamCompleted func(streamID uint64) error
}

// NewUniStreamSender builds a Sender that prototypes base: it shares
// base's QueueCtrlFrame and OnHasStreamData, and overrides
// OnStreamCompleted to ignore the stream ID argument and invoke
// onCompleted instead (spec.md §4.5 — "the sender of a
// uni-directional stream learns completion without caring which
// stream ID it was"). A failure from onCompleted propagates wrapped
// in ErrCallbackFailed.
func NewUniStreamSender(base *Sender, onCompleted func() error) *Sender {
	return &Sender{
		QueueCtrlFrame:  base.QueueCtrlFrame,
		OnHasStreamData: base.OnHasStreamData,
		OnStreamCompleted: func(uint64) error {
			if err := onCompleted(); err != nil {
				return fmt.Errorf("%w: %v", ErrCallbackFailed, err)
			}
			return nil
		},
	}
}
