// Package flowcontrol implements the per-stream and per-connection
// flow-control accounting of spec.md §3, and the window-update queue
// of spec.md §4.4.
//
// The C evidence keeps two near-identical structs (stream and
// connection controllers) that differ only in how bytesRead is fed
// and in the frame type emitted at drain time. This port keeps a
// single Controller type for the shared accounting contract and lets
// the two constructors document the distinction spec.md draws between
// them, the same way the teacher's stream.go holds one struct for
// both the flow-control window and the backing buffer.
package flowcontrol

// Controller tracks the receive-side flow-control state of a single
// stream or of a connection as a whole (spec.md §3): bytes delivered
// to the application, the highest byte offset observed on the wire,
// the currently advertised window size, and the auto-tuning cap on
// that window size.
type Controller struct {
	bytesRead           uint64
	highestReceived     uint64
	receiveWindow       uint64
	maxReceiveWindow    uint64
	lastAdvertisedLimit uint64
}

// NewStreamController returns a Controller sized for a single stream,
// seeded with the stream's initial advertised window.
func NewStreamController(initialWindow, maxWindow uint64) *Controller {
	return newController(initialWindow, maxWindow)
}

// NewConnController returns a Controller sized for the connection as a
// whole, seeded with the connection's initial advertised window.
func NewConnController(initialWindow, maxWindow uint64) *Controller {
	return newController(initialWindow, maxWindow)
}

func newController(initialWindow, maxWindow uint64) *Controller {
	// An initial window above the cap would otherwise make every
	// advertised bound exceed maxReceiveWindow forever (receiveWindow
	// is never grown above its initial value), so clamp at construction.
	if initialWindow > maxWindow {
		initialWindow = maxWindow
	}
	return &Controller{
		receiveWindow:       initialWindow,
		maxReceiveWindow:    maxWindow,
		lastAdvertisedLimit: initialWindow,
	}
}

// AddBytesRead records n additional bytes delivered to the
// application layer.
func (c *Controller) AddBytesRead(n uint64) {
	c.bytesRead += n
}

// UpdateHighestReceived records the highest byte offset seen so far
// on the wire for this stream or connection.
func (c *Controller) UpdateHighestReceived(offset uint64) {
	if offset > c.highestReceived {
		c.highestReceived = offset
	}
}

// BytesRead reports the total bytes delivered to the application.
func (c *Controller) BytesRead() uint64 { return c.bytesRead }

// HighestReceived reports the highest byte offset seen on the wire.
func (c *Controller) HighestReceived() uint64 { return c.highestReceived }

// ReceiveWindow reports the size of the currently advertised window.
func (c *Controller) ReceiveWindow() uint64 { return c.receiveWindow }

// GetWindowUpdate returns the absolute offset to advertise in a
// MAX_DATA or MAX_STREAM_DATA frame, or 0 if no update is due
// (spec.md §3, Testable Property 6).
//
// A window update is pending iff advertising now would raise the
// advertised bound by at least half of the current receive window —
// the auto-tuned threshold this package uses is a static half-window,
// since RTT-based tuning depends on an external collaborator outside
// this package's scope (see DESIGN.md's Open Question resolution on
// this point). The candidate bound is capped at maxReceiveWindow bytes
// past bytesRead, so a stream or connection can never be advertised a
// window beyond the cap its constructor was given.
func (c *Controller) GetWindowUpdate() uint64 {
	candidate := c.bytesRead + c.receiveWindow
	if cap := c.bytesRead + c.maxReceiveWindow; candidate > cap {
		candidate = cap
	}
	threshold := c.receiveWindow / 2
	if candidate < c.lastAdvertisedLimit+threshold {
		return 0
	}
	c.lastAdvertisedLimit = candidate
	return candidate
}
