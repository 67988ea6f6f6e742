package flowcontrol

import "testing"

// Testable Property 6: no update is due until consuming bytes would
// raise the advertised bound by at least half the window.
func TestGetWindowUpdateBelowThreshold(t *testing.T) {
	c := NewStreamController(100, 1000)
	c.AddBytesRead(10)
	if got := c.GetWindowUpdate(); got != 0 {
		t.Fatalf("GetWindowUpdate() = %d, want 0", got)
	}
}

func TestGetWindowUpdateAtThreshold(t *testing.T) {
	c := NewStreamController(100, 1000)
	c.AddBytesRead(50)
	if got := c.GetWindowUpdate(); got != 150 {
		t.Fatalf("GetWindowUpdate() = %d, want 150", got)
	}
	// Immediately calling again with no further reads must not re-fire.
	if got := c.GetWindowUpdate(); got != 0 {
		t.Fatalf("second GetWindowUpdate() = %d, want 0", got)
	}
}

// Testable Property 7: highestReceived tracks the maximum offset seen,
// never decreasing on an out-of-order or repeated report.
func TestUpdateHighestReceivedMonotonic(t *testing.T) {
	c := NewConnController(1000, 1000)
	c.UpdateHighestReceived(500)
	c.UpdateHighestReceived(200)
	c.UpdateHighestReceived(800)
	if got := c.HighestReceived(); got != 800 {
		t.Fatalf("HighestReceived() = %d, want 800", got)
	}
}

// A Controller must never carry a receiveWindow above the configured
// maxReceiveWindow cap, even if the caller asks for a larger initial
// window than the cap allows.
func TestNewControllerClampsInitialWindowToMax(t *testing.T) {
	c := NewStreamController(1000, 120)
	if got := c.ReceiveWindow(); got != 120 {
		t.Fatalf("ReceiveWindow() = %d, want 120 (clamped to maxReceiveWindow)", got)
	}
	c.AddBytesRead(60)
	if got := c.GetWindowUpdate(); got != 180 {
		t.Fatalf("GetWindowUpdate() = %d, want 180 (60 bytesRead + 120 cap)", got)
	}
}

// Testable Property 8: bytesRead accumulates across calls.
func TestAddBytesReadAccumulates(t *testing.T) {
	c := NewStreamController(100, 1000)
	c.AddBytesRead(30)
	c.AddBytesRead(12)
	if got := c.BytesRead(); got != 42 {
		t.Fatalf("BytesRead() = %d, want 42", got)
	}
}
