package varint

import "testing"

func TestSize(t *testing.T) {
	cases := []struct {
		v    uint64
		want int
	}{
		{0, 1},
		{0x3f, 1},
		{0x40, 2},
		{0x3fff, 2},
		{0x4000, 4},
		{0x3fffffff, 4},
		{0x40000000, 8},
		{MaxValue, 8},
	}
	for _, c := range cases {
		if got := Size(c.v); got != c.want {
			t.Errorf("Size(%#x) = %d, want %d", c.v, got, c.want)
		}
	}
}

func TestWriteReadVarintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 0x3f, 0x40, 0x1234, 0x3fff, 0x4000, 0x3fffffff, 0x40000000, MaxValue}
	for _, v := range values {
		buf := make([]byte, Size(v))
		w := NewWriter(buf)
		if err := w.WriteVarint(v); err != nil {
			t.Fatalf("WriteVarint(%#x): %v", v, err)
		}
		r := NewReader(w.Bytes())
		got, err := r.ReadVarint()
		if err != nil {
			t.Fatalf("ReadVarint: %v", err)
		}
		if got != v {
			t.Errorf("round trip %#x -> %#x", v, got)
		}
		if r.Remaining() != 0 {
			t.Errorf("reader not fully consumed: %d bytes left", r.Remaining())
		}
	}
}

// E2-style fixture from spec.md: off=0x1234 encodes as the two-byte
// varint 0x5234.
func TestWriteVarintWireForm(t *testing.T) {
	buf := make([]byte, 2)
	w := NewWriter(buf)
	if err := w.WriteVarint(0x1234); err != nil {
		t.Fatal(err)
	}
	want := []byte{0x52, 0x34}
	got := w.Bytes()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestWriterShortBuffer(t *testing.T) {
	w := NewWriter(make([]byte, 1))
	if err := w.WriteVarint(0x1234); err != ErrShortBuffer {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
}

func TestReaderShortBuffer(t *testing.T) {
	r := NewReader([]byte{0x52})
	if _, err := r.ReadVarint(); err != ErrShortBuffer {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
}

func TestAcquireReleaseWriter(t *testing.T) {
	w := AcquireWriter(4)
	if w.Remaining() != 4 {
		t.Fatalf("Remaining() = %d, want 4", w.Remaining())
	}
	if err := w.WriteUint(0x01020304, 4); err != nil {
		t.Fatal(err)
	}
	ReleaseWriter(w)
}
