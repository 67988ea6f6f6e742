package packet

import "testing"

func TestLongHeaderPacketNumberDispatch(t *testing.T) {
	h := &LongHeader{Kind: LongHandshake, PacketNumberLength: 2}
	SetPN(h, 0x1122)
	if GetPN(h) != 0x1122 {
		t.Fatalf("GetPN() = %#x, want 0x1122", GetPN(h))
	}
	if !h.IsLong() {
		t.Fatal("expected long header")
	}
}

func TestShortHeaderPacketNumberDispatch(t *testing.T) {
	h := &ShortHeader{DestConnID: make([]byte, 8), PacketNumberLength: 1}
	SetPN(h, 7)
	if GetPN(h) != 7 {
		t.Fatalf("GetPN() = %d, want 7", GetPN(h))
	}
	if h.IsLong() {
		t.Fatal("expected short header")
	}
}

func TestSetLenNoOpOnShortAndRetry(t *testing.T) {
	sh := &ShortHeader{}
	SetLen(sh, 100) // must not panic; ShortHeader never carries a length

	retry := &LongHeader{Kind: LongRetry}
	SetLen(retry, 100)
	if retry.Length != 0 {
		t.Fatalf("Retry.Length = %d, want 0 (SetLen must be a no-op)", retry.Length)
	}

	initial := &LongHeader{Kind: LongInitial}
	SetLen(initial, 100)
	if initial.Length != 100 {
		t.Fatalf("Initial.Length = %d, want 100", initial.Length)
	}
}

func TestHeaderSize(t *testing.T) {
	h := &LongHeader{
		Kind:               LongInitial,
		DestConnID:         make([]byte, 8),
		SrcConnID:          make([]byte, 8),
		Token:              []byte{0x01, 0x02},
		Length:             100,
		PacketNumberLength: 2,
	}
	// 1 (first byte) + 4 (version) + 1 + 8 (dcid) + 1 + 8 (scid)
	// + varint(2)=1 + 2 (token) + varint(100)=2 + 2 (pn) = 30
	want := 1 + 4 + 1 + 8 + 1 + 8 + 1 + 2 + 2 + 2
	if got := HeaderSize(h); got != want {
		t.Fatalf("HeaderSize() = %d, want %d", got, want)
	}
}

// E3: long-header connection-ID demux.
func TestDeserializeConnIDLong(t *testing.T) {
	data := make([]byte, 14)
	data[0] = 0xC0
	data[5] = 0x08
	for i := 0; i < 8; i++ {
		data[6+i] = byte(i + 1)
	}
	id, err := DeserializeConnID(data, 8)
	if err != nil {
		t.Fatal(err)
	}
	if len(id) != 8 {
		t.Fatalf("len(id) = %d, want 8", len(id))
	}
	for i := 0; i < 8; i++ {
		if id[i] != byte(i+1) {
			t.Fatalf("id[%d] = %d, want %d", i, id[i], i+1)
		}
	}

	// A 13-byte input (one short) must fail.
	short := data[:13]
	if _, err := DeserializeConnID(short, 8); err != ErrShortBuffer {
		t.Fatalf("got %v, want ErrShortBuffer", err)
	}
}

func TestDeserializeConnIDShort(t *testing.T) {
	data := []byte{0x40, 0xaa, 0xbb, 0xcc, 0xdd}
	id, err := DeserializeConnID(data, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(id) != 4 || id[0] != 0xaa {
		t.Fatalf("got % x", id)
	}

	if _, err := DeserializeConnID(data[:4], 4); err != ErrShortBuffer {
		t.Fatalf("got %v, want ErrShortBuffer", err)
	}
}
