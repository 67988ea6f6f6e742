// Package packet implements the QUIC packet header machinery of
// spec.md §4.3: the long/short header discriminator, packet-number
// and length mutation, and the zero-copy connection-ID demux probe
// used before a datagram is routed to a connection.
//
// The C evidence (original_source/packet/header.c) models the header
// as a tagged union of two pointers with an is_long discriminator,
// dispatching get_pn/set_pn/set_len through a switch on
// (is_long, long_type). Go's natural replacement for that dispatch
// is an interface implemented by one concrete type per variant,
// exactly as spec.md's "idiomatic Go only" transform rule asks for.
package packet

import (
	"github.com/zaoshangyaochifan/libgquic/varint"
)

// LongHeaderKind is the long-header sub-variant discriminator
// (spec.md §3).
type LongHeaderKind byte

const (
	LongInitial   LongHeaderKind = 0x00
	LongZeroRTT   LongHeaderKind = 0x01
	LongHandshake LongHeaderKind = 0x02
	LongRetry     LongHeaderKind = 0x03
)

// Header is implemented by LongHeader and ShortHeader. Exactly one of
// the two concrete types backs any given Header value — Go's type
// system enforces the "exactly one variant pointer is non-null"
// invariant of spec.md §3 structurally, instead of requiring a
// separate is_long flag to be kept in sync.
type Header interface {
	IsLong() bool
	PacketNumber() uint64
	SetPacketNumber(uint64)
	// SetLength is a no-op on short headers and on the Retry variant.
	SetLength(uint64)
	// Size returns the wire size of the header as currently set.
	Size() int
}

// LongHeader is the long-header variant, covering Initial, 0-RTT,
// Handshake and Retry (spec.md §3, §6).
type LongHeader struct {
	Kind               LongHeaderKind
	Version            uint32
	DestConnID         []byte
	SrcConnID          []byte
	Token              []byte // Initial only
	Length             uint64 // remaining payload length; unused for Retry
	packetNumber       uint64
	PacketNumberLength int // wire length of the packet number, 1-4
}

func (h *LongHeader) IsLong() bool { return true }

func (h *LongHeader) PacketNumber() uint64 { return h.packetNumber }

func (h *LongHeader) SetPacketNumber(v uint64) { h.packetNumber = v }

// SetLength sets the remaining-payload-length field. A no-op on
// Retry, which carries no length field (spec.md §4.3).
func (h *LongHeader) SetLength(v uint64) {
	if h.Kind == LongRetry {
		return
	}
	h.Length = v
}

func (h *LongHeader) Size() int {
	n := 1 + 4 + 1 + len(h.DestConnID) + 1 + len(h.SrcConnID)
	if h.Kind == LongInitial {
		n += varint.Size(uint64(len(h.Token))) + len(h.Token)
	}
	if h.Kind != LongRetry {
		n += varint.Size(h.Length) + h.PacketNumberLength
	}
	return n
}

// ShortHeader is the post-handshake short-header variant (spec.md
// §3, §6).
type ShortHeader struct {
	DestConnID         []byte
	packetNumber       uint64
	PacketNumberLength int
}

func (h *ShortHeader) IsLong() bool { return false }

func (h *ShortHeader) PacketNumber() uint64 { return h.packetNumber }

func (h *ShortHeader) SetPacketNumber(v uint64) { h.packetNumber = v }

// SetLength is always a no-op: short headers carry no length field.
func (h *ShortHeader) SetLength(uint64) {}

func (h *ShortHeader) Size() int {
	return 1 + len(h.DestConnID) + h.PacketNumberLength
}

// GetPN and SetPN are thin wrappers retained to name the operations
// spec.md §4.3 calls out explicitly (get_pn/set_pn); Header's methods
// already do the dispatch spec.md describes as a switch on
// (is_long, long_type).
func GetPN(h Header) uint64 { return h.PacketNumber() }

func SetPN(h Header, v uint64) { h.SetPacketNumber(v) }

func SetLen(h Header, v uint64) { h.SetLength(v) }

func HeaderSize(h Header) int { return h.Size() }

// DeserializeConnID is the zero-copy demultiplex probe used before
// decrypt (spec.md §4.3, §6). It never allocates: the returned slice
// aliases into data. Long headers place the destination connection ID
// length at byte offset 5 and the ID at offset 6; short headers carry
// a connection ID of shortConnIDLen bytes starting at offset 1.
func DeserializeConnID(data []byte, shortConnIDLen int) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrShortBuffer
	}
	if data[0]&0x80 != 0 {
		if len(data) < 6 {
			return nil, ErrShortBuffer
		}
		dstLen := int(data[5])
		if len(data) < 6+dstLen {
			return nil, ErrShortBuffer
		}
		return data[6 : 6+dstLen], nil
	}
	if len(data) < 1+shortConnIDLen {
		return nil, ErrShortBuffer
	}
	return data[1 : 1+shortConnIDLen], nil
}
