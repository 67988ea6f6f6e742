// Package varint implements QUIC's variable-length integer encoding
// and the cursor-based reader/writer the frame and packet codecs are
// built on.
//
// Encoding follows the standard QUIC scheme: the two high bits of the
// first byte select a length in {1, 2, 4, 8} bytes; the remaining
// bits, together with any following bytes, hold the big-endian
// unsigned value.
package varint

import (
	"encoding/binary"
	"errors"

	"github.com/valyala/bytebufferpool"
)

// ErrShortBuffer is returned by any read or write that would advance
// past the cursor's end. The cursor is left unchanged.
var ErrShortBuffer = errors.New("varint: short buffer")

// MaxValue is the largest value representable by a QUIC varint.
const MaxValue = (uint64(1) << 62) - 1

// Size returns the minimal wire length of v, one of 1, 2, 4 or 8.
// It panics if v exceeds MaxValue, the same way the teacher's fixed
// width helpers assume well-formed callers (http2utils.Uint24ToBytes
// has the analogous "bound checking" assertion via index panic).
func Size(v uint64) int {
	switch {
	case v <= 0x3f:
		return 1
	case v <= 0x3fff:
		return 2
	case v <= 0x3fffffff:
		return 4
	case v <= MaxValue:
		return 8
	default:
		panic("varint: value exceeds 62 bits")
	}
}

// Reader is a mutable cursor over a byte slice. It never allocates
// and never copies; callers that need to retain bytes past the
// reader's lifetime must copy them out explicitly.
type Reader struct {
	buf []byte
	off int
}

// NewReader wraps buf for sequential reading.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Remaining reports how many unread bytes are left.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

// PeekByte returns the next byte without advancing the cursor.
func (r *Reader) PeekByte() (byte, error) {
	if r.Remaining() < 1 {
		return 0, ErrShortBuffer
	}
	return r.buf[r.off], nil
}

// ReadByte advances the cursor by one byte and returns it.
func (r *Reader) ReadByte() (byte, error) {
	if r.Remaining() < 1 {
		return 0, ErrShortBuffer
	}
	b := r.buf[r.off]
	r.off++
	return b, nil
}

// ReadFull reads exactly n bytes and returns them aliasing the
// reader's backing array (zero-copy, mirroring the packet header
// connection-ID demux probe's aliasing contract).
func (r *Reader) ReadFull(n int) ([]byte, error) {
	if r.Remaining() < n {
		return nil, ErrShortBuffer
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

// ReadUint reads a big-endian unsigned integer of the given width in
// bytes (1, 2, 4 or 8).
func (r *Reader) ReadUint(width int) (uint64, error) {
	b, err := r.ReadFull(width)
	if err != nil {
		return 0, err
	}
	switch width {
	case 1:
		return uint64(b[0]), nil
	case 2:
		return uint64(binary.BigEndian.Uint16(b)), nil
	case 4:
		return uint64(binary.BigEndian.Uint32(b)), nil
	case 8:
		return binary.BigEndian.Uint64(b), nil
	default:
		panic("varint: invalid width")
	}
}

// ReadVarint reads a QUIC variable-length integer.
func (r *Reader) ReadVarint() (uint64, error) {
	first, err := r.PeekByte()
	if err != nil {
		return 0, err
	}
	n := 1 << (first >> 6)
	b, err := r.ReadFull(n)
	if err != nil {
		return 0, err
	}
	v := uint64(b[0] & 0x3f)
	for _, c := range b[1:] {
		v = v<<8 | uint64(c)
	}
	return v, nil
}

// Writer is a mutable cursor over a fixed-capacity byte slice. It
// never grows; callers must size the destination buffer to at least
// the serialized size up front (the same contract spec.md's boundary
// tests exercise: a buffer exactly Size(f) bytes long succeeds, one
// byte short fails with ErrShortBuffer).
type Writer struct {
	buf []byte
	off int
}

// NewWriter wraps buf for sequential writing.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

// Remaining reports how much capacity is left to write into.
func (w *Writer) Remaining() int {
	return len(w.buf) - w.off
}

// Bytes returns the bytes written so far.
func (w *Writer) Bytes() []byte {
	return w.buf[:w.off]
}

// WriteByte writes a single byte.
func (w *Writer) WriteByte(b byte) error {
	if w.Remaining() < 1 {
		return ErrShortBuffer
	}
	w.buf[w.off] = b
	w.off++
	return nil
}

// WriteBytes copies p into the buffer.
func (w *Writer) WriteBytes(p []byte) error {
	if w.Remaining() < len(p) {
		return ErrShortBuffer
	}
	copy(w.buf[w.off:], p)
	w.off += len(p)
	return nil
}

// WriteUint writes a big-endian unsigned integer of the given width.
func (w *Writer) WriteUint(v uint64, width int) error {
	if w.Remaining() < width {
		return ErrShortBuffer
	}
	switch width {
	case 1:
		w.buf[w.off] = byte(v)
	case 2:
		binary.BigEndian.PutUint16(w.buf[w.off:], uint16(v))
	case 4:
		binary.BigEndian.PutUint32(w.buf[w.off:], uint32(v))
	case 8:
		binary.BigEndian.PutUint64(w.buf[w.off:], v)
	default:
		panic("varint: invalid width")
	}
	w.off += width
	return nil
}

// WriteVarint writes v as a QUIC variable-length integer.
func (w *Writer) WriteVarint(v uint64) error {
	n := Size(v)
	if w.Remaining() < n {
		return ErrShortBuffer
	}
	if err := w.WriteUint(v, n); err != nil {
		return err
	}
	tagBits := byte(0)
	switch n {
	case 2:
		tagBits = 0x40
	case 4:
		tagBits = 0x80
	case 8:
		tagBits = 0xc0
	}
	w.buf[w.off-n] |= tagBits
	return nil
}

// scratchPool pools fixed-size byte buffers for short-lived Writer
// instances, generalizing the teacher's framePool/bytePool
// sync.Pool idiom (frame.go) to a reusable pooled byte buffer.
var scratchPool bytebufferpool.Pool

// AcquireWriter returns a Writer over a pooled buffer sized to n
// bytes. Callers must call ReleaseWriter when done.
func AcquireWriter(n int) *Writer {
	bb := scratchPool.Get()
	if cap(bb.B) < n {
		bb.B = make([]byte, n)
	} else {
		bb.B = bb.B[:n]
	}
	return &Writer{buf: bb.B}
}

// ReleaseWriter returns w's backing buffer to the pool. w must not be
// used afterward.
func ReleaseWriter(w *Writer) {
	bb := &bytebufferpool.ByteBuffer{B: w.buf}
	scratchPool.Put(bb)
	w.buf = nil
	w.off = 0
}
