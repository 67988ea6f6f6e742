package frame

import "github.com/zaoshangyaochifan/libgquic/varint"

// Stream carries application data for a stream. Not tabulated in
// spec.md (its wire layout was trimmed from the original_source
// excerpt before frame/stream.c survived the pack's per-file cap);
// supplemented from the normative IETF QUIC STREAM frame layout,
// structurally grounded on the teacher's Data frame
// (end-of-stream flag + raw payload, data.go).
//
// The low three bits of the type tag are flags: FIN (0x01), LEN
// (0x02), OFF (0x04). LEN is always set here so Size/WriteTo/ReadFrom
// agree on whether a trailing length field is present; an
// implementation that omits LEN (implying "rest of packet") is legal
// on the wire but would make Size() ill-defined for a frame that
// doesn't yet know its containing packet's remaining space, so this
// port always self-delimits.
const (
	streamFlagFin = 0x01
	streamFlagLen = 0x02
	streamFlagOff = 0x04
)

type Stream struct {
	StreamID uint64
	Offset   uint64
	Data     []byte
	Fin      bool
}

func (s *Stream) tag() Type {
	t := typeStreamBase | Type(streamFlagLen)
	if s.Fin {
		t |= streamFlagFin
	}
	if s.Offset != 0 {
		t |= streamFlagOff
	}
	return t
}

func (s *Stream) matchesTag(tag Type) bool {
	return tag&typeStreamMask == typeStreamBase
}

func (s *Stream) Type() Type { return s.tag() }

func (s *Stream) Size() int {
	n := 1 + varint.Size(s.StreamID)
	if s.Offset != 0 {
		n += varint.Size(s.Offset)
	}
	n += varint.Size(uint64(len(s.Data))) + len(s.Data)
	return n
}

func (s *Stream) WriteTo(w *varint.Writer) error {
	if err := w.WriteByte(byte(s.tag())); err != nil {
		return err
	}
	if err := w.WriteVarint(s.StreamID); err != nil {
		return err
	}
	if s.Offset != 0 {
		if err := w.WriteVarint(s.Offset); err != nil {
			return err
		}
	}
	if err := w.WriteVarint(uint64(len(s.Data))); err != nil {
		return err
	}
	return w.WriteBytes(s.Data)
}

func (s *Stream) ReadFrom(r *varint.Reader) error {
	tag, err := r.ReadByte()
	if err != nil {
		return err
	}
	if !s.matchesTag(Type(tag)) {
		return ErrWrongType
	}
	id, err := r.ReadVarint()
	if err != nil {
		return err
	}
	var off uint64
	if tag&streamFlagOff != 0 {
		off, err = r.ReadVarint()
		if err != nil {
			return err
		}
	}
	var length uint64
	if tag&streamFlagLen != 0 {
		length, err = r.ReadVarint()
		if err != nil {
			return err
		}
	} else {
		length = uint64(r.Remaining())
	}
	if int(length) > r.Remaining() {
		return ErrOverflow
	}
	data, err := r.ReadFull(int(length))
	if err != nil {
		return err
	}
	s.StreamID = id
	s.Offset = off
	s.Data = append([]byte(nil), data...)
	s.Fin = tag&streamFlagFin != 0
	return nil
}
