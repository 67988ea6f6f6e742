package frame

import "github.com/zaoshangyaochifan/libgquic/varint"

// StreamDataBlocked signals that the sender is flow-control blocked
// on a stream (spec.md §4.2 table). Field order per spec.md: id,
// limit. Tag resolution documented in DESIGN.md Open Question §6.
type StreamDataBlocked struct {
	StreamID uint64
	Limit    uint64
}

func (s *StreamDataBlocked) Type() Type { return TypeStreamDataBlocked }

func (s *StreamDataBlocked) Size() int {
	return 1 + varint.Size(s.StreamID) + varint.Size(s.Limit)
}

func (s *StreamDataBlocked) WriteTo(w *varint.Writer) error {
	if err := w.WriteByte(byte(TypeStreamDataBlocked)); err != nil {
		return err
	}
	if err := w.WriteVarint(s.StreamID); err != nil {
		return err
	}
	return w.WriteVarint(s.Limit)
}

func (s *StreamDataBlocked) ReadFrom(r *varint.Reader) error {
	tag, err := r.ReadByte()
	if err != nil {
		return err
	}
	if Type(tag) != TypeStreamDataBlocked {
		return ErrWrongType
	}
	id, err := r.ReadVarint()
	if err != nil {
		return err
	}
	limit, err := r.ReadVarint()
	if err != nil {
		return err
	}
	s.StreamID = id
	s.Limit = limit
	return nil
}
