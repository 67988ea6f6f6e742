package frame

import "github.com/zaoshangyaochifan/libgquic/varint"

// RetireConnectionID asks the peer to stop using a connection ID
// (spec.md §4.2 table, tag 0x19). Grounded on
// original_source/frame/retire_connection_id.c.
type RetireConnectionID struct {
	Sequence uint64
}

func (rc *RetireConnectionID) Type() Type { return TypeRetireConnectionID }

func (rc *RetireConnectionID) Size() int {
	return 1 + varint.Size(rc.Sequence)
}

func (rc *RetireConnectionID) WriteTo(w *varint.Writer) error {
	if err := w.WriteByte(byte(TypeRetireConnectionID)); err != nil {
		return err
	}
	return w.WriteVarint(rc.Sequence)
}

func (rc *RetireConnectionID) ReadFrom(r *varint.Reader) error {
	tag, err := r.ReadByte()
	if err != nil {
		return err
	}
	if Type(tag) != TypeRetireConnectionID {
		return ErrWrongType
	}
	seq, err := r.ReadVarint()
	if err != nil {
		return err
	}
	rc.Sequence = seq
	return nil
}
