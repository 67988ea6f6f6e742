package frame

import "github.com/zaoshangyaochifan/libgquic/varint"

// MaxStreamData carries per-stream flow control credit (spec.md §4.2
// table). Tag and field shape grounded on the pack's vendored
// quic-go wire.MaxStreamDataFrame (other_examples,
// caddyserver-caddy).
type MaxStreamData struct {
	StreamID uint64
	Maximum  uint64
}

func (m *MaxStreamData) Type() Type { return TypeMaxStreamData }

func (m *MaxStreamData) Size() int {
	return 1 + varint.Size(m.StreamID) + varint.Size(m.Maximum)
}

func (m *MaxStreamData) WriteTo(w *varint.Writer) error {
	if err := w.WriteByte(byte(TypeMaxStreamData)); err != nil {
		return err
	}
	if err := w.WriteVarint(m.StreamID); err != nil {
		return err
	}
	return w.WriteVarint(m.Maximum)
}

func (m *MaxStreamData) ReadFrom(r *varint.Reader) error {
	tag, err := r.ReadByte()
	if err != nil {
		return err
	}
	if Type(tag) != TypeMaxStreamData {
		return ErrWrongType
	}
	id, err := r.ReadVarint()
	if err != nil {
		return err
	}
	max, err := r.ReadVarint()
	if err != nil {
		return err
	}
	m.StreamID = id
	m.Maximum = max
	return nil
}
