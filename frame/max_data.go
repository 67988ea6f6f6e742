package frame

import "github.com/zaoshangyaochifan/libgquic/varint"

// MaxData carries connection-level flow control credit (spec.md §4.2
// table). Tag and field shape grounded on the pack's vendored
// quic-go wire.MaxDataFrame (other_examples, caddyserver-caddy).
type MaxData struct {
	Maximum uint64
}

func (m *MaxData) Type() Type { return TypeMaxData }

func (m *MaxData) Size() int {
	return 1 + varint.Size(m.Maximum)
}

func (m *MaxData) WriteTo(w *varint.Writer) error {
	if err := w.WriteByte(byte(TypeMaxData)); err != nil {
		return err
	}
	return w.WriteVarint(m.Maximum)
}

func (m *MaxData) ReadFrom(r *varint.Reader) error {
	tag, err := r.ReadByte()
	if err != nil {
		return err
	}
	if Type(tag) != TypeMaxData {
		return ErrWrongType
	}
	v, err := r.ReadVarint()
	if err != nil {
		return err
	}
	m.Maximum = v
	return nil
}
