package frame

import "github.com/zaoshangyaochifan/libgquic/varint"

// NewToken carries a server-issued address-validation token (spec.md
// §4.2 table, tag 0x07). Grounded on
// original_source/frame/new_token.c.
type NewToken struct {
	Token []byte
}

func (n *NewToken) Type() Type { return TypeNewToken }

func (n *NewToken) Size() int {
	return 1 + varint.Size(uint64(len(n.Token))) + len(n.Token)
}

func (n *NewToken) WriteTo(w *varint.Writer) error {
	if err := w.WriteByte(byte(TypeNewToken)); err != nil {
		return err
	}
	if err := w.WriteVarint(uint64(len(n.Token))); err != nil {
		return err
	}
	return w.WriteBytes(n.Token)
}

func (n *NewToken) ReadFrom(r *varint.Reader) error {
	tag, err := r.ReadByte()
	if err != nil {
		return err
	}
	if Type(tag) != TypeNewToken {
		return ErrWrongType
	}
	length, err := r.ReadVarint()
	if err != nil {
		return err
	}
	if int(length) > r.Remaining() {
		return ErrOverflow
	}
	tok, err := r.ReadFull(int(length))
	if err != nil {
		return err
	}
	n.Token = append([]byte(nil), tok...)
	return nil
}
