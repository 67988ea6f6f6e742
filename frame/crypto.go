package frame

import "github.com/zaoshangyaochifan/libgquic/varint"

// Crypto carries handshake bytes (spec.md §4.2 table, tag 0x06).
// Field order and semantics grounded on
// original_source/frame/crypto.c.
type Crypto struct {
	Offset uint64
	Data   []byte
}

func (c *Crypto) Type() Type { return TypeCrypto }

func (c *Crypto) Size() int {
	return 1 + varint.Size(c.Offset) + varint.Size(uint64(len(c.Data))) + len(c.Data)
}

func (c *Crypto) WriteTo(w *varint.Writer) error {
	if err := w.WriteByte(byte(TypeCrypto)); err != nil {
		return err
	}
	if err := w.WriteVarint(c.Offset); err != nil {
		return err
	}
	if err := w.WriteVarint(uint64(len(c.Data))); err != nil {
		return err
	}
	return w.WriteBytes(c.Data)
}

func (c *Crypto) ReadFrom(r *varint.Reader) error {
	tag, err := r.ReadByte()
	if err != nil {
		return err
	}
	if Type(tag) != TypeCrypto {
		return ErrWrongType
	}
	off, err := r.ReadVarint()
	if err != nil {
		return err
	}
	length, err := r.ReadVarint()
	if err != nil {
		return err
	}
	if int(length) > r.Remaining() {
		return ErrOverflow
	}
	data, err := r.ReadFull(int(length))
	if err != nil {
		return err
	}
	c.Offset = off
	c.Data = append([]byte(nil), data...)
	return nil
}
