// Package frame implements the fixed table of QUIC frame types named
// in spec.md §4.2: a closed set of typed, variable-length wire
// records, each owning its own size/serialize/deserialize behavior.
//
// The C evidence (original_source/frame/*.c) models this as a vtable
// struct per type (size_func/serialize_func/deserialize_func/
// init_func/dtor_func) attached to a shared metadata header. Go's
// natural equivalent is an interface implemented by one concrete
// struct per frame type — the same "closed, fixed table, no runtime
// registry" shape (spec.md §9), expressed without function pointers.
package frame

import "github.com/zaoshangyaochifan/libgquic/varint"

// Type is a frame's one-byte wire type tag.
type Type byte

// The fixed frame type table (spec.md §4.2). Tags not given
// numerically by spec.md's table are resolved in DESIGN.md's Open
// Question §6 against the pack's vendored quic-go wire types.
const (
	TypePadding            Type = 0x00
	TypeCrypto             Type = 0x06
	TypeNewToken           Type = 0x07
	TypeMaxData            Type = 0x04
	TypeMaxStreamData      Type = 0x05
	TypeStreamDataBlocked  Type = 0x15
	TypeRetireConnectionID Type = 0x19
	// Stream frames occupy the 0x08-0x0f range; the low three bits
	// carry the OFF/LEN/FIN flags (see stream.go).
	typeStreamBase Type = 0x08
	typeStreamMask Type = 0xf8
)

// Frame is implemented by every concrete frame type. Size must equal
// exactly the number of bytes WriteTo emits (spec.md §3's
// serialize/size invariant). ReadFrom is the left inverse of WriteTo
// over well-formed input, starting from a freshly zero-valued frame
// of the matching type.
type Frame interface {
	Type() Type
	Size() int
	WriteTo(w *varint.Writer) error
	ReadFrom(r *varint.Reader) error
}

// tagMatcher is implemented by frame types whose wire tag varies
// (currently only Stream, whose low three bits are flags). Types that
// don't implement it are matched by plain Type() equality.
type tagMatcher interface {
	matchesTag(tag Type) bool
}

func matches(f Frame, tag Type) bool {
	if m, ok := f.(tagMatcher); ok {
		return m.matchesTag(tag)
	}
	return f.Type() == tag
}

// constructors is the fixed, closed table mapping a wire tag to a
// fresh zero-valued frame of that type. spec.md §9 explicitly forbids
// a runtime-registrable registry; this map is populated once, from
// package-level init data, and never mutated after package init.
var constructors = map[Type]func() Frame{
	TypePadding:            func() Frame { return paddingInstance },
	TypeCrypto:             func() Frame { return &Crypto{} },
	TypeNewToken:           func() Frame { return &NewToken{} },
	TypeMaxData:            func() Frame { return &MaxData{} },
	TypeMaxStreamData:      func() Frame { return &MaxStreamData{} },
	TypeStreamDataBlocked:  func() Frame { return &StreamDataBlocked{} },
	TypeRetireConnectionID: func() Frame { return &RetireConnectionID{} },
}

func init() {
	for t := Type(0x08); t < 0x10; t++ {
		constructors[t] = func() Frame { return &Stream{} }
	}
}

// Serialize writes f to w, enforcing the generic size check of
// spec.md §4.2(a) before delegating to the frame's own field
// encoding.
func Serialize(f Frame, w *varint.Writer) error {
	if f.Size() > w.Remaining() {
		return ErrShortBuffer
	}
	return f.WriteTo(w)
}

// DeserializeInto parses into a caller-provided, freshly constructed
// frame f, verifying the leading tag matches f's own type before
// delegating to f's field parsing (spec.md §4.2(a)-(b)).
func DeserializeInto(f Frame, r *varint.Reader) error {
	tag, err := r.PeekByte()
	if err != nil {
		return err
	}
	if !matches(f, Type(tag)) {
		return ErrWrongType
	}
	return f.ReadFrom(r)
}

// Deserialize peeks the leading tag, looks it up in the fixed table,
// and parses a fresh frame of the matching type.
func Deserialize(r *varint.Reader) (Frame, error) {
	tag, err := r.PeekByte()
	if err != nil {
		return nil, err
	}
	ctor, ok := constructors[Type(tag)]
	if !ok {
		return nil, ErrWrongType
	}
	f := ctor()
	if err := f.ReadFrom(r); err != nil {
		return nil, err
	}
	return f, nil
}
