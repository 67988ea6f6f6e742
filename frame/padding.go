package frame

import "github.com/zaoshangyaochifan/libgquic/varint"

// Padding is a flyweight singleton (spec.md §3): size 1, serializes
// to a single 0x00 byte, and is never allocated per use or released.
// Grounded on original_source/frame/padding.c's static-instance
// alloc(), which returns the same pointer on every call and has a
// dtor that is a documented no-op.
type Padding struct{}

// paddingInstance is the one and only Padding value. It is immutable
// after package init, the sole process-global mutable-looking
// singleton the core permits (spec.md §5).
var paddingInstance = &Padding{}

// AcquirePadding returns the shared PADDING frame. Calling it twice
// returns the identical pointer (spec.md Testable Property 5).
func AcquirePadding() *Padding { return paddingInstance }

// ReleasePadding is a deliberate no-op: the flyweight is never freed.
func ReleasePadding(*Padding) {}

func (p *Padding) Type() Type { return TypePadding }

func (p *Padding) Size() int { return 1 }

func (p *Padding) WriteTo(w *varint.Writer) error {
	return w.WriteByte(byte(TypePadding))
}

func (p *Padding) ReadFrom(r *varint.Reader) error {
	tag, err := r.ReadByte()
	if err != nil {
		return err
	}
	if Type(tag) != TypePadding {
		return ErrWrongType
	}
	return nil
}
