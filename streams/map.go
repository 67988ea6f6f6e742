package streams

import "sort"

// RecvStream is the subset of a stream's state the window update
// queue needs (spec.md §6's stream_getter.get_or_open_recv_stream
// return value).
type RecvStream interface {
	ID() uint64
	GetWindowUpdate() uint64
}

// Map is a stream lookup table keyed by stream ID, opening a receive
// stream entry on first reference the way the C evidence's
// get_or_open_recv_stream does. Grounded on the teacher's Streams
// sorted-slice type (streams.go), generalized from uint32 to the
// varint-sized uint64 stream IDs spec.md §3 uses.
type Map struct {
	list []RecvStream
	open func(id uint64) RecvStream
}

// NewMap builds a Map. open constructs a fresh RecvStream for an ID
// not yet present; it is called on every lookup of an ID the map does
// not hold, so again after Remove, or after open returned nil.
func NewMap(open func(id uint64) RecvStream) *Map {
	return &Map{open: open}
}

func (m *Map) search(id uint64) int {
	return sort.Search(len(m.list), func(i int) bool { return m.list[i].ID() >= id })
}

// GetOrOpenRecvStream returns the existing stream for id, or opens and
// inserts a new one via the Map's open callback. A nil return (with a
// nil error) means the peer is not permitted to reference id — e.g.
// it falls outside the locally accepted stream-ID range — and the
// caller should treat that as "no such stream" rather than an error.
func (m *Map) GetOrOpenRecvStream(id uint64) (interface{ GetWindowUpdate() uint64 }, error) {
	i := m.search(id)
	if i < len(m.list) && m.list[i].ID() == id {
		return m.list[i], nil
	}
	s := m.open(id)
	if s == nil {
		return nil, nil
	}
	m.list = append(m.list, nil)
	copy(m.list[i+1:], m.list[i:])
	m.list[i] = s
	return s, nil
}

// Remove deletes the stream entry for id, if present.
func (m *Map) Remove(id uint64) {
	i := m.search(id)
	if i < len(m.list) && m.list[i].ID() == id {
		m.list = append(m.list[:i], m.list[i+1:]...)
	}
}

// Len reports the number of open streams tracked by the map.
func (m *Map) Len() int { return len(m.list) }
