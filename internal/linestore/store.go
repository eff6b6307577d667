// Package linestore holds the decoded lines of one log source.
package linestore

// Store is an append-only sequence of lines backed by a ring buffer. When a
// limit is set the oldest lines are evicted one at a time as new ones arrive.
//
// Every line gets a sequence number that never changes while the line is
// stored, so derived views can refer to lines across evictions. Store is not
// safe for concurrent use; it belongs to the goroutine draining its source.
type Store struct {
	ring  []string
	head  int // index in ring of the oldest line
	count int
	limit int
	first uint64 // sequence number of the oldest line
}

const minCapacity = 64

// New returns a Store capped at limit lines. A limit <= 0 means unbounded.
func New(limit int) *Store {
	s := &Store{}
	s.SetLimit(limit)
	return s
}

// Limit returns the configured cap, 0 when unbounded.
func (s *Store) Limit() int {
	return s.limit
}

// SetLimit changes the cap, evicting the oldest lines if the store is over it.
func (s *Store) SetLimit(limit int) {
	if limit < 0 {
		limit = 0
	}
	s.limit = limit
	if limit == 0 {
		return
	}
	for s.count > limit {
		s.evict()
	}
	if len(s.ring) > limit {
		s.resize(limit)
	}
}

// Append adds lines in order and returns how many old lines were evicted.
func (s *Store) Append(lines ...string) int {
	evicted := 0
	for _, line := range lines {
		if s.limit > 0 && s.count == s.limit {
			s.evict()
			evicted++
		}
		if s.count == len(s.ring) {
			s.grow()
		}
		s.ring[(s.head+s.count)%len(s.ring)] = line
		s.count++
	}
	return evicted
}

// Len returns the number of stored lines.
func (s *Store) Len() int {
	return s.count
}

// First returns the sequence number of the oldest stored line.
func (s *Store) First() uint64 {
	return s.first
}

// End returns the sequence number the next appended line will get.
func (s *Store) End() uint64 {
	return s.first + uint64(s.count)
}

// Index returns the i-th stored line, oldest first.
func (s *Store) Index(i int) string {
	if i < 0 || i >= s.count {
		panic("linestore: index out of range")
	}
	return s.ring[(s.head+i)%len(s.ring)]
}

// At returns the line with sequence number seq, if it is still stored.
func (s *Store) At(seq uint64) (string, bool) {
	if seq < s.first || seq >= s.End() {
		return "", false
	}
	return s.Index(int(seq - s.first)), true
}

// Lines returns a copy of all stored lines, oldest first.
func (s *Store) Lines() []string {
	out := make([]string, s.count)
	for i := range out {
		out[i] = s.Index(i)
	}
	return out
}

// Slice returns copies of the lines with sequence numbers in [from, to),
// clamped to what is stored.
func (s *Store) Slice(from, to uint64) []string {
	if from < s.first {
		from = s.first
	}
	if to > s.End() {
		to = s.End()
	}
	if from >= to {
		return nil
	}
	out := make([]string, 0, to-from)
	for seq := from; seq < to; seq++ {
		out = append(out, s.Index(int(seq-s.first)))
	}
	return out
}

// Clear drops every line. Sequence numbers keep increasing so that stale
// references into the old content can never match new lines.
func (s *Store) Clear() {
	s.first = s.End()
	s.ring = nil
	s.head = 0
	s.count = 0
}

func (s *Store) evict() {
	s.ring[s.head] = ""
	s.head = (s.head + 1) % len(s.ring)
	s.count--
	s.first++
}

func (s *Store) grow() {
	size := len(s.ring) * 2
	if size < minCapacity {
		size = minCapacity
	}
	if s.limit > 0 && size > s.limit {
		size = s.limit
	}
	s.resize(size)
}

func (s *Store) resize(size int) {
	ring := make([]string, size)
	for i := 0; i < s.count; i++ {
		ring[i] = s.ring[(s.head+i)%len(s.ring)]
	}
	s.ring = ring
	s.head = 0
}
