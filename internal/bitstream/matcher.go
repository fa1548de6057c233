package bitstream

// Matcher watches a byte stream for a fixed pattern using a ring buffer of
// the last len(pattern) bytes.
type Matcher struct {
	pattern []byte
	ring    []byte
	pos     int // next write index; also the oldest byte once full
	filled  int
}

// NewMatcher returns a Matcher for pattern. pattern must be non-empty.
func NewMatcher(pattern []byte) *Matcher {
	p := make([]byte, len(pattern))
	copy(p, pattern)
	return &Matcher{
		pattern: p,
		ring:    make([]byte, len(p)),
	}
}

// Push records b and reports whether the stream now ends with the pattern.
func (m *Matcher) Push(b byte) bool {
	n := len(m.ring)
	m.ring[m.pos] = b
	m.pos = (m.pos + 1) % n
	if m.filled < n {
		m.filled++
		if m.filled < n {
			return false
		}
	}
	for i, want := range m.pattern {
		if m.ring[(m.pos+i)%n] != want {
			return false
		}
	}
	return true
}

