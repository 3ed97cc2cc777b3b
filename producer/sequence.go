package producer

import "github.com/dshills/tagstorm/tag"

// Sequence is a finite, forward-only, non-restartable view over the results
// of one tagging request. The backing buffer is pooled; the sequence
// releases it exactly once, either automatically when the last result is
// drawn or explicitly via Close when iteration is abandoned early.
// Drain-then-Close and repeated Close are safe.
//
// A Sequence is consumed by a single goroutine. The iteration bookkeeping
// itself is a small short-lived allocation; the expensive backing storage
// is what the pool recycles.
type Sequence struct {
	pool     *tag.Pool
	buf      *tag.Buffer
	next     int
	released bool
}

// newSequence wraps a filled pooled buffer. The sequence takes over the
// lease; the caller must not release buf itself.
func newSequence(pool *tag.Pool, buf *tag.Buffer) *Sequence {
	return &Sequence{pool: pool, buf: buf}
}

// emptySequence returns an exhausted sequence backed by no buffer.
func emptySequence() *Sequence {
	return &Sequence{released: true}
}

// Next returns the next result. It reports false once the sequence is
// exhausted or closed; exhaustion releases the backing buffer.
func (s *Sequence) Next() (tag.Result, bool) {
	if s.released {
		return tag.Result{}, false
	}
	if s.next >= s.buf.Len() {
		s.release()
		return tag.Result{}, false
	}

	r := s.buf.At(s.next)
	s.next++

	// Eagerly hand the buffer back once the last result is drawn, so a
	// caller that loops to completion never needs to call Close.
	if s.next >= s.buf.Len() {
		s.release()
	}

	return r, true
}

// Remaining returns the number of results not yet drawn.
func (s *Sequence) Remaining() int {
	if s.released {
		return 0
	}
	return s.buf.Len() - s.next
}

// Collect drains the rest of the sequence into a fresh slice and releases
// the backing buffer.
func (s *Sequence) Collect() []tag.Result {
	var out []tag.Result
	for {
		r, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, r)
	}
}

// Close abandons iteration and releases the backing buffer. It is safe to
// call at any point, any number of times, including after exhaustion.
func (s *Sequence) Close() {
	s.release()
}

// release returns the buffer to the pool exactly once.
func (s *Sequence) release() {
	if s.released {
		return
	}
	s.released = true
	s.pool.Release(s.buf)
	s.buf = nil
}
