package tag

// Buffer is a growable, append-only sequence of tag results. A buffer is
// exclusively owned by whichever call chain currently holds its pool lease;
// producers borrow it for the duration of a single AppendTags call and must
// not retain it afterwards.
//
// A Buffer is not safe for concurrent use. The lease protocol makes this a
// non-issue: one leaseholder at a time, and fan-out to children is
// sequential.
type Buffer struct {
	results []Result
}

// NewBuffer creates an unpooled buffer. Most callers should lease from a
// Pool instead; NewBuffer exists for tests and one-off use.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append adds a result to the buffer.
func (b *Buffer) Append(r Result) {
	b.results = append(b.results, r)
}

// AppendAll adds all given results to the buffer in order.
func (b *Buffer) AppendAll(results ...Result) {
	b.results = append(b.results, results...)
}

// Len returns the number of results in the buffer.
func (b *Buffer) Len() int {
	return len(b.results)
}

// At returns the result at the given index, in append order.
func (b *Buffer) At(i int) Result {
	return b.results[i]
}

// Results returns the buffer's backing slice. It is valid only while the
// lease is held; copy it if results must outlive the release.
func (b *Buffer) Results() []Result {
	return b.results
}

// Reset clears the buffer, zeroing entries so pooled storage does not
// retain tag payloads, while keeping the backing capacity for reuse.
func (b *Buffer) Reset() {
	for i := range b.results {
		b.results[i] = Result{}
	}
	b.results = b.results[:0]
}
