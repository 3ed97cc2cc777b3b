package producer

import (
	"github.com/dshills/tagstorm/notify"
	"github.com/dshills/tagstorm/span"
	"github.com/dshills/tagstorm/tag"
)

// Producer is the contract concrete tag producers implement.
//
// AppendTags appends zero or more results for the given normalized span set
// into buf. It must be append-only (existing buffer contents are preserved,
// which is what allows composition), must tolerate an empty set as a no-op,
// must not retain buf past the call, and must only append results that lie
// fully within the union of the set's spans. AppendTags is synchronous and
// bounded: expensive analysis is precomputed and cached out of band, with
// AppendTags reading the latest cached state only.
//
// A producer that cannot serve the set's snapshot version returns
// ErrStaleSnapshot with nothing appended. Other errors may accompany
// partial appends.
//
// Changes returns the producer's change notifier. Aggregators attach to it
// by reference at construction time.
//
// Close releases external resources (subscriptions, caches) and must be
// idempotent.
type Producer interface {
	AppendTags(spans span.Set, buf *tag.Buffer) error
	Changes() *notify.Notifier
	Close() error
}

// Func adapts a plain function to the Producer interface. The adapter owns
// a notifier so it can still participate in aggregation; Close closes it.
type Func struct {
	fn       func(spans span.Set, buf *tag.Buffer) error
	notifier *notify.Notifier
}

// NewFunc creates a Producer from a function.
func NewFunc(fn func(spans span.Set, buf *tag.Buffer) error) *Func {
	return &Func{fn: fn, notifier: notify.New()}
}

// AppendTags invokes the wrapped function.
func (f *Func) AppendTags(spans span.Set, buf *tag.Buffer) error {
	return f.fn(spans, buf)
}

// Changes returns the adapter's notifier.
func (f *Func) Changes() *notify.Notifier {
	return f.notifier
}

// Close closes the adapter's notifier.
func (f *Func) Close() error {
	f.notifier.Close()
	return nil
}

// GetTags runs p against the default pool and returns a lazy sequence over
// the results. See GetTagsFrom.
func GetTags(p Producer, spans span.Set) (*Sequence, error) {
	return GetTagsFrom(tag.DefaultPool, p, spans)
}

// GetTagsFrom is the derived bulk-retrieval operation: it leases a buffer
// from pool, calls p.AppendTags, and wraps the filled buffer in a Sequence
// that returns the buffer to the pool when drained or closed.
//
// An empty span set short-circuits without leasing or invoking the
// producer. On a producer error the partially filled sequence is returned
// alongside the error so callers still see whatever was appended; the
// sequence owns the buffer either way, so closing it remains the caller's
// only release duty.
func GetTagsFrom(pool *tag.Pool, p Producer, spans span.Set) (*Sequence, error) {
	if spans.IsEmpty() {
		return emptySequence(), nil
	}

	buf := pool.Lease()
	err := p.AppendTags(spans, buf)
	return newSequence(pool, buf), err
}
