package producer

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dshills/tagstorm/internal/logging"
	"github.com/dshills/tagstorm/notify"
	"github.com/dshills/tagstorm/span"
	"github.com/dshills/tagstorm/tag"
)

// child tracks one aggregated producer along with its identity, its relay
// subscription, and whether the aggregator owns its lifetime.
type child struct {
	id       string
	producer Producer
	relay    *notify.Subscription
	owned    bool
}

// Aggregator composes an ordered list of child producers behind the
// Producer interface. One request fans out to every child with the same
// span set and the same shared buffer, so results interleave in child
// order without per-child allocation. Children may themselves be
// aggregators; composition is by interface reference, not subclassing.
//
// Failure policy: by default a child failure (error or panic) is isolated.
// The failing child's contribution up to the failure stays in the buffer,
// the remaining children still run, and all failures come back recorded in
// a single *AggregateError. A child opts into fatal propagation by
// returning an error wrapped with Fatal; the aggregator then stops
// immediately and propagates it, leaving the buffer partially filled.
//
// Change notifications from every child are re-emitted verbatim on the
// aggregator's own notifier. No deduplication or merging is applied;
// consumers tolerate redundant invalidation.
type Aggregator struct {
	children []child
	notifier *notify.Notifier
	logger   *log.Logger

	closeOnce sync.Once
	closeErr  error
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithChildren appends children the aggregator uses but does not own.
// Close detaches from them without closing them.
func WithChildren(producers ...Producer) AggregatorOption {
	return func(a *Aggregator) {
		for _, p := range producers {
			a.children = append(a.children, child{producer: p})
		}
	}
}

// WithOwnedChildren appends children whose lifetime the aggregator owns.
// Close closes them.
func WithOwnedChildren(producers ...Producer) AggregatorOption {
	return func(a *Aggregator) {
		for _, p := range producers {
			a.children = append(a.children, child{producer: p, owned: true})
		}
	}
}

// WithAggregatorLogger sets the logger used to report isolated child
// failures.
func WithAggregatorLogger(logger *log.Logger) AggregatorOption {
	return func(a *Aggregator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAggregator creates an aggregator over the configured children and
// attaches to every child's change stream. Child order is the order the
// options supplied them in; it determines output interleaving and failure
// attribution, nothing else.
func NewAggregator(opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		notifier: notify.New(),
		logger:   logging.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}

	for i := range a.children {
		a.children[i].id = uuid.NewString()
		a.children[i].relay = a.notifier.Relay(a.children[i].producer.Changes())
	}

	return a
}

// ChildIDs returns the identity assigned to each child, in child order.
// AggregateError failures reference these IDs.
func (a *Aggregator) ChildIDs() []string {
	ids := make([]string, len(a.children))
	for i, c := range a.children {
		ids[i] = c.id
	}
	return ids
}

// AppendTags fans the request out to every child in order, sharing spans
// and buf. See the type documentation for the failure policy.
func (a *Aggregator) AppendTags(spans span.Set, buf *tag.Buffer) error {
	if spans.IsEmpty() {
		return nil
	}

	var failures []ChildFailure
	for _, c := range a.children {
		err := a.appendChild(c, spans, buf)
		if err == nil {
			continue
		}

		if IsFatal(err) {
			return err
		}

		a.logger.Warn("child producer failed; continuing with remaining children",
			logging.FieldChild, c.id,
			logging.FieldError, err,
			logging.FieldVersion, uint64(spans.Version()),
		)
		failures = append(failures, ChildFailure{ChildID: c.id, Err: err})
	}

	if len(failures) > 0 {
		return &AggregateError{Failures: failures}
	}
	return nil
}

// appendChild invokes one child with panic isolation.
func (a *Aggregator) appendChild(c child, spans span.Set, buf *tag.Buffer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicErr(r)
		}
	}()
	return c.producer.AppendTags(spans, buf)
}

// Changes returns the aggregator's notifier, carrying the union of every
// child's change stream plus any events the aggregator emits itself.
func (a *Aggregator) Changes() *notify.Notifier {
	return a.notifier
}

// Close detaches from all children, closes the children the aggregator
// owns, and closes its notifier. It is safe to call more than once.
func (a *Aggregator) Close() error {
	a.closeOnce.Do(func() {
		for _, c := range a.children {
			c.relay.Unsubscribe()
			if c.owned {
				if err := c.producer.Close(); err != nil && a.closeErr == nil {
					a.closeErr = err
				}
			}
		}
		a.notifier.Close()
	})
	return a.closeErr
}
