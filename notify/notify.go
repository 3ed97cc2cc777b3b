package notify

import (
	"runtime/debug"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/dshills/tagstorm/internal/logging"
	"github.com/dshills/tagstorm/span"
)

// Event identifies spans whose tags are believed stale. The spans are
// relative to the snapshot version carried by the set.
type Event struct {
	Spans span.Set
}

// Observer is called when tagged regions change.
type Observer func(event Event)

// Subscription represents an active observer registration.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this subscription. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

// entry pairs an observer with its registration id. Entries are kept in an
// ordered slice because delivery order must match registration order.
type entry struct {
	id       uint64
	observer Observer
}

// Notifier manages change subscriptions for one producer.
type Notifier struct {
	mu        sync.Mutex
	observers []entry
	nextID    uint64
	closed    bool

	logger *log.Logger
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithLogger sets the logger used to report recovered observer panics.
func WithLogger(logger *log.Logger) Option {
	return func(n *Notifier) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// New creates a new Notifier.
func New(opts ...Option) *Notifier {
	n := &Notifier{
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Subscribe registers an observer. Observers are invoked in registration
// order. Subscribing to a closed notifier returns a subscription that will
// never fire.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++

	if !n.closed && observer != nil {
		n.observers = append(n.observers, entry{id: id, observer: observer})
	}

	return &Subscription{id: id, notifier: n}
}

// Relay subscribes this notifier to src, re-emitting every event verbatim.
// It attaches the stream by reference; no events are copied or merged.
func (n *Notifier) Relay(src *Notifier) *Subscription {
	return src.Subscribe(n.Notify)
}

// Notify invokes every currently registered observer synchronously on the
// calling goroutine, in registration order. The observer list is snapshotted
// under the lock, so a concurrent subscribe or unsubscribe never exposes a
// half-mutated list; observers run outside the lock.
func (n *Notifier) Notify(event Event) {
	n.mu.Lock()
	if n.closed || len(n.observers) == 0 {
		n.mu.Unlock()
		return
	}
	snapshot := make([]entry, len(n.observers))
	copy(snapshot, n.observers)
	n.mu.Unlock()

	for _, e := range snapshot {
		n.deliver(e, event)
	}
}

// Len returns the number of registered observers.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.observers)
}

// Close drops all observers. Further Notify calls are no-ops. It is safe to
// call Close multiple times.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.observers = nil
}

// deliver runs one observer with panic isolation so a failing observer does
// not prevent the rest of the emission.
func (n *Notifier) deliver(e entry, event Event) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("observer panicked during change notification",
				logging.FieldPanic, r,
				logging.FieldSpans, event.Spans.String(),
				logging.FieldStack, string(debug.Stack()),
			)
		}
	}()
	e.observer(event)
}

// unsubscribe removes an observer by ID.
func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, e := range n.observers {
		if e.id == id {
			n.observers = append(n.observers[:i], n.observers[i+1:]...)
			return
		}
	}
}
