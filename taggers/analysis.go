package taggers

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/dshills/tagstorm/notify"
	"github.com/dshills/tagstorm/producer"
	"github.com/dshills/tagstorm/span"
	"github.com/dshills/tagstorm/tag"
)

// Diagnostic tag kinds produced by analysis functions.
const (
	KindDiagnostic        tag.Kind = "diagnostic"
	KindDiagnosticError   tag.Kind = "diagnostic.error"
	KindDiagnosticWarning tag.Kind = "diagnostic.warning"
	KindDiagnosticHint    tag.Kind = "diagnostic.hint"
)

// DiagnosticTag carries one analysis finding.
type DiagnosticTag struct {
	// Kind is the finding's severity kind.
	Kind tag.Kind

	// Message is the human-readable finding.
	Message string
}

// TagKind implements tag.Tag.
func (d DiagnosticTag) TagKind() tag.Kind { return d.Kind }

// AnalyzeFunc computes the full result set for the source's current
// snapshot. It may be arbitrarily expensive; it never runs on the tagging
// path.
type AnalyzeFunc func(ctx context.Context, source Source) ([]tag.Result, error)

// Analysis serves precomputed analysis results (diagnostics, semantic
// findings) from a cache. AppendTags only reads the latest cached results;
// Refresh recomputes them out of band and fires a change event when fresher
// results land, so the consumer's scheduler re-requests the affected
// regions. Concurrent Refresh calls for the same tagger collapse into one
// computation.
type Analysis struct {
	mu      sync.RWMutex
	source  Source
	analyze AnalyzeFunc

	cached        []tag.Result
	cachedVersion span.Version
	hasResults    bool

	group     singleflight.Group
	notifier  *notify.Notifier
	closeOnce sync.Once
	closed    bool
}

// NewAnalysis creates an analysis tagger. No results are served until the
// first Refresh completes.
func NewAnalysis(source Source, analyze AnalyzeFunc) *Analysis {
	return &Analysis{
		source:   source,
		analyze:  analyze,
		notifier: notify.New(),
	}
}

// AppendTags appends the cached results that lie fully within the requested
// spans. Before the first Refresh there is nothing to serve and the call is
// a successful no-op; a version mismatch between the request and the cache
// yields ErrStaleSnapshot with no results.
func (a *Analysis) AppendTags(spans span.Set, buf *tag.Buffer) error {
	if spans.IsEmpty() {
		return nil
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return producer.ErrClosed
	}
	if !a.hasResults {
		return nil
	}
	if spans.Version() != a.cachedVersion {
		return producer.ErrStaleSnapshot
	}

	for _, r := range a.cached {
		if spans.Contains(r.Span) {
			buf.Append(r)
		}
	}
	return nil
}

// Refresh recomputes the analysis against the source's current snapshot,
// swaps the cache, and fires a whole-document change event. Concurrent
// callers share a single computation and its error.
func (a *Analysis) Refresh(ctx context.Context) error {
	a.mu.RLock()
	closed := a.closed
	a.mu.RUnlock()
	if closed {
		return producer.ErrClosed
	}

	_, err, _ := a.group.Do("refresh", func() (any, error) {
		version := a.source.Version()
		results, err := a.analyze(ctx, a.source)
		if err != nil {
			return nil, err
		}

		a.mu.Lock()
		if a.closed {
			a.mu.Unlock()
			return nil, producer.ErrClosed
		}
		a.cached = results
		a.cachedVersion = version
		a.hasResults = true
		a.mu.Unlock()

		a.notifier.Notify(notify.Event{Spans: wholeDocument(a.source)})
		return nil, nil
	})
	return err
}

// CachedVersion returns the snapshot version of the current cache and
// whether any results have been computed yet.
func (a *Analysis) CachedVersion() (span.Version, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cachedVersion, a.hasResults
}

// Changes returns the tagger's change notifier.
func (a *Analysis) Changes() *notify.Notifier {
	return a.notifier
}

// Close drops the cache and the notifier. It is safe to call more than
// once; a closed tagger refuses further work with ErrClosed.
func (a *Analysis) Close() error {
	a.closeOnce.Do(func() {
		a.mu.Lock()
		a.closed = true
		a.cached = nil
		a.hasResults = false
		a.mu.Unlock()
		a.notifier.Close()
	})
	return nil
}
