package producer

import (
	"errors"
	"testing"

	"github.com/dshills/tagstorm/notify"
	"github.com/dshills/tagstorm/span"
	"github.com/dshills/tagstorm/tag"
)

// stubTag is a minimal comparable tag payload for tests.
type stubTag struct {
	kind tag.Kind
}

func (s stubTag) TagKind() tag.Kind { return s.kind }

// stubProducer appends fixed results and records how it was used.
type stubProducer struct {
	results  []tag.Result
	err      error
	calls    int
	closed   int
	notifier *notify.Notifier
}

func newStubProducer(results ...tag.Result) *stubProducer {
	return &stubProducer{results: results, notifier: notify.New()}
}

func (s *stubProducer) AppendTags(spans span.Set, buf *tag.Buffer) error {
	s.calls++
	if spans.IsEmpty() {
		return nil
	}
	buf.AppendAll(s.results...)
	return s.err
}

func (s *stubProducer) Changes() *notify.Notifier { return s.notifier }

func (s *stubProducer) Close() error {
	s.closed++
	s.notifier.Close()
	return nil
}

func result(start, end int, kind tag.Kind) tag.Result {
	return tag.Result{Span: span.New(start, end), Tag: stubTag{kind}}
}

func TestGetTagsEmptySetShortCircuits(t *testing.T) {
	pool := tag.NewPool()
	p := newStubProducer(result(0, 5, "a"))

	seq, err := GetTagsFrom(pool, p, span.NewSet(1))
	if err != nil {
		t.Fatalf("GetTagsFrom() error = %v", err)
	}

	if p.calls != 0 {
		t.Error("producer invoked for an empty span set")
	}
	if _, ok := seq.Next(); ok {
		t.Error("empty sequence yielded a result")
	}
	if got := pool.Outstanding(); got != 0 {
		t.Errorf("Outstanding() = %d, want 0", got)
	}
}

func TestGetTagsReturnsResults(t *testing.T) {
	pool := tag.NewPool()
	p := newStubProducer(result(0, 5, "a"), result(10, 15, "b"))

	seq, err := GetTagsFrom(pool, p, span.NewSet(1, span.New(0, 20)))
	if err != nil {
		t.Fatalf("GetTagsFrom() error = %v", err)
	}

	got := seq.Collect()
	if len(got) != 2 {
		t.Fatalf("collected %d results, want 2", len(got))
	}
	if got[0].Tag.TagKind() != "a" || got[1].Tag.TagKind() != "b" {
		t.Errorf("results out of order: %v", got)
	}
	if pool.Outstanding() != 0 {
		t.Errorf("Outstanding() = %d, want 0 after drain", pool.Outstanding())
	}
}

func TestGetTagsPartialResultsOnError(t *testing.T) {
	pool := tag.NewPool()
	p := newStubProducer(result(0, 5, "a"))
	p.err = errors.New("analysis unavailable")

	seq, err := GetTagsFrom(pool, p, span.NewSet(1, span.New(0, 20)))
	if err == nil {
		t.Fatal("expected producer error")
	}

	got := seq.Collect()
	if len(got) != 1 {
		t.Errorf("collected %d results, want 1 partial result alongside the error", len(got))
	}
	if pool.Outstanding() != 0 {
		t.Errorf("Outstanding() = %d, want 0", pool.Outstanding())
	}
}

func TestFuncAdapter(t *testing.T) {
	p := NewFunc(func(spans span.Set, buf *tag.Buffer) error {
		buf.Append(result(0, 3, "x"))
		return nil
	})

	if p.Changes() == nil {
		t.Fatal("Changes() returned nil")
	}

	buf := tag.NewBuffer()
	if err := p.AppendTags(span.NewSet(1, span.New(0, 10)), buf); err != nil {
		t.Fatalf("AppendTags() error = %v", err)
	}
	if buf.Len() != 1 {
		t.Errorf("Len() = %d, want 1", buf.Len())
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestFatalMarking(t *testing.T) {
	base := errors.New("out of memory")

	if !IsFatal(Fatal(base)) {
		t.Error("Fatal-wrapped error not detected as fatal")
	}
	if IsFatal(base) {
		t.Error("plain error detected as fatal")
	}
	if Fatal(nil) != nil {
		t.Error("Fatal(nil) should be nil")
	}
	if !errors.Is(Fatal(base), base) {
		t.Error("Fatal should unwrap to the underlying error")
	}
}
