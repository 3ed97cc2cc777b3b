package producer

import (
	"errors"
	"testing"

	"github.com/dshills/tagstorm/notify"
	"github.com/dshills/tagstorm/span"
	"github.com/dshills/tagstorm/tag"
)

func requestSet() span.Set {
	return span.NewSet(1, span.New(0, 100))
}

func TestAggregatorInterleavesByChildOrder(t *testing.T) {
	a := newStubProducer(result(0, 5, "a"))
	b := newStubProducer(result(10, 15, "b1"), result(20, 25, "b2"))
	c := newStubProducer(result(30, 35, "c"))

	agg := NewAggregator(WithChildren(a, b, c))
	defer agg.Close()

	buf := tag.NewBuffer()
	if err := agg.AppendTags(requestSet(), buf); err != nil {
		t.Fatalf("AppendTags() error = %v", err)
	}

	want := []tag.Kind{"a", "b1", "b2", "c"}
	if buf.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", buf.Len(), len(want))
	}
	for i, kind := range want {
		if got := buf.At(i).Tag.TagKind(); got != kind {
			t.Errorf("At(%d) kind = %q, want %q", i, got, kind)
		}
	}
}

func TestAggregatorAppendsToExistingContents(t *testing.T) {
	child := newStubProducer(result(10, 15, "child"))
	agg := NewAggregator(WithChildren(child))
	defer agg.Close()

	buf := tag.NewBuffer()
	buf.Append(result(0, 5, "prior"))

	if err := agg.AppendTags(requestSet(), buf); err != nil {
		t.Fatalf("AppendTags() error = %v", err)
	}

	if buf.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", buf.Len())
	}
	if buf.At(0).Tag.TagKind() != "prior" {
		t.Error("existing buffer contents were not preserved")
	}
}

func TestAggregatorIsolatesChildFailure(t *testing.T) {
	a := newStubProducer(result(0, 5, "a"))
	b := newStubProducer()
	b.err = errors.New("b is misbehaving")
	c := newStubProducer(result(10, 15, "c"))

	agg := NewAggregator(WithChildren(a, b, c))
	defer agg.Close()

	buf := tag.NewBuffer()
	err := agg.AppendTags(requestSet(), buf)

	var aggErr *AggregateError
	if !errors.As(err, &aggErr) {
		t.Fatalf("error = %v, want *AggregateError", err)
	}
	if len(aggErr.Failures) != 1 {
		t.Fatalf("recorded %d failures, want 1", len(aggErr.Failures))
	}
	if aggErr.Failures[0].ChildID != agg.ChildIDs()[1] {
		t.Error("failure attributed to the wrong child")
	}
	if !errors.Is(err, b.err) {
		t.Error("AggregateError does not unwrap to the child error")
	}

	// A and C both contributed, in that relative order.
	if buf.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", buf.Len())
	}
	if buf.At(0).Tag.TagKind() != "a" || buf.At(1).Tag.TagKind() != "c" {
		t.Errorf("results = [%q %q], want [a c]",
			buf.At(0).Tag.TagKind(), buf.At(1).Tag.TagKind())
	}
}

func TestAggregatorIsolatesChildPanic(t *testing.T) {
	a := newStubProducer(result(0, 5, "a"))
	panicker := NewFunc(func(span.Set, *tag.Buffer) error {
		panic("child blew up")
	})
	c := newStubProducer(result(10, 15, "c"))

	agg := NewAggregator(WithChildren(a), WithOwnedChildren(panicker), WithChildren(c))
	defer agg.Close()

	buf := tag.NewBuffer()
	err := agg.AppendTags(requestSet(), buf)

	var aggErr *AggregateError
	if !errors.As(err, &aggErr) {
		t.Fatalf("error = %v, want *AggregateError", err)
	}
	if !errors.Is(err, ErrChildPanic) {
		t.Error("panic failure should unwrap to ErrChildPanic")
	}
	if buf.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (siblings unaffected)", buf.Len())
	}
}

func TestAggregatorFatalPropagates(t *testing.T) {
	a := newStubProducer(result(0, 5, "a"))
	fatal := newStubProducer()
	fatal.err = Fatal(errors.New("resource exhausted"))
	c := newStubProducer(result(10, 15, "c"))

	agg := NewAggregator(WithChildren(a, fatal, c))
	defer agg.Close()

	buf := tag.NewBuffer()
	err := agg.AppendTags(requestSet(), buf)

	if !IsFatal(err) {
		t.Fatalf("error = %v, want fatal", err)
	}
	if c.calls != 0 {
		t.Error("children after a fatal failure should not run")
	}
	// The buffer is left partially filled, by contract.
	if buf.Len() != 1 || buf.At(0).Tag.TagKind() != "a" {
		t.Errorf("buffer should hold A's partial contribution, got %d results", buf.Len())
	}
}

func TestAggregatorEmptySetSkipsChildren(t *testing.T) {
	a := newStubProducer(result(0, 5, "a"))
	agg := NewAggregator(WithChildren(a))
	defer agg.Close()

	if err := agg.AppendTags(span.NewSet(1), tag.NewBuffer()); err != nil {
		t.Fatalf("AppendTags() error = %v", err)
	}
	if a.calls != 0 {
		t.Error("children invoked for an empty span set")
	}
}

func TestAggregatorRelaysChildChanges(t *testing.T) {
	child := newStubProducer()
	agg := NewAggregator(WithChildren(child))

	var got []notify.Event
	agg.Changes().Subscribe(func(ev notify.Event) { got = append(got, ev) })

	ev := notify.Event{Spans: span.NewSet(7, span.New(0, 10))}
	child.Changes().Notify(ev)

	if len(got) != 1 {
		t.Fatalf("relayed %d events, want 1", len(got))
	}
	if got[0].Spans.Version() != 7 {
		t.Errorf("event version = %d, want 7 (verbatim re-emission)", got[0].Spans.Version())
	}

	// After Close the aggregator is detached from the child stream.
	if err := agg.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	child.Changes().Notify(ev)
	if len(got) != 1 {
		t.Error("event relayed after Close")
	}
}

func TestAggregatorCloseOwnedChildren(t *testing.T) {
	owned := newStubProducer()
	borrowed := newStubProducer()

	agg := NewAggregator(WithChildren(borrowed), WithOwnedChildren(owned))

	if err := agg.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := agg.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}

	if owned.closed != 1 {
		t.Errorf("owned child closed %d times, want 1", owned.closed)
	}
	if borrowed.closed != 0 {
		t.Errorf("borrowed child closed %d times, want 0", borrowed.closed)
	}
}

func TestAggregatorOfAggregators(t *testing.T) {
	leaf := newStubProducer(result(0, 5, "leaf"))
	inner := NewAggregator(WithOwnedChildren(leaf))
	outer := NewAggregator(WithOwnedChildren(inner))
	defer outer.Close()

	buf := tag.NewBuffer()
	if err := outer.AppendTags(requestSet(), buf); err != nil {
		t.Fatalf("AppendTags() error = %v", err)
	}
	if buf.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", buf.Len())
	}

	// Leaf change events bubble through both levels.
	var count int
	outer.Changes().Subscribe(func(notify.Event) { count++ })
	leaf.Changes().Notify(notify.Event{Spans: span.NewSet(1, span.New(0, 5))})
	if count != 1 {
		t.Errorf("bubbled %d events, want 1", count)
	}
}
