package producer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors for tag producers.
var (
	// ErrStaleSnapshot is returned when a span set refers to a snapshot
	// version the producer can no longer compute against. The producer
	// appends no results; the caller should re-request with a current
	// snapshot.
	ErrStaleSnapshot = errors.New("span set refers to a stale snapshot")

	// ErrClosed is returned when a producer is used after Close.
	ErrClosed = errors.New("producer is closed")

	// ErrChildPanic marks a child producer failure caused by a recovered
	// panic rather than a returned error.
	ErrChildPanic = errors.New("child producer panicked")
)

// fatalError marks an error that must abort an aggregated fan-out instead
// of being isolated. See Fatal.
type fatalError struct {
	err error
}

// Fatal wraps an error so an Aggregator propagates it immediately instead
// of recording it and continuing with the remaining children. Use it for
// failures that make further tagging pointless, such as resource
// exhaustion. Fatal(nil) returns nil.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}

// IsFatal reports whether err was marked with Fatal.
func IsFatal(err error) bool {
	var fe *fatalError
	return errors.As(err, &fe)
}

// Error implements the error interface.
func (e *fatalError) Error() string {
	return "fatal: " + e.err.Error()
}

// Unwrap returns the underlying error.
func (e *fatalError) Unwrap() error {
	return e.err
}

// ChildFailure records one isolated child failure during aggregation.
type ChildFailure struct {
	// ChildID identifies the failing child within the aggregator.
	ChildID string

	// Err is the error the child returned, or an ErrChildPanic-wrapped
	// error if the child panicked.
	Err error
}

// AggregateError reports the isolated child failures of one AppendTags
// fan-out. The output buffer still contains every result appended by the
// children that succeeded (and whatever a failing child appended before it
// failed); an AggregateError accompanies partial results, it does not void
// them.
type AggregateError struct {
	// Failures are the recorded child failures, in child order.
	Failures []ChildFailure
}

// Error implements the error interface.
func (e *AggregateError) Error() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(len(e.Failures)))
	b.WriteString(" child producer failure(s):")
	for _, f := range e.Failures {
		b.WriteString(" [")
		b.WriteString(f.ChildID)
		b.WriteString("] ")
		b.WriteString(f.Err.Error())
		b.WriteString(";")
	}
	return strings.TrimSuffix(b.String(), ";")
}

// Unwrap returns the underlying child errors for errors.Is/As matching.
func (e *AggregateError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

// panicErr converts a recovered panic value into a child error.
func panicErr(value any) error {
	return fmt.Errorf("%w: %v", ErrChildPanic, value)
}
