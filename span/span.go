package span

import "fmt"

// Version identifies a document snapshot. Versions are assigned by the
// document collaborator and increase with each edit.
type Version uint64

// Span represents a byte range in a document snapshot.
// Start is inclusive, End is exclusive: [Start, End).
type Span struct {
	Start int // Inclusive start offset
	End   int // Exclusive end offset
}

// New creates a new Span from start and end offsets.
func New(start, end int) Span {
	return Span{Start: start, End: end}
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	return fmt.Sprintf("[%d:%d)", s.Start, s.End)
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty returns true if the span has zero length.
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// IsValid returns true if the span is valid (Start <= End and Start >= 0).
func (s Span) IsValid() bool {
	return s.Start >= 0 && s.Start <= s.End
}

// Contains returns true if the given offset is within the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// ContainsSpan returns true if the given span is entirely within this span.
func (s Span) ContainsSpan(other Span) bool {
	return other.Start >= s.Start && other.End <= s.End
}

// Overlaps returns true if this span overlaps with another span.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// Touches returns true if the spans overlap or are directly adjacent,
// meaning they can be merged into a single span.
func (s Span) Touches(other Span) bool {
	return s.Start <= other.End && other.Start <= s.End
}

// Intersect returns the intersection of two spans, or an empty span if they
// don't overlap.
func (s Span) Intersect(other Span) Span {
	start := s.Start
	if other.Start > start {
		start = other.Start
	}
	end := s.End
	if other.End < end {
		end = other.End
	}
	if start >= end {
		return Span{Start: start, End: start}
	}
	return Span{Start: start, End: end}
}

// Union returns the smallest span that contains both spans.
func (s Span) Union(other Span) Span {
	start := s.Start
	if other.Start < start {
		start = other.Start
	}
	end := s.End
	if other.End > end {
		end = other.End
	}
	return Span{Start: start, End: end}
}
