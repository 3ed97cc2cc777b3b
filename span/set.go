package span

import (
	"sort"
	"strconv"
	"strings"
)

// Set is an immutable, normalized collection of spans over a single snapshot
// version. Spans are sorted by start offset and no two spans overlap or
// touch; adjacent spans are merged during construction.
//
// The zero value is an empty set at version 0.
type Set struct {
	version Version
	spans   []Span
}

// NewSet creates a normalized set from the given spans.
// Invalid and empty spans are dropped. The input slice is not retained.
func NewSet(version Version, spans ...Span) Set {
	kept := make([]Span, 0, len(spans))
	for _, sp := range spans {
		if sp.IsValid() && !sp.IsEmpty() {
			kept = append(kept, sp)
		}
	}
	if len(kept) == 0 {
		return Set{version: version}
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Start != kept[j].Start {
			return kept[i].Start < kept[j].Start
		}
		return kept[i].End < kept[j].End
	})

	// Merge overlapping and touching spans in place.
	merged := kept[:1]
	for _, sp := range kept[1:] {
		last := &merged[len(merged)-1]
		if last.Touches(sp) {
			*last = last.Union(sp)
			continue
		}
		merged = append(merged, sp)
	}

	return Set{version: version, spans: merged}
}

// Version returns the snapshot version the set was computed against.
func (s Set) Version() Version {
	return s.version
}

// Len returns the number of spans in the set.
func (s Set) Len() int {
	return len(s.spans)
}

// IsEmpty returns true if the set contains no spans.
func (s Set) IsEmpty() bool {
	return len(s.spans) == 0
}

// At returns the span at the given index. Spans are ordered by start offset.
func (s Set) At(i int) Span {
	return s.spans[i]
}

// Spans returns a copy of the spans in the set.
func (s Set) Spans() []Span {
	if len(s.spans) == 0 {
		return nil
	}
	out := make([]Span, len(s.spans))
	copy(out, s.spans)
	return out
}

// Contains returns true if the given span lies entirely within the union of
// the set. Because member spans never touch, containment in the union means
// containment in a single member span.
func (s Set) Contains(sp Span) bool {
	if !sp.IsValid() {
		return false
	}
	if sp.IsEmpty() {
		return s.ContainsOffset(sp.Start)
	}
	i := s.search(sp.Start)
	return i >= 0 && sp.End <= s.spans[i].End
}

// ContainsOffset returns true if the given offset falls inside a member span.
func (s Set) ContainsOffset(offset int) bool {
	return s.search(offset) >= 0
}

// Bounds returns the span from the first start to the last end, or an empty
// span for an empty set.
func (s Set) Bounds() Span {
	if len(s.spans) == 0 {
		return Span{}
	}
	return Span{Start: s.spans[0].Start, End: s.spans[len(s.spans)-1].End}
}

// String returns a human-readable representation of the set.
func (s Set) String() string {
	var b strings.Builder
	b.WriteString("v")
	b.WriteString(strconv.FormatUint(uint64(s.version), 10))
	b.WriteString("{")
	for i, sp := range s.spans {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(sp.String())
	}
	b.WriteString("}")
	return b.String()
}

// search returns the index of the member span containing offset, or -1.
func (s Set) search(offset int) int {
	i := sort.Search(len(s.spans), func(i int) bool {
		return s.spans[i].End > offset
	})
	if i < len(s.spans) && s.spans[i].Contains(offset) {
		return i
	}
	return -1
}
