// Package span provides byte ranges and normalized range collections over
// versioned document snapshots.
//
// A Span is a half-open byte range [Start, End) relative to a specific
// snapshot Version. A Set is an immutable collection of spans over a single
// version, normalized at construction time: invalid and empty spans are
// dropped, spans are sorted by start offset, and overlapping or touching
// spans are merged. Tag producers receive Sets and may assume these
// invariants hold.
//
// Spans are only meaningful relative to the snapshot version they were
// computed against. Comparing or combining spans across versions is a caller
// error; producers detect it by checking Set.Version against their source.
package span
