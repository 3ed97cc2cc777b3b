// Package producer defines the tag producer contract and the machinery for
// composing producers: pooled bulk retrieval, lazy one-shot sequences, and
// aggregation of multiple producers into one request.
//
// A Producer appends tag results for a normalized span set into a borrowed
// buffer. The buffer is only borrowed: ownership stays with the caller's
// lease, which is what lets an Aggregator fan a single buffer out to many
// children without each child allocating its own container.
//
// Two consumption styles are layered on the one contract:
//
//   - Bulk: lease a buffer (tag.Pool.WithBuffer), call AppendTags, read the
//     results before the scope guard releases the buffer.
//   - Lazy: GetTags leases a buffer internally and returns a Sequence, a
//     forward-only view that releases the buffer exactly once when drained
//     or closed.
//
// Change notifications flow the opposite direction. Every producer owns a
// notify.Notifier; an Aggregator relays each child's stream verbatim so a
// consumer subscribes once at the top of the tree.
package producer
