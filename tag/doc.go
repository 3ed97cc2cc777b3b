// Package tag defines tag payloads, tag results, and the pooled buffers
// producers append results into.
//
// A Tag is an opaque payload attached to a span of document text; the engine
// only requires that it report a Kind and compare with ==. A Result pairs a
// tag with the span it applies to. Results accumulate in a Buffer leased
// from a Pool and returned once the caller has consumed them, so repeated
// tagging requests do not allocate a fresh container per query.
//
// Buffer ownership follows a strict lease/release protocol:
//
//	buf := tag.DefaultPool.Lease()
//	defer tag.DefaultPool.Release(buf)
//	// buf is exclusively owned until Release; producers only borrow it.
//
// Release clears the buffer so pooled storage never retains tag payloads,
// and the next Lease always observes an empty buffer. Prefer Pool.WithBuffer
// over manual pairing; it guarantees the release on every exit path.
package tag
