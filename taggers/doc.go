// Package taggers provides leaf tag producers: occurrence matching,
// lexical syntax tagging, and cached analysis results.
//
// All taggers read document text through the narrow Source interface and
// compare the requested span set's version against the source before
// producing anything; a mismatch yields producer.ErrStaleSnapshot with no
// results, and the consumer re-requests against a current snapshot.
package taggers
