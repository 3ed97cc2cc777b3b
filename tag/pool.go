package tag

import (
	"sync"
	"sync/atomic"
)

// DefaultMaxIdle is the free-list bound used when a pool is created without
// an explicit limit.
const DefaultMaxIdle = 16

// DefaultPool is the process-wide buffer pool used by derived operations
// such as producer.GetTags. It can be replaced with a custom pool if needed.
var DefaultPool = NewPool()

// Pool is a thread-safe pool of reusable tag buffers backed by a
// capacity-bounded free-list. Lease always returns an empty buffer; when the
// free-list is empty a fresh buffer is allocated rather than blocking, so
// exhaustion degrades to allocation, never to deadlock.
//
// The pool does not track leased buffers. A lease that is never released is
// a leak, not a correctness fault; pair every Lease with exactly one Release
// on every exit path, preferably via WithBuffer.
type Pool struct {
	mu      sync.Mutex
	free    []*Buffer
	maxIdle int

	// Stats
	leases      atomic.Uint64
	releases    atomic.Uint64
	allocations atomic.Uint64
	reuses      atomic.Uint64
	outstanding atomic.Int64
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithMaxIdle bounds the free-list. Released buffers beyond the bound are
// dropped to the garbage collector.
func WithMaxIdle(n int) PoolOption {
	return func(p *Pool) {
		if n > 0 {
			p.maxIdle = n
		}
	}
}

// NewPool creates a new buffer pool.
func NewPool(opts ...PoolOption) *Pool {
	p := &Pool{maxIdle: DefaultMaxIdle}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Lease returns an empty buffer, exclusively owned by the caller until it
// is passed back to Release.
func (p *Pool) Lease() *Buffer {
	p.leases.Add(1)
	p.outstanding.Add(1)

	p.mu.Lock()
	if n := len(p.free); n > 0 {
		buf := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		p.mu.Unlock()
		p.reuses.Add(1)
		return buf
	}
	p.mu.Unlock()

	p.allocations.Add(1)
	return &Buffer{}
}

// Release clears a previously leased buffer and returns it to the pool.
// The buffer must not be used after release.
func (p *Pool) Release(buf *Buffer) {
	if buf == nil {
		return
	}

	buf.Reset()
	p.releases.Add(1)
	p.outstanding.Add(-1)

	p.mu.Lock()
	if len(p.free) < p.maxIdle {
		p.free = append(p.free, buf)
	}
	p.mu.Unlock()
}

// WithBuffer leases a buffer, runs fn with it, and releases it on every
// exit path including panics. Results must be copied out of the buffer
// before fn returns.
func (p *Pool) WithBuffer(fn func(*Buffer) error) error {
	buf := p.Lease()
	defer p.Release(buf)
	return fn(buf)
}

// Outstanding returns the number of currently leased buffers.
func (p *Pool) Outstanding() int64 {
	return p.outstanding.Load()
}

// Idle returns the current free-list length.
func (p *Pool) Idle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}

// Stats returns cumulative pool statistics.
// Values may be slightly inconsistent under concurrent updates.
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		Leases:      p.leases.Load(),
		Releases:    p.releases.Load(),
		Allocations: p.allocations.Load(),
		Reuses:      p.reuses.Load(),
		Outstanding: p.outstanding.Load(),
	}
}

// PoolStats contains cumulative statistics for a pool.
type PoolStats struct {
	// Leases is the total number of Lease calls.
	Leases uint64

	// Releases is the total number of Release calls.
	Releases uint64

	// Allocations is the number of leases served by allocating fresh buffers.
	Allocations uint64

	// Reuses is the number of leases served from the free-list.
	Reuses uint64

	// Outstanding is the number of buffers currently leased.
	Outstanding int64
}
