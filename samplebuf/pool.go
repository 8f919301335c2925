package samplebuf

import "sync"

// Pool provides sync.Pool-based RefCounted reuse to reduce GC pressure
// when a producer allocates many short-lived sample buffers.
type Pool struct {
	pool sync.Pool
}

// NewPool returns a Pool ready for use.
func NewPool() *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any {
				return &RefCounted{}
			},
		},
	}
}

// Get returns a RefCounted with capacity for n complex samples, a single
// reference, and zeroed contents. Callers drop that reference the usual
// way, via DecRef; once the count reaches zero the buffer is returned to
// the pool automatically.
func (p *Pool) Get(n int) *RefCounted {
	b := p.pool.Get().(*RefCounted)
	if cap(b.data) < 2*n {
		b.data = make([]int16, 2*n)
	} else {
		b.data = b.data[:2*n]
		for i := range b.data {
			b.data[i] = 0
		}
	}
	b.len = n
	b.refs = 1
	b.pool = p
	return b
}

// put returns a buffer to the pool. Called internally once a buffer
// obtained from Get reaches a zero reference count.
func (p *Pool) put(b *RefCounted) {
	p.pool.Put(b)
}
