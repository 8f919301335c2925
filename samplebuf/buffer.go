// Package samplebuf describes the contract a decimating FIR engine uses to
// read interleaved complex Q.15 samples from an externally owned,
// reference-counted block, and provides one concrete ref-counted
// implementation for tests and CLI use.
//
// The engine that consumes a Buffer never allocates one and never writes
// to its data; it only calls DecRef exactly once per buffer, when every
// sample in it has been consumed or when the engine is closed while still
// holding it.
package samplebuf

import "sync/atomic"

// Buffer is an externally owned block of interleaved complex Q.15
// samples: Data()[2*i] and Data()[2*i+1] are the real and imaginary parts
// of sample i, for i in [0, Len()).
type Buffer interface {
	// Data returns the interleaved (re, im) sample pairs. It is readable
	// for 2*Len() elements; the engine never writes through it.
	Data() []int16

	// Len returns the number of complex samples in the buffer.
	Len() int

	// IncRef adds one reference. Callers that hand a Buffer to more than
	// one owner must call this before doing so.
	IncRef()

	// DecRef releases one reference. The final DecRef may free the
	// underlying storage; callers must not touch the buffer afterward.
	DecRef()
}

// RefCounted is a Buffer backed by a plain []int16 slice and an atomic
// reference count. New buffers start with one reference, owned by the
// caller of New.
type RefCounted struct {
	data []int16
	len  int
	refs int32
	pool *Pool // nil for a plain New buffer; set by Pool.Get
}

// New wraps data (2*n interleaved int16 values) as a Buffer of n complex
// samples with a single reference. len(data) must be even and non-zero.
func New(data []int16) *RefCounted {
	if len(data) == 0 || len(data)%2 != 0 {
		panic("samplebuf: data must hold a non-zero, even number of int16 values")
	}
	return &RefCounted{
		data: data,
		len:  len(data) / 2,
		refs: 1,
	}
}

// Data implements Buffer.
func (b *RefCounted) Data() []int16 { return b.data }

// Len implements Buffer.
func (b *RefCounted) Len() int { return b.len }

// IncRef implements Buffer.
func (b *RefCounted) IncRef() {
	atomic.AddInt32(&b.refs, 1)
}

// DecRef implements Buffer. It panics on an unbalanced DecRef (more
// releases than references taken), which is a programming error rather
// than a recoverable condition. If b came from a Pool, the final DecRef
// returns its storage to that Pool instead of abandoning it to the
// garbage collector; callers never need to know which is the case.
func (b *RefCounted) DecRef() {
	n := atomic.AddInt32(&b.refs, -1)
	if n < 0 {
		panic("samplebuf: DecRef called more times than references were held")
	}
	if n == 0 && b.pool != nil {
		b.pool.put(b)
	}
}

// RefCount reports the current reference count. Intended for tests.
func (b *RefCounted) RefCount() int32 {
	return atomic.LoadInt32(&b.refs)
}
