// Package firdecim implements a decimating complex FIR filter: it
// convolves a stream of interleaved Q.15 complex samples against a
// complex-valued impulse response, emits one output sample per
// decimation-factor input samples, and optionally derotates each output
// by a programmable phase increment.
//
// A Filter reads from sample buffers it does not own (see package
// samplebuf) and never copies across a buffer boundary; taps that
// straddle two producer-supplied buffers are spliced in place. All
// arithmetic is fixed-point (package q15); there is no floating-point
// output path.
//
// A Filter is not safe for concurrent use; callers must serialize all
// method calls on a given instance, though independent instances may run
// on separate goroutines without coordination.
package firdecim

import (
	"fmt"

	"github.com/cwbudde/decimfir/firdecim/internal/arch/registry"
	"github.com/cwbudde/decimfir/internal/cpu"
	"github.com/cwbudde/decimfir/q15"
	"github.com/cwbudde/decimfir/rotator"
	"github.com/cwbudde/decimfir/samplebuf"
)

// Filter is a single decimating complex FIR filter instance.
type Filter struct {
	coeffsRe, coeffsIm []int16
	n                  int
	decimation         int

	active samplebuf.Buffer
	next   samplebuf.Buffer

	sampleOffset int
	nrSamples    int

	rot *rotator.Rotator

	kernel     registry.TapBlockFn
	kernelName string
}

// New builds a Filter from the given Q.15 coefficient arrays and
// decimation factor. If derotate is true, the derotation increment is
// computed deterministically from sampleRateHz and freqShiftHz (see
// package rotator); if false, derotation is disabled regardless of the
// other two arguments.
//
// Taps are copied into owned, 16-byte-aligned storage (for the
// arch-dispatched convolution kernels); the caller's slices may be
// reused or discarded after New returns.
func New(coeffsRe, coeffsIm []int16, decimation int, derotate bool, sampleRateHz uint32, freqShiftHz int32) (*Filter, error) {
	if len(coeffsRe) == 0 {
		return nil, fmt.Errorf("%w: zero-length coefficient array", ErrInvalidArgument)
	}
	if len(coeffsRe) != len(coeffsIm) {
		return nil, fmt.Errorf("%w: real and imaginary coefficient arrays differ in length (%d vs %d)",
			ErrInvalidArgument, len(coeffsRe), len(coeffsIm))
	}
	if decimation <= 0 {
		return nil, fmt.Errorf("%w: decimation must be positive, got %d", ErrInvalidArgument, decimation)
	}

	n := len(coeffsRe)
	re := alignedTapSlice(n)
	im := alignedTapSlice(n)
	copy(re, coeffsRe)
	copy(im, coeffsIm)

	var rot *rotator.Rotator
	if derotate {
		rot = rotator.New(sampleRateHz, freqShiftHz, decimation)
	} else {
		rot = rotator.New(sampleRateHz, 0, decimation)
	}

	entry := registry.Global.Lookup(cpu.DetectFeatures())
	if entry == nil {
		panic("firdecim: no convolution kernel registered; the generic kernel must always be available")
	}

	return &Filter{
		coeffsRe:   re,
		coeffsIm:   im,
		n:          n,
		decimation: decimation,
		rot:        rot,
		kernel:     entry.TapBlock,
		kernelName: entry.Name,
	}, nil
}

// Close releases any buffers still held and zeros the decimation factor.
// After Close, f must not be reused.
func (f *Filter) Close() {
	if f.active != nil {
		f.active.DecRef()
		f.active = nil
	}
	if f.next != nil {
		f.next.DecRef()
		f.next = nil
	}
	f.decimation = 0
}

// Push hands one reference of buf into the filter. If no buffer is held,
// buf becomes the active buffer; if the active slot is occupied but the
// look-ahead slot is not, buf becomes that look-ahead buffer; if both
// slots are occupied, Push returns ErrBusy without consuming the
// reference — the caller still owns it.
//
// Pushing a buffer instance the filter already holds is a programming
// error and panics, matching the bug-checked invariant in the original
// implementation.
func (f *Filter) Push(buf samplebuf.Buffer) error {
	if buf == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidArgument)
	}
	if f.active == buf || f.next == buf {
		panic("firdecim: pushed a buffer instance that is already held")
	}

	switch {
	case f.active == nil:
		f.active = buf
	case f.next == nil:
		f.next = buf
	default:
		return ErrBusy
	}

	f.nrSamples += buf.Len()
	return nil
}

// Full reports whether the filter cannot accept another buffer (the
// look-ahead slot is occupied).
func (f *Filter) Full() bool {
	return f.next != nil
}

// CanProcess reports whether the currently held input covers at least one
// full tap window (nrSamples >= N), and an estimate of how many outputs
// can be produced. The estimate is floor(nrSamples/N); it is a lower bound
// when decimation <= N. When decimation > N, Process also needs
// decimation held samples per output, so canProcess can be true while
// Process yields nothing, and the estimate can exceed the real count.
func (f *Filter) CanProcess() (canProcess bool, estimatedCount int) {
	canProcess = f.nrSamples >= f.n
	if f.n > 0 {
		estimatedCount = f.nrSamples / f.n
	}
	return canProcess, estimatedCount
}

// RotationCount reports how many output samples have had derotation
// applied. It is zero and never advances when derotation is disabled.
func (f *Filter) RotationCount() uint64 {
	return f.rot.Counter()
}

// KernelName reports the name of the arch-dispatched convolution kernel
// selected at construction time (e.g. "generic", "avx2", "neon").
// Intended for diagnostics and tests.
func (f *Filter) KernelName() string {
	return f.kernelName
}

// Process repeatedly drives the convolution engine, writing interleaved
// (re, im) pairs to out[0:2*nrOutSamples], and returns the number of
// samples actually generated. It stops early, without error, when the
// held input is exhausted (the "drained" condition of spec.md §4.4); the
// caller must Push more input before the next Process call can make
// further progress.
//
// If no buffers are currently held, Process returns (0, nil) immediately.
func (f *Filter) Process(out []int16, nrOutSamples int) (int, error) {
	if nrOutSamples <= 0 {
		return 0, fmt.Errorf("%w: nrOutSamples must be positive, got %d", ErrInvalidArgument, nrOutSamples)
	}
	if len(out) < 2*nrOutSamples {
		return 0, fmt.Errorf("%w: out has room for fewer than %d samples", ErrInvalidArgument, nrOutSamples)
	}

	if f.active == nil && f.next == nil {
		return 0, nil
	}

	for i := 0; i < nrOutSamples; i++ {
		outRe, outIm, drained := f.processSample()
		if drained {
			return i, nil
		}
		out[2*i] = outRe
		out[2*i+1] = outIm
	}

	return nrOutSamples, nil
}

// processSample implements spec.md §4.4: a single decimating convolution
// step, spliced across the active and (if needed) next buffer, with
// stride advance, retirement/promotion, and optional derotation.
//
// The drained check below is phrased in terms of nrSamples (the total
// unconsumed input across both slots, invariant §8.1) rather than just
// the active buffer's remaining length. A per-buffer check alone (as in
// the original C) cannot tell the difference between "not enough for
// this convolution window" and "not enough for the next stride
// advance", and a large decimation factor can run past the tap count
// while the source buffer still runs out mid-stride — spec.md §9's open
// question 3 on that case is resolved here by folding the stride
// requirement into the same availability check, so a short stride never
// reaches advance() in a state it can't retire correctly.
func (f *Filter) processSample() (outRe, outIm int16, drained bool) {
	required := f.n
	if f.decimation > required {
		required = f.decimation
	}
	if f.nrSamples < required {
		return 0, 0, true
	}
	if f.active == nil {
		panic("firdecim: processSample has samples available but no active buffer")
	}

	var accRe, accIm int32
	remaining := f.n
	cur := f.active
	off := f.sampleOffset

	for remaining > 0 {
		take := cur.Len() - off
		if take > remaining {
			take = remaining
		}
		startCoeff := f.n - remaining

		accRe, accIm = f.kernel(cur.Data(), off, take, f.coeffsRe, f.coeffsIm, startCoeff, accRe, accIm)

		remaining -= take
		off = 0
		cur = f.next // only read again if remaining > 0, which the availability check above guarantees is backed by a non-nil f.next
	}

	f.advance()

	if !f.rot.Disabled() {
		roundedRe, roundedIm := q15.Round(accRe), q15.Round(accIm)
		outRe, outIm := f.rot.Apply(roundedRe, roundedIm)
		return outRe, outIm, false
	}

	return q15.Round(accRe), q15.Round(accIm), false
}

// advance moves the read cursor forward by the decimation stride,
// retiring and promoting buffers as needed. Exact-fit retirement
// (sample_offset + decimation == active.Len()) uses the inclusive >=
// form, resolving spec.md §9's open question in favor of the more
// recently corrected variant.
func (f *Filter) advance() {
	if f.sampleOffset+f.decimation >= f.active.Len() {
		oldLen := f.active.Len()
		f.active.DecRef()
		f.active = f.next
		f.next = nil
		f.sampleOffset = (f.sampleOffset + f.decimation) - oldLen
	} else {
		f.sampleOffset += f.decimation
	}

	f.nrSamples -= f.decimation
}
