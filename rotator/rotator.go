// Package rotator implements the per-output-sample phase derotation used
// to shift a decimated baseband by a programmable frequency offset.
package rotator

import (
	"math"

	"github.com/cwbudde/decimfir/q15"
)

// Rotator holds a unit-magnitude Q.15 phasor and a per-step Q.15
// increment. It is disabled (a no-op) when the increment is zero in both
// components, which is also its zero value.
type Rotator struct {
	re, im         int32 // current phasor, Q.15
	incrRe, incrIm int32 // per-step increment, Q.15
	counter        uint64
}

// New returns a Rotator with its increment computed from a baseband
// frequency shift: increment = exp(-j*2*pi*freqShiftHz/sampleRateHz*decimation).
// Passing freqShiftHz == 0 yields a disabled rotator, matching the
// original's "derotate == false" path, which leaves both increment
// components at zero.
func New(sampleRateHz uint32, freqShiftHz int32, decimation int) *Rotator {
	if freqShiftHz == 0 {
		return &Rotator{}
	}

	omega := 2 * math.Pi * float64(freqShiftHz) / float64(sampleRateHz)
	angle := -omega * float64(decimation)

	r := &Rotator{
		re:     q15.One,
		im:     0,
		incrRe: int32(math.Cos(angle) * float64(q15.One)),
		incrIm: int32(math.Sin(angle) * float64(q15.One)),
	}
	return r
}

// Disabled reports whether derotation is a no-op (zero increment).
func (r *Rotator) Disabled() bool {
	return r == nil || (r.incrRe == 0 && r.incrIm == 0)
}

// Counter reports how many samples have been derotated so far.
func (r *Rotator) Counter() uint64 {
	if r == nil {
		return 0
	}
	return r.counter
}

// Apply derotates one Q.15 sample, returning the rotated Q.15 result, and
// advances the phasor by the increment. If the rotator is disabled, the
// input is returned unchanged and the counter is not advanced.
func (r *Rotator) Apply(sampleRe, sampleIm int16) (outRe, outIm int16) {
	if r.Disabled() {
		return sampleRe, sampleIm
	}

	prodRe, prodIm := q15.MulQ30(int32(sampleRe), int32(sampleIm), r.re, r.im)
	outRe, outIm = q15.Round(prodRe), q15.Round(prodIm)

	r.re, r.im = q15.MulQ15(r.re, r.im, r.incrRe, r.incrIm)
	r.counter++

	return outRe, outIm
}

// Reset restores the phasor to its initial unit-magnitude state without
// touching the increment or the counter, for callers that periodically
// re-synchronize phase to bound long-term drift.
func (r *Rotator) Reset() {
	if r.Disabled() {
		return
	}
	r.re, r.im = q15.One, 0
}
