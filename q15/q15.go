package q15

import "math"

// One is Q15_ONE, the Q.15 representation of 1.0. It does not fit in a
// signed 16-bit word (2^15 = 32768 > math.MaxInt16); it only ever appears
// as an initial phasor value, never as a tap or sample.
const One int32 = 1 << 15

// Shift is the number of fractional bits in a Q.15 value.
const Shift = 15

// MulQ30 computes the Q.30 complex product of two Q.15 operands with no
// post-shift:
//
//	reQ30 = aRe*bRe - aIm*bIm
//	imQ30 = aIm*bRe + aRe*bIm
//
// Both a and b are treated as Q.15 values in int32 containers; the result
// is the raw integer product pair, a Q.30 value. No rounding or
// saturation is applied here — callers narrow with Round when a Q.15
// result is needed.
func MulQ30(aRe, aIm, bRe, bIm int32) (reQ30, imQ30 int32) {
	reQ30 = aRe*bRe - aIm*bIm
	imQ30 = aIm*bRe + aRe*bIm
	return reQ30, imQ30
}

// MulQ15 computes the Q.15 complex product of two Q.15 operands by
// narrowing the Q.30 intermediate of MulQ30 back down with Round. Used to
// advance the derotation phasor by its per-sample increment.
func MulQ15(aRe, aIm, bRe, bIm int32) (reQ15, imQ15 int32) {
	pRe, pIm := MulQ30(aRe, aIm, bRe, bIm)
	return int32(Round(pRe)), int32(Round(pIm))
}

// Round narrows a Q.30 accumulator to a rounded, saturated Q.15 value:
// add 2^14, arithmetic shift right by 15, then clamp to the signed 16-bit
// range.
func Round(x int32) int16 {
	x = (x + (1 << 14)) >> Shift

	switch {
	case x > math.MaxInt16:
		return math.MaxInt16
	case x < math.MinInt16:
		return math.MinInt16
	default:
		return int16(x)
	}
}
