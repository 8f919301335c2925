//go:build amd64 && !purego

// Package avx2 is a 4-wide unrolled convolution kernel selected for
// AVX2-capable CPUs. It performs the same per-sample Q.15 x Q.15 -> Q.30
// multiply-accumulate as the generic kernel, just with four lanes
// interleaved per loop iteration and a scalar remainder for take % 4;
// this keeps it bit-identical to the generic path on the bulk-of-taps
// case, per this project's SIMD-parity requirement.
//
// TODO: replace the unrolled Go body with an explicit AVX2 asm kernel
// using widening VPMADDWD-style multiplies.
package avx2

import (
	"github.com/cwbudde/decimfir/internal/cpu"
	"github.com/cwbudde/decimfir/firdecim/internal/arch/registry"
	"github.com/cwbudde/decimfir/q15"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "avx2",
		SIMDLevel: cpu.SIMDAVX2,
		Priority:  20,
		TapBlock:  tapBlock,
	})
}

func tapBlock(buf []int16, off, take int, coeffsRe, coeffsIm []int16, startCoeff int, accRe, accIm int32) (int32, int32) {
	i := 0
	for ; i+3 < take; i += 4 {
		for lane := 0; lane < 4; lane++ {
			n := i + lane
			sRe := int32(buf[2*(off+n)])
			sIm := int32(buf[2*(off+n)+1])
			cRe := int32(coeffsRe[startCoeff+n])
			cIm := int32(coeffsIm[startCoeff+n])

			fRe, fIm := q15.MulQ30(cRe, cIm, sRe, sIm)
			accRe += fRe
			accIm += fIm
		}
	}

	for ; i < take; i++ {
		sRe := int32(buf[2*(off+i)])
		sIm := int32(buf[2*(off+i)+1])
		cRe := int32(coeffsRe[startCoeff+i])
		cIm := int32(coeffsIm[startCoeff+i])

		fRe, fIm := q15.MulQ30(cRe, cIm, sRe, sIm)
		accRe += fRe
		accIm += fIm
	}

	return accRe, accIm
}
