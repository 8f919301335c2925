//go:build arm64 && !purego

// Package neon is a 4-wide unrolled convolution kernel selected for
// NEON-capable CPUs, algorithmically identical to the generic kernel
// (see avx2's TODO for the same caveat about an eventual assembly
// kernel).
package neon

import (
	"github.com/cwbudde/decimfir/internal/cpu"
	"github.com/cwbudde/decimfir/firdecim/internal/arch/registry"
	"github.com/cwbudde/decimfir/q15"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "neon",
		SIMDLevel: cpu.SIMDNEON,
		Priority:  15,
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
