// Package generic is the portable, always-available convolution kernel:
// one complex Q.15 x Q.15 -> Q.30 multiply-accumulate per sample, no
// assumptions about vector width.
package generic

import (
	"github.com/cwbudde/decimfir/internal/cpu"
	"github.com/cwbudde/decimfir/firdecim/internal/arch/registry"
	"github.com/cwbudde/decimfir/q15"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "generic",
		SIMDLevel: cpu.SIMDNone,
		Priority:  0,
		TapBlock:  tapBlock,
	})
}

func tapBlock(buf []int16, off, take int, coeffsRe, coeffsIm []int16, startCoeff int, accRe, accIm int32) (int32, int32) {
	for i := 0; i < take; i++ {
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
