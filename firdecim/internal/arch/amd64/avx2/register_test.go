//go:build amd64 && !purego

package avx2

import (
	"testing"

	"github.com/cwbudde/decimfir/q15"
)

func TestTapBlockMatchesScalarReference(t *testing.T) {
	coeffsRe := []int16{1000, -2000, 3000, -4000, 5000, -6000, 7000, -8000}
	coeffsIm := []int16{500, 0, -1500, 2000, 0, -2500, 3000, -3500}
	buf := []int16{
		10, 20, 30, 40, 50, 60, 70, 80,
		90, 100, 110, 120, 130, 140, 150, 160,
	}

	for _, take := range []int{4, 7, 8} {
		gotRe, gotIm := tapBlock(buf, 0, take, coeffsRe, coeffsIm, 0, 0, 0)
		wantRe, wantIm := refTapBlock(buf, 0, take, coeffsRe, coeffsIm, 0)

		if gotRe != wantRe || gotIm != wantIm {
			t.Fatalf("take=%d: got (%d,%d), want (%d,%d)", take, gotRe, gotIm, wantRe, wantIm)
		}
	}
}

func refTapBlock(buf []int16, off, take int, coeffsRe, coeffsIm []int16, startCoeff int) (int32, int32) {
	var accRe, accIm int32
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
