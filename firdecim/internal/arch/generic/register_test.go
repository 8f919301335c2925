package generic

import (
	"testing"

	"github.com/cwbudde/decimfir/firdecim/internal/arch/registry"
)

func TestSelfRegisters(t *testing.T) {
	found := false
	for _, e := range registry.Global.ListEntries() {
		if e.Name == "generic" {
			found = true
		}
	}
	if !found {
		t.Fatalf("generic kernel did not self-register")
	}
}

func TestTapBlockAccumulatesComplexProduct(t *testing.T) {
	coeffsRe := []int16{16384, 16384}
	coeffsIm := []int16{0, 0}
	buf := []int16{4, 0, 8, 0}

	gotRe, gotIm := tapBlock(buf, 0, 2, coeffsRe, coeffsIm, 0, 0, 0)

	wantRe := int32(16384)*4 + int32(16384)*8
	if gotRe != wantRe {
		t.Fatalf("re: got %d, want %d", gotRe, wantRe)
	}
	if gotIm != 0 {
		t.Fatalf("im: got %d, want 0", gotIm)
	}
}

func TestTapBlockStartCoeffOffset(t *testing.T) {
	coeffsRe := []int16{100, 200, 300}
	coeffsIm := []int16{0, 0, 0}
	buf := []int16{5, 0}

	gotRe, _ := tapBlock(buf, 0, 1, coeffsRe, coeffsIm, 2, 0, 0)

	wantRe := int32(300) * 5
	if gotRe != wantRe {
		t.Fatalf("got %d, want %d", gotRe, wantRe)
	}
}
