package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	algofft "github.com/cwbudde/algo-fft"
)

// runTaps prints the magnitude response of the low-pass design iqdecim
// would build for the given tap count and cutoff, computed via a
// zero-padded FFT of the quantized Q.15 taps. Intended to let a caller
// sanity-check a filter before running it against real capture data.
func runTaps(args []string) {
	fs := flag.NewFlagSet("taps", flag.ExitOnError)
	n := fs.Int("n", 63, "number of FIR taps")
	cutoff := fs.Float64("cutoff", 0.5, "low-pass cutoff as a fraction of Nyquist, in (0,1)")
	fftSize := fs.Int("fft-size", 1024, "FFT size for the response plot, must be a power of 2")
	bins := fs.Int("bins", 16, "number of response bins to print, evenly spaced over [0, Nyquist)")
	fs.Parse(args)

	if !isPowerOf2(*fftSize) {
		fmt.Fprintf(os.Stderr, "error: -fft-size must be a power of 2, got %d\n", *fftSize)
		os.Exit(2)
	}

	coeffsRe, _ := designLowPass(*n, *cutoff)

	padded := make([]complex128, *fftSize)
	for i, c := range coeffsRe {
		padded[i] = complex(float64(c)/float64(int32(1)<<15), 0)
	}

	plan, err := algofft.NewPlan64(*fftSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: building FFT plan: %v\n", err)
		os.Exit(1)
	}

	spectrum := make([]complex128, *fftSize)
	if err := plan.Forward(spectrum, padded); err != nil {
		fmt.Fprintf(os.Stderr, "error: FFT: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-12s %-12s %-12s\n", "Freq/Nyquist", "Magnitude", "dB")
	step := (*fftSize / 2) / *bins
	if step < 1 {
		step = 1
	}
	for bin := 0; bin < *fftSize/2; bin += step {
		mag := cAbs(spectrum[bin])
		db := 20 * math.Log10(math.Max(mag, 1e-12))
		freq := float64(bin) / float64(*fftSize/2)
		fmt.Printf("%-12.4f %-12.6f %-12.2f\n", freq, mag, db)
	}
}

func cAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

func isPowerOf2(n int) bool {
	return n > 0 && n&(n-1) == 0
}
