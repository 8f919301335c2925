// Package q15 provides fixed-point complex arithmetic primitives for
// Q.15 (15 fractional bits in a signed 16-bit word) and Q.30 (the natural
// product of two Q.15 values, in a signed 32-bit accumulator).
//
// These are the scalar building blocks a decimating complex FIR engine
// multiplies and accumulates with; the package has no notion of filters,
// taps, or sample streams.
package q15
