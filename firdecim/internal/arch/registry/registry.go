// Package registry holds the priority-ordered table of per-architecture
// convolution kernels that firdecim's engine selects from at startup.
//
// Mirrors the registration/lookup shape used for dispatching other
// per-architecture DSP kernels in this codebase: implementations self-
// register via an init() in a build-tagged package, and the highest-
// priority entry whose SIMD level the running CPU supports wins.
package registry

import (
	"sync"

	"github.com/cwbudde/decimfir/internal/cpu"
)

// TapBlockFn convolves `take` complex Q.15 samples from buf (interleaved,
// starting at sample index off) against coefficients coeffsRe/coeffsIm
// (starting at tap index startCoeff), accumulating into accRe/accIm (Q.30)
// and returning the updated accumulators. It is the inner loop of §4.4's
// convolution engine for a single contiguous buffer span.
type TapBlockFn func(buf []int16, off, take int, coeffsRe, coeffsIm []int16, startCoeff int, accRe, accIm int32) (int32, int32)

// OpEntry is one registered convolution kernel implementation.
type OpEntry struct {
	Name      string
	SIMDLevel cpu.SIMDLevel
	Priority  int
	TapBlock  TapBlockFn
}

// OpRegistry stores available implementations.
type OpRegistry struct {
	mu      sync.RWMutex
	entries []OpEntry
	sorted  bool
}

// Global is the default convolution kernel registry.
var Global = &OpRegistry{}

// Register adds an implementation entry.
func (r *OpRegistry) Register(entry OpEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	r.sorted = false
}

// Lookup returns the highest-priority implementation supported by features.
func (r *OpRegistry) Lookup(features cpu.Features) *OpEntry {
	r.mu.Lock()
	if !r.sorted {
		r.sortByPriority()
		r.sorted = true
	}
	r.mu.Unlock()

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.entries {
		entry := &r.entries[i]
		if cpu.Supports(features, entry.SIMDLevel) {
			return entry
		}
	}

	return nil
}

func (r *OpRegistry) sortByPriority() {
	for i := 1; i < len(r.entries); i++ {
		key := r.entries[i]
		j := i - 1
		for j >= 0 && r.entries[j].Priority < key.Priority {
			r.entries[j+1] = r.entries[j]
			j--
		}
		r.entries[j+1] = key
	}
}

// ListEntries returns a copy of entries for tests/debugging.
func (r *OpRegistry) ListEntries() []OpEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]OpEntry, len(r.entries))
	copy(entries, r.entries)
	return entries
}

// Reset clears all entries. Intended for tests.
func (r *OpRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
	r.sorted = false
}
