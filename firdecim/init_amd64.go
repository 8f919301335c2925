//go:build amd64

package firdecim

// This file imports amd64-specific kernel packages to trigger their
// init() functions, which register implementations with the arch registry.

import (
	// Generic implementation (pure Go fallback)
	_ "github.com/cwbudde/decimfir/firdecim/internal/arch/generic"

	// AMD64 implementation
	_ "github.com/cwbudde/decimfir/firdecim/internal/arch/amd64/avx2"
)
