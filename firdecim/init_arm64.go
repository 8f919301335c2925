//go:build arm64

package firdecim

// This file imports arm64-specific kernel packages to trigger their
// init() functions, which register implementations with the arch registry.

import (
	// Generic implementation (pure Go fallback)
	_ "github.com/cwbudde/decimfir/firdecim/internal/arch/generic"

	// ARM64 implementation
	_ "github.com/cwbudde/decimfir/firdecim/internal/arch/arm64/neon"
)
