//go:build !amd64 && !arm64

package firdecim

// This file imports the generic kernel package for unsupported
// architectures.

import (
	_ "github.com/cwbudde/decimfir/firdecim/internal/arch/generic"
)
