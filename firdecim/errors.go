package firdecim

import "errors"

// Errors returned by Filter methods. Matches spec.md §7's small, closed
// taxonomy: invalid-argument and busy are recoverable and returned here;
// drained is not an error (see Process); programming-error conditions
// (double-push of a held buffer, driving the engine with no active
// buffer) panic instead of returning an error, matching the original's
// assert-and-abort posture.
var (
	// ErrInvalidArgument is returned by New when the coefficient arrays or
	// decimation factor are malformed, by Push for a nil buffer, and by
	// Process when the requested output count or output slice is invalid.
	ErrInvalidArgument = errors.New("firdecim: invalid argument")

	// ErrBusy is returned by Push when both buffer slots are already
	// occupied. The pushed reference is not consumed; the caller still
	// owns it and may retry after draining via Process.
	ErrBusy = errors.New("firdecim: busy, both buffer slots occupied")
)
