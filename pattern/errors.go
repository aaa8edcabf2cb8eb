// SPDX-License-Identifier: MIT
// Package: wavecollapse/pattern
//
// errors.go: sentinel errors for the pattern package.
//
// Error policy:
//   • Only sentinel variables are exposed; callers branch with errors.Is.
//   • Context (offending index, value) is attached with %w at the call site.

package pattern

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyLibrary indicates that a library was built from zero patterns.
	ErrEmptyLibrary = errors.New("pattern: library must contain at least one pattern")

	// ErrInvalidFootprint indicates a footprint N smaller than 1.
	ErrInvalidFootprint = errors.New("pattern: footprint N must be ≥ 1")

	// ErrInvalidWeight indicates a weight that is zero, negative, NaN or infinite.
	ErrInvalidWeight = errors.New("pattern: weight must be a positive finite number")

	// ErrWeightsLength indicates replacement weights whose length differs from the library size.
	ErrWeightsLength = errors.New("pattern: replacement weights length mismatch")

	// ErrNilCompatible indicates a library built without a compatibility predicate.
	ErrNilCompatible = errors.New("pattern: compatibility predicate is nil")

	// ErrUnknownPattern indicates an ID or name outside the library.
	ErrUnknownPattern = errors.New("pattern: unknown pattern")

	// ErrDecode indicates a malformed library document.
	ErrDecode = errors.New("pattern: cannot decode library")
)

// errorf prefixes a sentinel with the operation that produced it.
func errorf(op string, sentinel error, format string, args ...any) error {
	return fmt.Errorf("%s: %s: %w", op, fmt.Sprintf(format, args...), sentinel)
}
