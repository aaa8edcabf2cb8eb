// SPDX-License-Identifier: MIT
// Package: wavecollapse/collapse
//
// errors.go: sentinel errors for the orchestrator.
//
// Policy:
//   • Runner construction fails fast with ErrInvalidConfig wrapped together
//     with the more specific sentinel of the offending package
//     (pattern, grid, wave), so callers may branch on either.
//   • A run that exhausts its attempt budget is NOT an error; see Result.
//   • Cancellation surfaces ctx.Err() unchanged.

package collapse

import "errors"

// ErrInvalidConfig indicates runner or batch arguments rejected before any attempt.
var ErrInvalidConfig = errors.New("collapse: invalid configuration")
