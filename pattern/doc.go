// Package pattern holds the immutable pattern library consumed by the
// wave-function-collapse engine.
//
// What:
//
//   - Pattern: a tile with a stable integer ID, a positive relative Weight and
//     an opaque Content payload used only by renderers.
//   - Library: an ordered, read-only set of patterns sharing one footprint N,
//     plus an agreement table precomputed from the offset-compatibility predicate.
//   - Rules: an allow-list builder producing a CompatibleFunc.
//   - Bitset: the compact set of pattern IDs used for cell superpositions.
//
// Why:
//
//   - IDs are assigned once at construction; every lookup and comparison is by
//     ID, never by pattern instance.
//   - The agreement table turns the per-pair predicate into word-wide bit
//     operations, so propagation never calls the predicate in the hot loop.
//
// Complexity:
//
//   - NewLibrary: O(P²·(2N−1)²) predicate calls, Memory: O(P²·(2N−1)²/64) words.
//   - WithWeights: O(P), shares the agreement table.
//
// Concurrency:
//
//   - A *Library is never mutated after construction and may be shared by any
//     number of goroutines and Waves without locking.
//
// Errors:
//
//   - ErrEmptyLibrary: no patterns supplied.
//   - ErrInvalidFootprint: N < 1.
//   - ErrInvalidWeight: a weight is not a positive finite number.
//   - ErrWeightsLength: replacement weights do not match the library size.
//   - ErrNilCompatible: no compatibility predicate supplied.
//   - ErrUnknownPattern: an ID or name does not belong to the library.
//   - ErrDecode: a library document could not be parsed.
package pattern
