// Package history records snapshots of a wave while it collapses.
//
// What:
//
//   - Element is an immutable projection of a wave at one step: which cells
//     are collapsed (with their content), which are still open, which have
//     contradicted, plus per-cell candidate counts and resolved labels.
//   - History is an append-only, ordered list of Elements for one attempt.
//
// Why:
//
//   - Callers that animate a collapse, or that keep only the final frame of
//     many runs, need snapshots that stay valid after the wave moves on.
//     Capture copies everything it reads; an Element never aliases the wave.
//
// Complexity:
//
//   - Capture: O(W·H + P) time and space.
//   - Append/At/Len/Last: O(1). Elements: O(len).
//
// History is not safe for concurrent mutation.
package history
