// Package wave implements the mutable state of one wave-function-collapse
// attempt: a Width×Height grid of superpositions over a pattern library, and
// the search primitives that shrink them.
//
// 🚀 What is a Wave?
//
//	Every cell starts "fully superposed": any pattern of the library may end
//	up there. Observe picks the least uncertain open cell (minimum Shannon
//	entropy over pattern weights) and collapses it to one weighted-random
//	pattern. Propagation then removes, until a fixpoint, every candidate that
//	no longer has a compatible partner in some neighbouring cell.
//
// ✨ Guarantees:
//
//   - Superpositions never grow across committed propagations.
//   - IsCollapsed (all cells size 1) and Contradiction (some cell size 0)
//     are mutually exclusive.
//   - A contradicted wave is terminal: Observe and Propagate refuse it, while
//     the read-only projections keep working.
//   - Contradiction is an Outcome value, never an error or a panic.
//
// ⚙️ Usage:
//
//	w, err := wave.New(lib, 16, 16, rand.New(rand.NewSource(1)))
//	for !w.IsCollapsed() && !w.Contradiction() {
//		obs, _ := w.Observe()
//		if out, _ := w.PropagateByUpdatingSuperposition(obs); out == wave.Contradicted {
//			break
//		}
//	}
//
// Performance:
//
//   - Observe: O(W·H) scan plus O(P) sampling.
//   - Propagate: O(W·H·K·P·P/64) worst case, K = (2N−1)²−1 window offsets.
//   - CheckIfPropagateWithoutContradiction: the same plus an O(W·H·P/64) copy.
//
// Concurrency:
//
//   - A Wave is owned by one goroutine. Independent Waves over one shared
//     Library may run in parallel, each with its own *rand.Rand.
package wave
