// Package collapse drives Wave Function Collapse attempts to a result.
//
// What:
//
//	A Runner owns one pattern library, a grid shape and an RNG. Each attempt
//	builds a fresh wave.Wave, seeds one uniformly random cell with the
//	heaviest pattern, then alternates Observe and Propagate until the wave is
//	collapsed or contradicted, capturing a history.Element after every
//	committed propagation. A contradicted attempt is discarded and retried up
//	to the attempt budget.
//
//	In backtrack mode an observation that the look-ahead predicts will
//	contradict is redrawn, at most ResampleLimit times per step, and then
//	propagated regardless. Earlier commitments are never undone.
//
//	Batch runs many Runners concurrently (errgroup) to build a dataset of
//	final snapshots, one independent RNG stream per run.
//
// Determinism:
//
//	Runs are reproducible from WithSeed or WithRand: the same seed yields the
//	same RunID, History and statistics. Batch output is independent of the
//	worker count.
//
// Errors:
//
//   - ErrInvalidConfig: rejected arguments, wrapped with the pattern, grid or
//     wave sentinel that names the cause.
//   - ctx.Err(): cancellation observed between attempts.
//
// Contradiction is never an error; see Result.Succeeded and Result.Contradictions.
//
// Logging:
//
//	The runner logs through log/slog (WithLogger, discarded by default):
//	Debug per contradicted attempt, Info once per run.
package collapse
