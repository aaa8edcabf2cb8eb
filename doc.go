// Package wavecollapse is a Wave Function Collapse engine: it fills a
// width×height grid from a library of weighted tile patterns so that every
// cell holds exactly one pattern compatible with all of its neighbours.
//
// What is inside?
//
//	A constraint-propagation search with a weighted-entropy heuristic:
//		• Patterns: immutable library, stable integer IDs, cached agreement table
//		• Wave: per-cell superpositions as bitsets, Observe / Propagate (AC-3)
//		• History: immutable per-step snapshots for replay and rendering
//		• Collapse: seeding, bounded resampling, whole-attempt retry, statistics
//		• Batch: many independent runs on a worker pool, one RNG stream each
//
// Why this shape?
//
//   - Deterministic: every random choice flows from an explicit seed
//   - Contradiction is a result, not an error: callers decide what failure means
//   - Library packages never log and never panic; options panic on nil
//
// Layout:
//
//	pattern/   Pattern, Library, Rules, YAML Decode
//	grid/      geometry, row-major indexing, connected regions
//	wave/      the superposition grid and its search primitives
//	history/   Element snapshots and the append-only History
//	collapse/  Runner, Batch, options, Recorder
//	metrics/   Prometheus Recorder and textfile export
//	render/    lipgloss text rendering of snapshots
//	config/    viper-backed CLI configuration
//	cmd/wfc    the command-line tool
//
// Quick ASCII example (N=2 checkerboard, one seed fixes the grid):
//
//	#.#.
//	.#.#
//	#.#.
//
//	go install github.com/katalvlaran/wavecollapse/cmd/wfc@latest
package wavecollapse
