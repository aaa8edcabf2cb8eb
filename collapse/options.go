// SPDX-License-Identifier: MIT
// Package: wavecollapse/collapse
//
// options.go: functional options for Runner and Batch.
//
// Contract:
//   • Options are functional (type Option func(*runnerConfig)).
//   • Constructors PANIC on nil arguments; range checks on numeric values
//     happen in NewRunner and surface as ErrInvalidConfig.
//   • Determinism is explicit: seeding is done via WithSeed or WithRand.

package collapse

import (
	"log/slog"
	"math/rand"
)

// Option customizes a Runner before its first attempt.
type Option func(*runnerConfig)

// WithBacktrack enables bounded resampling: an observation predicted to
// contradict is redrawn up to the resample limit before being propagated anyway.
func WithBacktrack(enabled bool) Option {
	return func(c *runnerConfig) {
		c.backtrack = enabled
	}
}

// WithMaxAttempts sets the whole-attempt budget. Must be ≥ 1.
func WithMaxAttempts(n int) Option {
	return func(c *runnerConfig) {
		c.maxAttempts = n
	}
}

// WithWeights replaces the library weights for this runner only. The slice is
// copied; its length must match the library and every value must be positive.
func WithWeights(weights []float64) Option {
	ws := append([]float64(nil), weights...)
	return func(c *runnerConfig) {
		c.weights = ws
	}
}

// WithSeed creates a new *rand.Rand with the given seed (deterministic).
// Seed 0 maps to the package default seed.
func WithSeed(seed int64) Option {
	return func(c *runnerConfig) {
		c.rng = seededRand(seed)
	}
}

// WithRand provides an explicit RNG. The Runner takes ownership of r;
// do not share it with other goroutines. Panics on nil.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("collapse: WithRand(nil)")
	}
	return func(c *runnerConfig) {
		c.rng = r
	}
}

// WithResampleLimit bounds the resamples per step in backtrack mode.
// Must be ≥ 0; the default is a quarter of the library size.
func WithResampleLimit(n int) Option {
	return func(c *runnerConfig) {
		c.resampleLimit = n
		c.resampleSet = true
	}
}

// WithLogger routes run diagnostics to l. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("collapse: WithLogger(nil)")
	}
	return func(c *runnerConfig) {
		c.logger = l
	}
}

// WithRecorder receives attempt and resample events. Panics on nil.
// A Recorder shared by Batch must be safe for concurrent use.
func WithRecorder(r Recorder) Option {
	if r == nil {
		panic("collapse: WithRecorder(nil)")
	}
	return func(c *runnerConfig) {
		c.recorder = r
	}
}
