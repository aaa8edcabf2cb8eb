// SPDX-License-Identifier: MIT
// Package: wavecollapse/collapse
//
// config.go: internal configuration and deterministic defaults.
//
// Deterministic defaults:
//   • backtrack     = false
//   • maxAttempts   = 200
//   • weights       = nil            (library weights)
//   • rng           = seed 1
//   • resampleLimit = ⌊P/4⌋          (resolved in NewRunner, needs P)
//   • logger        = discard
//   • recorder      = no-op

package collapse

import (
	"io"
	"log/slog"
	"math/rand"
)

// DefaultMaxAttempts is the attempt budget when WithMaxAttempts is not given.
const DefaultMaxAttempts = 200

// defaultSeed seeds runners configured without WithSeed or WithRand, and
// replaces an explicit seed of 0.
const defaultSeed int64 = 1

// seededRand returns the runner stream for seed.
func seededRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}

	return rand.New(rand.NewSource(seed))
}

// runnerConfig aggregates every Runner knob.
type runnerConfig struct {
	backtrack     bool
	maxAttempts   int
	weights       []float64
	rng           *rand.Rand
	resampleLimit int
	resampleSet   bool
	logger        *slog.Logger
	recorder      Recorder
}

// newRunnerConfig applies opts over the defaults; later options win.
func newRunnerConfig(opts ...Option) runnerConfig {
	cfg := runnerConfig{
		maxAttempts: DefaultMaxAttempts,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		recorder:    nopRecorder{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rng == nil {
		cfg.rng = seededRand(defaultSeed)
	}

	return cfg
}
