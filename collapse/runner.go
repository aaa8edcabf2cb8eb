package collapse

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"
	"github.com/katalvlaran/wavecollapse/grid"
	"github.com/katalvlaran/wavecollapse/history"
	"github.com/katalvlaran/wavecollapse/pattern"
	"github.com/katalvlaran/wavecollapse/wave"
)

// Result summarizes one Run.
type Result struct {
	// RunID identifies the run; it is drawn from the run's RNG, so seeded
	// runs get reproducible ids.
	RunID uuid.UUID
	// History holds one snapshot per propagation step of the successful
	// attempt, seed included. It is empty when every attempt failed.
	History *history.History
	// Succeeded reports whether some attempt collapsed the whole grid.
	Succeeded bool
	// Attempts is the number of attempts started.
	Attempts int
	// Contradictions is the number of attempts that ended contradicted.
	Contradictions int
	// AverageFailedSteps is the mean number of committed propagation steps
	// over the contradicted attempts (0 if there were none).
	AverageFailedSteps float64
	// Steps is the number of propagation steps of the successful attempt.
	Steps int
	// PatternCounts is the collapse histogram of the last attempt, indexed
	// by pattern ID. For a failed run it counts the cells that attempt had
	// resolved before contradicting.
	PatternCounts []int
}

// Runner drives WFC attempts over one library and grid shape.
// A Runner is not safe for concurrent use; Batch builds one per sample.
type Runner struct {
	lib           *pattern.Library
	width, height int
	cfg           runnerConfig
}

// NewRunner validates every argument before any attempt can start.
//
// Errors (all wrapped with ErrInvalidConfig):
//   - pattern.ErrEmptyLibrary: lib is nil.
//   - grid.ErrEmptyGrid: width or height below 1.
//   - wave.ErrFootprint: lib.N() exceeds width or height.
//   - pattern.ErrWeightsLength, pattern.ErrInvalidWeight: bad WithWeights.
//   - max attempts below 1 or negative resample limit.
func NewRunner(lib *pattern.Library, width, height int, opts ...Option) (*Runner, error) {
	const op = "NewRunner"
	if lib == nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidConfig, pattern.ErrEmptyLibrary)
	}
	if _, err := grid.New(width, height); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidConfig, err)
	}
	if lib.N() > width || lib.N() > height {
		return nil, fmt.Errorf("%s: N=%d on %d×%d: %w: %w", op, lib.N(), width, height, ErrInvalidConfig, wave.ErrFootprint)
	}

	cfg := newRunnerConfig(opts...)
	if cfg.weights != nil {
		weighted, err := lib.WithWeights(cfg.weights)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidConfig, err)
		}
		lib = weighted
	}
	if cfg.maxAttempts < 1 {
		return nil, fmt.Errorf("%s: max attempts %d: %w", op, cfg.maxAttempts, ErrInvalidConfig)
	}
	if !cfg.resampleSet {
		cfg.resampleLimit = lib.Len() / 4
	}
	if cfg.resampleLimit < 0 {
		return nil, fmt.Errorf("%s: resample limit %d: %w", op, cfg.resampleLimit, ErrInvalidConfig)
	}

	return &Runner{lib: lib, width: width, height: height, cfg: cfg}, nil
}

// Library returns the library the runner collapses with, replacement weights applied.
func (r *Runner) Library() *pattern.Library { return r.lib }

// Run performs attempts until one collapses the grid or the budget is spent.
//
// ctx is checked only between attempts; an attempt always runs to collapse or
// contradiction. On cancellation Run returns the statistics gathered so far
// together with ctx.Err(). Exhausting the budget is not an error: the result
// has Succeeded == false and an empty History.
//
// Consecutive calls continue the runner's random stream.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	id, err := uuid.NewRandomFromReader(r.cfg.rng)
	if err != nil {
		return Result{}, fmt.Errorf("Run: run id: %w", err)
	}
	res := Result{
		RunID:         id,
		History:       history.New(),
		PatternCounts: make([]int, r.lib.Len()),
	}
	log := r.cfg.logger.With(slog.String("run_id", id.String()))
	failedSteps := 0

	for res.Attempts < r.cfg.maxAttempts {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Attempts++
		r.cfg.recorder.AttemptStarted()

		w, outcome, err := r.attempt(res.History)
		if err != nil {
			return res, err
		}
		res.PatternCounts = w.CollapsedCounts()
		steps := w.Propagations()
		if outcome == wave.Contradicted {
			// The failing propagation does not count as a step.
			steps--
		}
		r.cfg.recorder.AttemptFinished(outcome, steps)

		if outcome == wave.Contradicted {
			res.Contradictions++
			failedSteps += steps
			res.AverageFailedSteps = float64(failedSteps) / float64(res.Contradictions)
			res.History.Clear()
			log.Debug("attempt contradicted",
				slog.Int("attempt", res.Attempts),
				slog.Int("step", steps),
				slog.Float64("collapsed_fraction", collapsedFraction(w)))
			continue
		}

		res.Succeeded = true
		res.Steps = steps
		break
	}

	log.Info("run finished",
		slog.Bool("succeeded", res.Succeeded),
		slog.Int("attempts", res.Attempts),
		slog.Int("steps", res.Steps),
		slog.Float64("average_failed_steps", res.AverageFailedSteps))

	return res, nil
}

// attempt runs one fresh wave to collapse or contradiction, appending a
// snapshot to hist after every committed propagation.
func (r *Runner) attempt(hist *history.History) (*wave.Wave, wave.Outcome, error) {
	rng := r.cfg.rng
	w, err := wave.New(r.lib, r.width, r.height, rng)
	if err != nil {
		return nil, wave.Contradicted, err
	}

	out, err := w.PropagateByUpdatingSuperposition(r.seed(rng))
	if err != nil {
		return w, out, err
	}
	if out == wave.Contradicted {
		return w, out, nil
	}
	hist.Append(history.Capture(w, w.Propagations()))

	for !w.IsCollapsed() && !w.Contradiction() {
		obs, err := w.Observe()
		if err != nil {
			return w, wave.Contradicted, err
		}
		if r.cfg.backtrack {
			for tries := 0; tries < r.cfg.resampleLimit && !w.CheckIfPropagateWithoutContradiction(obs); tries++ {
				if obs, err = w.Observe(); err != nil {
					return w, wave.Contradicted, err
				}
				r.cfg.recorder.Resampled()
			}
		}

		out, err = w.PropagateByUpdatingSuperposition(obs)
		if err != nil {
			return w, out, err
		}
		if out == wave.Contradicted {
			return w, out, nil
		}
		hist.Append(history.Capture(w, w.Propagations()))
	}

	return w, wave.Propagated, nil
}

// seed picks a uniform random cell and the heaviest pattern, ties drawn uniformly.
func (r *Runner) seed(rng *rand.Rand) wave.Observation {
	x := rng.Intn(r.width)
	y := rng.Intn(r.height)
	heaviest := r.lib.HeaviestIDs()
	id := heaviest[0]
	if len(heaviest) > 1 {
		id = heaviest[rng.Intn(len(heaviest))]
	}

	return wave.Observation{X: x, Y: y, Pattern: id}
}

func collapsedFraction(w *wave.Wave) float64 {
	n := 0
	for _, row := range w.PossibleCounts() {
		for _, c := range row {
			if c == 1 {
				n++
			}
		}
	}

	return float64(n) / float64(w.Width()*w.Height())
}
