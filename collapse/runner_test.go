package collapse_test

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"sync/atomic"
	"testing"

	"github.com/katalvlaran/wavecollapse/collapse"
	"github.com/katalvlaran/wavecollapse/grid"
	"github.com/katalvlaran/wavecollapse/pattern"
	"github.com/katalvlaran/wavecollapse/wave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//----------------------------------------------------------------------------//
// Fixtures
//----------------------------------------------------------------------------//

func library(t testing.TB, n int, compat pattern.CompatibleFunc, weights ...float64) *pattern.Library {
	t.Helper()
	ps := make([]pattern.Pattern, len(weights))
	for i, w := range weights {
		ps[i] = pattern.Pattern{Name: string(rune('A' + i)), Weight: w, Content: string(rune('a' + i))}
	}
	lib, err := pattern.NewLibrary(n, ps, compat)
	require.NoError(t, err)

	return lib
}

// coloring: orthogonal neighbours differ, diagonals are free.
func coloring(a, b pattern.ID, dx, dy int) bool {
	if dx*dx+dy*dy == 1 {
		return a != b
	}
	return true
}

// allDiffer forbids equal neighbours in every direction; with three
// patterns and N=2 a 2×2 grid is a 3-colouring of K4 and never succeeds,
// yet the seed alone leaves every domain arc-consistent.
func allDiffer(a, b pattern.ID, _, _ int) bool { return a != b }

// counter is a concurrency-safe Recorder.
type counter struct {
	started, finished, contradicted, resampled atomic.Int64
}

func (c *counter) AttemptStarted() { c.started.Add(1) }

func (c *counter) AttemptFinished(o wave.Outcome, _ int) {
	c.finished.Add(1)
	if o == wave.Contradicted {
		c.contradicted.Add(1)
	}
}

func (c *counter) Resampled() { c.resampled.Add(1) }

//----------------------------------------------------------------------------//
// Validation
//----------------------------------------------------------------------------//

// TestNewRunner_Validation: every bad argument fails before any attempt.
func TestNewRunner_Validation(t *testing.T) {
	lib := library(t, 2, pattern.AllCompatible, 1, 2)
	cases := []struct {
		name   string
		lib    *pattern.Library
		w, h   int
		opts   []collapse.Option
		target error
	}{
		{"NilLibrary", nil, 3, 3, nil, pattern.ErrEmptyLibrary},
		{"ZeroWidth", lib, 0, 3, nil, grid.ErrEmptyGrid},
		{"NegativeHeight", lib, 3, -1, nil, grid.ErrEmptyGrid},
		{"Footprint", lib, 1, 3, nil, wave.ErrFootprint},
		{"WeightsLength", lib, 3, 3, []collapse.Option{collapse.WithWeights([]float64{1})}, pattern.ErrWeightsLength},
		{"WeightsZero", lib, 3, 3, []collapse.Option{collapse.WithWeights([]float64{1, 0})}, pattern.ErrInvalidWeight},
		{"MaxAttempts", lib, 3, 3, []collapse.Option{collapse.WithMaxAttempts(0)}, collapse.ErrInvalidConfig},
		{"ResampleLimit", lib, 3, 3, []collapse.Option{collapse.WithResampleLimit(-1)}, collapse.ErrInvalidConfig},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &counter{}
			opts := append(tc.opts, collapse.WithRecorder(rec))
			_, err := collapse.NewRunner(tc.lib, tc.w, tc.h, opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, collapse.ErrInvalidConfig)
			assert.ErrorIs(t, err, tc.target)
			assert.Zero(t, rec.started.Load())
		})
	}
}

// TestOptions_PanicOnNil: option constructors reject nil collaborators.
func TestOptions_PanicOnNil(t *testing.T) {
	assert.Panics(t, func() { collapse.WithRand(nil) })
	assert.Panics(t, func() { collapse.WithLogger(nil) })
	assert.Panics(t, func() { collapse.WithRecorder(nil) })
}

//----------------------------------------------------------------------------//
// Run
//----------------------------------------------------------------------------//

// TestRun_AllCompatible collapses W×H cells in exactly W·H steps, seed included.
func TestRun_AllCompatible(t *testing.T) {
	const w, h = 5, 4
	r, err := collapse.NewRunner(library(t, 1, pattern.AllCompatible, 1, 1, 2), w, h, collapse.WithSeed(3))
	require.NoError(t, err)

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Succeeded)
	assert.Equal(t, 1, res.Attempts)
	assert.Zero(t, res.Contradictions)
	assert.Zero(t, res.AverageFailedSteps)
	assert.Equal(t, w*h, res.Steps)
	assert.Equal(t, w*h, res.History.Len(), "one snapshot per propagation step")

	for i, e := range res.History.Elements() {
		assert.Equal(t, i+1, e.Step)
		assert.Len(t, e.Collapsed, i+1, "each step resolves exactly one cell")
	}
	last, ok := res.History.Last()
	require.True(t, ok)
	assert.True(t, last.IsCollapsed())
	assert.Equal(t, last.Counts, res.PatternCounts)
}

// TestRun_NoneCompatible: every attempt contradicts at the seed and the
// history is discarded instead of returned partially.
func TestRun_NoneCompatible(t *testing.T) {
	rec := &counter{}
	r, err := collapse.NewRunner(library(t, 2, pattern.NoneCompatible, 1, 1), 3, 3,
		collapse.WithMaxAttempts(5), collapse.WithRecorder(rec))
	require.NoError(t, err)

	res, err := r.Run(context.Background())
	require.NoError(t, err, "exhausting the budget is not an error")
	assert.False(t, res.Succeeded)
	assert.Equal(t, 5, res.Attempts)
	assert.Equal(t, 5, res.Contradictions)
	assert.Equal(t, 0, res.History.Len())
	require.Len(t, res.PatternCounts, 2)
	assert.Equal(t, 1, res.PatternCounts[0]+res.PatternCounts[1],
		"the last attempt resolved only its seed cell")
	assert.Zero(t, res.AverageFailedSteps)
	assert.EqualValues(t, 5, rec.started.Load())
	assert.EqualValues(t, 5, rec.contradicted.Load())
}

// TestRun_ExtremeWeights: weights whose sum overflows float64 still collapse.
func TestRun_ExtremeWeights(t *testing.T) {
	cases := []struct {
		name    string
		weights []float64
		want    []int
	}{
		{"BothMax", []float64{math.MaxFloat64, math.MaxFloat64}, nil},
		{"MaxAndTiny", []float64{math.MaxFloat64, math.SmallestNonzeroFloat64}, []int{9, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := collapse.NewRunner(library(t, 1, pattern.AllCompatible, tc.weights...), 3, 3)
			require.NoError(t, err)

			var res collapse.Result
			require.NotPanics(t, func() { res, err = r.Run(context.Background()) })
			require.NoError(t, err)
			assert.True(t, res.Succeeded)
			assert.Equal(t, 9, res.Steps)
			assert.Equal(t, 9, res.PatternCounts[0]+res.PatternCounts[1])
			if tc.want != nil {
				assert.Equal(t, tc.want, res.PatternCounts, "a relatively negligible weight is never drawn")
			}
		})
	}
}

// TestRun_AverageFailedSteps counts the committed steps of failed attempts.
func TestRun_AverageFailedSteps(t *testing.T) {
	r, err := collapse.NewRunner(library(t, 2, allDiffer, 1, 1, 1), 2, 2, collapse.WithMaxAttempts(4))
	require.NoError(t, err)

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Succeeded)
	assert.Equal(t, 4, res.Contradictions)
	assert.Equal(t, 1.0, res.AverageFailedSteps, "only the seed step commits")
}

// TestRun_Backtrack: a doomed observation is resampled up to the limit and
// then propagated regardless.
func TestRun_Backtrack(t *testing.T) {
	rec := &counter{}
	r, err := collapse.NewRunner(library(t, 2, allDiffer, 1, 1, 1), 2, 2,
		collapse.WithBacktrack(true),
		collapse.WithResampleLimit(3),
		collapse.WithMaxAttempts(2),
		collapse.WithRecorder(rec))
	require.NoError(t, err)

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Succeeded)
	assert.Equal(t, 2, res.Contradictions)
	assert.EqualValues(t, 6, rec.resampled.Load())
	assert.EqualValues(t, 2, rec.finished.Load())
}

// TestRun_BacktrackDefaultLimit: ⌊3/4⌋ = 0 resamples.
func TestRun_BacktrackDefaultLimit(t *testing.T) {
	rec := &counter{}
	r, err := collapse.NewRunner(library(t, 2, allDiffer, 1, 1, 1), 2, 2,
		collapse.WithBacktrack(true), collapse.WithMaxAttempts(3), collapse.WithRecorder(rec))
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, rec.resampled.Load())
}

// TestRun_HistoryMatchesSteps on a constrained library with retries.
func TestRun_HistoryMatchesSteps(t *testing.T) {
	for _, backtrack := range []bool{false, true} {
		r, err := collapse.NewRunner(library(t, 2, coloring, 1, 1, 1, 1), 6, 6,
			collapse.WithSeed(17), collapse.WithBacktrack(backtrack))
		require.NoError(t, err)

		res, err := r.Run(context.Background())
		require.NoError(t, err)
		require.True(t, res.Succeeded, "backtrack=%v", backtrack)
		assert.Equal(t, res.Steps, res.History.Len())
		assert.Equal(t, res.Attempts, res.Contradictions+1)

		total := 0
		for _, c := range res.PatternCounts {
			total += c
		}
		assert.Equal(t, 36, total)

		last, _ := res.History.Last()
		for y, row := range last.Labels {
			for x, l := range row {
				if x+1 < 6 {
					assert.NotEqual(t, l, row[x+1], "(%d,%d) right", x, y)
				}
				if y+1 < 6 {
					assert.NotEqual(t, l, last.Labels[y+1][x], "(%d,%d) down", x, y)
				}
			}
		}
	}
}

// TestRun_WeightRatio: free 1×1 patterns of weight 3 and 1 are drawn 3:1.
func TestRun_WeightRatio(t *testing.T) {
	r, err := collapse.NewRunner(library(t, 1, pattern.AllCompatible, 3, 1), 2, 2, collapse.WithSeed(2024))
	require.NoError(t, err)

	var a, b int
	for i := 0; i < 2000; i++ {
		res, err := r.Run(context.Background())
		require.NoError(t, err)
		// The seed cell is always the heaviest pattern; count observed cells only.
		a += res.PatternCounts[0] - 1
		b += res.PatternCounts[1]
	}
	frac := float64(a) / float64(a+b)
	assert.InDelta(t, 0.75, frac, 0.03, "A=%d B=%d", a, b)
}

// TestRun_ReplacementWeights: the seed follows the replaced heaviest pattern.
func TestRun_ReplacementWeights(t *testing.T) {
	lib := library(t, 1, pattern.AllCompatible, 3, 1)
	for _, tc := range []struct {
		weights []float64
		want    []int
	}{
		{nil, []int{1, 0}},
		{[]float64{1, 5}, []int{0, 1}},
	} {
		var opts []collapse.Option
		if tc.weights != nil {
			opts = append(opts, collapse.WithWeights(tc.weights))
		}
		r, err := collapse.NewRunner(lib, 1, 1, opts...)
		require.NoError(t, err)

		res, err := r.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, res.Steps)
		assert.Equal(t, tc.want, res.PatternCounts)
	}
	assert.Equal(t, []float64{3, 1}, lib.Weights(), "library is not mutated")
}

// TestRun_Deterministic: same seed, same run id and history.
func TestRun_Deterministic(t *testing.T) {
	lib := library(t, 2, coloring, 1, 2, 3)
	run := func(seed int64) collapse.Result {
		r, err := collapse.NewRunner(lib, 5, 5, collapse.WithSeed(seed))
		require.NoError(t, err)
		res, err := r.Run(context.Background())
		require.NoError(t, err)
		return res
	}

	a, b := run(42), run(42)
	assert.Equal(t, a.RunID, b.RunID)
	assert.Equal(t, a.History.Elements(), b.History.Elements())
	assert.Equal(t, a.Attempts, b.Attempts)
	assert.NotEqual(t, a.RunID, run(43).RunID)
}

// TestRun_Cancelled: a cancelled context stops before the next attempt.
func TestRun_Cancelled(t *testing.T) {
	r, err := collapse.NewRunner(library(t, 1, pattern.AllCompatible, 1, 1), 2, 2)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, res.Attempts)
	assert.False(t, res.Succeeded)
}

// TestRun_Logging: contradictions at Debug, the summary at Info.
func TestRun_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r, err := collapse.NewRunner(library(t, 2, allDiffer, 1, 1, 1), 2, 2,
		collapse.WithMaxAttempts(1), collapse.WithLogger(logger))
	require.NoError(t, err)

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, `"msg":"attempt contradicted"`)
	assert.Contains(t, out, `"msg":"run finished"`)
	assert.Contains(t, out, res.RunID.String())
}
