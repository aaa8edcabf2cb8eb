package collapse

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/katalvlaran/wavecollapse/history"
	"github.com/katalvlaran/wavecollapse/pattern"
	"golang.org/x/sync/errgroup"
)

// Sample is the final snapshot of one successful batch run.
type Sample struct {
	// Index is the position of the run in the batch, in [0, size).
	Index    int
	RunID    uuid.UUID
	Final    history.Element
	Attempts int
}

// BatchResult collects a batch in index order.
type BatchResult struct {
	Samples []Sample
	// Failed counts runs that exhausted their attempt budget.
	Failed int
}

// Batch runs size independent Runners on at most workers goroutines and keeps
// the final snapshot of every successful run.
//
// Each run gets its own RNG stream derived from the configured seed or RNG
// and the run index, so the samples do not depend on workers or scheduling.
// The library is shared read-only. A Recorder passed via WithRecorder is
// called concurrently.
//
// Errors: ErrInvalidConfig (wrapping the NewRunner sentinels) for bad
// arguments, ctx.Err() on cancellation.
func Batch(ctx context.Context, lib *pattern.Library, width, height, size, workers int, opts ...Option) (BatchResult, error) {
	const op = "Batch"
	if size < 1 {
		return BatchResult{}, fmt.Errorf("%s: size %d: %w", op, size, ErrInvalidConfig)
	}
	if workers < 1 {
		return BatchResult{}, fmt.Errorf("%s: workers %d: %w", op, workers, ErrInvalidConfig)
	}
	base, err := NewRunner(lib, width, height, opts...)
	if err != nil {
		return BatchResult{}, err
	}

	streams := sampleStreams(base.cfg.rng, size)
	runners := make([]*Runner, size)
	for i := range runners {
		rn := *base
		rn.cfg.rng = streams[i]
		runners[i] = &rn
	}

	results := make([]Result, size)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, rn := range runners {
		i, rn := i, rn
		g.Go(func() error {
			res, err := rn.Run(gctx)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BatchResult{}, err
	}

	var out BatchResult
	for i, res := range results {
		final, ok := res.History.Last()
		if !res.Succeeded || !ok {
			out.Failed++
			continue
		}
		out.Samples = append(out.Samples, Sample{
			Index:    i,
			RunID:    res.RunID,
			Final:    final,
			Attempts: res.Attempts,
		})
	}

	return out, nil
}

// sampleStreams draws one value from base per sample, in index order, and
// scrambles it with the index into that sample's seed. Drawing everything up
// front keeps the samples independent of goroutine scheduling.
func sampleStreams(base *rand.Rand, size int) []*rand.Rand {
	out := make([]*rand.Rand, size)
	for i := range out {
		out[i] = rand.New(rand.NewSource(sampleSeed(base.Int63(), i)))
	}

	return out
}

// sampleSeed mixes a base draw and a sample index with the SplitMix64
// finalizer, so neighbouring indices get unrelated seeds.
func sampleSeed(draw int64, index int) int64 {
	z := uint64(draw) + uint64(index+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb

	return int64(z ^ (z >> 31))
}
