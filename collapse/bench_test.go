package collapse_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/wavecollapse/collapse"
)

// BenchmarkRun measures a full 4-colouring of a 32×32 grid with N=2.
func BenchmarkRun(b *testing.B) {
	lib := library(b, 2, coloring, 1, 1, 1, 1)
	r, err := collapse.NewRunner(lib, 32, 32, collapse.WithSeed(1))
	if err != nil {
		b.Fatalf("setup NewRunner failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.Run(context.Background()); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkBatch measures 16 runs of a 16×16 grid on 4 workers.
func BenchmarkBatch(b *testing.B) {
	lib := library(b, 2, coloring, 1, 1, 1, 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := collapse.Batch(context.Background(), lib, 16, 16, 16, 4, collapse.WithSeed(int64(i+1))); err != nil {
			b.Fatal(err)
		}
	}
}
