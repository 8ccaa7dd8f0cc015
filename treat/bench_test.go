package treat_test

import (
	"fmt"
	"testing"

	"github.com/manmartgarc/stochatreat/table"
	"github.com/manmartgarc/stochatreat/treat"
)

// benchPopulation builds an n-row population cycling through k categories.
func benchPopulation(b *testing.B, n, k int) *table.MemTable {
	b.Helper()
	tbl, err := table.New([]string{"id", "group"}, nil)
	if err != nil {
		b.Fatalf("table.New failed: %v", err)
	}
	for i := 0; i < n; i++ {
		if err = tbl.AppendRow(fmt.Sprintf("unit-%06d", i), fmt.Sprintf("g%03d", i%k)); err != nil {
			b.Fatalf("AppendRow failed: %v", err)
		}
	}

	return tbl
}

// BenchmarkAssign_FewLargeStrata measures assignment over 10k units split
// into 5 strata of 2000.
func BenchmarkAssign_FewLargeStrata(b *testing.B) {
	tbl := benchPopulation(b, 10_000, 5)
	opts := treat.DefaultOptions()
	opts.StratumCols = []string{"group"}
	opts.Seed = 42

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = treat.Assign(tbl, opts)
	}
}

// BenchmarkAssign_ManySmallStrata measures assignment over 10k units split
// into 500 strata of 20, the misfit-heavy regime.
func BenchmarkAssign_ManySmallStrata(b *testing.B) {
	tbl := benchPopulation(b, 10_000, 500)
	opts := treat.DefaultOptions()
	opts.StratumCols = []string{"group"}
	opts.Seed = 42
	opts.Probs = []float64{0.3, 0.7}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = treat.Assign(tbl, opts)
	}
}

// BenchmarkAssign_Parallelism compares the sequential stratum loop against
// the bounded concurrent one on 50k units in 100 strata.
func BenchmarkAssign_Parallelism(b *testing.B) {
	tbl := benchPopulation(b, 50_000, 100)
	opts := treat.DefaultOptions()
	opts.StratumCols = []string{"group"}
	opts.Seed = 42

	b.Run("Sequential", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = treat.Assign(tbl, opts)
		}
	})

	b.Run("Workers8", func(b *testing.B) {
		par := opts
		par.Parallelism = 8

		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = treat.Assign(tbl, par)
		}
	})
}

// BenchmarkAssign_Sampled measures the sampling path: keep half of 10k
// units, then assign.
func BenchmarkAssign_Sampled(b *testing.B) {
	tbl := benchPopulation(b, 10_000, 50)
	opts := treat.DefaultOptions()
	opts.StratumCols = []string{"group"}
	opts.Seed = 42
	opts.SampleSize = 5_000

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = treat.Assign(tbl, opts)
	}
}
