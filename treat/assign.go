package treat

import (
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/manmartgarc/stochatreat/table"
)

// Assign runs stratified block random assignment over the population in tbl
// and returns one assignment per (sampled) unit.
//
// Pipeline:
//  1. Validate options and table; no randomness is consumed on failure.
//  2. Partition rows into strata by their composite stratum value.
//  3. Draw a proportional stratified subsample when SampleSize asks for one.
//  4. Run permuted block assignment inside each stratum.
//  5. Resolve leftover units per the misfit strategy.
//  6. Assemble the result in input row order.
//
// Contract:
//   - tbl is non-nil, has at least two rows, and contains every column
//     named by opts; id values are non-empty and unique.
//   - Equal inputs and equal seeds produce identical results, whatever
//     opts.Parallelism says: every stratum draws from its own sub-stream
//     derived from (seed, phase, stratum key) alone.
//
// Complexity: O(n log n) time for n table rows (the final order restoring
// sort dominates), O(n) extra space.
func Assign(tbl table.Table, opts Options) (*Result, error) {
	ids, sch, err := validateAll(tbl, opts)
	if err != nil {
		return nil, err
	}

	strata, err := partition(tbl, opts.StratumCols)
	if err != nil {
		return nil, err
	}

	// SampleSize == tbl.Len() keeps the whole population and, like
	// SampleSize == 0, consumes no sampling draws.
	if total := tbl.Len(); opts.SampleSize > 0 && opts.SampleSize < total {
		strata = sampleStrata(strata, total, opts.SampleSize, opts.Seed)
	}

	outcomes := make([]stratumOutcome, len(strata))
	if opts.Parallelism > 1 {
		g := new(errgroup.Group)
		g.SetLimit(opts.Parallelism)
		for i, st := range strata {
			g.Go(func() error {
				outcomes[i] = assignStratum(st, sch, opts.Seed)
				return nil
			})
		}
		_ = g.Wait() // workers write disjoint slots and never fail
	} else {
		for i, st := range strata {
			outcomes[i] = assignStratum(st, sch, opts.Seed)
		}
	}

	units := 0
	for _, st := range strata {
		units += len(st.members)
	}
	labels := make([]rowLabel, 0, units)
	misfitCount := 0
	for _, out := range outcomes {
		labels = append(labels, out.assigned...)
		misfitCount += len(out.misfits)
	}
	labels = append(labels, resolveMisfits(opts.MisfitStrategy, outcomes, strata, sch, opts.Seed)...)

	sort.Slice(labels, func(a, b int) bool { return labels[a].row < labels[b].row })

	assignments := make([]Assignment, len(labels))
	for i, l := range labels {
		assignments[i] = Assignment{ID: ids[l.row], StratumID: l.stratum, Treatment: l.label}
	}

	return &Result{
		Assignments: assignments,
		BlockSize:   sch.BlockSize(),
		StrataCount: len(strata),
		MisfitCount: misfitCount,
		idCol:       opts.IDCol,
	}, nil
}
