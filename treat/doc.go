// Package treat performs stratified random assignment of treatment labels
// to a population of units, preserving target treatment proportions as
// closely as possible within each stratum and resolving the leftover units
// ("misfits") deterministically.
//
// 🚀 What is treat?
//
//	The randomization core of an experimental-design pipeline (randomized
//	controlled trials, A/B/n tests). Units are grouped into strata by one
//	or more stratification columns; within every stratum the largest
//	sub-population that divides in exact integer proportion to the target
//	probabilities is assigned in randomly permuted balanced blocks; the
//	remainder is resolved by a configurable misfit strategy.
//
// ✨ Key properties:
//   - Exact proportions on complete blocks: with block size D and stratum
//     size n, label i receives exactly floor(n/D)·round(pᵢ·D) units among
//     the block-assignable set - no rounding drift, independent of the seed.
//   - Reproducible: one user seed; every stratum draws from an independent
//     sub-stream derived from (seed, draw domain, stratum key), so results
//     are bit-identical across runs, row shuffles of other strata, and the
//     optional parallel path.
//   - Misfit strategies: per-stratum independent draws (MisfitStratum),
//     one pooled draw across strata (MisfitGlobal), or left unassigned
//     (MisfitNone).
//   - Optional proportional stratified subsampling before assignment.
//   - All configuration is validated eagerly; no partial output.
//
// ⚙️ Usage:
//
//	opts := treat.DefaultOptions()
//	opts.StratumCols = []string{"site", "sex"}
//	opts.IDCol = "patient_id"
//	opts.Treatments = 2
//	opts.Seed = 42
//
//	res, err := treat.Assign(tbl, opts)
//	if err != nil {
//	  // errors.Is(err, treat.ErrConfiguration) or treat.ErrData
//	}
//	out, _ := res.Table() // columns: patient_id, stratum_id, treat
//
// Performance: O(n log n) overall (n units); per stratum O(n_s) draws plus
// one O(n_s) permutation. Strata are independent and may be processed in
// parallel via Options.Parallelism without changing the output.
//
// See example_test.go for runnable examples.
package treat
