// Package stochatreat implements stratified random assignment of treatments
// for randomized controlled trials.
//
// 🚀 What is stochatreat?
//
//	A deterministic toolkit for allocating experimental units to treatment
//	arms without losing balance across strata:
//		• Strata: group units by any combination of population columns
//		• Blocks: exact treatment ratios inside every complete block
//		• Misfits: leftovers assigned per stratum, in one global pool, or not at all
//		• Sampling: assign only a proportional stratified subsample
//		• Replay: one seed fixes every draw, sequential or parallel alike
//
// ✨ Why choose stochatreat?
//
//   - Deterministic by construction, so a seed plus an input replays bit for bit
//   - Balance is structural, not statistical: the ratio holds in every block
//   - Output rows stay in input order and join back onto the population by id
//   - The CLI leaves an audit manifest with digests of every file it touched
//
// Under the hood, everything is organized under three packages:
//
//	treat/           - strata, assignment schemes, misfit strategies, sampling
//	table/           - column-addressed tables with CSV I/O (plain, gzip, zstd)
//	cmd/stochatreat/ - command-line front end with YAML, env and flag config
//
// Quick ASCII example:
//
//	id   site         stratum_id   treat
//	u1   north    →   0            1
//	u2   south    →   1            0
//	u3   north    →   0            0
//	u4   south    →   1            1
//
//	two strata, one complete block of two per stratum, a 50/50 split in each.
//
// Dive into treat.Assign for the core entry point and cmd/stochatreat for
// batch runs over CSV files.
//
//	go get github.com/manmartgarc/stochatreat
package stochatreat
