// Package treat - validation utilities for assignment runs.
//
// This file contains small, side-effect-free helpers that:
//  1. Validate Options combinations (columns, strategy, sizes).
//  2. Validate the population table (shape, id column contents).
//  3. Build the treatment Scheme from the validated options.
//
// Design principles:
//   - Deterministic, side-effect free functions.
//   - No logging, no panics on user input - only wrapped sentinel errors
//     from types.go.
//   - Validation consumes no randomness, so a failed run leaves every
//     stream untouched and produces no partial output.
package treat

import (
	"fmt"

	"github.com/manmartgarc/stochatreat/table"
)

// minRows is the smallest population that can be assigned: below two rows
// no split into groups is meaningful.
const minRows = 2

// validateAll verifies Options against the population table, builds the
// treatment Scheme and decodes the id column. It returns the per-row ids
// and the Scheme on success.
//
// Contract:
//   - tbl must be non-nil with at least minRows rows.
//   - Every stratum column and the id column must exist in tbl.
//   - Id values must be non-empty and unique.
//   - 0 <= SampleSize <= tbl.Len().
//
// Complexity: O(n) time over the table rows, O(n) extra space for the id
// uniqueness check.
func validateAll(tbl table.Table, opts Options) ([]string, *Scheme, error) {
	// Stage 1: Options-only sanity.
	if err := validateOptionsStandalone(opts); err != nil {
		return nil, nil, err
	}

	// Stage 2: population shape.
	if tbl == nil {
		return nil, nil, fmt.Errorf("%w: nil table", ErrData)
	}
	n := tbl.Len()
	if n < minRows {
		return nil, nil, fmt.Errorf("%w: population has %d rows, want at least %d", ErrData, n, minRows)
	}

	// Stage 3: required columns must exist in the table.
	have := make(map[string]struct{})
	for _, col := range tbl.Columns() {
		have[col] = struct{}{}
	}
	for _, col := range opts.StratumCols {
		if _, ok := have[col]; !ok {
			return nil, nil, fmt.Errorf("%w: stratum column %q not in table", ErrConfiguration, col)
		}
	}
	if _, ok := have[opts.IDCol]; !ok {
		return nil, nil, fmt.Errorf("%w: id column %q not in table", ErrConfiguration, opts.IDCol)
	}

	// Stage 4: treatment scheme (probabilities and block size).
	sch, err := NewScheme(opts.Treatments, opts.Probs)
	if err != nil {
		return nil, nil, err
	}

	// Stage 5: id column contents.
	ids, err := collectIDs(tbl, opts.IDCol)
	if err != nil {
		return nil, nil, err
	}

	// Stage 6: sample size fits the population (after n is known).
	if opts.SampleSize > n {
		return nil, nil, fmt.Errorf("%w: sample size %d exceeds population of %d", ErrConfiguration, opts.SampleSize, n)
	}

	return ids, sch, nil
}

// validateOptionsStandalone checks internal consistency of Options without
// touching the table. Scheme-level checks (treatments, probabilities) live
// in NewScheme.
//
// Complexity: O(k) where k is the number of stratum columns.
func validateOptionsStandalone(opts Options) error {
	if len(opts.StratumCols) == 0 {
		return fmt.Errorf("%w: no stratum columns", ErrConfiguration)
	}
	seen := make(map[string]struct{}, len(opts.StratumCols))
	for _, col := range opts.StratumCols {
		if col == "" {
			return fmt.Errorf("%w: empty stratum column name", ErrConfiguration)
		}
		if _, ok := seen[col]; ok {
			return fmt.Errorf("%w: duplicate stratum column %q", ErrConfiguration, col)
		}
		seen[col] = struct{}{}
	}

	if opts.IDCol == "" {
		return fmt.Errorf("%w: empty id column name", ErrConfiguration)
	}
	// Result.Table emits the id column next to the output columns; a clash
	// would produce a table with duplicate column names.
	if opts.IDCol == colStratumID || opts.IDCol == colTreat {
		return fmt.Errorf("%w: id column %q collides with an output column", ErrConfiguration, opts.IDCol)
	}

	// Accept only known strategies; the assignment path switches over the
	// same closed set.
	switch opts.MisfitStrategy {
	case MisfitStratum, MisfitGlobal, MisfitNone:
		// ok
	default:
		return fmt.Errorf("%w: unknown misfit strategy %d", ErrConfiguration, int(opts.MisfitStrategy))
	}

	if opts.SampleSize < 0 {
		return fmt.Errorf("%w: negative sample size %d", ErrConfiguration, opts.SampleSize)
	}
	if opts.Parallelism < 0 {
		return fmt.Errorf("%w: negative parallelism %d", ErrConfiguration, opts.Parallelism)
	}

	return nil
}

// collectIDs decodes the id column, enforcing non-empty and unique values.
// ids[row] is the id of table row `row`.
//
// Complexity: O(n) time and O(n) extra space.
func collectIDs(tbl table.Table, idCol string) ([]string, error) {
	n := tbl.Len()
	ids := make([]string, n)
	seen := make(map[string]struct{}, n)
	for row := 0; row < n; row++ {
		id, err := tbl.Value(row, idCol)
		if err != nil {
			return nil, err
		}
		if id == "" {
			return nil, fmt.Errorf("%w: empty id in row %d", ErrConfiguration, row)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: duplicate id %q in row %d", ErrConfiguration, id, row)
		}
		seen[id] = struct{}{}
		ids[row] = id
	}

	return ids, nil
}
