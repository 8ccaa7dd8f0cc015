// Package treat defines options, result types, and sentinel errors for
// stratified random treatment assignment.
package treat

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/manmartgarc/stochatreat/table"
)

// Sentinel errors for assignment runs. Every failure wraps one of these
// two kinds with a human-readable detail; match with errors.Is.
var (
	// ErrConfiguration is returned for an invalid option set: bad
	// probabilities, unknown misfit strategy, missing columns, duplicate
	// ids, or a sample size outside the population. Raised before any
	// randomness is consumed.
	ErrConfiguration = errors.New("treat: invalid configuration")

	// ErrData is returned for a malformed input population, such as a nil
	// table or one with fewer than two rows.
	ErrData = errors.New("treat: invalid input data")
)

// Unassigned marks a missing stratum id or treatment label in results.
// Misfits resolved by MisfitGlobal carry it as their stratum id; misfits
// under MisfitNone carry it in both fields.
const Unassigned = -1

// MisfitStrategy selects how units left over after exact block assignment
// receive (or do not receive) a treatment. The set is closed: switches over
// it are exhaustive, and any other value fails validation eagerly.
type MisfitStrategy int

const (
	// MisfitStratum draws an independent treatment for every misfit within
	// its own stratum, using the scheme probabilities as draw weights.
	// The stratum id is retained. This is the default.
	MisfitStratum MisfitStrategy = iota

	// MisfitGlobal pools misfits from all strata and draws independent
	// treatments for the pool as a whole; each pooled unit's stratum id
	// becomes Unassigned to signal it left its stratum for balance
	// accounting.
	MisfitGlobal

	// MisfitNone leaves every misfit without a treatment: both the stratum
	// id and the treatment become Unassigned. No random draw occurs.
	MisfitNone
)

// String returns the configuration name of the strategy.
func (s MisfitStrategy) String() string {
	switch s {
	case MisfitStratum:
		return "stratum"
	case MisfitGlobal:
		return "global"
	case MisfitNone:
		return "none"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// ParseMisfitStrategy maps a configuration string to its strategy.
// Returns ErrConfiguration for anything but "stratum", "global" or "none".
func ParseMisfitStrategy(s string) (MisfitStrategy, error) {
	switch s {
	case "stratum":
		return MisfitStratum, nil
	case "global":
		return MisfitGlobal, nil
	case "none":
		return MisfitNone, nil
	default:
		return 0, fmt.Errorf("%w: unknown misfit strategy %q (want stratum, global or none)", ErrConfiguration, s)
	}
}

// Options holds the parameters of one assignment run.
type Options struct {
	// StratumCols names the columns whose composite value defines a
	// stratum. At least one is required.
	StratumCols []string

	// IDCol names the column holding the unique unit identifier.
	// Values must be non-empty and unique across the population.
	IDCol string

	// Treatments is the number of treatment labels, including control.
	// Labels are 0..Treatments-1. Must be at least 2.
	Treatments int

	// Probs are the assignment probabilities per label. nil means equal
	// probabilities 1/Treatments. When set, the length must equal
	// Treatments, every entry must be positive, and the sum must be 1
	// within a small tolerance.
	Probs []float64

	// Seed drives every random draw. Seed==0 selects the fixed default
	// seed, so the zero value stays reproducible.
	Seed int64

	// MisfitStrategy selects how leftover units are resolved.
	MisfitStrategy MisfitStrategy

	// SampleSize, when positive, draws a proportional stratified subsample
	// of this many units before assignment. 0 assigns the full population.
	// Must not exceed the population size.
	SampleSize int

	// Parallelism bounds the number of strata processed concurrently.
	// Values below 2 select the sequential path. The output is identical
	// either way: every stratum draws from its own seed-derived sub-stream.
	Parallelism int
}

// DefaultOptions returns an Options with sane defaults:
//   - IDCol "id"
//   - two treatments with equal probabilities
//   - MisfitStratum resolution
//   - default seed (Seed==0), full population, sequential execution.
//
// StratumCols has no default and must be set by the caller.
func DefaultOptions() Options {
	return Options{
		IDCol:          "id",
		Treatments:     2,
		MisfitStrategy: MisfitStratum,
	}
}

// Assignment is the outcome for one unit.
type Assignment struct {
	// ID is the unit's identifier from the id column.
	ID string

	// StratumID is the numeric id of the unit's stratum, assigned in
	// first-seen input order, or Unassigned for units pooled by
	// MisfitGlobal or dropped by MisfitNone.
	StratumID int

	// Treatment is the assigned label in [0, Treatments), or Unassigned
	// under MisfitNone.
	Treatment int
}

// Result holds the outcome of one assignment run.
type Result struct {
	// Assignments has exactly one entry per (sampled) unit, in input row
	// order.
	Assignments []Assignment

	// BlockSize is the derived block size D: the smallest unit count that
	// splits in exact integer proportion to the scheme.
	BlockSize int

	// StrataCount is the number of strata that entered assignment (after
	// sampling, when a sample was requested).
	StrataCount int

	// MisfitCount is the total number of units left over from exact block
	// assignment across all strata, whatever strategy resolved them.
	MisfitCount int

	// idCol is the id column name used when materializing the result as a
	// table.
	idCol string
}

// Output column names, mirroring the tool's historical table layout.
const (
	colStratumID = "stratum_id"
	colTreat     = "treat"
)

// Len returns the number of assigned (or sampled) units in the result.
func (r *Result) Len() int { return len(r.Assignments) }

// TreatmentCounts tallies assignments per treatment label. Units without a
// treatment (MisfitNone leftovers) are not counted.
func (r *Result) TreatmentCounts() map[int]int {
	counts := make(map[int]int)
	for _, a := range r.Assignments {
		if a.Treatment != Unassigned {
			counts[a.Treatment]++
		}
	}

	return counts
}

// Table materializes the result as a three-column table: the id column
// (under its original name), "stratum_id" and "treat". Unassigned values
// render as empty cells. Callers join it back onto their population by the
// id column.
func (r *Result) Table() (*table.MemTable, error) {
	idCol := r.idCol
	if idCol == "" {
		idCol = "id"
	}
	t, err := table.New([]string{idCol, colStratumID, colTreat}, nil)
	if err != nil {
		return nil, err
	}
	for _, a := range r.Assignments {
		if err = t.AppendRow(a.ID, formatLabel(a.StratumID), formatLabel(a.Treatment)); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// formatLabel renders an id or label cell; Unassigned becomes the empty cell.
func formatLabel(v int) string {
	if v == Unassigned {
		return ""
	}

	return strconv.Itoa(v)
}
