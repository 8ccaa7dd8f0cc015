package treat

import (
	"math/rand"
	"sort"

	"github.com/zeebo/xxh3"
)

// defaultRNGSeed is used when Options.Seed is zero, so the zero value of
// Options still produces a stable, documented assignment.
const defaultRNGSeed int64 = 42

// Draw domains. Each randomized phase derives its sub-streams under its own
// domain tag, so draws in one phase can never shift draws in another.
const (
	domainSample uint64 = iota + 1
	domainAssign
	domainMisfit
	domainPool
)

// seedOrDefault resolves the effective seed for a run.
func seedOrDefault(seed int64) int64 {
	if seed == 0 {
		return defaultRNGSeed
	}

	return seed
}

// deriveSeed mixes a base seed with a salt using SplitMix64 finalization,
// producing statistically independent generator seeds from one user seed.
func deriveSeed(seed int64, salt uint64) int64 {
	z := uint64(seed) + salt*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb

	return int64(z ^ (z >> 31))
}

// streamRNG builds the dedicated generator for one (phase, stratum) pair.
// The stream depends only on the run seed, the domain tag and the stratum
// key, never on how many strata exist or in what order they are processed.
// That makes per-stratum draws safe to run concurrently.
func streamRNG(seed int64, domain uint64, key string) *rand.Rand {
	derived := deriveSeed(deriveSeed(seedOrDefault(seed), domain), xxh3.HashString(key))

	return rand.New(rand.NewSource(derived))
}

// shuffleIntsInPlace applies a Fisher-Yates shuffle to s using rng.
func shuffleIntsInPlace(s []int, rng *rand.Rand) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// permRange returns a random permutation of 0..n-1 drawn from rng.
func permRange(n int, rng *rand.Rand) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	shuffleIntsInPlace(perm, rng)

	return perm
}

// drawLabel samples one treatment label from the categorical distribution
// probs using a single uniform draw. Cumulative float error can leave the
// final bucket fractionally short, so the last label absorbs any remainder.
func drawLabel(rng *rand.Rand, probs []float64) int {
	u := rng.Float64()
	acc := 0.0
	for i, p := range probs {
		acc += p
		if u < acc {
			return i
		}
	}

	return len(probs) - 1
}

// sampleIndexes draws k distinct indexes from 0..n-1 without replacement
// via a partial Fisher-Yates pass, then sorts them ascending so callers can
// keep selected units in their original order.
func sampleIndexes(rng *rand.Rand, n, k int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	picked := idx[:k]
	sort.Ints(picked)

	return picked
}
