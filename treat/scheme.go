package treat

import (
	"fmt"
	"math"
	"math/big"
)

const (
	// probSumTol is the tolerance for the probability mass check.
	probSumTol = 1e-8

	// maxDenominator bounds the denominator of each probability's rational
	// approximation, matching the tool's historical behavior.
	maxDenominator = 1_000_000

	// maxBlockSize bounds the derived block size. Probabilities whose
	// reduced denominators have a larger least common multiple cannot be
	// realized as exact integer blocks and are rejected.
	maxBlockSize = 1_000_000
)

// Scheme is a validated treatment scheme: per-label probabilities together
// with the smallest block size that splits into exact integer counts per
// label. A Scheme is immutable after construction.
type Scheme struct {
	probs  []float64
	counts []int
	block  int
}

// NewScheme validates probabilities and derives the block size.
//
// Treatments must be at least 2. probs must either be nil, which selects
// equal probabilities 1/treatments, or have exactly one positive entry per
// treatment summing to 1 within a small tolerance.
//
// The block size is the least common multiple of the denominators of the
// best rational approximations of the probabilities (denominators capped at
// one million). Probabilities whose block would exceed one million units,
// or whose per-label counts round to zero, are rejected as degenerate.
func NewScheme(treatments int, probs []float64) (*Scheme, error) {
	if treatments < 2 {
		return nil, fmt.Errorf("%w: treatments must be at least 2, got %d", ErrConfiguration, treatments)
	}
	if probs == nil {
		probs = make([]float64, treatments)
		for i := range probs {
			probs[i] = 1.0 / float64(treatments)
		}
	}
	if len(probs) != treatments {
		return nil, fmt.Errorf("%w: got %d probabilities for %d treatments",
			ErrConfiguration, len(probs), treatments)
	}

	sum := 0.0
	for i, p := range probs {
		if math.IsNaN(p) || p <= 0 || p >= 1 {
			return nil, fmt.Errorf("%w: probability %d is %v, want a value in (0, 1)",
				ErrConfiguration, i, p)
		}
		sum += p
	}
	if math.Abs(sum-1) > probSumTol {
		return nil, fmt.Errorf("%w: probabilities sum to %v, want 1", ErrConfiguration, sum)
	}

	block := int64(1)
	for i, p := range probs {
		_, den := limitDenominator(p, maxDenominator)
		l, err := lcmBounded(block, den, maxBlockSize)
		if err != nil {
			return nil, fmt.Errorf("%w: probability %d (%v) pushes the block size past %d",
				ErrConfiguration, i, p, maxBlockSize)
		}
		block = l
	}

	counts := make([]int, treatments)
	total := 0
	for i, p := range probs {
		c := int(math.Round(p * float64(block)))
		if c < 1 {
			return nil, fmt.Errorf("%w: probability %d (%v) rounds to zero units per block of %d",
				ErrConfiguration, i, p, block)
		}
		counts[i] = c
		total += c
	}
	if total != int(block) {
		return nil, fmt.Errorf("%w: per-label counts sum to %d, want block size %d",
			ErrConfiguration, total, block)
	}

	return &Scheme{
		probs:  append([]float64(nil), probs...),
		counts: counts,
		block:  int(block),
	}, nil
}

// Treatments returns the number of treatment labels.
func (s *Scheme) Treatments() int { return len(s.probs) }

// Probs returns a copy of the per-label probabilities.
func (s *Scheme) Probs() []float64 {
	return append([]float64(nil), s.probs...)
}

// BlockSize returns the derived block size D. Every group of D units splits
// into exactly BlockCounts units per label.
func (s *Scheme) BlockSize() int { return s.block }

// BlockCounts returns a copy of the per-label unit counts within one block.
func (s *Scheme) BlockCounts() []int {
	return append([]int(nil), s.counts...)
}

// labelBlock builds one unshuffled block: label i repeated counts[i] times.
// Each call returns a fresh slice, safe to shuffle in place.
func (s *Scheme) labelBlock() []int {
	block := make([]int, 0, s.block)
	for label, c := range s.counts {
		for i := 0; i < c; i++ {
			block = append(block, label)
		}
	}

	return block
}

// limitDenominator returns the closest rational num/den to x among all
// rationals with den at most maxDen, via the continued fraction expansion
// of x's exact binary value. Candidates are the last convergent inside the
// bound and its best semiconvergent; the closer one wins.
func limitDenominator(x float64, maxDen int64) (num, den int64) {
	r := new(big.Rat).SetFloat64(x)
	n := new(big.Int).Set(r.Num())
	d := new(big.Int).Set(r.Denom())

	maxQ := big.NewInt(maxDen)
	if d.Cmp(maxQ) <= 0 {
		return n.Int64(), d.Int64()
	}

	p0, q0 := big.NewInt(0), big.NewInt(1)
	p1, q1 := big.NewInt(1), big.NewInt(0)
	for {
		a := new(big.Int).Quo(n, d)
		q2 := new(big.Int).Add(q0, new(big.Int).Mul(a, q1))
		if q2.Cmp(maxQ) > 0 {
			break
		}
		p2 := new(big.Int).Add(p0, new(big.Int).Mul(a, p1))
		p0, q0, p1, q1 = p1, q1, p2, q2
		n, d = d, new(big.Int).Sub(n, new(big.Int).Mul(a, d))
	}

	k := new(big.Int).Quo(new(big.Int).Sub(maxQ, q0), q1)
	qk := new(big.Int).Add(q0, new(big.Int).Mul(k, q1))

	// The semiconvergent pk/qk beats the convergent p1/q1 exactly when
	// 2*d*qk exceeds the original denominator.
	lhs := new(big.Int).Mul(big.NewInt(2), new(big.Int).Mul(d, qk))
	if lhs.Cmp(r.Denom()) <= 0 {
		return p1.Int64(), q1.Int64()
	}
	pk := new(big.Int).Add(p0, new(big.Int).Mul(k, p1))

	return pk.Int64(), qk.Int64()
}

// lcmBounded returns lcm(a, b), or an error when the result would exceed
// bound. a and b must be positive.
func lcmBounded(a, b, bound int64) (int64, error) {
	l := a / gcd(a, b)
	if l > bound/b {
		return 0, fmt.Errorf("lcm(%d, %d) exceeds %d", a, b, bound)
	}

	return l * b, nil
}

// gcd returns the greatest common divisor of a and b by Euclid's algorithm.
func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}

	return a
}
