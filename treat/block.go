package treat

// rowLabel pairs one input row with its assignment outcome.
type rowLabel struct {
	row     int
	stratum int
	label   int
}

// stratumOutcome is the raw result of block assignment within one stratum:
// the exactly-assigned units plus the leftover rows awaiting misfit
// resolution.
type stratumOutcome struct {
	assigned []rowLabel
	misfits  []int
}

// assignStratum runs permuted block randomization inside one stratum. The
// stratum's units are permuted once, the first m*D positions (D being the
// scheme's block size and m the number of whole blocks that fit) are filled
// with m independently shuffled label blocks, and the remaining n mod D
// units come back as misfits in permutation order.
//
// All draws come from the stratum's own (seed, key)-derived stream, so the
// outcome is independent of every other stratum and of scheduling order.
func assignStratum(st *stratum, sch *Scheme, seed int64) stratumOutcome {
	rng := streamRNG(seed, domainAssign, st.key)

	n := len(st.members)
	d := sch.BlockSize()
	m := n / d

	perm := permRange(n, rng)

	assigned := make([]rowLabel, 0, m*d)
	for b := 0; b < m; b++ {
		block := sch.labelBlock()
		shuffleIntsInPlace(block, rng)
		for i, label := range block {
			pos := perm[b*d+i]
			assigned = append(assigned, rowLabel{
				row:     st.members[pos],
				stratum: st.id,
				label:   label,
			})
		}
	}

	misfits := make([]int, 0, n-m*d)
	for _, pos := range perm[m*d:] {
		misfits = append(misfits, st.members[pos])
	}

	return stratumOutcome{assigned: assigned, misfits: misfits}
}
