package treat

import "sort"

// sampleStrata draws a proportional stratified subsample of size units from
// the partition, total being the full population size. Quotas follow the
// largest remainder rule: every stratum gets its floored proportional share,
// and the leftover units go to the strata with the largest fractional parts,
// earlier strata winning ties. Within a stratum the kept units are drawn
// without replacement from that stratum's own random stream and stay in
// input order. Strata whose quota is zero drop out of the run; their ids
// are not reused.
//
// The caller guarantees 0 < size < total.
func sampleStrata(strata []*stratum, total, size int, seed int64) []*stratum {
	quotas := make([]int, len(strata))
	rems := make([]int, len(strata))
	given := 0
	for i, st := range strata {
		n := len(st.members)
		quotas[i] = size * n / total
		rems[i] = size * n % total
		given += quotas[i]
	}

	order := make([]int, len(strata))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return rems[order[a]] > rems[order[b]]
	})
	for k := 0; k < size-given; k++ {
		quotas[order[k]]++
	}

	kept := make([]*stratum, 0, len(strata))
	for i, st := range strata {
		q := quotas[i]
		switch {
		case q == 0:
			continue
		case q == len(st.members):
			// Whole stratum kept; no draw consumed, so the assignment
			// stream stays aligned with an unsampled run.
		default:
			rng := streamRNG(seed, domainSample, st.key)
			picked := sampleIndexes(rng, len(st.members), q)
			members := make([]int, q)
			for j, idx := range picked {
				members[j] = st.members[idx]
			}
			st.members = members
		}
		kept = append(kept, st)
	}

	return kept
}
