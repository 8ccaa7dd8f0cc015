package treat

// resolveMisfits turns the leftover units of every stratum into final
// assignments according to the configured strategy. outcomes[i] is the
// block assignment outcome of strata[i].
//
// MisfitStratum draws each misfit's label from its stratum's misfit stream,
// keeping the stratum id. MisfitGlobal pools all misfits, in ascending
// stratum order, and draws their labels from one shared pool stream; pooled
// units lose their stratum id. MisfitNone consumes no draws and leaves both
// fields unassigned. Misfit draws never touch the block assignment streams,
// so switching strategies cannot change the exactly-assigned units.
func resolveMisfits(strategy MisfitStrategy, outcomes []stratumOutcome, strata []*stratum, sch *Scheme, seed int64) []rowLabel {
	resolved := make([]rowLabel, 0)

	switch strategy {
	case MisfitStratum:
		probs := sch.Probs()
		for i, out := range outcomes {
			if len(out.misfits) == 0 {
				continue
			}
			rng := streamRNG(seed, domainMisfit, strata[i].key)
			for _, row := range out.misfits {
				resolved = append(resolved, rowLabel{
					row:     row,
					stratum: strata[i].id,
					label:   drawLabel(rng, probs),
				})
			}
		}

	case MisfitGlobal:
		probs := sch.Probs()
		rng := streamRNG(seed, domainPool, "")
		for _, out := range outcomes {
			for _, row := range out.misfits {
				resolved = append(resolved, rowLabel{
					row:     row,
					stratum: Unassigned,
					label:   drawLabel(rng, probs),
				})
			}
		}

	case MisfitNone:
		for _, out := range outcomes {
			for _, row := range out.misfits {
				resolved = append(resolved, rowLabel{
					row:     row,
					stratum: Unassigned,
					label:   Unassigned,
				})
			}
		}
	}

	return resolved
}
