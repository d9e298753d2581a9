package rhythm

// ChainStat reports, for one tier, the current live run of consecutive
// qualifying weeks and the longest run observed in the window.
type ChainStat struct {
	Tier    TierSpec `json:"tier"`
	Current int      `json:"current"`
	Longest int      `json:"longest"`
}

// DefaultLookbackWeeks bounds the chain history window (~2 years).
const DefaultLookbackWeeks = 104

// ComputeChains walks the week history once per tier, oldest to newest.
// Tiers are independent: a week failing one tier's minimum resets only
// that tier's run. When inProgress is true the final week is the as-of
// week; if it does not yet satisfy a tier it is skipped for that tier
// rather than counted as a failure, so a half-finished week never
// breaks a chain.
//
// History must start at the rhythm's first matching activity: weeks
// before any activity existed are excluded by construction, not
// counted as failures.
func ComputeChains(history []WeekSummary, inProgress bool) []ChainStat {
	stats := make([]ChainStat, 0, len(tierTable))

	for _, tier := range tierTable {
		run, longest := 0, 0
		for i, w := range history {
			if w.DaysCompleted >= tier.MinDays {
				run++
				if run > longest {
					longest = run
				}
				continue
			}
			if inProgress && i == len(history)-1 {
				// As-of week, not yet satisfied: leave the run live.
				continue
			}
			run = 0
		}
		// run resets to zero on any completed failing week, so after the
		// scan it is exactly the trailing run through the newest week.
		stats = append(stats, ChainStat{Tier: tier, Current: run, Longest: longest})
	}
	return stats
}

// chainFor picks one tier's stat out of a ComputeChains result.
func chainFor(stats []ChainStat, tier Tier) ChainStat {
	for _, s := range stats {
		if s.Tier.Tier == tier {
			return s
		}
	}
	return ChainStat{}
}
