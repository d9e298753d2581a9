package rhythm

import (
	"testing"
	"time"
)

// historyOf builds a week history from days-completed counts, oldest
// first, with consecutive Monday week starts.
func historyOf(counts ...int) []WeekSummary {
	start := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	weeks := make([]WeekSummary, len(counts))
	for i, c := range counts {
		weeks[i] = WeekSummary{WeekStart: start.AddDate(0, 0, 7*i), DaysCompleted: c}
		if tier, ok := AchievedTier(c); ok {
			weeks[i].Achieved = &tier
		}
	}
	return weeks
}

func TestComputeChains_Independence(t *testing.T) {
	// Six weeks of 5+ days except week 3 (index 2) at 4 days: most_days
	// resets there while few_times runs uninterrupted.
	history := historyOf(5, 6, 4, 5, 5, 5)
	chains := ComputeChains(history, false)

	most := chainFor(chains, TierMostDays)
	if most.Current != 3 {
		t.Errorf("most_days Current = %d, want 3 (reset at week 3)", most.Current)
	}
	if most.Longest != 3 {
		t.Errorf("most_days Longest = %d, want 3", most.Longest)
	}

	few := chainFor(chains, TierFewTimes)
	if few.Current != 6 {
		t.Errorf("few_times Current = %d, want 6 (unbroken)", few.Current)
	}
	if few.Longest != 6 {
		t.Errorf("few_times Longest = %d, want 6", few.Longest)
	}
}

func TestComputeChains_OneGoodWeekExtendsManyTiers(t *testing.T) {
	chains := ComputeChains(historyOf(7), false)
	for _, c := range chains {
		if c.Current != 1 || c.Longest != 1 {
			t.Errorf("tier %s: {current:%d longest:%d}, want {1 1}", c.Tier.Name, c.Current, c.Longest)
		}
	}
}

func TestComputeChains_CurrentZeroWhenRunNotLive(t *testing.T) {
	// A long old run followed by two completed failing weeks: longest
	// survives, current does not.
	history := historyOf(7, 7, 7, 0, 0)
	chains := ComputeChains(history, false)

	daily := chainFor(chains, TierDaily)
	if daily.Current != 0 {
		t.Errorf("daily Current = %d, want 0", daily.Current)
	}
	if daily.Longest != 3 {
		t.Errorf("daily Longest = %d, want 3", daily.Longest)
	}
}

func TestComputeChains_InProgressWeekDoesNotBreak(t *testing.T) {
	// The as-of week at 2/7 so far must not reset higher tiers.
	history := historyOf(5, 5, 5, 2)
	chains := ComputeChains(history, true)

	most := chainFor(chains, TierMostDays)
	if most.Current != 3 {
		t.Errorf("most_days Current = %d, want 3 (in-progress week skipped)", most.Current)
	}

	// The same 2/7 already satisfies weekly and extends it.
	weekly := chainFor(chains, TierWeekly)
	if weekly.Current != 4 {
		t.Errorf("weekly Current = %d, want 4", weekly.Current)
	}
}

func TestComputeChains_CompletedWeekCounts(t *testing.T) {
	// Without the in-progress flag the same trailing week is a failure.
	history := historyOf(5, 5, 5, 2)
	chains := ComputeChains(history, false)

	most := chainFor(chains, TierMostDays)
	if most.Current != 0 {
		t.Errorf("most_days Current = %d, want 0", most.Current)
	}
	if most.Longest != 3 {
		t.Errorf("most_days Longest = %d, want 3", most.Longest)
	}
}

func TestComputeChains_EmptyHistory(t *testing.T) {
	chains := ComputeChains(nil, true)
	if len(chains) != len(TierTable()) {
		t.Fatalf("got %d chains, want one per tier", len(chains))
	}
	for _, c := range chains {
		if c.Current != 0 || c.Longest != 0 {
			t.Errorf("tier %s: {current:%d longest:%d}, want zeros", c.Tier.Name, c.Current, c.Longest)
		}
	}
}

func TestComputeChains_LongestMidHistory(t *testing.T) {
	history := historyOf(7, 7, 7, 7, 0, 7, 7)
	daily := chainFor(ComputeChains(history, false), TierDaily)
	if daily.Longest != 4 {
		t.Errorf("Longest = %d, want 4", daily.Longest)
	}
	if daily.Current != 2 {
		t.Errorf("Current = %d, want 2", daily.Current)
	}
}
