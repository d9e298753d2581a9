package rhythm

import (
	"fmt"
	"strings"
)

// Tier identifies a weekly frequency bracket.
type Tier int

const (
	TierDaily Tier = iota
	TierMostDays
	TierFewTimes
	TierWeekly
)

// TierSpec holds the configuration for one tier: its stable name (used
// in storage and message filters), display label, and the inclusive
// days-per-week range it covers.
type TierSpec struct {
	Tier    Tier   `json:"-"`
	Name    string `json:"name"`
	Label   string `json:"label"`
	MinDays int    `json:"minDaysPerWeek"`
	MaxDays int    `json:"maxDaysPerWeek"`
}

// tierTable is the fixed tier classification, ordered highest first.
// It must exclusively partition 1..7; zero completed days maps to no
// tier, which is a valid outcome rather than an error.
var tierTable = []TierSpec{
	{Tier: TierDaily, Name: "daily", Label: "Daily", MinDays: 7, MaxDays: 7},
	{Tier: TierMostDays, Name: "most_days", Label: "Most Days", MinDays: 5, MaxDays: 6},
	{Tier: TierFewTimes, Name: "few_times", Label: "Few Times", MinDays: 3, MaxDays: 4},
	{Tier: TierWeekly, Name: "weekly", Label: "Weekly", MinDays: 1, MaxDays: 2},
}

func init() {
	if err := validateTierTable(tierTable); err != nil {
		panic(fmt.Sprintf("rhythm: invalid tier table: %v", err))
	}
}

// TierTable returns all tiers ordered from highest to lowest.
func TierTable() []TierSpec {
	out := make([]TierSpec, len(tierTable))
	copy(out, tierTable)
	return out
}

// TierByName looks up a tier by its stable name.
func TierByName(name string) (TierSpec, bool) {
	for _, t := range tierTable {
		if t.Name == name {
			return t, true
		}
	}
	return TierSpec{}, false
}

// AchievedTier returns the highest tier whose MinDays is satisfied by
// daysCompleted. Zero days achieves no tier (ok=false).
func AchievedTier(daysCompleted int) (TierSpec, bool) {
	for _, t := range tierTable {
		if daysCompleted >= t.MinDays {
			return t, true
		}
	}
	return TierSpec{}, false
}

// BestPossibleTier returns the highest tier still reachable if every
// remaining day of the week were completed.
func BestPossibleTier(daysCompleted, daysRemaining int) (TierSpec, bool) {
	return AchievedTier(daysCompleted + daysRemaining)
}

// validateTierTable performs the startup structural checks: tiers must
// be ordered by strictly decreasing MinDays, each range must be
// well-formed, and together they must cover 1..7 contiguously with the
// top tier reaching 7 and the bottom tier starting at 1.
func validateTierTable(tiers []TierSpec) error {
	if len(tiers) == 0 {
		return fmt.Errorf("tier table is empty")
	}

	var errs []string
	for i, t := range tiers {
		if t.Name == "" {
			errs = append(errs, fmt.Sprintf("tier %d has no name", i))
		}
		if t.MinDays < 1 || t.MaxDays > 7 || t.MinDays > t.MaxDays {
			errs = append(errs, fmt.Sprintf("tier %q has invalid range [%d,%d]", t.Name, t.MinDays, t.MaxDays))
		}
		if i > 0 {
			prev := tiers[i-1]
			if t.MinDays >= prev.MinDays {
				errs = append(errs, fmt.Sprintf("tier %q MinDays %d not below %q MinDays %d", t.Name, t.MinDays, prev.Name, prev.MinDays))
			}
			if t.MaxDays != prev.MinDays-1 {
				errs = append(errs, fmt.Sprintf("gap or overlap between %q [%d,%d] and %q [%d,%d]", prev.Name, prev.MinDays, prev.MaxDays, t.Name, t.MinDays, t.MaxDays))
			}
		}
	}
	if tiers[0].MaxDays != 7 {
		errs = append(errs, fmt.Sprintf("top tier %q must reach 7 days, got %d", tiers[0].Name, tiers[0].MaxDays))
	}
	if tiers[len(tiers)-1].MinDays != 1 {
		errs = append(errs, fmt.Sprintf("bottom tier %q must start at 1 day, got %d", tiers[len(tiers)-1].Name, tiers[len(tiers)-1].MinDays))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
