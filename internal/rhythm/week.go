package rhythm

import (
	"fmt"
	"time"
)

// WeekSummary is the per-week aggregate used by the chain calculator
// and journey classifier. Achieved is nil when no tier was reached.
type WeekSummary struct {
	WeekStart     time.Time
	DaysCompleted int
	Achieved      *TierSpec
}

// WeekDetail is the full picture of one week: its days, the tier
// achieved so far, the best tier still reachable, and the nudge text
// (empty when no nudge applies).
type WeekDetail struct {
	WeekStart     time.Time   `json:"weekStart"`
	Days          []DayStatus `json:"days"`
	DaysCompleted int         `json:"daysCompleted"`
	Achieved      *TierSpec   `json:"achievedTier,omitempty"`
	BestPossible  *TierSpec   `json:"bestPossibleTier,omitempty"`
	DaysRemaining int         `json:"daysRemainingInWeek"`
	Nudge         string      `json:"nudge,omitempty"`
}

// WeekStartOf returns the Monday 00:00 of the week containing t, in loc.
func WeekStartOf(t time.Time, loc *time.Location) time.Time {
	d := DateOf(t, loc)
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	return d.AddDate(0, 0, -offset)
}

// daysRemainingInWeek counts the days of the week strictly after the
// as-of day: Monday leaves 6, Sunday leaves 0.
func daysRemainingInWeek(asOf time.Time, loc *time.Location) int {
	return 6 - (int(asOf.In(loc).Weekday())+6)%7
}

// countCompleted tallies complete days.
func countCompleted(days []DayStatus) int {
	n := 0
	for _, d := range days {
		if d.Complete {
			n++
		}
	}
	return n
}

// ComputeWeekDetail derives the weekly tier picture from the week's day
// statuses (Monday through the as-of day). A nudge is produced only
// when a better tier is still reachable and days remain to act;
// otherwise the nudge is absent rather than negative.
func ComputeWeekDetail(days []DayStatus, asOf time.Time, loc *time.Location) WeekDetail {
	detail := WeekDetail{
		WeekStart:     WeekStartOf(asOf, loc),
		Days:          days,
		DaysCompleted: countCompleted(days),
		DaysRemaining: daysRemainingInWeek(asOf, loc),
	}

	if achieved, ok := AchievedTier(detail.DaysCompleted); ok {
		detail.Achieved = &achieved
	}
	if best, ok := BestPossibleTier(detail.DaysCompleted, detail.DaysRemaining); ok {
		detail.BestPossible = &best
	}

	detail.Nudge = nudgeText(detail.DaysCompleted, detail.Achieved, detail.BestPossible, detail.DaysRemaining)
	return detail
}

// nudgeText composes the forward-looking mid-week suggestion.
func nudgeText(daysCompleted int, achieved, best *TierSpec, daysRemaining int) string {
	if best == nil || daysRemaining <= 0 {
		return ""
	}
	if achieved != nil && achieved.Tier == best.Tier {
		return ""
	}
	n := best.MinDays - daysCompleted
	if n <= 0 {
		return ""
	}
	if n == 1 {
		return fmt.Sprintf("1 more time to reach %s", best.Label)
	}
	return fmt.Sprintf("%d more times to reach %s", n, best.Label)
}

// summarizeWeeks groups day statuses into week summaries, oldest first.
// days must be contiguous and sorted ascending; the first day need not
// be a Monday and the last week may be partial.
func summarizeWeeks(days []DayStatus, loc *time.Location) []WeekSummary {
	var weeks []WeekSummary
	for _, d := range days {
		ws := WeekStartOf(d.Date, loc)
		if len(weeks) == 0 || !weeks[len(weeks)-1].WeekStart.Equal(ws) {
			weeks = append(weeks, WeekSummary{WeekStart: ws})
		}
		if d.Complete {
			weeks[len(weeks)-1].DaysCompleted++
		}
	}
	for i := range weeks {
		if t, ok := AchievedTier(weeks[i].DaysCompleted); ok {
			weeks[i].Achieved = &t
		}
	}
	return weeks
}
