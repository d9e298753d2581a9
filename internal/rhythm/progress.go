package rhythm

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Totals are the whole-window aggregates re-exposed for display.
type Totals struct {
	Sessions      int        `json:"totalSessions"`
	TotalSecs     int        `json:"totalSeconds"`
	FirstActivity *time.Time `json:"firstActivity,omitempty"`
}

// Progress is the complete response object for one rhythm at one
// as-of instant.
type Progress struct {
	RhythmID      string         `json:"rhythmId"`
	RhythmName    string         `json:"rhythmName"`
	AsOf          time.Time      `json:"asOf"`
	CurrentWeek   WeekDetail     `json:"currentWeek"`
	Chains        []ChainStat    `json:"chains"`
	Days          []DayStatus    `json:"days"`
	Totals        Totals         `json:"totals"`
	JourneyStage  Stage          `json:"journeyStage"`
	Encouragement *Encouragement `json:"encouragement,omitempty"`
}

// Options tune one ComputeProgress call. The zero value gives the
// defaults: 104-week lookback, 4-week inactivity regression, a fresh
// time-seeded random source, and no repeat-avoidance history.
type Options struct {
	LookbackWeeks        int
	InactiveRegressWeeks int

	// LastMessageID is the previously shown message for this rhythm,
	// carried by the caller so the engine stays stateless. The chosen
	// message's ID comes back on Progress.Encouragement.
	LastMessageID string

	// Rand overrides the selector's random source (tests).
	Rand *rand.Rand
}

// ErrNoFetch is returned when ComputeProgress is called without a
// record fetch function.
var ErrNoFetch = errors.New("rhythm: record fetch function is required")

// Service composes the engine pieces into progress responses.
// It holds only the message source; every computation is a pure
// function of its arguments.
type Service struct {
	messages MessageSource
}

// NewService creates a progress service. messages may be nil, in which
// case no encouragement is ever selected.
func NewService(messages MessageSource) *Service {
	return &Service{messages: messages}
}

// milestoneLengths are the chain lengths celebrated as milestones.
var milestoneLengths = map[int]bool{4: true, 8: true, 13: true, 26: true, 52: true}

// ComputeProgress derives the full progress object for a rhythm as of
// the given instant. It fetches records once through fetch, validates
// them at this boundary, and never mutates anything it is given.
//
// An empty record window is not an error: the result has zeroed totals,
// all-zero chains and journeyStage starting.
func (s *Service) ComputeProgress(ctx context.Context, def Definition, fetch FetchFunc, asOf time.Time, opts Options) (*Progress, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if fetch == nil {
		return nil, ErrNoFetch
	}
	if asOf.IsZero() {
		return nil, errors.New("rhythm: as-of instant must be set")
	}
	if opts.LookbackWeeks < 0 {
		return nil, fmt.Errorf("rhythm: lookback weeks must be >= 0, got %d", opts.LookbackWeeks)
	}

	loc, err := def.Location()
	if err != nil {
		return nil, err
	}

	lookback := opts.LookbackWeeks
	if lookback == 0 {
		lookback = DefaultLookbackWeeks
	}

	asOfDate := DateOf(asOf, loc)
	currentWeekStart := WeekStartOf(asOf, loc)
	windowStart := currentWeekStart.AddDate(0, 0, -7*(lookback-1))
	yearStart := time.Date(asOf.In(loc).Year(), time.January, 1, 0, 0, 0, 0, loc)

	fetchFrom := windowStart
	if yearStart.Before(fetchFrom) {
		fetchFrom = yearStart
	}

	records, err := fetch(ctx, fetchFrom, asOf)
	if err != nil {
		return nil, fmt.Errorf("fetch records for rhythm %q: %w", def.Name, err)
	}
	if err := validateRecords(records, asOf); err != nil {
		return nil, err
	}

	progress := &Progress{
		RhythmID:   def.ID,
		RhythmName: def.Name,
		AsOf:       asOf,
		Days:       AggregateDays(records, yearStart, asOfDate, loc, def.DailyThresholdSecs),
	}

	var weeks []WeekSummary
	if len(records) == 0 {
		weekDays := AggregateDays(nil, currentWeekStart, asOfDate, loc, def.DailyThresholdSecs)
		progress.CurrentWeek = ComputeWeekDetail(weekDays, asOf, loc)
	} else {
		first := records[0].OccurredAt
		totalSecs := 0
		for _, r := range records {
			if r.OccurredAt.Before(first) {
				first = r.OccurredAt
			}
			if r.DurationSecs != nil {
				totalSecs += *r.DurationSecs
			}
		}
		firstLocal := first.In(loc)
		progress.Totals = Totals{
			Sessions:      len(records),
			TotalSecs:     totalSecs,
			FirstActivity: &firstLocal,
		}

		// Chains begin at the rhythm's first matching activity, not at
		// the window edge: weeks before any activity stay out of the scan.
		histStart := WeekStartOf(first, loc)
		if histStart.Before(windowStart) {
			histStart = windowStart
		}
		histDays := AggregateDays(records, histStart, asOfDate, loc, def.DailyThresholdSecs)
		weeks = summarizeWeeks(histDays, loc)

		var weekDays []DayStatus
		for _, d := range histDays {
			if !d.Date.Before(currentWeekStart) {
				weekDays = append(weekDays, d)
			}
		}
		progress.CurrentWeek = ComputeWeekDetail(weekDays, asOf, loc)
	}

	progress.Chains = ComputeChains(weeks, true)
	progress.JourneyStage = ClassifyStage(weeks, true, opts.InactiveRegressWeeks)

	enc, err := s.selectEncouragement(progress, opts)
	if err != nil {
		return nil, err
	}
	progress.Encouragement = enc

	return progress, nil
}

// validateRecords rejects malformed input at the boundary rather than
// silently dropping it: a dropped record would understate a day.
func validateRecords(records []Record, asOf time.Time) error {
	for i, r := range records {
		if r.OccurredAt.IsZero() {
			return fmt.Errorf("rhythm: record %d has no occurrence time", i)
		}
		if r.OccurredAt.After(asOf) {
			return fmt.Errorf("rhythm: record %d occurs at %s, after the as-of instant %s",
				i, r.OccurredAt.Format(time.RFC3339), asOf.Format(time.RFC3339))
		}
		if r.DurationSecs != nil && *r.DurationSecs < 0 {
			return fmt.Errorf("rhythm: record %d has negative duration %d", i, *r.DurationSecs)
		}
	}
	return nil
}

// selectEncouragement decides the situational context and picks one
// message. Priority: a chain milestone beats a secured tier, which
// beats a pending nudge; everything else falls back to general.
func (s *Service) selectEncouragement(p *Progress, opts Options) (*Encouragement, error) {
	if s.messages == nil {
		return nil, nil
	}

	context := ContextGeneral
	tierName := ""
	switch {
	case milestoneChain(p.Chains) != nil:
		context = ContextStreakMilestone
		tierName = milestoneChain(p.Chains).Tier.Name
	case p.CurrentWeek.Achieved != nil && p.CurrentWeek.BestPossible != nil &&
		p.CurrentWeek.Achieved.Tier == p.CurrentWeek.BestPossible.Tier:
		context = ContextTierAchieved
		tierName = p.CurrentWeek.Achieved.Name
	case p.CurrentWeek.Nudge != "":
		context = ContextMidWeekNudge
		if p.CurrentWeek.BestPossible != nil {
			tierName = p.CurrentWeek.BestPossible.Name
		}
	}

	selector := NewSelector(s.messages, opts.Rand)
	return selector.Pick(p.JourneyStage, context, tierName, opts.LastMessageID)
}

// milestoneChain returns the highest-tier chain sitting exactly on a
// milestone length, or nil.
func milestoneChain(chains []ChainStat) *ChainStat {
	for i := range chains {
		if milestoneLengths[chains[i].Current] {
			return &chains[i]
		}
	}
	return nil
}
