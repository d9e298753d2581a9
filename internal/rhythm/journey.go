package rhythm

// Stage is a coarse, slow-changing maturity label. It reinforces
// identity over streaks: one weak week never moves it, only sustained
// inactivity does.
type Stage string

const (
	StageStarting Stage = "starting"
	StageBuilding Stage = "building"
	StageBecoming Stage = "becoming"
)

// BecomingChainWeeks is the consecutive few_times-or-better weeks
// needed to reach the becoming stage.
const BecomingChainWeeks = 4

// DefaultInactiveRegressWeeks is how many fully-inactive consecutive
// weeks it takes before the stage regresses one level.
const DefaultInactiveRegressWeeks = 4

// ClassifyStage derives the journey stage from the week history
// (oldest first, beginning at the rhythm's first activity). When
// inProgress is true the final week is the as-of week; it neither
// resets the qualifying run nor counts toward inactivity.
//
// The stage only ever ratchets up during the scan. Afterward it drops
// one level per regressAfter trailing fully-inactive weeks, so a single
// zero week after a long run changes nothing.
func ClassifyStage(history []WeekSummary, inProgress bool, regressAfter int) Stage {
	if regressAfter <= 0 {
		regressAfter = DefaultInactiveRegressWeeks
	}
	if len(history) <= 1 {
		return StageStarting
	}

	fewTimes, _ := TierByName("few_times")

	attained := StageStarting
	run := 0
	for i, w := range history {
		if w.DaysCompleted >= fewTimes.MinDays {
			run++
		} else if !(inProgress && i == len(history)-1) {
			run = 0
		}
		switch {
		case run >= BecomingChainWeeks:
			attained = StageBecoming
		case attained == StageStarting && i >= 1:
			attained = StageBuilding
		}
	}

	// Trailing fully-inactive weeks, ignoring the as-of week (it is not
	// over yet and cannot count as an inactive week).
	inactive := 0
	last := len(history) - 1
	if inProgress {
		last--
	}
	for i := last; i >= 0 && history[i].DaysCompleted == 0; i-- {
		inactive++
	}

	for steps := inactive / regressAfter; steps > 0; steps-- {
		switch attained {
		case StageBecoming:
			attained = StageBuilding
		case StageBuilding:
			attained = StageStarting
		}
	}
	return attained
}
