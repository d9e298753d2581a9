package rhythm

import "time"

// dayKeyLayout is the map key form for a local calendar date.
const dayKeyLayout = "2006-01-02"

// DayStatus is the per-day aggregate for one local calendar date.
// Complete is always TotalSecs >= the rhythm's daily threshold; records
// without a duration raise RecordCount but never TotalSecs, so
// presence-only matches cannot silently complete a thresholded day.
type DayStatus struct {
	Date        time.Time `json:"date"`
	TotalSecs   int       `json:"totalSeconds"`
	RecordCount int       `json:"recordCount"`
	Complete    bool      `json:"isComplete"`
}

// DateOf truncates an instant to its local calendar date (midnight in
// loc). A record exactly at a midnight boundary belongs to the date it
// falls into after conversion, never to two days.
func DateOf(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// AggregateDays groups records by local calendar date and sums their
// durations, producing one DayStatus per date in [from, to] inclusive.
// Dates with no matching records appear with zeroed fields. from and to
// must already be local dates (as produced by DateOf).
func AggregateDays(records []Record, from, to time.Time, loc *time.Location, thresholdSecs int) []DayStatus {
	totals := make(map[string]int)
	counts := make(map[string]int)

	for _, r := range records {
		key := DateOf(r.OccurredAt, loc).Format(dayKeyLayout)
		counts[key]++
		if r.DurationSecs != nil {
			totals[key] += *r.DurationSecs
		}
	}

	var days []DayStatus
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(dayKeyLayout)
		total := totals[key]
		complete := total >= thresholdSecs
		if thresholdSecs == 0 {
			// A zero threshold means presence completes the day; an
			// empty day is still incomplete.
			complete = counts[key] > 0
		}
		days = append(days, DayStatus{
			Date:        d,
			TotalSecs:   total,
			RecordCount: counts[key],
			Complete:    complete,
		})
	}
	return days
}
