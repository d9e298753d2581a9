package rhythm

import (
	"context"
	"reflect"
	"testing"
	"time"
)

func testDefinition() Definition {
	return Definition{
		ID:                 "r1",
		Name:               "sit quietly",
		Criteria:           Criteria{Category: "practice"},
		DailyThresholdSecs: 360,
		Timezone:           "UTC",
	}
}

// fetchOf returns a FetchFunc serving the given records, filtered to
// the requested range like a real record store would.
func fetchOf(records []Record) FetchFunc {
	return func(_ context.Context, from, to time.Time) ([]Record, error) {
		var out []Record
		for _, r := range records {
			if !r.OccurredAt.Before(from) && !r.OccurredAt.After(to) {
				out = append(out, r)
			}
		}
		return out, nil
	}
}

// dailyRecords produces one 600s record per day for n consecutive days
// starting at start (09:00 each day).
func dailyRecords(start time.Time, n int) []Record {
	var records []Record
	for i := 0; i < n; i++ {
		records = append(records, Record{
			OccurredAt:   start.AddDate(0, 0, i).Add(9 * time.Hour),
			DurationSecs: secs(600),
		})
	}
	return records
}

func TestComputeProgress_NoRecords(t *testing.T) {
	svc := NewService(nil)
	p, err := svc.ComputeProgress(context.Background(), testDefinition(), fetchOf(nil), testThursday, Options{})
	if err != nil {
		t.Fatalf("ComputeProgress: %v", err)
	}

	if p.Totals.Sessions != 0 || p.Totals.TotalSecs != 0 || p.Totals.FirstActivity != nil {
		t.Errorf("Totals = %+v, want zeroed", p.Totals)
	}
	if p.JourneyStage != StageStarting {
		t.Errorf("JourneyStage = %s, want starting", p.JourneyStage)
	}
	for _, c := range p.Chains {
		if c.Current != 0 || c.Longest != 0 {
			t.Errorf("chain %s = {%d %d}, want zeros", c.Tier.Name, c.Current, c.Longest)
		}
	}
	if p.CurrentWeek.DaysCompleted != 0 {
		t.Errorf("CurrentWeek.DaysCompleted = %d, want 0", p.CurrentWeek.DaysCompleted)
	}
}

func TestComputeProgress_MidWeekScenario(t *testing.T) {
	// Four complete days Monday through Thursday, as of Thursday.
	records := dailyRecords(testMonday, 4)
	svc := NewService(nil)

	p, err := svc.ComputeProgress(context.Background(), testDefinition(), fetchOf(records), testThursday, Options{})
	if err != nil {
		t.Fatalf("ComputeProgress: %v", err)
	}

	cw := p.CurrentWeek
	if cw.DaysCompleted != 4 {
		t.Errorf("DaysCompleted = %d, want 4", cw.DaysCompleted)
	}
	if cw.BestPossible == nil || cw.BestPossible.Name != "daily" {
		t.Errorf("BestPossible = %+v, want daily", cw.BestPossible)
	}
	if cw.Nudge != "3 more times to reach Daily" {
		t.Errorf("Nudge = %q", cw.Nudge)
	}

	if p.Totals.Sessions != 4 || p.Totals.TotalSecs != 2400 {
		t.Errorf("Totals = %+v, want 4 sessions / 2400s", p.Totals)
	}
	wantFirst := testMonday.Add(9 * time.Hour)
	if p.Totals.FirstActivity == nil || !p.Totals.FirstActivity.Equal(wantFirst) {
		t.Errorf("FirstActivity = %v, want %v", p.Totals.FirstActivity, wantFirst)
	}

	// The in-progress week already satisfies few_times and extends it.
	few := chainFor(p.Chains, TierFewTimes)
	if few.Current != 1 {
		t.Errorf("few_times Current = %d, want 1", few.Current)
	}
}

func TestComputeProgress_ChainsAcrossWeeks(t *testing.T) {
	// Three prior weeks with 5 complete days each, then 2 days of the
	// current week.
	var records []Record
	for w := 3; w >= 1; w-- {
		records = append(records, dailyRecords(testMonday.AddDate(0, 0, -7*w), 5)...)
	}
	records = append(records, dailyRecords(testMonday, 2)...)

	svc := NewService(nil)
	p, err := svc.ComputeProgress(context.Background(), testDefinition(), fetchOf(records), testThursday, Options{})
	if err != nil {
		t.Fatalf("ComputeProgress: %v", err)
	}

	most := chainFor(p.Chains, TierMostDays)
	if most.Current != 3 || most.Longest != 3 {
		t.Errorf("most_days = {%d %d}, want {3 3}", most.Current, most.Longest)
	}
	weekly := chainFor(p.Chains, TierWeekly)
	if weekly.Current != 4 {
		t.Errorf("weekly Current = %d, want 4 (current week counts at 2 days)", weekly.Current)
	}
	if p.JourneyStage != StageBuilding {
		t.Errorf("JourneyStage = %s, want building (chain below 4)", p.JourneyStage)
	}
}

func TestComputeProgress_BecomingStage(t *testing.T) {
	var records []Record
	for w := 5; w >= 1; w-- {
		records = append(records, dailyRecords(testMonday.AddDate(0, 0, -7*w), 4)...)
	}

	svc := NewService(nil)
	p, err := svc.ComputeProgress(context.Background(), testDefinition(), fetchOf(records), testThursday, Options{})
	if err != nil {
		t.Fatalf("ComputeProgress: %v", err)
	}
	if p.JourneyStage != StageBecoming {
		t.Errorf("JourneyStage = %s, want becoming", p.JourneyStage)
	}
}

func TestComputeProgress_Idempotent(t *testing.T) {
	var records []Record
	for w := 2; w >= 1; w-- {
		records = append(records, dailyRecords(testMonday.AddDate(0, 0, -7*w), 6)...)
	}
	svc := NewService(nil)

	run := func() *Progress {
		p, err := svc.ComputeProgress(context.Background(), testDefinition(), fetchOf(records), testThursday, Options{})
		if err != nil {
			t.Fatalf("ComputeProgress: %v", err)
		}
		return p
	}

	a, b := run(), run()
	a.Encouragement, b.Encouragement = nil, nil
	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs must produce identical progress")
	}
}

func TestComputeProgress_YearDays(t *testing.T) {
	svc := NewService(nil)
	p, err := svc.ComputeProgress(context.Background(), testDefinition(), fetchOf(nil), testThursday, Options{})
	if err != nil {
		t.Fatalf("ComputeProgress: %v", err)
	}

	// Jan 1 through Mar 5, 2026.
	if len(p.Days) != 64 {
		t.Errorf("len(Days) = %d, want 64", len(p.Days))
	}
	jan1 := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !p.Days[0].Date.Equal(jan1) {
		t.Errorf("Days[0].Date = %s, want Jan 1", p.Days[0].Date)
	}
}

func TestComputeProgress_InputValidation(t *testing.T) {
	svc := NewService(nil)
	ctx := context.Background()
	def := testDefinition()

	t.Run("nil fetch", func(t *testing.T) {
		if _, err := svc.ComputeProgress(ctx, def, nil, testThursday, Options{}); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("zero as-of", func(t *testing.T) {
		if _, err := svc.ComputeProgress(ctx, def, fetchOf(nil), time.Time{}, Options{}); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("negative lookback", func(t *testing.T) {
		if _, err := svc.ComputeProgress(ctx, def, fetchOf(nil), testThursday, Options{LookbackWeeks: -1}); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("negative threshold", func(t *testing.T) {
		bad := def
		bad.DailyThresholdSecs = -1
		if _, err := svc.ComputeProgress(ctx, bad, fetchOf(nil), testThursday, Options{}); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("bad timezone", func(t *testing.T) {
		bad := def
		bad.Timezone = "Nowhere/Imaginary"
		if _, err := svc.ComputeProgress(ctx, bad, fetchOf(nil), testThursday, Options{}); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("record missing time", func(t *testing.T) {
		fetch := func(context.Context, time.Time, time.Time) ([]Record, error) {
			return []Record{{}}, nil
		}
		if _, err := svc.ComputeProgress(ctx, def, fetch, testThursday, Options{}); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("record after as-of", func(t *testing.T) {
		fetch := func(context.Context, time.Time, time.Time) ([]Record, error) {
			return []Record{{OccurredAt: testThursday.Add(time.Hour)}}, nil
		}
		if _, err := svc.ComputeProgress(ctx, def, fetch, testThursday, Options{}); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("negative duration", func(t *testing.T) {
		fetch := func(context.Context, time.Time, time.Time) ([]Record, error) {
			return []Record{{OccurredAt: testMonday, DurationSecs: secs(-5)}}, nil
		}
		if _, err := svc.ComputeProgress(ctx, def, fetch, testThursday, Options{}); err == nil {
			t.Error("expected error")
		}
	})
}

func TestComputeProgress_EncouragementContexts(t *testing.T) {
	source := &stubSource{messages: []Message{
		{ID: "gen-start", Stage: StageStarting, Context: ContextGeneral, Text: "welcome"},
		{ID: "nudge-start", Stage: StageStarting, Context: ContextMidWeekNudge, Text: "a little more"},
		{ID: "tier-start", Stage: StageStarting, Context: ContextTierAchieved, Text: "a full week"},
	}}
	svc := NewService(source)
	ctx := context.Background()
	def := testDefinition()

	t.Run("nudge pending picks mid_week_nudge", func(t *testing.T) {
		p, err := svc.ComputeProgress(ctx, def, fetchOf(dailyRecords(testMonday, 4)), testThursday, Options{Rand: fixedRand()})
		if err != nil {
			t.Fatalf("ComputeProgress: %v", err)
		}
		if p.Encouragement == nil || p.Encouragement.MessageID != "nudge-start" {
			t.Errorf("Encouragement = %+v, want nudge-start", p.Encouragement)
		}
	})

	t.Run("no records at week end falls back to general", func(t *testing.T) {
		// Sunday: no days remain, so no nudge context applies either.
		p, err := svc.ComputeProgress(ctx, def, fetchOf(nil), testSunday, Options{Rand: fixedRand()})
		if err != nil {
			t.Fatalf("ComputeProgress: %v", err)
		}
		if p.Encouragement == nil || p.Encouragement.MessageID != "gen-start" {
			t.Errorf("Encouragement = %+v, want gen-start", p.Encouragement)
		}
	})

	t.Run("secured week picks tier_achieved", func(t *testing.T) {
		// 7/7 as of Sunday: achieved == best possible.
		p, err := svc.ComputeProgress(ctx, def, fetchOf(dailyRecords(testMonday, 7)), testSunday, Options{Rand: fixedRand()})
		if err != nil {
			t.Fatalf("ComputeProgress: %v", err)
		}
		if p.Encouragement == nil || p.Encouragement.MessageID != "tier-start" {
			t.Errorf("Encouragement = %+v, want tier-start", p.Encouragement)
		}
	})
}

func TestComputeProgress_LastMessageCarried(t *testing.T) {
	source := &stubSource{messages: []Message{
		{ID: "g1", Stage: StageStarting, Context: ContextGeneral, Text: "one"},
		{ID: "g2", Stage: StageStarting, Context: ContextGeneral, Text: "two"},
	}}
	svc := NewService(source)

	for i := 0; i < 10; i++ {
		p, err := svc.ComputeProgress(context.Background(), testDefinition(), fetchOf(nil), testThursday,
			Options{LastMessageID: "g1", Rand: fixedRand()})
		if err != nil {
			t.Fatalf("ComputeProgress: %v", err)
		}
		if p.Encouragement == nil || p.Encouragement.MessageID == "g1" {
			t.Fatalf("Encouragement = %+v, must avoid repeating g1", p.Encouragement)
		}
	}
}
