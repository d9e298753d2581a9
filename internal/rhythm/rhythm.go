// Package rhythm computes multi-tier consistency statistics ("chains")
// over a window of timestamped activity records.
//
// The engine is a pure function of its inputs: records are fetched once
// by the caller, every derived value is recomputed per call, and nothing
// is cached or mutated. Missing a day never reads as failure: weekly
// tiers, slow-moving journey stages and forward-looking nudges replace
// the usual broken-streak framing.
package rhythm

import (
	"context"
	"fmt"
	"time"
)

// DefaultDailyThresholdSecs is the duration a day must accumulate to
// count as complete when a definition does not set its own threshold.
const DefaultDailyThresholdSecs = 360

// Criteria selects which activity records belong to a rhythm.
// Empty fields match everything.
type Criteria struct {
	Category    string
	Subcategory string
	Name        string
	Type        string
}

// Matches reports whether an activity with the given attributes
// satisfies the criteria.
func (c Criteria) Matches(category, subcategory, name, typ string) bool {
	if c.Category != "" && c.Category != category {
		return false
	}
	if c.Subcategory != "" && c.Subcategory != subcategory {
		return false
	}
	if c.Name != "" && c.Name != name {
		return false
	}
	if c.Type != "" && c.Type != typ {
		return false
	}
	return true
}

// Definition describes a user-defined rhythm: which records match, how
// much accumulated duration completes a day, and which timezone defines
// day boundaries. Owned by the caller; the engine reads it only.
type Definition struct {
	ID                 string
	Name               string
	Criteria           Criteria
	DailyThresholdSecs int
	Timezone           string
}

// Validate checks the definition's configuration invariants.
func (d Definition) Validate() error {
	if d.DailyThresholdSecs < 0 {
		return fmt.Errorf("rhythm %q: daily threshold must be >= 0, got %d", d.Name, d.DailyThresholdSecs)
	}
	if _, err := d.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the definition's reference timezone.
// An empty timezone falls back to UTC.
func (d Definition) Location() (*time.Location, error) {
	if d.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return nil, fmt.Errorf("rhythm %q: load timezone %q: %w", d.Name, d.Timezone, err)
	}
	return loc, nil
}

// Record is the projection of a matching activity record the engine
// needs: when it happened and, optionally, how long it lasted.
// A nil DurationSecs means the record carries no duration; it still
// counts toward the day's record count but contributes zero seconds.
type Record struct {
	OccurredAt   time.Time
	DurationSecs *int
}

// FetchFunc returns all records matching a rhythm's criteria whose
// OccurredAt falls within [from, to]. Supplied by the caller; the
// engine calls it exactly once per computation.
type FetchFunc func(ctx context.Context, from, to time.Time) ([]Record, error)
