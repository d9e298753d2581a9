package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ashwin/cadence/internal/rhythm"
)

// Activity is one logged activity record.
type Activity struct {
	ID           string
	Category     string
	Subcategory  string
	Name         string
	Type         string
	OccurredAt   time.Time
	DurationSecs *int
}

// AppendActivity inserts a record. A missing ID gets a fresh UUID; a
// missing OccurredAt defaults to now. Returns the stored record.
func (s *Store) AppendActivity(ctx context.Context, a Activity) (Activity, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.OccurredAt.IsZero() {
		a.OccurredAt = time.Now()
	}
	if a.DurationSecs != nil && *a.DurationSecs < 0 {
		return Activity{}, fmt.Errorf("activity duration must be >= 0, got %d", *a.DurationSecs)
	}

	var dur sql.NullInt64
	if a.DurationSecs != nil {
		dur = sql.NullInt64{Int64: int64(*a.DurationSecs), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activities (id, category, subcategory, name, activity_type, occurred_at, duration_secs, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Category, a.Subcategory, a.Name, a.Type,
		a.OccurredAt.UTC().Format(time.RFC3339), dur,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return Activity{}, fmt.Errorf("insert activity: %w", err)
	}
	return a, nil
}

// RecordsMatching returns the engine projection of all activities
// matching the criteria with occurred_at in [from, to], ordered oldest
// first. Criteria fields left empty match everything.
func (s *Store) RecordsMatching(ctx context.Context, c rhythm.Criteria, from, to time.Time) ([]rhythm.Record, error) {
	query := `SELECT occurred_at, duration_secs FROM activities
	          WHERE occurred_at >= ? AND occurred_at <= ?`
	args := []any{from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339)}

	if c.Category != "" {
		query += " AND category = ?"
		args = append(args, c.Category)
	}
	if c.Subcategory != "" {
		query += " AND subcategory = ?"
		args = append(args, c.Subcategory)
	}
	if c.Name != "" {
		query += " AND name = ?"
		args = append(args, c.Name)
	}
	if c.Type != "" {
		query += " AND activity_type = ?"
		args = append(args, c.Type)
	}
	query += " ORDER BY occurred_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()

	var records []rhythm.Record
	for rows.Next() {
		var occurredAt string
		var dur sql.NullInt64
		if err := rows.Scan(&occurredAt, &dur); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		t, err := time.Parse(time.RFC3339, occurredAt)
		if err != nil {
			return nil, fmt.Errorf("parse activity timestamp %q: %w", occurredAt, err)
		}
		r := rhythm.Record{OccurredAt: t}
		if dur.Valid {
			d := int(dur.Int64)
			r.DurationSecs = &d
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Fetch builds the record fetch closure the progress composer consumes
// for one rhythm definition.
func (s *Store) Fetch(def rhythm.Definition) rhythm.FetchFunc {
	return func(ctx context.Context, from, to time.Time) ([]rhythm.Record, error) {
		return s.RecordsMatching(ctx, def.Criteria, from, to)
	}
}
