package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ashwin/cadence/internal/rhythm"
)

// ErrRhythmNotFound is returned when a rhythm lookup matches nothing.
var ErrRhythmNotFound = errors.New("rhythm not found")

// SaveRhythm validates and inserts a rhythm definition. A missing ID
// gets a fresh UUID. Returns the stored definition.
func (s *Store) SaveRhythm(ctx context.Context, def rhythm.Definition) (rhythm.Definition, error) {
	if def.Name == "" {
		return rhythm.Definition{}, errors.New("rhythm name is required")
	}
	if def.DailyThresholdSecs == 0 {
		def.DailyThresholdSecs = rhythm.DefaultDailyThresholdSecs
	}
	if err := def.Validate(); err != nil {
		return rhythm.Definition{}, err
	}
	if def.ID == "" {
		def.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rhythms (id, name, category, subcategory, activity_name, activity_type, daily_threshold_secs, timezone, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		def.ID, def.Name,
		def.Criteria.Category, def.Criteria.Subcategory, def.Criteria.Name, def.Criteria.Type,
		def.DailyThresholdSecs, def.Timezone,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return rhythm.Definition{}, fmt.Errorf("insert rhythm %q: %w", def.Name, err)
	}
	return def, nil
}

// RhythmByName looks up one rhythm definition.
func (s *Store) RhythmByName(ctx context.Context, name string) (rhythm.Definition, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, category, subcategory, activity_name, activity_type, daily_threshold_secs, timezone
		 FROM rhythms WHERE name = ?`, name)
	def, err := scanRhythm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return rhythm.Definition{}, fmt.Errorf("rhythm %q: %w", name, ErrRhythmNotFound)
	}
	return def, err
}

// ListRhythms returns all rhythm definitions ordered by name.
func (s *Store) ListRhythms(ctx context.Context) ([]rhythm.Definition, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, category, subcategory, activity_name, activity_type, daily_threshold_secs, timezone
		 FROM rhythms ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query rhythms: %w", err)
	}
	defer rows.Close()

	var defs []rhythm.Definition
	for rows.Next() {
		def, err := scanRhythm(rows)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, rows.Err()
}

// DeleteRhythm removes a rhythm definition by name. The activity log
// is untouched: records belong to the user, not to any one rhythm.
func (s *Store) DeleteRhythm(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM rhythms WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete rhythm %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("rhythm %q: %w", name, ErrRhythmNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRhythm(row rowScanner) (rhythm.Definition, error) {
	var def rhythm.Definition
	err := row.Scan(&def.ID, &def.Name,
		&def.Criteria.Category, &def.Criteria.Subcategory, &def.Criteria.Name, &def.Criteria.Type,
		&def.DailyThresholdSecs, &def.Timezone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rhythm.Definition{}, err
		}
		return rhythm.Definition{}, fmt.Errorf("scan rhythm: %w", err)
	}
	return def, nil
}
