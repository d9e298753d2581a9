package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Encouragement non-repetition state. The chain engine is stateless by
// design: the caller carries the last shown message ID in and the
// chosen one out, and this is where a CLI caller keeps it.

// LastMessageID returns the most recently shown message for a rhythm,
// or "" if none was recorded.
func (s *Store) LastMessageID(ctx context.Context, rhythmID string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT last_message_id FROM encouragement_state WHERE rhythm_id = ?`, rhythmID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query last message: %w", err)
	}
	return id, nil
}

// SetLastMessageID records the message just shown for a rhythm.
func (s *Store) SetLastMessageID(ctx context.Context, rhythmID, messageID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO encouragement_state (rhythm_id, last_message_id) VALUES (?, ?)
		 ON CONFLICT(rhythm_id) DO UPDATE SET last_message_id = excluded.last_message_id`,
		rhythmID, messageID)
	if err != nil {
		return fmt.Errorf("save last message: %w", err)
	}
	return nil
}
