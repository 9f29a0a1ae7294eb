package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// GroupSelection remembers which group a chat is currently browsing, so a
// bare /match works across bot restarts.
type GroupSelection struct {
	ChatID    int64
	GroupID   int64
	UpdatedAt time.Time
}

func (s *Store) UpsertSelection(ctx context.Context, gs GroupSelection) error {
	if gs.UpdatedAt.IsZero() {
		gs.UpdatedAt = time.Now()
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO group_selections
	(chat_id, group_id, updated_at)
	VALUES ($1,$2,$3)
	ON CONFLICT (chat_id) DO UPDATE
	SET group_id   = EXCLUDED.group_id,
	    updated_at = EXCLUDED.updated_at
	`, gs.ChatID, gs.GroupID, gs.UpdatedAt)

	return err
}

func (s *Store) FindSelection(ctx context.Context, chatID int64) (GroupSelection, error) {
	const q = `SELECT group_id, updated_at
				FROM group_selections
				WHERE chat_id=$1`
	var groupID int64
	var updatedAt time.Time
	err := s.DB.QueryRowContext(ctx, q, chatID).Scan(&groupID, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// No row means no group picked yet; callers check GroupID == 0.
			return GroupSelection{}, nil
		}
		return GroupSelection{}, err
	}

	return GroupSelection{
		ChatID:    chatID,
		GroupID:   groupID,
		UpdatedAt: updatedAt,
	}, nil
}
