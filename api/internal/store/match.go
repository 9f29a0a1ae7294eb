package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Match is a persisted pairing of two users in a group. The uuid primary key
// is what the anonymous chat layer exposes instead of the user ids.
type Match struct {
	ID              string
	User1ID         int64
	User2ID         int64
	GroupID         int64
	CommonQuestions int
	CreatedAt       time.Time
}

// OtherUserID returns the match partner of userID, if userID is part of the
// match at all.
func (m Match) OtherUserID(userID int64) (int64, bool) {
	switch userID {
	case m.User1ID:
		return m.User2ID, true
	case m.User2ID:
		return m.User1ID, true
	}
	return 0, false
}

// CreateMatch persists a match between two users and returns it with the
// generated id filled in.
func (s *Store) CreateMatch(ctx context.Context, m Match) (Match, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	const q = `
insert into matches (id, user1_id, user2_id, group_id, common_questions, created_at)
values ($1, $2, $3, $4, $5, $6)`
	_, err := s.DB.ExecContext(ctx, q,
		m.ID,
		m.User1ID,
		m.User2ID,
		m.GroupID,
		m.CommonQuestions,
		m.CreatedAt,
	)
	if err != nil {
		return Match{}, err
	}
	return m, nil
}

// FindMatchBetween looks up a match for the pair in either order within a
// group. Returns ErrNotFound when the pair was never matched.
func (s *Store) FindMatchBetween(ctx context.Context, user1ID, user2ID, groupID int64) (Match, error) {
	const q = `
select id, user1_id, user2_id, group_id, common_questions, created_at
from matches
where group_id = $3
  and ((user1_id = $1 and user2_id = $2) or (user1_id = $2 and user2_id = $1))`

	var m Match
	if err := s.DB.QueryRowContext(ctx, q, user1ID, user2ID, groupID).Scan(
		&m.ID,
		&m.User1ID,
		&m.User2ID,
		&m.GroupID,
		&m.CommonQuestions,
		&m.CreatedAt,
	); err != nil {
		return Match{}, err
	}
	return m, nil
}

// FindMatchesForUser returns all persisted matches the user is part of,
// newest first.
func (s *Store) FindMatchesForUser(ctx context.Context, userID int64) ([]Match, error) {
	const q = `
select id, user1_id, user2_id, group_id, common_questions, created_at
from matches
where user1_id = $1 or user2_id = $1
order by created_at desc`

	rows, err := s.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(
			&m.ID,
			&m.User1ID,
			&m.User2ID,
			&m.GroupID,
			&m.CommonQuestions,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}
