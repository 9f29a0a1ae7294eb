package store

import (
	"context"

	"allkinds-bot/api/internal/matching"
)

// UserAnswersForGroup returns the user's answers restricted to the group's
// active questions, keyed by question id. Answers to deactivated questions
// are filtered out here so they never reach scoring.
func (s *Store) UserAnswersForGroup(ctx context.Context, userID, groupID int64) (matching.AnswerSet, error) {
	const q = `
select a.question_id, a.value
from answers a
join questions qs on qs.id = a.question_id
where a.user_id = $1
  and qs.group_id = $2
  and qs.is_active`

	rows, err := s.DB.QueryContext(ctx, q, userID, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := matching.AnswerSet{}
	for rows.Next() {
		var (
			qid   int64
			value int
		)
		if err := rows.Scan(&qid, &value); err != nil {
			return nil, err
		}
		res[qid] = value
	}
	return res, rows.Err()
}
