package store

import (
	"context"
	"database/sql"
)

type Question struct {
	ID       int64
	GroupID  int64
	Text     string
	Category *string
	IsActive bool
}

// FindQuestionsByIDs returns the requested questions keyed by id. Missing
// ids are simply absent from the result.
func (s *Store) FindQuestionsByIDs(ctx context.Context, ids []int64) (map[int64]Question, error) {
	const q = `
select id, group_id, text, category, is_active
from questions
where id = any($1)`

	rows, err := s.DB.QueryContext(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[int64]Question, len(ids))
	for rows.Next() {
		var (
			qu       Question
			category sql.NullString
		)
		if err := rows.Scan(&qu.ID, &qu.GroupID, &qu.Text, &category, &qu.IsActive); err != nil {
			return nil, err
		}
		if category.Valid {
			qu.Category = &category.String
		}
		res[qu.ID] = qu
	}
	return res, rows.Err()
}

// QuestionCategories maps question ids to their category label. Questions
// without a label are omitted; the scorer buckets those as uncategorized.
func (s *Store) QuestionCategories(ctx context.Context, ids []int64) (map[int64]string, error) {
	questions, err := s.FindQuestionsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	res := make(map[int64]string, len(questions))
	for id, qu := range questions {
		if qu.Category != nil && *qu.Category != "" {
			res[id] = *qu.Category
		}
	}
	return res, nil
}
