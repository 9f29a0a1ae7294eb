package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// MetricEvent is one data point per bot operation.
// Details is a free-form structure for stage-specific fields.
type MetricEvent struct {
	Stage      string // find_matches|save_answer|create_match|...
	OK         bool
	Error      string // short reason when not OK
	DurationMS int64
	ChatID     *int64
	UserID     *int64
	GroupID    *int64
	Details    map[string]any // e.g. {"candidates": 12, "returned": 4}
	CreatedAt  time.Time
}

type MetricsRepo struct{ db *sql.DB }

func NewMetricsRepo(db *sql.DB) *MetricsRepo { return &MetricsRepo{db: db} }

func (r *MetricsRepo) InsertEvent(ctx context.Context, ev MetricEvent) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	var jb []byte
	if ev.Details == nil {
		jb = []byte("{}")
	} else {
		b, err := json.Marshal(ev.Details)
		if err != nil {
			jb = []byte("{}")
		} else {
			jb = b
		}
	}

	const q = `
	INSERT INTO metrics_events(
	    created_at, stage, ok, error, duration_ms,
	    chat_id, user_id, group_id, details
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9);
	`
	_, err := r.db.ExecContext(ctx, q,
		ev.CreatedAt,
		ev.Stage,
		ev.OK,
		nullIfEmpty(ev.Error),
		ev.DurationMS,
		ev.ChatID,
		ev.UserID,
		ev.GroupID,
		string(jb),
	)
	return err
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
