package syncx

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

const (
	EventEnrolled        = "Enrolled"
	EventLessonCompleted = "LessonCompleted"
	EventQuizAttempted   = "QuizAttempted"
)

type Event struct {
	Offset    int64
	Type      string
	Key       string // natural key: enrollmentID
	DataJSON  string
	CreatedAt int64
}

// EventRepo is an append-only audit trail of ledger activity. Writes are
// best-effort: a failed append never fails the request that caused it.
type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Append(ctx context.Context, typ, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, created_at) VALUES ($1,$2,$3,$4)`,
		typ, key, string(data), time.Now().Unix())
	return err
}

func (r *EventRepo) List(ctx context.Context, key string, limit int) ([]Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT offset, typ, key, data, created_at FROM event_log WHERE key=$1 ORDER BY offset DESC LIMIT $2`,
		key, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Offset, &e.Type, &e.Key, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
