package enroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openlearn/lms-backend/internal/progress"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Enroll(ctx context.Context, userID, courseID string) (progress.Enrollment, error) {
	id := uuid.NewString()
	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO enrollments (id,user_id,course_id,progress,enrolled_at) VALUES ($1,$2,$3,0,$4)
		 ON CONFLICT (user_id, course_id) DO NOTHING`,
		id, userID, courseID, now.Unix())
	if err != nil {
		return progress.Enrollment{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return progress.Enrollment{}, ErrAlreadyEnrolled
	}
	return progress.Enrollment{ID: id, UserID: userID, CourseID: courseID, EnrolledAt: now}, nil
}

func (s *SQLStore) Get(ctx context.Context, userID, courseID string) (progress.Enrollment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,user_id,course_id,progress,enrolled_at FROM enrollments WHERE user_id=$1 AND course_id=$2`,
		userID, courseID)
	e, err := scanEnrollment(row)
	if err != nil {
		return progress.Enrollment{}, err
	}
	if err := s.loadHistories(ctx, &e); err != nil {
		return progress.Enrollment{}, err
	}
	return e, nil
}

func (s *SQLStore) ListByUser(ctx context.Context, userID string) ([]progress.Enrollment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,user_id,course_id,progress,enrolled_at FROM enrollments WHERE user_id=$1 ORDER BY enrolled_at DESC, id`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []progress.Enrollment{}
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := s.loadHistories(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// CompleteLesson is a conditionally-atomic append: the ON CONFLICT DO
// NOTHING insert decides the race, and the progress update rides in the
// same transaction.
func (s *SQLStore) CompleteLesson(ctx context.Context, enrollmentID, lessonID string, completedAt time.Time, newProgress int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO completed_lessons (enrollment_id,lesson_id,completed_at) VALUES ($1,$2,$3)
		 ON CONFLICT (enrollment_id, lesson_id) DO NOTHING`,
		enrollmentID, lessonID, completedAt.Unix())
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("lesson %s: %w", lessonID, progress.ErrAlreadyCompleted)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE enrollments SET progress=$1 WHERE id=$2`, newProgress, enrollmentID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLStore) AppendAttempt(ctx context.Context, enrollmentID string, a progress.QuizAttempt) error {
	aj, err := json.Marshal(a.Answers)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quiz_attempts (enrollment_id,quiz_id,score,answers_json,attempted_at) VALUES ($1,$2,$3,$4,$5)`,
		enrollmentID, a.QuizID, a.Score, string(aj), a.AttemptedAt.Unix())
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEnrollment(row scanner) (progress.Enrollment, error) {
	var e progress.Enrollment
	var enrolledAt int64
	if err := row.Scan(&e.ID, &e.UserID, &e.CourseID, &e.Progress, &enrolledAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return progress.Enrollment{}, fmt.Errorf("enrollment: %w", progress.ErrNotFound)
		}
		return progress.Enrollment{}, err
	}
	e.EnrolledAt = time.Unix(enrolledAt, 0).UTC()
	return e, nil
}

func (s *SQLStore) loadHistories(ctx context.Context, e *progress.Enrollment) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT lesson_id,completed_at FROM completed_lessons WHERE enrollment_id=$1 ORDER BY completed_at, lesson_id`,
		e.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var c progress.CompletedLesson
		var at int64
		if err := rows.Scan(&c.LessonID, &at); err != nil {
			return err
		}
		c.CompletedAt = time.Unix(at, 0).UTC()
		e.CompletedLessons = append(e.CompletedLessons, c)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	arows, err := s.db.QueryContext(ctx,
		`SELECT quiz_id,score,answers_json,attempted_at FROM quiz_attempts WHERE enrollment_id=$1 ORDER BY id`,
		e.ID)
	if err != nil {
		return err
	}
	defer arows.Close()
	for arows.Next() {
		var a progress.QuizAttempt
		var ajson string
		var at int64
		if err := arows.Scan(&a.QuizID, &a.Score, &ajson, &at); err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(ajson), &a.Answers); err != nil {
			a.Answers = nil
		}
		a.AttemptedAt = time.Unix(at, 0).UTC()
		e.QuizAttempts = append(e.QuizAttempts, a)
	}
	return arows.Err()
}
