package course

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/openlearn/lms-backend/internal/progress"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) PutCourse(c Course) error {
	_, err := s.db.Exec(`INSERT INTO courses (id,title,description,instructor,price,created_by,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, description=EXCLUDED.description,
			instructor=EXCLUDED.instructor, price=EXCLUDED.price`,
		c.ID, c.Title, c.Description, c.Instructor, c.Price, c.CreatedBy, time.Now().Unix())
	return err
}

func (s *SQLStore) GetCourse(id string) (Course, error) {
	row := s.db.QueryRow(`SELECT id,title,description,instructor,price,created_by,created_at FROM courses WHERE id=$1`, id)
	var c Course
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Instructor, &c.Price, &c.CreatedBy, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Course{}, fmt.Errorf("course %s: %w", id, progress.ErrNotFound)
		}
		return Course{}, err
	}
	return c, nil
}

func (s *SQLStore) ListCourses(ctx context.Context, opts ListOpts) ([]Course, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	sqlStr := `SELECT id,title,description,instructor,price,created_by,created_at FROM courses WHERE 1=1`
	args := []any{}
	if opts.Q != "" {
		sqlStr += ` AND title LIKE '%' || $1 || '%'`
		args = append(args, opts.Q)
	}
	args = append(args, limit, opts.Offset)
	sqlStr += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Course{}
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Instructor, &c.Price, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) PutLesson(l Lesson) error {
	rj, err := json.Marshal(l.Resources)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO lessons (id,course_id,title,video_url,resources_json,position,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, video_url=EXCLUDED.video_url,
			resources_json=EXCLUDED.resources_json, position=EXCLUDED.position`,
		l.ID, l.CourseID, l.Title, l.VideoURL, string(rj), l.Position, time.Now().Unix())
	return err
}

func (s *SQLStore) GetLesson(id string) (Lesson, error) {
	row := s.db.QueryRow(`SELECT id,course_id,title,video_url,resources_json,position,created_at FROM lessons WHERE id=$1`, id)
	return scanLesson(row)
}

func (s *SQLStore) ListLessons(ctx context.Context, courseID string) ([]Lesson, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,course_id,title,video_url,resources_json,position,created_at FROM lessons WHERE course_id=$1 ORDER BY position`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Lesson{}
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *SQLStore) CountLessons(ctx context.Context, courseID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lessons WHERE course_id=$1`, courseID).Scan(&n)
	return n, err
}

func (s *SQLStore) PutQuiz(q Quiz) error {
	qj, err := json.Marshal(q.Questions)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO quizzes (id,course_id,title,description,questions_json,passing_score,time_limit_min,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, description=EXCLUDED.description,
			questions_json=EXCLUDED.questions_json, passing_score=EXCLUDED.passing_score, time_limit_min=EXCLUDED.time_limit_min`,
		q.ID, q.CourseID, q.Title, q.Description, string(qj), q.PassingScore, q.TimeLimitMin, time.Now().Unix())
	return err
}

// GetQuiz strips answer keys (parity with the in-memory store).
func (s *SQLStore) GetQuiz(id string) (Quiz, error) {
	q, err := s.GetQuizFull(id)
	if err != nil {
		return Quiz{}, err
	}
	return q.Sanitize(), nil
}

func (s *SQLStore) GetQuizFull(id string) (Quiz, error) {
	row := s.db.QueryRow(`SELECT id,course_id,title,description,questions_json,passing_score,time_limit_min,created_at FROM quizzes WHERE id=$1`, id)
	return scanQuiz(row)
}

func (s *SQLStore) ListQuizzes(ctx context.Context, courseID string) ([]Quiz, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,course_id,title,description,questions_json,passing_score,time_limit_min,created_at FROM quizzes WHERE course_id=$1 ORDER BY created_at`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Quiz{}
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q.Sanitize())
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLesson(row scanner) (Lesson, error) {
	var l Lesson
	var rjson string
	if err := row.Scan(&l.ID, &l.CourseID, &l.Title, &l.VideoURL, &rjson, &l.Position, &l.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Lesson{}, fmt.Errorf("lesson: %w", progress.ErrNotFound)
		}
		return Lesson{}, err
	}
	if err := json.Unmarshal([]byte(rjson), &l.Resources); err != nil {
		l.Resources = nil
	}
	return l, nil
}

func scanQuiz(row scanner) (Quiz, error) {
	var q Quiz
	var qjson string
	if err := row.Scan(&q.ID, &q.CourseID, &q.Title, &q.Description, &qjson, &q.PassingScore, &q.TimeLimitMin, &q.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, fmt.Errorf("quiz: %w", progress.ErrNotFound)
		}
		return Quiz{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &q.Questions); err != nil {
		return Quiz{}, err
	}
	return q, nil
}
