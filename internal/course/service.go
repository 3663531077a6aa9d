package course

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/openlearn/lms-backend/internal/progress"
)

type memoryStore struct {
	mu      sync.RWMutex
	courses map[string]Course
	lessons map[string]Lesson
	quizzes map[string]Quiz
}

// NewInMemoryStore is the dev/test catalog; the gateway uses the SQL store.
func NewInMemoryStore() Store {
	return &memoryStore{
		courses: map[string]Course{},
		lessons: map[string]Lesson{},
		quizzes: map[string]Quiz{},
	}
}

func (m *memoryStore) PutCourse(c Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses[c.ID] = c
	return nil
}

func (m *memoryStore) GetCourse(id string) (Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.courses[id]
	if !ok {
		return Course{}, fmt.Errorf("course %s: %w", id, progress.ErrNotFound)
	}
	return c, nil
}

func (m *memoryStore) ListCourses(_ context.Context, opts ListOpts) ([]Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Course{}
	for _, c := range m.courses {
		if opts.Q != "" && !strings.Contains(strings.ToLower(c.Title), strings.ToLower(opts.Q)) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (m *memoryStore) PutLesson(l Lesson) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lessons[l.ID] = l
	return nil
}

func (m *memoryStore) GetLesson(id string) (Lesson, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.lessons[id]
	if !ok {
		return Lesson{}, fmt.Errorf("lesson %s: %w", id, progress.ErrNotFound)
	}
	return l, nil
}

func (m *memoryStore) ListLessons(_ context.Context, courseID string) ([]Lesson, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Lesson{}
	for _, l := range m.lessons {
		if l.CourseID == courseID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *memoryStore) CountLessons(_ context.Context, courseID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, l := range m.lessons {
		if l.CourseID == courseID {
			n++
		}
	}
	return n, nil
}

func (m *memoryStore) PutQuiz(q Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quizzes[q.ID] = q
	return nil
}

// GetQuiz hides answer keys from students in this minimal store.
func (m *memoryStore) GetQuiz(id string) (Quiz, error) {
	q, err := m.GetQuizFull(id)
	if err != nil {
		return Quiz{}, err
	}
	return q.Sanitize(), nil
}

func (m *memoryStore) GetQuizFull(id string) (Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.quizzes[id]
	if !ok {
		return Quiz{}, fmt.Errorf("quiz %s: %w", id, progress.ErrNotFound)
	}
	return q, nil
}

func (m *memoryStore) ListQuizzes(_ context.Context, courseID string) ([]Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Quiz{}
	for _, q := range m.quizzes {
		if q.CourseID == courseID {
			out = append(out, q.Sanitize())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out, nil
}
