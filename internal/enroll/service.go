package enroll

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openlearn/lms-backend/internal/progress"
)

type memoryStore struct {
	mu   sync.Mutex
	byID map[string]*progress.Enrollment
}

// NewInMemoryStore backs tests and offline experiments. The mutex gives
// it the same one-writer-per-enrollment discipline the SQL store gets
// from its transaction plus unique index.
func NewInMemoryStore() Store {
	return &memoryStore{byID: map[string]*progress.Enrollment{}}
}

func (m *memoryStore) Enroll(_ context.Context, userID, courseID string) (progress.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.byID {
		if e.UserID == userID && e.CourseID == courseID {
			return progress.Enrollment{}, ErrAlreadyEnrolled
		}
	}
	e := &progress.Enrollment{
		ID:         uuid.NewString(),
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
	}
	m.byID[e.ID] = e
	return *e, nil
}

func (m *memoryStore) Get(_ context.Context, userID, courseID string) (progress.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.byID {
		if e.UserID == userID && e.CourseID == courseID {
			return cloneEnrollment(e), nil
		}
	}
	return progress.Enrollment{}, fmt.Errorf("enrollment: %w", progress.ErrNotFound)
}

func (m *memoryStore) ListByUser(_ context.Context, userID string) ([]progress.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []progress.Enrollment{}
	for _, e := range m.byID {
		if e.UserID == userID {
			out = append(out, cloneEnrollment(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EnrolledAt.After(out[j].EnrolledAt) })
	return out, nil
}

func (m *memoryStore) CompleteLesson(_ context.Context, enrollmentID, lessonID string, completedAt time.Time, newProgress int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.byID[enrollmentID]
	if !ok {
		return fmt.Errorf("enrollment %s: %w", enrollmentID, progress.ErrNotFound)
	}
	for _, c := range e.CompletedLessons {
		if c.LessonID == lessonID {
			return fmt.Errorf("lesson %s: %w", lessonID, progress.ErrAlreadyCompleted)
		}
	}
	e.CompletedLessons = append(e.CompletedLessons, progress.CompletedLesson{
		LessonID:    lessonID,
		CompletedAt: completedAt,
	})
	e.Progress = newProgress
	return nil
}

func (m *memoryStore) AppendAttempt(_ context.Context, enrollmentID string, a progress.QuizAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.byID[enrollmentID]
	if !ok {
		return fmt.Errorf("enrollment %s: %w", enrollmentID, progress.ErrNotFound)
	}
	e.QuizAttempts = append(e.QuizAttempts, a)
	return nil
}

func cloneEnrollment(e *progress.Enrollment) progress.Enrollment {
	out := *e
	out.CompletedLessons = append([]progress.CompletedLesson(nil), e.CompletedLessons...)
	out.QuizAttempts = append([]progress.QuizAttempt(nil), e.QuizAttempts...)
	return out
}
