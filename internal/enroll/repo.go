package enroll

import (
	"context"
	"errors"
	"time"

	"github.com/openlearn/lms-backend/internal/progress"
)

// ErrAlreadyEnrolled guards the one-enrollment-per-(user, course)
// invariant; the SQL store backs it with a unique index.
var ErrAlreadyEnrolled = errors.New("already enrolled in this course")

// Store is the persistence contract the ledger requires. CompleteLesson
// and AppendAttempt are conditionally-atomic appends: the implementation
// must reject a duplicate (enrollment, lesson) pair at the storage
// boundary, not just trust the caller's in-memory check.
type Store interface {
	Enroll(ctx context.Context, userID, courseID string) (progress.Enrollment, error)
	Get(ctx context.Context, userID, courseID string) (progress.Enrollment, error)
	ListByUser(ctx context.Context, userID string) ([]progress.Enrollment, error) // enrolled_at desc

	// CompleteLesson appends a completion record and persists the newly
	// computed progress in one transaction. Returns
	// progress.ErrAlreadyCompleted when the lesson is already recorded.
	CompleteLesson(ctx context.Context, enrollmentID, lessonID string, completedAt time.Time, newProgress int) error

	// AppendAttempt always appends; re-attempts are retained in full.
	AppendAttempt(ctx context.Context, enrollmentID string, a progress.QuizAttempt) error
}
