package progress

import (
	"fmt"
	"time"
)

// CompletionResult is what a successful lesson completion reports back.
type CompletionResult struct {
	Progress         int `json:"progress"`
	CompletedLessons int `json:"completed_lessons"`
	TotalLessons     int `json:"total_lessons"`
}

// MarkLessonComplete appends a completion record and refreshes the stored
// progress percentage. A lesson already present in the history is
// rejected with ErrAlreadyCompleted — never silently accepted or
// double-counted. The caller has already checked that the lesson belongs
// to the enrollment's course.
//
// This in-memory check is not enough under concurrent writes to the same
// enrollment; the storage layer backs it with a unique
// (enrollment, lesson) constraint on the conditional append.
func MarkLessonComplete(e *Enrollment, lessonID string, totalLessons int, now time.Time) (CompletionResult, error) {
	for _, c := range e.CompletedLessons {
		if c.LessonID == lessonID {
			return CompletionResult{}, fmt.Errorf("lesson %s: %w", lessonID, ErrAlreadyCompleted)
		}
	}
	e.CompletedLessons = append(e.CompletedLessons, CompletedLesson{
		LessonID:    lessonID,
		CompletedAt: now,
	})
	e.Progress = Percent(len(e.CompletedLessons), totalLessons)
	return CompletionResult{
		Progress:         e.Progress,
		CompletedLessons: len(e.CompletedLessons),
		TotalLessons:     totalLessons,
	}, nil
}

// RecordAttempt appends to the attempt history. Repeated attempts at the
// same quiz are allowed and all retained. Progress tracks lesson
// completion only, so it is deliberately left untouched here.
func RecordAttempt(e *Enrollment, a QuizAttempt) {
	e.QuizAttempts = append(e.QuizAttempts, a)
}
