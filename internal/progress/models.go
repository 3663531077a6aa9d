package progress

import "time"

// Enrollment links one learner to one course and owns that learner's
// completion and attempt histories. Exactly one exists per
// (user, course) pair; the storage layer enforces that with a unique
// index, this package only ever sees one at a time.
type Enrollment struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	CourseID   string    `json:"course_id"`
	Progress   int       `json:"progress"` // 0-100, lesson completion only
	EnrolledAt time.Time `json:"enrolled_at"`

	CompletedLessons []CompletedLesson `json:"completed_lessons,omitempty"`
	QuizAttempts     []QuizAttempt     `json:"quiz_attempts,omitempty"`
}

// CompletedLesson is append-only; a lesson appears at most once per
// enrollment.
type CompletedLesson struct {
	LessonID    string    `json:"lesson_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// QuizAttempt is one scored submission. Attempts are append-only and all
// retained; re-attempts are unlimited.
type QuizAttempt struct {
	QuizID      string          `json:"quiz_id"`
	Score       int             `json:"score"` // 0-100, rounded
	Answers     []AnswerVerdict `json:"answers,omitempty"`
	AttemptedAt time.Time       `json:"attempted_at"`
}

// AnswerVerdict records one graded answer. There is one entry per
// submitted answer, not per question: partial submissions keep only what
// was submitted.
type AnswerVerdict struct {
	QuestionID     string `json:"question_id"`
	SelectedOption int    `json:"selected_option"`
	IsCorrect      bool   `json:"is_correct"`
}
