package progress

import (
	"math"
	"time"
)

// Percent is completed/total as a rounded percentage, clamped to [0,100].
// A course with no lessons is 0% regardless of completions.
func Percent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	p := int(math.Round(float64(completed) / float64(total) * 100))
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return p
}

// BestScores keeps the maximum score seen per quiz across the attempt
// history. Ties keep the first-seen value; quizzes never attempted are
// absent, not zero.
func BestScores(attempts []QuizAttempt) map[string]int {
	best := make(map[string]int, len(attempts))
	for _, a := range attempts {
		if cur, ok := best[a.QuizID]; !ok || a.Score > cur {
			best[a.QuizID] = a.Score
		}
	}
	return best
}

// CourseSummary is one row of a learner's progress overview.
type CourseSummary struct {
	CourseID         string    `json:"course_id"`
	Progress         int       `json:"progress"`
	CompletedLessons int       `json:"completed_lessons"`
	QuizAttempts     int       `json:"quiz_attempts"`
	EnrolledAt       time.Time `json:"enrolled_at"`
}

// Overview summarizes each enrollment, preserving the caller's ordering
// (callers sort by enrollment recency, descending).
func Overview(enrollments []Enrollment) []CourseSummary {
	out := make([]CourseSummary, 0, len(enrollments))
	for _, e := range enrollments {
		out = append(out, CourseSummary{
			CourseID:         e.CourseID,
			Progress:         e.Progress,
			CompletedLessons: len(e.CompletedLessons),
			QuizAttempts:     len(e.QuizAttempts),
			EnrolledAt:       e.EnrolledAt,
		})
	}
	return out
}
