package progress_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/openlearn/lms-backend/internal/progress"
)

func TestPercent(t *testing.T) {
	cases := []struct {
		name             string
		completed, total int
		want             int
	}{
		{"empty course", 0, 0, 0},
		{"no lessons but completions", 3, 0, 0},
		{"all done", 5, 5, 100},
		{"one of three rounds down", 1, 3, 33},
		{"two of three rounds up", 2, 3, 67},
		{"half up", 1, 2, 50},
		{"none done", 0, 8, 0},
		{"clamped above 100", 7, 5, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, progress.Percent(tc.completed, tc.total))
		})
	}
}

func TestBestScores(t *testing.T) {
	attempts := []progress.QuizAttempt{
		{QuizID: "A", Score: 60},
		{QuizID: "A", Score: 85},
		{QuizID: "B", Score: 40},
	}
	assert.Equal(t, map[string]int{"A": 85, "B": 40}, progress.BestScores(attempts))
}

func TestBestScoresTieKeepsFirstSeen(t *testing.T) {
	first := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	attempts := []progress.QuizAttempt{
		{QuizID: "A", Score: 70, AttemptedAt: first},
		{QuizID: "A", Score: 70, AttemptedAt: first.Add(time.Hour)},
	}
	best := progress.BestScores(attempts)
	assert.Equal(t, 70, best["A"])
	assert.Len(t, best, 1)
}

func TestBestScoresNeverAttemptedAbsent(t *testing.T) {
	best := progress.BestScores(nil)
	_, ok := best["never"]
	assert.False(t, ok, "unattempted quizzes must be absent, not zero")
}

func TestOverviewPreservesOrder(t *testing.T) {
	newer := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	older := newer.AddDate(0, -1, 0)
	enrollments := []progress.Enrollment{
		{
			CourseID:         "go-201",
			Progress:         40,
			EnrolledAt:       newer,
			CompletedLessons: []progress.CompletedLesson{{LessonID: "l1"}, {LessonID: "l2"}},
			QuizAttempts:     []progress.QuizAttempt{{QuizID: "q1", Score: 90}},
		},
		{CourseID: "go-101", Progress: 100, EnrolledAt: older},
	}

	out := progress.Overview(enrollments)
	assert.Len(t, out, 2)
	assert.Equal(t, "go-201", out[0].CourseID)
	assert.Equal(t, 2, out[0].CompletedLessons)
	assert.Equal(t, 1, out[0].QuizAttempts)
	assert.Equal(t, newer, out[0].EnrolledAt)
	assert.Equal(t, "go-101", out[1].CourseID)
	assert.Equal(t, 100, out[1].Progress)
}
