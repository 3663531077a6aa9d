package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/openlearn/lms-backend/internal/course"
	"github.com/openlearn/lms-backend/internal/enroll"
	"github.com/openlearn/lms-backend/internal/progress"
	"github.com/openlearn/lms-backend/internal/rbac"
	syncx "github.com/openlearn/lms-backend/internal/sync"
)

const (
	defaultPassingScore = 70
	defaultTimeLimitMin = 30 // advisory only; the engine never enforces it
)

func CreateQuizHandler(cat course.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID := chi.URLParam(r, "courseID")
		if _, err := cat.GetCourse(courseID); err != nil {
			businessError(w, err)
			return
		}
		var req struct {
			Title        string            `json:"title"`
			Description  string            `json:"description"`
			Questions    []course.Question `json:"questions"`
			PassingScore *int              `json:"passing_score"`
			TimeLimitMin *int              `json:"time_limit_min"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Title) == "" {
			http.Error(w, "title required", http.StatusBadRequest)
			return
		}
		if len(req.Questions) == 0 {
			http.Error(w, "at least one question required", http.StatusBadRequest)
			return
		}
		for i := range req.Questions {
			q := &req.Questions[i]
			if q.ID == "" {
				q.ID = uuid.NewString()
			}
			if strings.TrimSpace(q.Text) == "" {
				http.Error(w, fmt.Sprintf("question %d: text required", i), http.StatusBadRequest)
				return
			}
			if len(q.Options) < 2 || len(q.Options) > 6 {
				http.Error(w, fmt.Sprintf("question %d: 2-6 options required", i), http.StatusBadRequest)
				return
			}
			if q.CorrectAnswer == nil || *q.CorrectAnswer < 0 || *q.CorrectAnswer >= len(q.Options) {
				http.Error(w, fmt.Sprintf("question %d: correct_answer out of range", i), http.StatusBadRequest)
				return
			}
			for j := range q.Options {
				q.Options[j].IsCorrect = j == *q.CorrectAnswer
			}
		}

		quiz := course.Quiz{
			ID:           "q-" + uuid.NewString(),
			CourseID:     courseID,
			Title:        strings.TrimSpace(req.Title),
			Description:  req.Description,
			Questions:    req.Questions,
			PassingScore: defaultPassingScore,
			TimeLimitMin: defaultTimeLimitMin,
		}
		if req.PassingScore != nil && *req.PassingScore >= 0 && *req.PassingScore <= 100 {
			quiz.PassingScore = *req.PassingScore
		}
		if req.TimeLimitMin != nil && *req.TimeLimitMin >= 5 {
			quiz.TimeLimitMin = *req.TimeLimitMin
		}
		if err := cat.PutQuiz(quiz); err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, quiz)
	}
}

func ListQuizzesHandler(cat course.Store, enrollments enroll.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID := chi.URLParam(r, "courseID")
		if !canAccessCourseContent(r, enrollments, courseID) {
			http.Error(w, "you must be enrolled in this course", http.StatusForbidden)
			return
		}
		quizzes, err := cat.ListQuizzes(r.Context(), courseID)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, quizzes)
	}
}

// GET /quizzes/{quizID} serves the student-safe quiz (no answer keys).
func GetQuizHandler(cat course.Store, enrollments enroll.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quizID := chi.URLParam(r, "quizID")
		q, err := cat.GetQuiz(quizID)
		if err != nil {
			businessError(w, err)
			return
		}
		if !canAccessCourseContent(r, enrollments, q.CourseID) {
			http.Error(w, "you must be enrolled in this course", http.StatusForbidden)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

// POST /quizzes/{quizID}/attempts grades a submission and appends the
// attempt to the caller's enrollment. Body carries the canonical answer
// shape: {"answers":[{"question_id":"...","selected_option":0}, ...]}.
// Append ?include=best to get the refreshed best-score view back.
func AttemptQuizHandler(cat course.Store, enrollments enroll.Store, events *syncx.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := rbac.SubjectFromContext(r.Context())
		quizID := chi.URLParam(r, "quizID")

		quiz, err := cat.GetQuizFull(quizID)
		if err != nil {
			businessError(w, err)
			return
		}
		e, err := enrollments.Get(r.Context(), sub, quiz.CourseID)
		if err != nil {
			http.Error(w, "you must be enrolled in this course", http.StatusForbidden)
			return
		}

		var req struct {
			Answers []progress.SubmittedAnswer `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		result := progress.Grade(quiz.GradingView(), req.Answers)
		attempt := progress.QuizAttempt{
			QuizID:      quizID,
			Score:       result.Score,
			Answers:     result.Answers,
			AttemptedAt: time.Now(),
		}
		if err := enrollments.AppendAttempt(r.Context(), e.ID, attempt); err != nil {
			businessError(w, err)
			return
		}
		if events != nil {
			_ = events.Append(r.Context(), syncx.EventQuizAttempted, e.ID, map[string]any{
				"quiz_id": quizID, "score": result.Score, "passed": result.Passed,
			})
		}

		progress.RecordAttempt(&e, attempt)
		resp := map[string]any{
			"result":   result,
			"attempts": len(e.QuizAttempts),
		}
		if r.URL.Query().Get("include") == "best" {
			resp["best_scores"] = progress.BestScores(e.QuizAttempts)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
