package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/openlearn/lms-backend/internal/course"
	"github.com/openlearn/lms-backend/internal/enroll"
	"github.com/openlearn/lms-backend/internal/progress"
	"github.com/openlearn/lms-backend/internal/rbac"
	syncx "github.com/openlearn/lms-backend/internal/sync"
)

// POST /lessons/{lessonID}/complete marks the lesson done for the
// caller's enrollment and refreshes the stored progress percentage. The
// ledger rejects a duplicate in memory; the store's conditional append
// decides the race when two requests slip past that check together.
func CompleteLessonHandler(cat course.Store, enrollments enroll.Store, events *syncx.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := rbac.SubjectFromContext(r.Context())
		lessonID := chi.URLParam(r, "lessonID")

		lesson, err := cat.GetLesson(lessonID)
		if err != nil {
			businessError(w, err)
			return
		}
		e, err := enrollments.Get(r.Context(), sub, lesson.CourseID)
		if err != nil {
			http.Error(w, "you must be enrolled in this course", http.StatusForbidden)
			return
		}
		total, err := cat.CountLessons(r.Context(), lesson.CourseID)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		res, err := progress.MarkLessonComplete(&e, lessonID, total, time.Now())
		if err != nil {
			businessError(w, err)
			return
		}
		last := e.CompletedLessons[len(e.CompletedLessons)-1]
		if err := enrollments.CompleteLesson(r.Context(), e.ID, lessonID, last.CompletedAt, res.Progress); err != nil {
			businessError(w, err)
			return
		}
		if events != nil {
			_ = events.Append(r.Context(), syncx.EventLessonCompleted, e.ID, map[string]any{
				"lesson_id": lessonID, "progress": res.Progress,
			})
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// GET /courses/{courseID}/progress returns the caller's standing in one
// course: stored progress, completion history, and best score per quiz.
func CourseProgressHandler(cat course.Store, enrollments enroll.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := rbac.SubjectFromContext(r.Context())
		courseID := chi.URLParam(r, "courseID")

		e, err := enrollments.Get(r.Context(), sub, courseID)
		if err != nil {
			businessError(w, err)
			return
		}
		total, err := cat.CountLessons(r.Context(), courseID)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"overall":           e.Progress,
			"completed_lessons": len(e.CompletedLessons),
			"total_lessons":     total,
			"completed":         e.CompletedLessons,
			"quiz_scores":       progress.BestScores(e.QuizAttempts),
			"enrolled_at":       e.EnrolledAt,
		})
	}
}

// GET /me/progress returns one summary row per enrollment, most recent
// enrollment first, with course titles joined in.
func OverviewHandler(cat course.Store, enrollments enroll.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := rbac.SubjectFromContext(r.Context())
		list, err := enrollments.ListByUser(r.Context(), sub)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		type row struct {
			progress.CourseSummary
			Title      string `json:"title,omitempty"`
			Instructor string `json:"instructor,omitempty"`
		}
		out := []row{}
		for _, s := range progress.Overview(list) {
			rw := row{CourseSummary: s}
			if c, err := cat.GetCourse(s.CourseID); err == nil {
				rw.Title = c.Title
				rw.Instructor = c.Instructor
			}
			out = append(out, rw)
		}
		writeJSON(w, http.StatusOK, out)
	}
}
