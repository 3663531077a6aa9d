package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/openlearn/lms-backend/internal/course"
	"github.com/openlearn/lms-backend/internal/enroll"
	"github.com/openlearn/lms-backend/internal/progress"
	"github.com/openlearn/lms-backend/internal/rbac"
	syncx "github.com/openlearn/lms-backend/internal/sync"
)

func CreateCourseHandler(cat course.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := rbac.SubjectFromContext(r.Context())
		var req struct {
			Title       string  `json:"title"`
			Description string  `json:"description"`
			Instructor  string  `json:"instructor"`
			Price       float64 `json:"price"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Title) == "" {
			http.Error(w, "title required", http.StatusBadRequest)
			return
		}
		c := course.Course{
			ID:          "c-" + uuid.NewString(),
			Title:       strings.TrimSpace(req.Title),
			Description: req.Description,
			Instructor:  req.Instructor,
			Price:       req.Price,
			CreatedBy:   sub,
		}
		if err := cat.PutCourse(c); err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

func ListCoursesHandler(cat course.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := cat.ListCourses(r.Context(), course.ListOpts{
			Q:      strings.TrimSpace(r.URL.Query().Get("q")),
			Limit:  parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset: parseIntDefault(r.URL.Query().Get("offset"), 0),
		})
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /courses/{courseID} returns the course with its lesson list,
// student-safe quizzes, and the caller's enrollment when one exists.
func GetCourseHandler(cat course.Store, enrollments enroll.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID := chi.URLParam(r, "courseID")
		c, err := cat.GetCourse(courseID)
		if err != nil {
			businessError(w, err)
			return
		}
		lessons, err := cat.ListLessons(r.Context(), courseID)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		quizzes, err := cat.ListQuizzes(r.Context(), courseID)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		resp := map[string]any{
			"course":  c,
			"lessons": lessons,
			"quizzes": quizzes,
		}
		if sub := rbac.SubjectFromContext(r.Context()); sub != "" {
			if e, err := enrollments.Get(r.Context(), sub, courseID); err == nil {
				resp["enrollment"] = e
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func EnrollHandler(cat course.Store, enrollments enroll.Store, events *syncx.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := rbac.SubjectFromContext(r.Context())
		courseID := chi.URLParam(r, "courseID")
		if _, err := cat.GetCourse(courseID); err != nil {
			businessError(w, err)
			return
		}
		e, err := enrollments.Enroll(r.Context(), sub, courseID)
		if err != nil {
			businessError(w, err)
			return
		}
		if events != nil {
			_ = events.Append(r.Context(), syncx.EventEnrolled, e.ID, map[string]string{"user_id": sub, "course_id": courseID})
		}
		writeJSON(w, http.StatusCreated, e)
	}
}

// GET /me/courses lists the caller's enrollments with course details,
// most recent first.
func MyCoursesHandler(cat course.Store, enrollments enroll.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := rbac.SubjectFromContext(r.Context())
		list, err := enrollments.ListByUser(r.Context(), sub)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		type row struct {
			Course     course.Course       `json:"course"`
			Enrollment progress.Enrollment `json:"enrollment"`
		}
		out := []row{}
		for _, e := range list {
			c, err := cat.GetCourse(e.CourseID)
			if err != nil {
				if errors.Is(err, progress.ErrNotFound) {
					continue
				}
				http.Error(w, "db error", http.StatusInternalServerError)
				return
			}
			out = append(out, row{Course: c, Enrollment: e})
		}
		writeJSON(w, http.StatusOK, out)
	}
}
