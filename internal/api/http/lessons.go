package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/openlearn/lms-backend/internal/course"
	"github.com/openlearn/lms-backend/internal/enroll"
	"github.com/openlearn/lms-backend/internal/rbac"
)

func CreateLessonHandler(cat course.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID := chi.URLParam(r, "courseID")
		if _, err := cat.GetCourse(courseID); err != nil {
			businessError(w, err)
			return
		}
		var req struct {
			Title     string            `json:"title"`
			VideoURL  string            `json:"video_url"`
			Resources []course.Resource `json:"resources"`
			Position  int               `json:"position"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Title) == "" {
			http.Error(w, "title required", http.StatusBadRequest)
			return
		}
		if req.Position < 1 {
			req.Position = 1
		}
		l := course.Lesson{
			ID:        "l-" + uuid.NewString(),
			CourseID:  courseID,
			Title:     strings.TrimSpace(req.Title),
			VideoURL:  req.VideoURL,
			Resources: req.Resources,
			Position:  req.Position,
		}
		if err := cat.PutLesson(l); err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, l)
	}
}

// GET /courses/{courseID}/lessons — students must be enrolled to see
// lesson content; instructors and admins are not gated.
func ListLessonsHandler(cat course.Store, enrollments enroll.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID := chi.URLParam(r, "courseID")
		if !canAccessCourseContent(r, enrollments, courseID) {
			http.Error(w, "you must be enrolled in this course", http.StatusForbidden)
			return
		}
		lessons, err := cat.ListLessons(r.Context(), courseID)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, lessons)
	}
}

func canAccessCourseContent(r *http.Request, enrollments enroll.Store, courseID string) bool {
	role := rbac.RoleFromContext(r.Context())
	if role == "instructor" || role == "admin" {
		return true
	}
	sub := rbac.SubjectFromContext(r.Context())
	_, err := enrollments.Get(r.Context(), sub, courseID)
	return err == nil
}
