package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/openlearn/lms-backend/internal/course"
	"github.com/openlearn/lms-backend/internal/enroll"
	"github.com/openlearn/lms-backend/internal/progress"
	"github.com/openlearn/lms-backend/internal/rbac"
)

func intp(v int) *int { return &v }

func seedCatalog(t *testing.T) course.Store {
	t.Helper()
	cat := course.NewInMemoryStore()
	if err := cat.PutCourse(course.Course{ID: "c1", Title: "Go Basics", CreatedBy: "t1"}); err != nil {
		t.Fatalf("seed course: %v", err)
	}
	for i, id := range []string{"l1", "l2", "l3"} {
		if err := cat.PutLesson(course.Lesson{ID: id, CourseID: "c1", Title: id, Position: i + 1}); err != nil {
			t.Fatalf("seed lesson: %v", err)
		}
	}
	quiz := course.Quiz{
		ID:           "q1",
		CourseID:     "c1",
		Title:        "Checkpoint",
		PassingScore: 70,
		TimeLimitMin: 30,
	}
	for i, key := range []int{0, 2, 0, 0, 1} {
		quiz.Questions = append(quiz.Questions, course.Question{
			ID:   string(rune('A' + i)),
			Text: "question",
			Options: []course.Option{
				{Text: "one"}, {Text: "two"}, {Text: "three"}, {Text: "four"},
			},
			CorrectAnswer: intp(key),
		})
	}
	if err := cat.PutQuiz(quiz); err != nil {
		t.Fatalf("seed quiz: %v", err)
	}
	return cat
}

func asStudent(r *http.Request, sub string) *http.Request {
	ctx := rbac.WithSubject(r.Context(), sub)
	ctx = rbac.WithRole(ctx, "student")
	return r.WithContext(ctx)
}

func withURLParam(r *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestCompleteLessonFlow(t *testing.T) {
	cat := seedCatalog(t)
	enrollments := enroll.NewInMemoryStore()
	if _, err := enrollments.Enroll(context.Background(), "u1", "c1"); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	h := CompleteLessonHandler(cat, enrollments, nil)
	complete := func(lessonID string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/lessons/"+lessonID+"/complete", nil)
		req = withURLParam(asStudent(req, "u1"), "lessonID", lessonID)
		w := httptest.NewRecorder()
		h(w, req)
		return w
	}

	w := complete("l1")
	if w.Code != http.StatusOK {
		t.Fatalf("first completion: status %d: %s", w.Code, w.Body.String())
	}
	var res progress.CompletionResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Progress != 33 || res.CompletedLessons != 1 || res.TotalLessons != 3 {
		t.Fatalf("unexpected result: %+v", res)
	}

	if w := complete("l1"); w.Code != http.StatusConflict {
		t.Fatalf("duplicate completion: expected 409, got %d", w.Code)
	}
	if w := complete("l2"); w.Code != http.StatusOK {
		t.Fatalf("second lesson: status %d", w.Code)
	}

	e, _ := enrollments.Get(context.Background(), "u1", "c1")
	if e.Progress != 67 || len(e.CompletedLessons) != 2 {
		t.Fatalf("stored enrollment: progress=%d completions=%d", e.Progress, len(e.CompletedLessons))
	}
}

func TestCompleteLessonRequiresEnrollment(t *testing.T) {
	cat := seedCatalog(t)
	enrollments := enroll.NewInMemoryStore()

	req := httptest.NewRequest("POST", "/lessons/l1/complete", nil)
	req = withURLParam(asStudent(req, "stranger"), "lessonID", "l1")
	w := httptest.NewRecorder()
	CompleteLessonHandler(cat, enrollments, nil)(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestAttemptQuizFlow(t *testing.T) {
	cat := seedCatalog(t)
	enrollments := enroll.NewInMemoryStore()
	if _, err := enrollments.Enroll(context.Background(), "u1", "c1"); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	body := map[string]any{
		"answers": []progress.SubmittedAnswer{
			{QuestionID: "A", SelectedOption: 0},
			{QuestionID: "B", SelectedOption: 2},
			{QuestionID: "C", SelectedOption: 0},
			{QuestionID: "D", SelectedOption: 1}, // wrong
			{QuestionID: "E", SelectedOption: 1},
		},
	}
	buf, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", "/quizzes/q1/attempts?include=best", bytes.NewReader(buf))
	req = withURLParam(asStudent(req, "u1"), "quizID", "q1")
	w := httptest.NewRecorder()
	AttemptQuizHandler(cat, enrollments, nil)(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Result     progress.GradeResult `json:"result"`
		Attempts   int                  `json:"attempts"`
		BestScores map[string]int       `json:"best_scores"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Result.Score != 80 || resp.Result.CorrectCount != 4 || !resp.Result.Passed {
		t.Fatalf("unexpected grade: %+v", resp.Result)
	}
	if resp.Attempts != 1 || resp.BestScores["q1"] != 80 {
		t.Fatalf("attempt bookkeeping: %+v", resp)
	}

	// Quiz activity must not move lesson progress.
	e, _ := enrollments.Get(context.Background(), "u1", "c1")
	if e.Progress != 0 {
		t.Fatalf("progress moved on quiz attempt: %d", e.Progress)
	}
	if len(e.QuizAttempts) != 1 || e.QuizAttempts[0].Score != 80 {
		t.Fatalf("attempt not persisted: %+v", e.QuizAttempts)
	}
}

func TestAttemptQuizRequiresEnrollment(t *testing.T) {
	cat := seedCatalog(t)
	enrollments := enroll.NewInMemoryStore()

	req := httptest.NewRequest("POST", "/quizzes/q1/attempts", bytes.NewReader([]byte(`{"answers":[]}`)))
	req = withURLParam(asStudent(req, "stranger"), "quizID", "q1")
	w := httptest.NewRecorder()
	AttemptQuizHandler(cat, enrollments, nil)(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestGetQuizHidesAnswerKeys(t *testing.T) {
	cat := seedCatalog(t)
	enrollments := enroll.NewInMemoryStore()
	if _, err := enrollments.Enroll(context.Background(), "u1", "c1"); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	req := httptest.NewRequest("GET", "/quizzes/q1", nil)
	req = withURLParam(asStudent(req, "u1"), "quizID", "q1")
	w := httptest.NewRecorder()
	GetQuizHandler(cat, enrollments)(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("correct_answer")) ||
		bytes.Contains(w.Body.Bytes(), []byte("is_correct")) {
		t.Fatalf("answer keys leaked to student: %s", w.Body.String())
	}
}

func TestOverviewJoinsCourseTitles(t *testing.T) {
	cat := seedCatalog(t)
	enrollments := enroll.NewInMemoryStore()
	if _, err := enrollments.Enroll(context.Background(), "u1", "c1"); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	req := asStudent(httptest.NewRequest("GET", "/me/progress", nil), "u1")
	w := httptest.NewRecorder()
	OverviewHandler(cat, enrollments)(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var rows []struct {
		CourseID string `json:"course_id"`
		Title    string `json:"title"`
		Progress int    `json:"progress"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 1 || rows[0].CourseID != "c1" || rows[0].Title != "Go Basics" {
		t.Fatalf("unexpected overview: %+v", rows)
	}
}
