package course

import "github.com/openlearn/lms-backend/internal/progress"

type Course struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Instructor  string  `json:"instructor,omitempty"`
	Price       float64 `json:"price"`
	CreatedBy   string  `json:"created_by,omitempty"`
	CreatedAt   int64   `json:"created_at,omitempty"`
}

type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type Lesson struct {
	ID        string     `json:"id"`
	CourseID  string     `json:"course_id"`
	Title     string     `json:"title"`
	VideoURL  string     `json:"video_url,omitempty"`
	Resources []Resource `json:"resources,omitempty"`
	Position  int        `json:"position"`
	CreatedAt int64      `json:"created_at,omitempty"`
}

type Option struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct,omitempty"`
}

// Question invariant: 0 <= *CorrectAnswer < len(Options). CorrectAnswer
// is a pointer so the store can strip it when serving students.
type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Options       []Option `json:"options"`
	CorrectAnswer *int     `json:"correct_answer,omitempty"`
}

type Quiz struct {
	ID           string     `json:"id"`
	CourseID     string     `json:"course_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Questions    []Question `json:"questions"`
	PassingScore int        `json:"passing_score"`  // percentage, default 70
	TimeLimitMin int        `json:"time_limit_min"` // advisory only, default 30
	CreatedAt    int64      `json:"created_at,omitempty"`
}

// GradingView projects the quiz onto the minimal shape the grader needs.
// Only call this on a quiz loaded with answer keys intact.
func (q Quiz) GradingView() progress.Quiz {
	out := progress.Quiz{ID: q.ID, PassingScore: q.PassingScore}
	for _, qu := range q.Questions {
		key := -1
		if qu.CorrectAnswer != nil {
			key = *qu.CorrectAnswer
		}
		out.Questions = append(out.Questions, progress.Question{
			ID:            qu.ID,
			CorrectAnswer: key,
			OptionCount:   len(qu.Options),
		})
	}
	return out
}

// Sanitize strips answer keys before the quiz is served to students.
func (q Quiz) Sanitize() Quiz {
	qs := make([]Question, len(q.Questions))
	for i, qu := range q.Questions {
		opts := make([]Option, len(qu.Options))
		for j, o := range qu.Options {
			opts[j] = Option{Text: o.Text}
		}
		qs[i] = Question{ID: qu.ID, Text: qu.Text, Options: opts}
	}
	q.Questions = qs
	return q
}
