package course

import "context"

type ListOpts struct {
	Q      string
	Limit  int
	Offset int
}

type Store interface {
	PutCourse(c Course) error
	GetCourse(id string) (Course, error)
	ListCourses(ctx context.Context, opts ListOpts) ([]Course, error)

	PutLesson(l Lesson) error
	GetLesson(id string) (Lesson, error)
	ListLessons(ctx context.Context, courseID string) ([]Lesson, error)
	CountLessons(ctx context.Context, courseID string) (int, error)

	PutQuiz(q Quiz) error
	GetQuiz(id string) (Quiz, error)     // student-safe (no answer keys)
	GetQuizFull(id string) (Quiz, error) // full quiz, for grading
	ListQuizzes(ctx context.Context, courseID string) ([]Quiz, error)
}
