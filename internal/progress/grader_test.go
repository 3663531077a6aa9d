package progress_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlearn/lms-backend/internal/progress"
)

func fiveQuestionQuiz(passing int) progress.Quiz {
	keys := []int{0, 2, 0, 0, 1}
	q := progress.Quiz{ID: "quiz-1", PassingScore: passing}
	for i, k := range keys {
		q.Questions = append(q.Questions, progress.Question{
			ID:            string(rune('a' + i)),
			CorrectAnswer: k,
			OptionCount:   4,
		})
	}
	return q
}

func TestGradeAllCorrect(t *testing.T) {
	q := fiveQuestionQuiz(100)
	var answers []progress.SubmittedAnswer
	for _, qu := range q.Questions {
		answers = append(answers, progress.SubmittedAnswer{QuestionID: qu.ID, SelectedOption: qu.CorrectAnswer})
	}
	res := progress.Grade(q, answers)
	assert.Equal(t, 100, res.Score)
	assert.Equal(t, 5, res.CorrectCount)
	assert.True(t, res.Passed, "all correct must pass whenever passing score <= 100")
}

func TestGradeEmptySubmission(t *testing.T) {
	res := progress.Grade(fiveQuestionQuiz(70), nil)
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, 0, res.CorrectCount)
	assert.Equal(t, 5, res.TotalQuestions)
	assert.False(t, res.Passed)
	assert.Empty(t, res.Answers)
}

func TestGradeOneWrong(t *testing.T) {
	q := fiveQuestionQuiz(70)
	selected := []int{0, 2, 0, 1, 1} // fourth answer wrong
	var answers []progress.SubmittedAnswer
	for i, s := range selected {
		answers = append(answers, progress.SubmittedAnswer{QuestionID: q.Questions[i].ID, SelectedOption: s})
	}

	res := progress.Grade(q, answers)
	assert.Equal(t, 80, res.Score)
	assert.Equal(t, 4, res.CorrectCount)
	assert.True(t, res.Passed)

	q.PassingScore = 85
	res = progress.Grade(q, answers)
	assert.Equal(t, 80, res.Score)
	assert.False(t, res.Passed)

	require.Len(t, res.Answers, 5)
	assert.False(t, res.Answers[3].IsCorrect)
}

func TestGradePartialSubmissionDenominator(t *testing.T) {
	// Unanswered questions count as wrong: 2 correct of 5 total, not 2 of 2.
	q := fiveQuestionQuiz(70)
	answers := []progress.SubmittedAnswer{
		{QuestionID: q.Questions[0].ID, SelectedOption: 0},
		{QuestionID: q.Questions[1].ID, SelectedOption: 2},
	}
	res := progress.Grade(q, answers)
	assert.Equal(t, 40, res.Score)
	assert.Equal(t, 2, res.CorrectCount)
	assert.Len(t, res.Answers, 2, "one verdict per submitted answer only")
}

func TestGradeUnknownQuestionIsNonFatal(t *testing.T) {
	q := fiveQuestionQuiz(70)
	answers := []progress.SubmittedAnswer{
		{QuestionID: "not-in-quiz", SelectedOption: 0},
		{QuestionID: q.Questions[0].ID, SelectedOption: 0},
	}
	res := progress.Grade(q, answers)
	require.Len(t, res.Answers, 2)
	assert.False(t, res.Answers[0].IsCorrect)
	assert.True(t, res.Answers[1].IsCorrect)
	assert.Equal(t, 1, res.CorrectCount)
}

func TestGradeOutOfRangeOptionIsWrong(t *testing.T) {
	q := fiveQuestionQuiz(70)
	res := progress.Grade(q, []progress.SubmittedAnswer{
		{QuestionID: q.Questions[0].ID, SelectedOption: 9},
		{QuestionID: q.Questions[1].ID, SelectedOption: -1},
	})
	assert.Equal(t, 0, res.CorrectCount)
}

func TestAnswersByPosition(t *testing.T) {
	q := fiveQuestionQuiz(70)
	answers, err := progress.AnswersByPosition(q, map[int]int{3: 1, 0: 0, 1: 2})
	require.NoError(t, err)
	require.Len(t, answers, 3)
	// Positions are resolved in ascending order.
	assert.Equal(t, q.Questions[0].ID, answers[0].QuestionID)
	assert.Equal(t, q.Questions[1].ID, answers[1].QuestionID)
	assert.Equal(t, q.Questions[3].ID, answers[2].QuestionID)
	assert.Equal(t, 1, answers[2].SelectedOption)
}

func TestAnswersByPositionOutOfRange(t *testing.T) {
	q := fiveQuestionQuiz(70)
	_, err := progress.AnswersByPosition(q, map[int]int{7: 0})
	require.ErrorIs(t, err, progress.ErrInvalidInput)
}
