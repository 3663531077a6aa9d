package progress

import (
	"fmt"
	"sort"
)

// Quiz is the minimal view of a quiz the grader needs: the full question
// list with answer keys plus the pass threshold. Keep this in sync with
// whatever fields the catalog store uses.
type Quiz struct {
	ID           string
	PassingScore int // percentage, 0-100
	Questions    []Question
}

type Question struct {
	ID            string
	CorrectAnswer int // index into the option list
	OptionCount   int
}

// SubmittedAnswer is the canonical wire shape for one answer. The legacy
// positional form (index into the question array) is converted up front
// via AnswersByPosition, never branched on at grading time.
type SubmittedAnswer struct {
	QuestionID     string `json:"question_id"`
	SelectedOption int    `json:"selected_option"`
}

type GradeResult struct {
	Score          int             `json:"score"` // 0-100, rounded
	CorrectCount   int             `json:"correct_count"`
	TotalQuestions int             `json:"total_questions"`
	Passed         bool            `json:"passed"`
	Answers        []AnswerVerdict `json:"answers"`
}

// Grade scores a submission against the quiz. The denominator is always
// the quiz's full question count: unanswered questions score as wrong.
// Grading is total over the submitted set — an answer referencing a
// question that is not in the quiz, or an out-of-range option index,
// becomes an incorrect verdict rather than failing the whole pass.
func Grade(q Quiz, answers []SubmittedAnswer) GradeResult {
	byID := make(map[string]Question, len(q.Questions))
	for _, qu := range q.Questions {
		byID[qu.ID] = qu
	}

	correct := 0
	verdicts := make([]AnswerVerdict, 0, len(answers))
	for _, a := range answers {
		qu, ok := byID[a.QuestionID]
		isCorrect := ok &&
			a.SelectedOption >= 0 &&
			(qu.OptionCount == 0 || a.SelectedOption < qu.OptionCount) &&
			a.SelectedOption == qu.CorrectAnswer
		if isCorrect {
			correct++
		}
		verdicts = append(verdicts, AnswerVerdict{
			QuestionID:     a.QuestionID,
			SelectedOption: a.SelectedOption,
			IsCorrect:      isCorrect,
		})
	}

	score := Percent(correct, len(q.Questions))
	return GradeResult{
		Score:          score,
		CorrectCount:   correct,
		TotalQuestions: len(q.Questions),
		Passed:         score >= q.PassingScore,
		Answers:        verdicts,
	}
}

// AnswersByPosition converts the positional submission form (question
// index -> selected option, as posted by the attempt form) into the
// canonical shape. Positions outside the question list are malformed
// input, not a grading concern.
func AnswersByPosition(q Quiz, selections map[int]int) ([]SubmittedAnswer, error) {
	positions := make([]int, 0, len(selections))
	for p := range selections {
		if p < 0 || p >= len(q.Questions) {
			return nil, fmt.Errorf("question index %d out of range: %w", p, ErrInvalidInput)
		}
		positions = append(positions, p)
	}
	sort.Ints(positions)

	out := make([]SubmittedAnswer, 0, len(positions))
	for _, p := range positions {
		out = append(out, SubmittedAnswer{
			QuestionID:     q.Questions[p].ID,
			SelectedOption: selections[p],
		})
	}
	return out, nil
}
