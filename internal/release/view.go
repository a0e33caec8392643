package release

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shrimpsizemoose/olympiad/internal/models"
)

type OptionView struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	IsCorrect *bool  `json:"isCorrect,omitempty"`
}

// AnswerView is one question of the test joined with the owner's answer.
type AnswerView struct {
	QuestionID        string              `json:"questionId"`
	Ordinal           int                 `json:"ordinal"`
	Type              models.QuestionType `json:"type"`
	Prompt            string              `json:"prompt"`
	Points            decimal.Decimal     `json:"points"`
	Explanation       *string             `json:"explanation,omitempty"`
	Options           []OptionView        `json:"options,omitempty"`
	AnswerText        *string             `json:"answerText,omitempty"`
	SelectedOptionIDs []string            `json:"selectedOptionIds,omitempty"`
	NumericAnswer     *float64            `json:"numericAnswer,omitempty"`
	PointsAwarded     *decimal.Decimal    `json:"pointsAwarded,omitempty"`
}

// Correct reports whether the answer earned full points. Ungraded answers
// are not correct.
func (a AnswerView) Correct() bool {
	return a.PointsAwarded != nil && !a.PointsAwarded.LessThan(a.Points)
}

type AttemptView struct {
	ID              string               `json:"id"`
	TestKind        models.TestKind      `json:"testKind"`
	TestID          string               `json:"testId"`
	MembershipID    string               `json:"membershipId"`
	Status          models.AttemptStatus `json:"status"`
	GradeEarned     *decimal.Decimal     `json:"gradeEarned,omitempty"`
	ProctoringScore *decimal.Decimal     `json:"proctoringScore,omitempty"`
	StartedAt       time.Time            `json:"startedAt"`
	SubmittedAt     *time.Time           `json:"submittedAt,omitempty"`
	GradedAt        *time.Time           `json:"gradedAt,omitempty"`
	Answers         []AnswerView         `json:"answers,omitempty"`
}

// BuildView joins an attempt with its test's questions and the saved answers.
// Every question appears once, in test order, answered or not.
func BuildView(attempt *models.TestAttempt, questions []models.Question, answers []models.AttemptAnswer) AttemptView {
	byQuestion := make(map[string]models.AttemptAnswer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	view := AttemptView{
		ID:              attempt.ID,
		TestKind:        attempt.TestKind,
		TestID:          attempt.TestID,
		MembershipID:    attempt.MembershipID,
		Status:          attempt.Status,
		GradeEarned:     copyDecimal(attempt.GradeEarned),
		ProctoringScore: copyDecimal(attempt.ProctoringScore),
		StartedAt:       attempt.StartedAt,
		SubmittedAt:     copyPtr(attempt.SubmittedAt),
		GradedAt:        copyPtr(attempt.GradedAt),
		Answers:         make([]AnswerView, 0, len(questions)),
	}

	for _, q := range questions {
		av := AnswerView{
			QuestionID:  q.ID,
			Ordinal:     q.Ordinal,
			Type:        q.Type,
			Prompt:      q.Prompt,
			Points:      q.Points,
			Explanation: copyPtr(q.Explanation),
		}
		for _, o := range q.Options {
			av.Options = append(av.Options, OptionView{ID: o.ID, Label: o.Label, IsCorrect: copyPtr(&o.IsCorrect)})
		}
		if a, ok := byQuestion[q.ID]; ok {
			av.AnswerText = copyPtr(a.AnswerText)
			av.SelectedOptionIDs = append([]string(nil), a.SelectedOptionIDs...)
			av.NumericAnswer = copyPtr(a.NumericAnswer)
			av.PointsAwarded = copyDecimal(a.PointsAwarded)
		}
		view.Answers = append(view.Answers, av)
	}
	return view
}

// Clone returns a deep copy sharing no pointers or slices with v.
func (v AttemptView) Clone() AttemptView {
	out := v
	out.GradeEarned = copyDecimal(v.GradeEarned)
	out.ProctoringScore = copyDecimal(v.ProctoringScore)
	out.SubmittedAt = copyPtr(v.SubmittedAt)
	out.GradedAt = copyPtr(v.GradedAt)
	if v.Answers != nil {
		out.Answers = make([]AnswerView, len(v.Answers))
		for i, a := range v.Answers {
			out.Answers[i] = a.clone()
		}
	}
	return out
}

func (a AnswerView) clone() AnswerView {
	out := a
	out.Explanation = copyPtr(a.Explanation)
	out.AnswerText = copyPtr(a.AnswerText)
	out.NumericAnswer = copyPtr(a.NumericAnswer)
	out.PointsAwarded = copyDecimal(a.PointsAwarded)
	if a.SelectedOptionIDs != nil {
		out.SelectedOptionIDs = append([]string(nil), a.SelectedOptionIDs...)
	}
	if a.Options != nil {
		out.Options = make([]OptionView, len(a.Options))
		for i, o := range a.Options {
			out.Options[i] = OptionView{ID: o.ID, Label: o.Label, IsCorrect: copyPtr(o.IsCorrect)}
		}
	}
	return out
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	return copyPtr(d)
}
