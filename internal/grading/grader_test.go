package grading

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/shrimpsizemoose/olympiad/internal/models"
)

func f64(v float64) *float64 {
	return &v
}

func TestGrader_AutoGrade(t *testing.T) {
	single := models.Question{
		Type:   models.QuestionSingleChoice,
		Points: decimal.NewFromInt(2),
		Options: []models.QuestionOption{
			{ID: "a", IsCorrect: true},
			{ID: "b"},
		},
	}
	multi := models.Question{
		Type:   models.QuestionMultiChoice,
		Points: decimal.NewFromInt(3),
		Options: []models.QuestionOption{
			{ID: "a", IsCorrect: true},
			{ID: "b"},
			{ID: "c", IsCorrect: true},
		},
	}
	numeric := models.Question{
		Type:             models.QuestionNumeric,
		Points:           decimal.NewFromInt(4),
		NumericAnswer:    f64(9.81),
		NumericTolerance: f64(0.05),
	}
	keyless := models.Question{Type: models.QuestionNumeric, Points: decimal.NewFromInt(1)}
	essay := models.Question{Type: models.QuestionLongText, Points: decimal.NewFromInt(5)}

	testCases := []struct {
		name       string
		question   models.Question
		answer     models.AttemptAnswer
		wantPoints int64
		wantAuto   bool
	}{
		{"Single choice correct", single, models.AttemptAnswer{SelectedOptionIDs: models.IDList{"a"}}, 2, true},
		{"Single choice wrong", single, models.AttemptAnswer{SelectedOptionIDs: models.IDList{"b"}}, 0, true},
		{"Single choice with extra pick is wrong", single, models.AttemptAnswer{SelectedOptionIDs: models.IDList{"a", "b"}}, 0, true},
		{"Nothing selected", single, models.AttemptAnswer{}, 0, true},
		{"Multi choice in any order", multi, models.AttemptAnswer{SelectedOptionIDs: models.IDList{"c", "a"}}, 3, true},
		{"Multi choice repeated pick still matches", multi, models.AttemptAnswer{SelectedOptionIDs: models.IDList{"a", "c", "a"}}, 3, true},
		{"Multi choice partial gets nothing", multi, models.AttemptAnswer{SelectedOptionIDs: models.IDList{"a"}}, 0, true},
		{"Numeric within tolerance", numeric, models.AttemptAnswer{NumericAnswer: f64(9.8)}, 4, true},
		{"Numeric outside tolerance", numeric, models.AttemptAnswer{NumericAnswer: f64(9.9)}, 0, true},
		{"Numeric missing answer", numeric, models.AttemptAnswer{}, 0, true},
		{"Numeric without key needs a human", keyless, models.AttemptAnswer{NumericAnswer: f64(1)}, 0, false},
		{"Free text needs a human", essay, models.AttemptAnswer{AnswerText: new(string)}, 0, false},
	}

	grader := NewGrader(0)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			points, auto := grader.AutoGrade(tc.question, tc.answer)
			assert.Equal(t, tc.wantAuto, auto)
			assert.True(t, decimal.NewFromInt(tc.wantPoints).Equal(points), "got %s", points)
		})
	}
}

func TestGrader_DefaultTolerance(t *testing.T) {
	q := models.Question{Type: models.QuestionNumeric, Points: decimal.NewFromInt(1), NumericAnswer: f64(100)}

	points, _ := NewGrader(0).AutoGrade(q, models.AttemptAnswer{NumericAnswer: f64(100.4)})
	assert.True(t, points.IsZero())

	points, _ = NewGrader(0.5).AutoGrade(q, models.AttemptAnswer{NumericAnswer: f64(100.4)})
	assert.True(t, points.Equal(decimal.NewFromInt(1)))
}
