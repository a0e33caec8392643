// Package grading runs test attempts from start to graded results.
package grading

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/shrimpsizemoose/olympiad/internal/models"
)

type Grader struct {
	// DefaultNumericTolerance applies to numeric questions without their own.
	DefaultNumericTolerance float64 `toml:"default_numeric_tolerance"`
}

func NewGrader(defaultTolerance float64) *Grader {
	return &Grader{DefaultNumericTolerance: defaultTolerance}
}

// AutoGrade scores objective answers. ok is false when the answer needs a
// human: free text, or a numeric question without a key.
func (g *Grader) AutoGrade(q models.Question, a models.AttemptAnswer) (points decimal.Decimal, ok bool) {
	switch q.Type {
	case models.QuestionSingleChoice, models.QuestionMultiChoice:
		if sameSet(correctOptions(q), a.SelectedOptionIDs) {
			return q.Points, true
		}
		return decimal.Zero, true

	case models.QuestionNumeric:
		if q.NumericAnswer == nil {
			return decimal.Zero, false
		}
		if a.NumericAnswer == nil {
			return decimal.Zero, true
		}
		tolerance := g.DefaultNumericTolerance
		if q.NumericTolerance != nil {
			tolerance = *q.NumericTolerance
		}
		if math.Abs(*a.NumericAnswer-*q.NumericAnswer) <= tolerance {
			return q.Points, true
		}
		return decimal.Zero, true
	}

	return decimal.Zero, false
}

func correctOptions(q models.Question) []string {
	var ids []string
	for _, o := range q.Options {
		if o.IsCorrect {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

// sameSet ignores order and repeats. An empty selection never matches.
func sameSet(want, got []string) bool {
	if len(got) == 0 {
		return false
	}
	seen := make(map[string]bool, len(got))
	for _, id := range got {
		seen[id] = true
	}
	if len(seen) != len(want) {
		return false
	}
	for _, id := range want {
		if !seen[id] {
			return false
		}
	}
	return true
}
