package release

import (
	"time"

	"github.com/shrimpsizemoose/olympiad/internal/models"
)

// Visible reports whether scores of an attempt in status are visible to a
// non-admin owner under p at now. Ungraded attempts never are.
func Visible(p Policy, status models.AttemptStatus, now time.Time) bool {
	return status == models.AttemptGraded && p.Released(now)
}

// FilterAttempt projects an attempt view down to what the requester may
// see. It never mutates view; admins get an unfiltered copy.
//
// Before release every graded field is stripped and the submitted answers
// stay only for FULL_TEST tests.
func FilterAttempt(view AttemptView, test Releasable, isAdmin bool, now time.Time) AttemptView {
	out := view.Clone()
	if isAdmin {
		return out
	}

	p := test.ReleasePolicy()
	if !Visible(p, view.Status, now) {
		stripScores(&out)
		if p.Mode != models.ReleaseFullTest {
			out.Answers = nil
		}
		return out
	}

	switch p.Mode {
	case models.ReleaseFullTest:
	case models.ReleaseScoreWithWrong:
		var wrong []AnswerView
		for _, a := range out.Answers {
			if !a.Correct() {
				wrong = append(wrong, a)
			}
		}
		out.Answers = wrong
	case models.ReleaseScoreOnly:
		out.Answers = nil
	default:
		// NONE and anything unrecognised disclose nothing graded.
		stripScores(&out)
		out.Answers = nil
	}
	return out
}

func stripScores(v *AttemptView) {
	v.GradeEarned = nil
	v.ProctoringScore = nil
	for i := range v.Answers {
		a := &v.Answers[i]
		a.PointsAwarded = nil
		a.Explanation = nil
		for j := range a.Options {
			a.Options[j].IsCorrect = nil
		}
	}
}
