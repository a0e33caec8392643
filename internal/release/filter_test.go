package release

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/olympiad/internal/models"
)

var now = time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T {
	return &v
}

func gradedView() AttemptView {
	explanation := "Water is neutral."
	return AttemptView{
		ID:              "att-1",
		TestKind:        models.KindTournament,
		TestID:          "es-1",
		MembershipID:    "m-1",
		Status:          models.AttemptGraded,
		GradeEarned:     ptr(decimal.NewFromInt(3)),
		ProctoringScore: ptr(decimal.NewFromInt(1)),
		StartedAt:       now.Add(-2 * time.Hour),
		Answers: []AnswerView{
			{
				QuestionID:        "q-1",
				Ordinal:           1,
				Type:              models.QuestionSingleChoice,
				Prompt:            "pH of water?",
				Points:            decimal.NewFromInt(2),
				Explanation:       &explanation,
				Options:           []OptionView{{ID: "o-1", Label: "7", IsCorrect: ptr(true)}, {ID: "o-2", Label: "3", IsCorrect: ptr(false)}},
				SelectedOptionIDs: []string{"o-1"},
				PointsAwarded:     ptr(decimal.NewFromInt(2)),
			},
			{
				QuestionID:    "q-2",
				Ordinal:       2,
				Type:          models.QuestionNumeric,
				Prompt:        "Avogadro exponent?",
				Points:        decimal.NewFromInt(3),
				NumericAnswer: ptr(22.0),
				PointsAwarded: ptr(decimal.NewFromInt(1)),
			},
		},
	}
}

func esTest(mode models.ReleaseMode, releaseAt *time.Time, released bool) TournamentTest {
	return TournamentTest{&models.ESTest{ID: "es-1", ReleaseMode: mode, ReleaseAt: releaseAt, Released: released}}
}

func TestPolicyReleased(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		want   bool
	}{
		{"nothing configured", Policy{Mode: models.ReleaseFullTest}, false},
		{"manual flag", Policy{Manual: true}, true},
		{"release time in the future", Policy{ReleaseAt: ptr(now.Add(time.Minute))}, false},
		{"release time reached exactly", Policy{ReleaseAt: ptr(now)}, true},
		{"release time passed", Policy{ReleaseAt: ptr(now.Add(-time.Minute))}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Released(now))
		})
	}
}

func TestFilterAttemptModes(t *testing.T) {
	tests := []struct {
		name        string
		mode        models.ReleaseMode
		wantScores  bool
		wantAnswers []string
	}{
		{"none", models.ReleaseNone, false, nil},
		{"score only", models.ReleaseScoreOnly, true, nil},
		{"score with wrong", models.ReleaseScoreWithWrong, true, []string{"q-2"}},
		{"full test", models.ReleaseFullTest, true, []string{"q-1", "q-2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterAttempt(gradedView(), esTest(tt.mode, nil, true), false, now)

			if tt.wantScores {
				require.NotNil(t, got.GradeEarned)
				assert.True(t, decimal.NewFromInt(3).Equal(*got.GradeEarned))
				assert.NotNil(t, got.ProctoringScore)
			} else {
				assert.Nil(t, got.GradeEarned)
				assert.Nil(t, got.ProctoringScore)
			}

			var ids []string
			for _, a := range got.Answers {
				ids = append(ids, a.QuestionID)
			}
			assert.Equal(t, tt.wantAnswers, ids)
		})
	}
}

func TestFilterAttemptUnreleased(t *testing.T) {
	t.Run("full test keeps own answers without grading", func(t *testing.T) {
		got := FilterAttempt(gradedView(), esTest(models.ReleaseFullTest, nil, false), false, now)

		assert.Nil(t, got.GradeEarned)
		assert.Nil(t, got.ProctoringScore)
		require.Len(t, got.Answers, 2)
		for _, a := range got.Answers {
			assert.Nil(t, a.PointsAwarded)
			assert.Nil(t, a.Explanation)
			for _, o := range a.Options {
				assert.Nil(t, o.IsCorrect)
			}
		}
		assert.Equal(t, []string{"o-1"}, got.Answers[0].SelectedOptionIDs)
		assert.Equal(t, 22.0, *got.Answers[1].NumericAnswer)
	})

	t.Run("other modes drop answers", func(t *testing.T) {
		for _, mode := range []models.ReleaseMode{models.ReleaseNone, models.ReleaseScoreOnly, models.ReleaseScoreWithWrong} {
			got := FilterAttempt(gradedView(), esTest(mode, nil, false), false, now)
			assert.Nil(t, got.GradeEarned, mode)
			assert.Nil(t, got.Answers, mode)
		}
	})

	t.Run("ungraded attempt is never released", func(t *testing.T) {
		view := gradedView()
		view.Status = models.AttemptSubmitted
		got := FilterAttempt(view, esTest(models.ReleaseScoreOnly, nil, true), false, now)
		assert.Nil(t, got.GradeEarned)
	})
}

func TestFilterAttemptAdmin(t *testing.T) {
	view := gradedView()
	got := FilterAttempt(view, esTest(models.ReleaseNone, nil, false), true, now)
	assert.Equal(t, view, got)
}

func TestFilterAttemptReleaseTiming(t *testing.T) {
	test := esTest(models.ReleaseScoreWithWrong, ptr(now.Add(time.Hour)), false)

	before := FilterAttempt(gradedView(), test, false, now)
	assert.Nil(t, before.GradeEarned)
	assert.Empty(t, before.Answers)

	after := FilterAttempt(gradedView(), test, false, now.Add(time.Hour+time.Second))
	require.NotNil(t, after.GradeEarned)
	require.Len(t, after.Answers, 1)
	assert.Equal(t, "q-2", after.Answers[0].QuestionID)
}

func TestFilterAttemptPure(t *testing.T) {
	view := gradedView()
	test := esTest(models.ReleaseScoreWithWrong, nil, false)

	first, err := json.Marshal(FilterAttempt(view, test, false, now))
	require.NoError(t, err)
	second, err := json.Marshal(FilterAttempt(view, test, false, now))
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))

	assert.Equal(t, gradedView(), view, "input must not be mutated")

	full := FilterAttempt(view, esTest(models.ReleaseFullTest, nil, true), false, now)
	assert.Equal(t, view, full)
}

func TestAdaptersShareOnePolicyShape(t *testing.T) {
	at := now.Add(time.Hour)
	club := ClubTest{&models.Test{ScoreReleaseMode: models.ReleaseScoreOnly, ReleaseScoresAt: &at, ScoresReleased: true}}
	tournament := TournamentTest{&models.ESTest{ReleaseMode: models.ReleaseScoreOnly, ReleaseAt: &at, Released: true}}

	assert.Equal(t, club.ReleasePolicy(), tournament.ReleasePolicy())
}

func TestBuildView(t *testing.T) {
	attempt := &models.TestAttempt{
		ID: "att-1", TestKind: models.KindClub, TestID: "t-1", MembershipID: "m-1",
		Status: models.AttemptGraded, GradeEarned: ptr(decimal.NewFromInt(2)), StartedAt: now,
	}
	questions := []models.Question{
		{ID: "q-1", Ordinal: 1, Type: models.QuestionSingleChoice, Points: decimal.NewFromInt(2),
			Options: []models.QuestionOption{{ID: "o-1", Label: "7", IsCorrect: true}}},
		{ID: "q-2", Ordinal: 2, Type: models.QuestionShortText, Points: decimal.NewFromInt(1)},
	}
	answers := []models.AttemptAnswer{
		{ID: "a-1", QuestionID: "q-1", SelectedOptionIDs: models.IDList{"o-1"}, PointsAwarded: ptr(decimal.NewFromInt(2))},
	}

	view := BuildView(attempt, questions, answers)
	require.Len(t, view.Answers, 2)
	assert.True(t, view.Answers[0].Correct())
	assert.False(t, view.Answers[1].Correct(), "unanswered question is not correct")
	assert.Equal(t, []string{"o-1"}, view.Answers[0].SelectedOptionIDs)

	answers[0].SelectedOptionIDs[0] = "changed"
	assert.Equal(t, "o-1", view.Answers[0].SelectedOptionIDs[0])
}
