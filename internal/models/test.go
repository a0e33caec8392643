package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TestKind discriminates club practice tests from tournament tests; both
// share the question, option, attempt and answer tables.
type TestKind string

const (
	KindClub       TestKind = "CLUB"
	KindTournament TestKind = "TOURNAMENT"
)

type ReleaseMode string

const (
	ReleaseNone           ReleaseMode = "NONE"
	ReleaseScoreOnly      ReleaseMode = "SCORE_ONLY"
	ReleaseScoreWithWrong ReleaseMode = "SCORE_WITH_WRONG"
	ReleaseFullTest       ReleaseMode = "FULL_TEST"
)

// Test is a club practice test.
type Test struct {
	ID               string      `db:"id" json:"id"`
	ClubID           string      `db:"club_id" json:"clubId"`
	Name             string      `db:"name" json:"name"`
	Status           string      `db:"status" json:"status"`
	ScoreReleaseMode ReleaseMode `db:"score_release_mode" json:"scoreReleaseMode"`
	ReleaseScoresAt  *time.Time  `db:"release_scores_at" json:"releaseScoresAt,omitempty"`
	ScoresReleased   bool        `db:"scores_released" json:"scoresReleased"`
	CreatedAt        time.Time   `db:"created_at" json:"createdAt"`
}

// ESTest is a test written for a tournament event hosted by a club.
type ESTest struct {
	ID             string      `db:"id" json:"id"`
	HostClubID     string      `db:"host_club_id" json:"hostClubId"`
	TournamentName string      `db:"tournament_name" json:"tournamentName"`
	EventID        string      `db:"event_id" json:"eventId"`
	Name           string      `db:"name" json:"name"`
	ReleaseMode    ReleaseMode `db:"release_mode" json:"releaseMode"`
	ReleaseAt      *time.Time  `db:"release_at" json:"releaseAt,omitempty"`
	Released       bool        `db:"released" json:"released"`
	CreatedAt      time.Time   `db:"created_at" json:"createdAt"`
}

type QuestionType string

const (
	QuestionSingleChoice QuestionType = "MCQ_SINGLE"
	QuestionMultiChoice  QuestionType = "MCQ_MULTI"
	QuestionShortText    QuestionType = "SHORT_TEXT"
	QuestionLongText     QuestionType = "LONG_TEXT"
	QuestionNumeric      QuestionType = "NUMERIC"
)

type Question struct {
	ID               string           `db:"id" json:"id"`
	TestKind         TestKind         `db:"test_kind" json:"-"`
	TestID           string           `db:"test_id" json:"testId"`
	Ordinal          int              `db:"ordinal" json:"ordinal"`
	Type             QuestionType     `db:"type" json:"type"`
	Prompt           string           `db:"prompt" json:"prompt"`
	Explanation      *string          `db:"explanation" json:"explanation,omitempty"`
	Points           decimal.Decimal  `db:"points" json:"points"`
	NumericAnswer    *float64         `db:"numeric_answer" json:"-"`
	NumericTolerance *float64         `db:"numeric_tolerance" json:"-"`
	Options          []QuestionOption `db:"-" json:"options,omitempty"`
}

type QuestionOption struct {
	ID         string `db:"id" json:"id"`
	QuestionID string `db:"question_id" json:"questionId"`
	Ordinal    int    `db:"ordinal" json:"ordinal"`
	Label      string `db:"label" json:"label"`
	IsCorrect  bool   `db:"is_correct" json:"isCorrect"`
}

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "IN_PROGRESS"
	AttemptSubmitted  AttemptStatus = "SUBMITTED"
	AttemptGraded     AttemptStatus = "GRADED"
)

type TestAttempt struct {
	ID              string           `db:"id" json:"id"`
	TestKind        TestKind         `db:"test_kind" json:"testKind"`
	TestID          string           `db:"test_id" json:"testId"`
	MembershipID    string           `db:"membership_id" json:"membershipId"`
	Status          AttemptStatus    `db:"status" json:"status"`
	GradeEarned     *decimal.Decimal `db:"grade_earned" json:"gradeEarned,omitempty"`
	ProctoringScore *decimal.Decimal `db:"proctoring_score" json:"proctoringScore,omitempty"`
	StartedAt       time.Time        `db:"started_at" json:"startedAt"`
	SubmittedAt     *time.Time       `db:"submitted_at" json:"submittedAt,omitempty"`
	GradedAt        *time.Time       `db:"graded_at" json:"gradedAt,omitempty"`
}

type AttemptAnswer struct {
	ID                string           `db:"id" json:"id"`
	AttemptID         string           `db:"attempt_id" json:"attemptId"`
	QuestionID        string           `db:"question_id" json:"questionId"`
	AnswerText        *string          `db:"answer_text" json:"answerText,omitempty"`
	SelectedOptionIDs IDList           `db:"selected_option_ids" json:"selectedOptionIds,omitempty"`
	NumericAnswer     *float64         `db:"numeric_answer" json:"numericAnswer,omitempty"`
	PointsAwarded     *decimal.Decimal `db:"points_awarded" json:"pointsAwarded,omitempty"`
	GradedAt          *time.Time       `db:"graded_at" json:"gradedAt,omitempty"`
}
