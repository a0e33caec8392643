package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateClubRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Division string `json:"division" validate:"required,oneof=A B C"`
}

type CreateTeamRequest struct {
	Name               string `json:"name" validate:"required,max=60"`
	MaxEventsPerMember *int   `json:"maxEventsPerMember" validate:"omitempty,min=1,max=30"`
}

type AddMemberRequest struct {
	UserID string `json:"userId" validate:"required,max=64"`
	Role   Role   `json:"role" validate:"required,oneof=ADMIN MEMBER"`
}

type ChangeRoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=ADMIN MEMBER"`
}

type SetSubRolesRequest struct {
	SubRoles []SubRole `json:"subRoles" validate:"max=3,dive,oneof=COACH CAPTAIN MEMBER"`
}

type SetMemberTeamRequest struct {
	TeamID *string `json:"teamId" validate:"omitempty,min=1"`
}

type RosterAssignmentRequest struct {
	TeamID       string `json:"teamId" validate:"required"`
	MembershipID string `json:"membershipId" validate:"required"`
	EventID      string `json:"eventId" validate:"required"`
}

type SetBudgetRequest struct {
	EventID   string          `json:"eventId" validate:"required"`
	TeamID    *string         `json:"teamId" validate:"omitempty,min=1"`
	MaxBudget decimal.Decimal `json:"maxBudget" validate:"gte=0"`
}

type CreatePurchaseRequest struct {
	ClubID          string          `json:"clubId" validate:"required"`
	EventID         *string         `json:"eventId" validate:"omitempty,min=1"`
	TeamID          *string         `json:"teamId" validate:"omitempty,min=1"`
	Description     string          `json:"description" validate:"required,max=500"`
	Justification   string          `json:"justification" validate:"max=2000"`
	EstimatedAmount decimal.Decimal `json:"estimatedAmount" validate:"gte=0"`
	AdminOverride   bool            `json:"adminOverride"`
}

type ReviewPurchaseRequest struct {
	Status        RequestStatus    `json:"status" validate:"required,oneof=APPROVED DENIED COMPLETED"`
	ReviewNote    string           `json:"reviewNote" validate:"max=2000"`
	AddToExpenses bool             `json:"addToExpenses"`
	ActualAmount  *decimal.Decimal `json:"actualAmount" validate:"omitempty,gte=0"`
	AdminOverride bool             `json:"adminOverride"`
}

type CreateExpenseRequest struct {
	ClubID      string          `json:"clubId" validate:"required"`
	EventID     *string         `json:"eventId" validate:"omitempty,min=1"`
	TeamID      *string         `json:"teamId" validate:"omitempty,min=1"`
	Description string          `json:"description" validate:"required,max=500"`
	Amount      decimal.Decimal `json:"amount" validate:"gte=0"`
	Date        time.Time       `json:"date" validate:"required"`
}

type SaveAnswerRequest struct {
	QuestionID        string   `json:"questionId" validate:"required"`
	AnswerText        *string  `json:"answerText" validate:"omitempty,max=10000"`
	SelectedOptionIDs []string `json:"selectedOptionIds" validate:"max=26,dive,required"`
	NumericAnswer     *float64 `json:"numericAnswer"`
}

type ManualGrade struct {
	AnswerID      string          `json:"answerId" validate:"required"`
	PointsAwarded decimal.Decimal `json:"pointsAwarded" validate:"gte=0"`
}

type GradeAttemptRequest struct {
	Grades          []ManualGrade    `json:"grades" validate:"dive"`
	ProctoringScore *decimal.Decimal `json:"proctoringScore" validate:"omitempty,gte=0"`
}

type ReleaseConfigRequest struct {
	Mode            ReleaseMode `json:"scoreReleaseMode" validate:"required,oneof=NONE SCORE_ONLY SCORE_WITH_WRONG FULL_TEST"`
	ReleaseScoresAt *time.Time  `json:"releaseScoresAt"`
	ScoresReleased  bool        `json:"scoresReleased"`
}

type CreateTestRequest struct {
	Name             string      `json:"name" validate:"required,max=200"`
	ScoreReleaseMode ReleaseMode `json:"scoreReleaseMode" validate:"omitempty,oneof=NONE SCORE_ONLY SCORE_WITH_WRONG FULL_TEST"`
	ReleaseScoresAt  *time.Time  `json:"releaseScoresAt"`
}

type CreateESTestRequest struct {
	TournamentName string      `json:"tournamentName" validate:"required,max=200"`
	EventID        string      `json:"eventId" validate:"required"`
	Name           string      `json:"name" validate:"required,max=200"`
	ReleaseMode    ReleaseMode `json:"releaseMode" validate:"omitempty,oneof=NONE SCORE_ONLY SCORE_WITH_WRONG FULL_TEST"`
	ReleaseAt      *time.Time  `json:"releaseAt"`
}

type CreateOptionRequest struct {
	Label     string `json:"label" validate:"required,max=1000"`
	IsCorrect bool   `json:"isCorrect"`
}

type CreateQuestionRequest struct {
	Type             QuestionType          `json:"type" validate:"required,oneof=MCQ_SINGLE MCQ_MULTI SHORT_TEXT LONG_TEXT NUMERIC"`
	Prompt           string                `json:"prompt" validate:"required,max=10000"`
	Explanation      *string               `json:"explanation" validate:"omitempty,max=10000"`
	Points           decimal.Decimal       `json:"points" validate:"gte=0"`
	NumericAnswer    *float64              `json:"numericAnswer" validate:"required_if=Type NUMERIC"`
	NumericTolerance *float64              `json:"numericTolerance" validate:"omitempty,gte=0"`
	Options          []CreateOptionRequest `json:"options" validate:"required_if=Type MCQ_SINGLE,required_if=Type MCQ_MULTI,max=26,dive"`
}

type StartAttemptRequest struct {
	// ClubID is the club the taker competes for. Club tests default to
	// their own club.
	ClubID string `json:"clubId"`
}
