package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shrimpsizemoose/olympiad/internal/models"
)

// Querier is the set of reads and writes available both on the store and
// inside a transaction. Get* methods return nil, nil when the row is missing.
type Querier interface {
	CreateClub(ctx context.Context, club *models.Club) error
	GetClub(ctx context.Context, id string) (*models.Club, error)
	DeleteClub(ctx context.Context, id string) error

	CreateTeam(ctx context.Context, team *models.Team) error
	GetTeam(ctx context.Context, id string) (*models.Team, error)
	ListTeams(ctx context.Context, clubID string) ([]models.Team, error)
	ListTeamRosterMemberIDs(ctx context.Context, teamID string) ([]string, error)

	CreateMembership(ctx context.Context, m *models.Membership) error
	GetMembership(ctx context.Context, userID, clubID string) (*models.Membership, error)
	GetMembershipByID(ctx context.Context, id string) (*models.Membership, error)
	ListMemberships(ctx context.Context, clubID string) ([]models.Membership, error)
	ListUserMemberships(ctx context.Context, userID string) ([]models.Membership, error)
	UpdateMembership(ctx context.Context, m *models.Membership) error
	DeleteMembership(ctx context.Context, id string) error
	CountAdmins(ctx context.Context, clubID string) (int, error)

	CreateEvent(ctx context.Context, e *models.Event) error
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)

	CreateRosterAssignment(ctx context.Context, a *models.RosterAssignment) error
	GetRosterAssignment(ctx context.Context, id string) (*models.RosterAssignment, error)
	DeleteRosterAssignment(ctx context.Context, id string) error
	ListMembershipAssignments(ctx context.Context, membershipID string) ([]models.RosterAssignment, error)
	ListTeamAssignments(ctx context.Context, teamID string) ([]models.RosterAssignment, error)

	CreateEventBudget(ctx context.Context, b *models.EventBudget) error
	UpdateEventBudget(ctx context.Context, id string, maxBudget decimal.Decimal, updatedAt time.Time) error
	ListEventBudgets(ctx context.Context, clubID, eventID string) ([]models.EventBudget, error)
	ListClubBudgets(ctx context.Context, clubID string) ([]models.EventBudget, error)
	SumExpenses(ctx context.Context, f LedgerFilter) (decimal.Decimal, error)
	SumPendingRequests(ctx context.Context, f LedgerFilter) (decimal.Decimal, error)

	CreateExpense(ctx context.Context, e *models.Expense) error
	GetExpense(ctx context.Context, id string) (*models.Expense, error)
	GetExpenseByRequest(ctx context.Context, requestID string) (*models.Expense, error)
	DeleteExpense(ctx context.Context, id string) error
	ListExpenses(ctx context.Context, clubID string) ([]models.Expense, error)

	CreatePurchaseRequest(ctx context.Context, r *models.PurchaseRequest) error
	GetPurchaseRequest(ctx context.Context, id string) (*models.PurchaseRequest, error)
	UpdatePurchaseRequest(ctx context.Context, r *models.PurchaseRequest) error
	DeletePurchaseRequest(ctx context.Context, id string) error
	ListPurchaseRequests(ctx context.Context, f RequestFilter) ([]models.PurchaseRequest, error)

	CreateTest(ctx context.Context, t *models.Test) error
	GetTest(ctx context.Context, id string) (*models.Test, error)
	UpdateTestRelease(ctx context.Context, t *models.Test) error
	CreateESTest(ctx context.Context, t *models.ESTest) error
	GetESTest(ctx context.Context, id string) (*models.ESTest, error)
	UpdateESTestRelease(ctx context.Context, t *models.ESTest) error

	CreateQuestion(ctx context.Context, q *models.Question) error
	ListQuestions(ctx context.Context, kind models.TestKind, testID string) ([]models.Question, error)

	CreateAttempt(ctx context.Context, a *models.TestAttempt) error
	GetAttempt(ctx context.Context, id string) (*models.TestAttempt, error)
	FindLatestAttempt(ctx context.Context, kind models.TestKind, testID, membershipID string) (*models.TestAttempt, error)
	UpdateAttempt(ctx context.Context, a *models.TestAttempt) error
	ListAttemptAnswers(ctx context.Context, attemptID string) ([]models.AttemptAnswer, error)
	SaveAnswer(ctx context.Context, a *models.AttemptAnswer) error
	UpdateAnswerGrade(ctx context.Context, answerID string, points *decimal.Decimal, gradedAt *time.Time) error
}

type Store interface {
	Querier
	Close() error
	ApplyMigrations(dir string) error
	// WithTx runs fn in one transaction; any error from fn rolls it back.
	WithTx(ctx context.Context, fn func(q Querier) error) error
}
