package store

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/shrimpsizemoose/olympiad/internal/models"
)

const (
	budgetColumns  = `id, club_id, event_id, team_id, max_budget, created_at, updated_at`
	expenseColumns = `id, club_id, event_id, team_id, description, amount, date, added_by, purchase_request_id, created_at`
	requestColumns = `id, club_id, event_id, team_id, requester_id, description, justification, estimated_amount,
		status, admin_override, reviewed_by, review_note, reviewed_at, created_at`
)

func (s *BaseStore) CreateEventBudget(ctx context.Context, b *models.EventBudget) error {
	return s.namedExec(ctx, "create event budget", `
		INSERT INTO event_budgets (id, club_id, event_id, team_id, max_budget, created_at, updated_at)
		VALUES (:id, :club_id, :event_id, :team_id, :max_budget, :created_at, :updated_at)
	`, b)
}

func (s *BaseStore) UpdateEventBudget(ctx context.Context, id string, maxBudget decimal.Decimal, updatedAt time.Time) error {
	return s.exec(ctx, "update event budget", `
		UPDATE event_budgets SET max_budget = ?, updated_at = ? WHERE id = ?
	`, maxBudget, updatedAt, id)
}

func (s *BaseStore) ListEventBudgets(ctx context.Context, clubID, eventID string) ([]models.EventBudget, error) {
	var out []models.EventBudget
	err := s.selectAll(ctx, &out, "list event budgets", `
		SELECT `+budgetColumns+`
		FROM event_budgets
		WHERE club_id = ? AND event_id = ?
	`, clubID, eventID)
	return out, err
}

func (s *BaseStore) ListClubBudgets(ctx context.Context, clubID string) ([]models.EventBudget, error) {
	var out []models.EventBudget
	err := s.selectAll(ctx, &out, "list club budgets", `
		SELECT `+budgetColumns+`
		FROM event_budgets
		WHERE club_id = ?
		ORDER BY event_id, team_id
	`, clubID)
	return out, err
}

func ledgerWhere(f LedgerFilter) sq.Eq {
	where := sq.Eq{"club_id": f.ClubID, "event_id": f.EventID}
	if f.TeamID != nil {
		where["team_id"] = *f.TeamID
	}
	return where
}

// SumExpenses adds amounts in Go so both dialects sum exactly.
func (s *BaseStore) SumExpenses(ctx context.Context, f LedgerFilter) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	q := s.Builder.Select("amount").From("expenses").Where(ledgerWhere(f))
	if err := s.selectBuilt(ctx, &amounts, "sum expenses", q); err != nil {
		return decimal.Zero, err
	}
	return decimal.Sum(decimal.Zero, amounts...), nil
}

func (s *BaseStore) SumPendingRequests(ctx context.Context, f LedgerFilter) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	q := s.Builder.Select("estimated_amount").
		From("purchase_requests").
		Where(ledgerWhere(f)).
		Where(sq.Eq{"status": models.StatusPending})
	if err := s.selectBuilt(ctx, &amounts, "sum pending requests", q); err != nil {
		return decimal.Zero, err
	}
	return decimal.Sum(decimal.Zero, amounts...), nil
}

func (s *BaseStore) CreateExpense(ctx context.Context, e *models.Expense) error {
	return s.namedExec(ctx, "create expense", `
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES (:id, :club_id, :event_id, :team_id, :description, :amount, :date, :added_by,
			:purchase_request_id, :created_at)
	`, e)
}

func (s *BaseStore) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	var e models.Expense
	found, err := s.get(ctx, &e, "get expense", `SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)
	if err != nil || !found {
		return nil, err
	}
	return &e, nil
}

func (s *BaseStore) GetExpenseByRequest(ctx context.Context, requestID string) (*models.Expense, error) {
	var e models.Expense
	found, err := s.get(ctx, &e, "get expense by request", `
		SELECT `+expenseColumns+` FROM expenses WHERE purchase_request_id = ?
	`, requestID)
	if err != nil || !found {
		return nil, err
	}
	return &e, nil
}

func (s *BaseStore) DeleteExpense(ctx context.Context, id string) error {
	return s.exec(ctx, "delete expense", `DELETE FROM expenses WHERE id = ?`, id)
}

func (s *BaseStore) ListExpenses(ctx context.Context, clubID string) ([]models.Expense, error) {
	var out []models.Expense
	err := s.selectAll(ctx, &out, "list expenses", `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE club_id = ?
		ORDER BY date DESC, created_at DESC
	`, clubID)
	return out, err
}

func (s *BaseStore) CreatePurchaseRequest(ctx context.Context, r *models.PurchaseRequest) error {
	return s.namedExec(ctx, "create purchase request", `
		INSERT INTO purchase_requests (`+requestColumns+`)
		VALUES (:id, :club_id, :event_id, :team_id, :requester_id, :description, :justification,
			:estimated_amount, :status, :admin_override, :reviewed_by, :review_note, :reviewed_at, :created_at)
	`, r)
}

func (s *BaseStore) GetPurchaseRequest(ctx context.Context, id string) (*models.PurchaseRequest, error) {
	var r models.PurchaseRequest
	found, err := s.get(ctx, &r, "get purchase request", `
		SELECT `+requestColumns+` FROM purchase_requests WHERE id = ?
	`, id)
	if err != nil || !found {
		return nil, err
	}
	return &r, nil
}

func (s *BaseStore) UpdatePurchaseRequest(ctx context.Context, r *models.PurchaseRequest) error {
	return s.namedExec(ctx, "update purchase request", `
		UPDATE purchase_requests
		SET status = :status,
			admin_override = :admin_override,
			reviewed_by = :reviewed_by,
			review_note = :review_note,
			reviewed_at = :reviewed_at
		WHERE id = :id
	`, r)
}

func (s *BaseStore) DeletePurchaseRequest(ctx context.Context, id string) error {
	return s.exec(ctx, "delete purchase request", `DELETE FROM purchase_requests WHERE id = ?`, id)
}

func (s *BaseStore) ListPurchaseRequests(ctx context.Context, f RequestFilter) ([]models.PurchaseRequest, error) {
	where := sq.Eq{"club_id": f.ClubID}
	if f.Status != nil {
		where["status"] = *f.Status
	}
	if f.RequesterID != nil {
		where["requester_id"] = *f.RequesterID
	}

	var out []models.PurchaseRequest
	q := s.Builder.Select(requestColumns).
		From("purchase_requests").
		Where(where).
		OrderBy("created_at DESC", "id")
	err := s.selectBuilt(ctx, &out, "list purchase requests", q)
	return out, err
}
