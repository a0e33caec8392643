package budget

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/olympiad/internal/apperr"
	"github.com/shrimpsizemoose/olympiad/internal/membership"
	"github.com/shrimpsizemoose/olympiad/internal/models"
	"github.com/shrimpsizemoose/olympiad/internal/store"
)

type Service struct {
	Store store.Store
	Now   func() time.Time
}

func NewService(s store.Store) *Service {
	return &Service{
		Store: s,
		Now:   func() time.Time { return time.Now().UTC() },
	}
}

// SetBudget creates or replaces the single budget of one scope.
func (s *Service) SetBudget(ctx context.Context, userID, clubID string, req models.SetBudgetRequest) (*models.EventBudget, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	var out *models.EventBudget
	err := s.Store.WithTx(ctx, func(q store.Querier) error {
		if _, err := membership.NewResolver(q).RequireAdmin(ctx, userID, clubID); err != nil {
			return err
		}
		if err := checkEvent(ctx, q, req.EventID); err != nil {
			return err
		}
		if err := checkTeam(ctx, q, clubID, req.TeamID); err != nil {
			return err
		}

		budgets, err := q.ListEventBudgets(ctx, clubID, req.EventID)
		if err != nil {
			return err
		}
		now := s.Now()
		for i := range budgets {
			b := &budgets[i]
			if sameTeam(b.TeamID, req.TeamID) {
				b.MaxBudget = req.MaxBudget
				b.UpdatedAt = now
				out = b
				return q.UpdateEventBudget(ctx, b.ID, b.MaxBudget, now)
			}
		}

		out = &models.EventBudget{
			ID:        uuid.NewString(),
			ClubID:    clubID,
			EventID:   req.EventID,
			TeamID:    req.TeamID,
			MaxBudget: req.MaxBudget,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return q.CreateEventBudget(ctx, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Summary reports every budget of the club with its current headroom.
func (s *Service) Summary(ctx context.Context, userID, clubID string) ([]Headroom, error) {
	if _, err := membership.NewResolver(s.Store).RequireMember(ctx, userID, clubID); err != nil {
		return nil, err
	}

	budgets, err := s.Store.ListClubBudgets(ctx, clubID)
	if err != nil {
		return nil, err
	}
	out := make([]Headroom, 0, len(budgets))
	for _, b := range budgets {
		h, err := headroomOf(ctx, s.Store, b)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	return out, nil
}

// CreatePurchaseRequest stores a PENDING request after the budget pre-check.
// Rejected requests are not stored.
func (s *Service) CreatePurchaseRequest(ctx context.Context, userID string, req models.CreatePurchaseRequest) (*models.PurchaseRequest, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	var out *models.PurchaseRequest
	err := s.Store.WithTx(ctx, func(q store.Querier) error {
		m, err := membership.NewResolver(q).RequireMember(ctx, userID, req.ClubID)
		if err != nil {
			return err
		}
		if err := checkTeam(ctx, q, req.ClubID, req.TeamID); err != nil {
			return err
		}

		teamID := req.TeamID
		if teamID == nil {
			teamID = m.TeamID
		}

		override := false
		if req.EventID != nil {
			if err := checkEvent(ctx, q, *req.EventID); err != nil {
				return err
			}
			d, err := CheckBudget(ctx, q, Check{
				ClubID:        req.ClubID,
				EventID:       *req.EventID,
				TeamID:        teamID,
				Requested:     req.EstimatedAmount,
				IsAdmin:       m.IsAdmin(),
				AdminOverride: req.AdminOverride,
			})
			if err != nil {
				return err
			}
			if err := d.Err(); err != nil {
				return err
			}
			override = d.Overridden
		}

		out = &models.PurchaseRequest{
			ID:              uuid.NewString(),
			ClubID:          req.ClubID,
			EventID:         req.EventID,
			TeamID:          teamID,
			RequesterID:     &m.ID,
			Description:     req.Description,
			Justification:   req.Justification,
			EstimatedAmount: req.EstimatedAmount,
			Status:          models.StatusPending,
			AdminOverride:   override,
			CreatedAt:       s.Now(),
		}
		return q.CreatePurchaseRequest(ctx, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReviewPurchaseRequest moves a request through its lifecycle. Approving
// with AddToExpenses, or completing an approved request, posts exactly one
// linked expense in the same transaction that marks the request COMPLETED.
func (s *Service) ReviewPurchaseRequest(ctx context.Context, userID, requestID string, req models.ReviewPurchaseRequest) (*models.PurchaseRequest, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	if err := membership.RequireIdentity(userID); err != nil {
		return nil, err
	}

	var out *models.PurchaseRequest
	err := s.Store.WithTx(ctx, func(q store.Querier) error {
		pr, err := q.GetPurchaseRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if pr == nil {
			return membership.Inaccessible("purchase request")
		}
		admin, err := membership.NewResolver(q).RequireAdmin(ctx, userID, pr.ClubID)
		if err != nil {
			return membership.Hide("purchase request", err)
		}

		next, err := transition(pr.Status, req)
		if err != nil {
			return err
		}

		amount := pr.EstimatedAmount
		if req.ActualAmount != nil {
			amount = *req.ActualAmount
		}

		if next != models.StatusDenied && pr.EventID != nil {
			d, err := CheckBudget(ctx, q, Check{
				ClubID:        pr.ClubID,
				EventID:       *pr.EventID,
				TeamID:        pr.TeamID,
				Requested:     amount,
				IsAdmin:       true,
				AdminOverride: req.AdminOverride || pr.AdminOverride,
			})
			if err != nil {
				return err
			}
			if err := d.Err(); err != nil {
				return err
			}
			pr.AdminOverride = pr.AdminOverride || d.Overridden
		}

		now := s.Now()
		if next == models.StatusCompleted {
			existing, err := q.GetExpenseByRequest(ctx, pr.ID)
			if err != nil {
				return err
			}
			if existing != nil {
				return apperr.New(apperr.CodeInvalidTransition, "purchase request already has an expense")
			}
			err = q.CreateExpense(ctx, &models.Expense{
				ID:                uuid.NewString(),
				ClubID:            pr.ClubID,
				EventID:           pr.EventID,
				TeamID:            pr.TeamID,
				Description:       pr.Description,
				Amount:            amount,
				Date:              now,
				AddedBy:           admin.ID,
				PurchaseRequestID: &pr.ID,
				CreatedAt:         now,
			})
			if err != nil {
				return err
			}
		}

		pr.Status = next
		pr.ReviewedBy = &admin.ID
		pr.ReviewNote = req.ReviewNote
		pr.ReviewedAt = &now
		out = pr
		return q.UpdatePurchaseRequest(ctx, pr)
	})
	if err != nil {
		return nil, err
	}

	logger.Info.Printf("Purchase request %s reviewed: %s", out.ID, out.Status)
	return out, nil
}

func transition(from models.RequestStatus, req models.ReviewPurchaseRequest) (models.RequestStatus, error) {
	to := req.Status
	if to == models.StatusApproved && req.AddToExpenses {
		to = models.StatusCompleted
	}

	switch {
	case from == models.StatusPending && to != models.StatusPending:
		return to, nil
	case from == models.StatusApproved && to == models.StatusCompleted:
		return to, nil
	}
	return "", apperr.Newf(apperr.CodeInvalidTransition, "cannot move a %s request to %s", from, req.Status)
}

// DeletePurchaseRequest removes a request together with its linked expense.
// Requesters may withdraw their own pending requests.
func (s *Service) DeletePurchaseRequest(ctx context.Context, userID, requestID string) error {
	if err := membership.RequireIdentity(userID); err != nil {
		return err
	}
	return s.Store.WithTx(ctx, func(q store.Querier) error {
		pr, err := q.GetPurchaseRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if pr == nil {
			return membership.Inaccessible("purchase request")
		}
		m, err := membership.NewResolver(q).RequireMember(ctx, userID, pr.ClubID)
		if err != nil {
			return membership.Hide("purchase request", err)
		}
		own := pr.RequesterID != nil && *pr.RequesterID == m.ID && pr.Status == models.StatusPending
		if !m.IsAdmin() && !own {
			return apperr.Unauthorized("only admins can delete this request")
		}
		return deleteLinked(ctx, q, pr.ID)
	})
}

func (s *Service) ListPurchaseRequests(ctx context.Context, userID, clubID string, status *models.RequestStatus) ([]models.PurchaseRequest, error) {
	m, err := membership.NewResolver(s.Store).RequireMember(ctx, userID, clubID)
	if err != nil {
		return nil, err
	}
	f := store.RequestFilter{ClubID: clubID, Status: status}
	if !m.IsAdmin() {
		f.RequesterID = &m.ID
	}
	return s.Store.ListPurchaseRequests(ctx, f)
}

// CreateExpense posts spend directly. No ceiling applies.
func (s *Service) CreateExpense(ctx context.Context, userID string, req models.CreateExpenseRequest) (*models.Expense, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	var out *models.Expense
	err := s.Store.WithTx(ctx, func(q store.Querier) error {
		admin, err := membership.NewResolver(q).RequireAdmin(ctx, userID, req.ClubID)
		if err != nil {
			return err
		}
		if err := checkTeam(ctx, q, req.ClubID, req.TeamID); err != nil {
			return err
		}
		if req.EventID != nil {
			if err := checkEvent(ctx, q, *req.EventID); err != nil {
				return err
			}
		}

		out = &models.Expense{
			ID:          uuid.NewString(),
			ClubID:      req.ClubID,
			EventID:     req.EventID,
			TeamID:      req.TeamID,
			Description: req.Description,
			Amount:      req.Amount,
			Date:        req.Date,
			AddedBy:     admin.ID,
			CreatedAt:   s.Now(),
		}
		return q.CreateExpense(ctx, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteExpense removes an expense together with the request it came from.
func (s *Service) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	if err := membership.RequireIdentity(userID); err != nil {
		return err
	}
	return s.Store.WithTx(ctx, func(q store.Querier) error {
		e, err := q.GetExpense(ctx, expenseID)
		if err != nil {
			return err
		}
		if e == nil {
			return membership.Inaccessible("expense")
		}
		if _, err := membership.NewResolver(q).RequireAdmin(ctx, userID, e.ClubID); err != nil {
			return membership.Hide("expense", err)
		}
		if e.PurchaseRequestID != nil {
			return deleteLinked(ctx, q, *e.PurchaseRequestID)
		}
		return q.DeleteExpense(ctx, e.ID)
	})
}

func (s *Service) ListExpenses(ctx context.Context, userID, clubID string) ([]models.Expense, error) {
	if _, err := membership.NewResolver(s.Store).RequireMember(ctx, userID, clubID); err != nil {
		return nil, err
	}
	return s.Store.ListExpenses(ctx, clubID)
}

func deleteLinked(ctx context.Context, q store.Querier, requestID string) error {
	e, err := q.GetExpenseByRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if e != nil {
		if err := q.DeleteExpense(ctx, e.ID); err != nil {
			return err
		}
	}
	return q.DeletePurchaseRequest(ctx, requestID)
}

func checkEvent(ctx context.Context, q store.Querier, eventID string) error {
	e, err := q.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if e == nil {
		return apperr.NotFound("event")
	}
	return nil
}

func checkTeam(ctx context.Context, q store.Querier, clubID string, teamID *string) error {
	if teamID == nil {
		return nil
	}
	team, err := q.GetTeam(ctx, *teamID)
	if err != nil {
		return err
	}
	if team == nil {
		return apperr.NotFound("team")
	}
	if team.ClubID != clubID {
		return apperr.New(apperr.CodeClubMismatch, "team belongs to another club")
	}
	return nil
}

func sameTeam(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
