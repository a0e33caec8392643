package budget

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/olympiad/internal/apperr"
	"github.com/shrimpsizemoose/olympiad/internal/metrics"
	"github.com/shrimpsizemoose/olympiad/internal/models"
	"github.com/shrimpsizemoose/olympiad/internal/store"
)

// Ledger is the read side the engine aggregates over.
type Ledger interface {
	ListEventBudgets(ctx context.Context, clubID, eventID string) ([]models.EventBudget, error)
	SumExpenses(ctx context.Context, f store.LedgerFilter) (decimal.Decimal, error)
	SumPendingRequests(ctx context.Context, f store.LedgerFilter) (decimal.Decimal, error)
}

type Check struct {
	ClubID        string
	EventID       string
	TeamID        *string
	Requested     decimal.Decimal
	IsAdmin       bool
	AdminOverride bool
}

// Headroom is the state of the budget governing a check.
type Headroom struct {
	Budget models.EventBudget `json:"budget"`
	Scope  string             `json:"scope"`
	Spent  decimal.Decimal    `json:"spent"`
	// Pending is advisory and never counted against the ceiling.
	Pending   decimal.Decimal `json:"pending"`
	Remaining decimal.Decimal `json:"remaining"`
}

type Decision struct {
	Allowed   bool            `json:"allowed"`
	Code      apperr.Code     `json:"code,omitempty"`
	Remaining decimal.Decimal `json:"remaining"`
	Requested decimal.Decimal `json:"requested"`
	// Unbudgeted is set when an admin spends where no budget exists.
	Unbudgeted bool `json:"unbudgeted,omitempty"`
	// Overridden is set when an admin spends past the ceiling.
	Overridden bool `json:"overridden,omitempty"`
}

// Err returns the rejection as a business error, or nil when allowed.
func (d Decision) Err() error {
	switch {
	case d.Allowed:
		return nil
	case d.Code == apperr.CodeBudgetExceeded:
		return apperr.BudgetExceeded(d.Remaining, d.Requested)
	default:
		return apperr.New(d.Code, "no budget is set for this event")
	}
}

// Decide is the pure policy. h is nil when no budget applies.
func Decide(h *Headroom, c Check) Decision {
	if h == nil {
		if !c.IsAdmin {
			return Decision{Code: apperr.CodeNoBudget, Requested: c.Requested}
		}
		return Decision{Allowed: true, Unbudgeted: true, Requested: c.Requested}
	}

	d := Decision{Remaining: h.Remaining, Requested: c.Requested}
	if c.Requested.LessThanOrEqual(h.Remaining) {
		d.Allowed = true
		return d
	}
	if c.IsAdmin && c.AdminOverride {
		d.Allowed = true
		d.Overridden = true
		return d
	}
	d.Code = apperr.CodeBudgetExceeded
	return d
}

// Measure loads the headroom of the budget governing (club, event, team).
// It returns nil when no budget applies.
func Measure(ctx context.Context, l Ledger, clubID, eventID string, teamID *string) (*Headroom, error) {
	budgets, err := l.ListEventBudgets(ctx, clubID, eventID)
	if err != nil {
		return nil, err
	}
	b := ResolveScope(budgets, teamID)
	if b == nil {
		return nil, nil
	}
	return headroomOf(ctx, l, *b)
}

func headroomOf(ctx context.Context, l Ledger, b models.EventBudget) (*Headroom, error) {
	scope := ScopeOf(b)
	f := scope.Filter(b.ClubID, b.EventID)

	spent, err := l.SumExpenses(ctx, f)
	if err != nil {
		return nil, err
	}
	pending, err := l.SumPendingRequests(ctx, f)
	if err != nil {
		return nil, err
	}

	return &Headroom{
		Budget:    b,
		Scope:     scope.String(),
		Spent:     spent,
		Pending:   pending,
		Remaining: b.MaxBudget.Sub(spent),
	}, nil
}

// CheckBudget measures and decides in one step.
func CheckBudget(ctx context.Context, l Ledger, c Check) (Decision, error) {
	h, err := Measure(ctx, l, c.ClubID, c.EventID, c.TeamID)
	if err != nil {
		return Decision{}, err
	}

	d := Decide(h, c)
	code := metrics.OK
	if !d.Allowed {
		code = string(d.Code)
		logger.Debug.Printf("Budget check denied for club %s event %s: %s", c.ClubID, c.EventID, d.Code)
	}
	metrics.BudgetDecisionsTotal.WithLabelValues(code).Inc()
	return d, nil
}
