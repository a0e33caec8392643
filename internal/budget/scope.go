// Package budget enforces event spending ceilings and owns the purchase
// request and expense ledger.
package budget

import (
	"github.com/shrimpsizemoose/olympiad/internal/models"
	"github.com/shrimpsizemoose/olympiad/internal/store"
)

// Scope is the reach of one budget: ClubWide or TeamSpecific.
type Scope interface {
	// Filter narrows ledger aggregation to the scope.
	Filter(clubID, eventID string) store.LedgerFilter
	String() string
}

type ClubWide struct{}

func (ClubWide) Filter(clubID, eventID string) store.LedgerFilter {
	return store.LedgerFilter{ClubID: clubID, EventID: eventID}
}

func (ClubWide) String() string {
	return "club"
}

type TeamSpecific struct {
	TeamID string
}

func (s TeamSpecific) Filter(clubID, eventID string) store.LedgerFilter {
	teamID := s.TeamID
	return store.LedgerFilter{ClubID: clubID, EventID: eventID, TeamID: &teamID}
}

func (s TeamSpecific) String() string {
	return "team:" + s.TeamID
}

// ScopeOf reports the scope a stored budget covers.
func ScopeOf(b models.EventBudget) Scope {
	if b.TeamID == nil {
		return ClubWide{}
	}
	return TeamSpecific{TeamID: *b.TeamID}
}

// ResolveScope picks the budget governing a spend by teamID. A team budget
// wins outright; the club-wide budget applies only when the team has none.
// It returns nil when no budget applies.
func ResolveScope(budgets []models.EventBudget, teamID *string) *models.EventBudget {
	var clubWide *models.EventBudget
	for i := range budgets {
		b := &budgets[i]
		switch s := ScopeOf(*b).(type) {
		case TeamSpecific:
			if teamID != nil && s.TeamID == *teamID {
				return b
			}
		case ClubWide:
			clubWide = b
		}
	}
	return clubWide
}
