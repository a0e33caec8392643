// Package roster assigns club members to events for a team.
package roster

import (
	"fmt"

	"github.com/shrimpsizemoose/olympiad/internal/apperr"
	"github.com/shrimpsizemoose/olympiad/internal/models"
)

// State is everything a validation decision reads, loaded by the caller.
type State struct {
	Membership *models.Membership
	Team       *models.Team
	// RosterIDs are the memberships currently on the team roster.
	RosterIDs []string
	// Assignments are every assignment the membership holds.
	Assignments []models.RosterAssignment
	MaxTeamSize int
}

type Result struct {
	Valid bool        `json:"valid"`
	Code  apperr.Code `json:"code,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Err returns the rejection as a business error, or nil when valid.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return apperr.New(r.Code, r.Error)
}

func reject(code apperr.Code, format string, args ...any) Result {
	return Result{Code: code, Error: fmt.Sprintf(format, args...)}
}

// Validate decides whether the membership may be assigned to eventID on the
// team. Rules are checked in order and the first failure wins.
func Validate(s State, eventID string) Result {
	m, team := s.Membership, s.Team

	if m.ClubID != team.ClubID {
		return reject(apperr.CodeClubMismatch, "member and team belong to different clubs")
	}

	onRoster := false
	for _, id := range s.RosterIDs {
		if id == m.ID {
			onRoster = true
			break
		}
	}
	if !onRoster && len(s.RosterIDs) >= s.MaxTeamSize {
		return reject(apperr.CodeTeamFull, "team %s already has %d members", team.Name, len(s.RosterIDs))
	}

	onTeam := 0
	for _, a := range s.Assignments {
		if a.EventID == eventID && a.TeamID != team.ID {
			return reject(apperr.CodeDuplicateEvent, "member is already assigned to this event on another team")
		}
		if a.TeamID == team.ID {
			onTeam++
		}
	}
	for _, a := range s.Assignments {
		if a.EventID == eventID && a.TeamID == team.ID {
			return reject(apperr.CodeAlreadyAssigned, "member is already assigned to this event")
		}
	}

	if team.MaxEventsPerMember != nil && onTeam >= *team.MaxEventsPerMember {
		return reject(apperr.CodeEventCapExceeded, "member already has %d events on team %s", onTeam, team.Name)
	}

	return Result{Valid: true}
}
