package store

import (
	"context"

	"github.com/shrimpsizemoose/olympiad/internal/models"
)

func (s *BaseStore) CreateRosterAssignment(ctx context.Context, a *models.RosterAssignment) error {
	return s.namedExec(ctx, "create roster assignment", `
		INSERT INTO roster_assignments (id, team_id, membership_id, event_id, created_at)
		VALUES (:id, :team_id, :membership_id, :event_id, :created_at)
	`, a)
}

func (s *BaseStore) GetRosterAssignment(ctx context.Context, id string) (*models.RosterAssignment, error) {
	var a models.RosterAssignment
	found, err := s.get(ctx, &a, "get roster assignment", `
		SELECT id, team_id, membership_id, event_id, created_at
		FROM roster_assignments
		WHERE id = ?
	`, id)
	if err != nil || !found {
		return nil, err
	}
	return &a, nil
}

func (s *BaseStore) DeleteRosterAssignment(ctx context.Context, id string) error {
	return s.exec(ctx, "delete roster assignment", `DELETE FROM roster_assignments WHERE id = ?`, id)
}

func (s *BaseStore) ListMembershipAssignments(ctx context.Context, membershipID string) ([]models.RosterAssignment, error) {
	var out []models.RosterAssignment
	err := s.selectAll(ctx, &out, "list membership assignments", `
		SELECT id, team_id, membership_id, event_id, created_at
		FROM roster_assignments
		WHERE membership_id = ?
		ORDER BY created_at, id
	`, membershipID)
	return out, err
}

func (s *BaseStore) ListTeamAssignments(ctx context.Context, teamID string) ([]models.RosterAssignment, error) {
	var out []models.RosterAssignment
	err := s.selectAll(ctx, &out, "list team assignments", `
		SELECT id, team_id, membership_id, event_id, created_at
		FROM roster_assignments
		WHERE team_id = ?
		ORDER BY event_id, created_at
	`, teamID)
	return out, err
}
