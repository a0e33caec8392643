package store

import (
	"context"

	"github.com/shrimpsizemoose/olympiad/internal/models"
)

const membershipColumns = `id, user_id, club_id, team_id, role, sub_roles, created_at`

func (s *BaseStore) CreateClub(ctx context.Context, club *models.Club) error {
	return s.namedExec(ctx, "create club", `
		INSERT INTO clubs (id, name, division, created_at)
		VALUES (:id, :name, :division, :created_at)
	`, club)
}

func (s *BaseStore) GetClub(ctx context.Context, id string) (*models.Club, error) {
	var club models.Club
	found, err := s.get(ctx, &club, "get club", `
		SELECT id, name, division, created_at FROM clubs WHERE id = ?
	`, id)
	if err != nil || !found {
		return nil, err
	}
	return &club, nil
}

func (s *BaseStore) DeleteClub(ctx context.Context, id string) error {
	return s.exec(ctx, "delete club", `DELETE FROM clubs WHERE id = ?`, id)
}

func (s *BaseStore) CreateTeam(ctx context.Context, team *models.Team) error {
	return s.namedExec(ctx, "create team", `
		INSERT INTO teams (id, club_id, name, max_events_per_member, created_at)
		VALUES (:id, :club_id, :name, :max_events_per_member, :created_at)
	`, team)
}

func (s *BaseStore) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	var team models.Team
	found, err := s.get(ctx, &team, "get team", `
		SELECT id, club_id, name, max_events_per_member, created_at
		FROM teams
		WHERE id = ?
	`, id)
	if err != nil || !found {
		return nil, err
	}
	return &team, nil
}

func (s *BaseStore) ListTeams(ctx context.Context, clubID string) ([]models.Team, error) {
	var teams []models.Team
	err := s.selectAll(ctx, &teams, "list teams", `
		SELECT id, club_id, name, max_events_per_member, created_at
		FROM teams
		WHERE club_id = ?
		ORDER BY name, id
	`, clubID)
	return teams, err
}

// ListTeamRosterMemberIDs returns members affiliated with the team plus
// members holding an assignment on it.
func (s *BaseStore) ListTeamRosterMemberIDs(ctx context.Context, teamID string) ([]string, error) {
	var ids []string
	err := s.selectAll(ctx, &ids, "list team roster", `
		SELECT id FROM memberships WHERE team_id = ?
		UNION
		SELECT membership_id FROM roster_assignments WHERE team_id = ?
	`, teamID, teamID)
	return ids, err
}

func (s *BaseStore) CreateMembership(ctx context.Context, m *models.Membership) error {
	return s.namedExec(ctx, "create membership", `
		INSERT INTO memberships (id, user_id, club_id, team_id, role, sub_roles, created_at)
		VALUES (:id, :user_id, :club_id, :team_id, :role, :sub_roles, :created_at)
	`, m)
}

func (s *BaseStore) GetMembership(ctx context.Context, userID, clubID string) (*models.Membership, error) {
	var m models.Membership
	found, err := s.get(ctx, &m, "get membership", `
		SELECT `+membershipColumns+`
		FROM memberships
		WHERE user_id = ? AND club_id = ?
	`, userID, clubID)
	if err != nil || !found {
		return nil, err
	}
	return &m, nil
}

func (s *BaseStore) GetMembershipByID(ctx context.Context, id string) (*models.Membership, error) {
	var m models.Membership
	found, err := s.get(ctx, &m, "get membership", `
		SELECT `+membershipColumns+` FROM memberships WHERE id = ?
	`, id)
	if err != nil || !found {
		return nil, err
	}
	return &m, nil
}

func (s *BaseStore) ListMemberships(ctx context.Context, clubID string) ([]models.Membership, error) {
	var out []models.Membership
	err := s.selectAll(ctx, &out, "list memberships", `
		SELECT `+membershipColumns+`
		FROM memberships
		WHERE club_id = ?
		ORDER BY created_at, id
	`, clubID)
	return out, err
}

func (s *BaseStore) ListUserMemberships(ctx context.Context, userID string) ([]models.Membership, error) {
	var out []models.Membership
	err := s.selectAll(ctx, &out, "list user memberships", `
		SELECT `+membershipColumns+`
		FROM memberships
		WHERE user_id = ?
		ORDER BY created_at, id
	`, userID)
	return out, err
}

func (s *BaseStore) UpdateMembership(ctx context.Context, m *models.Membership) error {
	return s.namedExec(ctx, "update membership", `
		UPDATE memberships
		SET team_id = :team_id, role = :role, sub_roles = :sub_roles
		WHERE id = :id
	`, m)
}

func (s *BaseStore) DeleteMembership(ctx context.Context, id string) error {
	return s.exec(ctx, "delete membership", `DELETE FROM memberships WHERE id = ?`, id)
}

func (s *BaseStore) CountAdmins(ctx context.Context, clubID string) (int, error) {
	var n int
	_, err := s.get(ctx, &n, "count admins", `
		SELECT COUNT(*) FROM memberships WHERE club_id = ? AND role = 'ADMIN'
	`, clubID)
	return n, err
}

func (s *BaseStore) CreateEvent(ctx context.Context, e *models.Event) error {
	return s.namedExec(ctx, "create event", `
		INSERT INTO events (id, name, division) VALUES (:id, :name, :division)
	`, e)
}

func (s *BaseStore) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	var e models.Event
	found, err := s.get(ctx, &e, "get event", `SELECT id, name, division FROM events WHERE id = ?`, id)
	if err != nil || !found {
		return nil, err
	}
	return &e, nil
}

func (s *BaseStore) ListEvents(ctx context.Context) ([]models.Event, error) {
	var out []models.Event
	err := s.selectAll(ctx, &out, "list events", `
		SELECT id, name, division FROM events ORDER BY division, name
	`)
	return out, err
}
