package models

import (
	"database/sql/driver"
	"time"
)

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// SubRole tags are advisory and never consulted for authorization.
type SubRole string

const (
	SubRoleCoach   SubRole = "COACH"
	SubRoleCaptain SubRole = "CAPTAIN"
	SubRoleMember  SubRole = "MEMBER"
)

type SubRoles []SubRole

func (s SubRoles) Value() (driver.Value, error) {
	ids := make(IDList, len(s))
	for i, r := range s {
		ids[i] = string(r)
	}
	return ids.Value()
}

func (s *SubRoles) Scan(src any) error {
	parts, err := scanList(src)
	if err != nil {
		return err
	}
	out := make(SubRoles, 0, len(parts))
	for _, p := range parts {
		out = append(out, SubRole(p))
	}
	*s = out
	return nil
}

type Club struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Division  string    `db:"division" json:"division"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// MaxTeamSize is the number of memberships a team roster may hold.
const MaxTeamSize = 15

type Team struct {
	ID                 string    `db:"id" json:"id"`
	ClubID             string    `db:"club_id" json:"clubId"`
	Name               string    `db:"name" json:"name"`
	MaxEventsPerMember *int      `db:"max_events_per_member" json:"maxEventsPerMember,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"createdAt"`
}

type Membership struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	ClubID    string    `db:"club_id" json:"clubId"`
	TeamID    *string   `db:"team_id" json:"teamId,omitempty"`
	Role      Role      `db:"role" json:"role"`
	SubRoles  SubRoles  `db:"sub_roles" json:"subRoles"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

func (m *Membership) IsAdmin() bool {
	return m != nil && m.Role == RoleAdmin
}

// OnTeam reports whether the membership is affiliated with teamID.
func (m *Membership) OnTeam(teamID string) bool {
	return m.TeamID != nil && *m.TeamID == teamID
}

type Event struct {
	ID       string `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Division string `db:"division" json:"division"`
}

type RosterAssignment struct {
	ID           string    `db:"id" json:"id"`
	TeamID       string    `db:"team_id" json:"teamId"`
	MembershipID string    `db:"membership_id" json:"membershipId"`
	EventID      string    `db:"event_id" json:"eventId"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
