package membership

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/olympiad/internal/apperr"
	"github.com/shrimpsizemoose/olympiad/internal/models"
	"github.com/shrimpsizemoose/olympiad/internal/store"
)

type Service struct {
	Store       store.Store
	MaxTeamSize int
	Now         func() time.Time
}

func NewService(s store.Store, maxTeamSize int) *Service {
	if maxTeamSize <= 0 {
		maxTeamSize = models.MaxTeamSize
	}
	return &Service{
		Store:       s,
		MaxTeamSize: maxTeamSize,
		Now:         func() time.Time { return time.Now().UTC() },
	}
}

// CreateClub creates a club with userID as its first admin.
func (s *Service) CreateClub(ctx context.Context, userID string, req models.CreateClubRequest) (*models.Club, *models.Membership, error) {
	if userID == "" {
		return nil, nil, apperr.Unauthorized("authentication required")
	}
	if err := models.Validate(req); err != nil {
		return nil, nil, err
	}

	now := s.Now()
	club := &models.Club{ID: uuid.NewString(), Name: req.Name, Division: req.Division, CreatedAt: now}
	admin := &models.Membership{
		ID:        uuid.NewString(),
		UserID:    userID,
		ClubID:    club.ID,
		Role:      models.RoleAdmin,
		SubRoles:  models.SubRoles{models.SubRoleCoach},
		CreatedAt: now,
	}

	err := s.Store.WithTx(ctx, func(q store.Querier) error {
		if err := q.CreateClub(ctx, club); err != nil {
			return err
		}
		return q.CreateMembership(ctx, admin)
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info.Printf("Club %s created by %s", club.ID, userID)
	return club, admin, nil
}

// DeleteClub is the only path that may remove a club's last admin.
func (s *Service) DeleteClub(ctx context.Context, userID, clubID string) error {
	return s.Store.WithTx(ctx, func(q store.Querier) error {
		if _, err := NewResolver(q).RequireAdmin(ctx, userID, clubID); err != nil {
			return err
		}
		return q.DeleteClub(ctx, clubID)
	})
}

func (s *Service) GetClub(ctx context.Context, userID, clubID string) (*models.Club, error) {
	if _, err := NewResolver(s.Store).RequireMember(ctx, userID, clubID); err != nil {
		return nil, err
	}
	club, err := s.Store.GetClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if club == nil {
		return nil, apperr.NotFound("club")
	}
	return club, nil
}

func (s *Service) ListMembers(ctx context.Context, userID, clubID string) ([]models.Membership, error) {
	if _, err := NewResolver(s.Store).RequireMember(ctx, userID, clubID); err != nil {
		return nil, err
	}
	return s.Store.ListMemberships(ctx, clubID)
}

func (s *Service) MyMemberships(ctx context.Context, userID string) ([]models.Membership, error) {
	if userID == "" {
		return nil, apperr.Unauthorized("authentication required")
	}
	return s.Store.ListUserMemberships(ctx, userID)
}

func (s *Service) AddMember(ctx context.Context, userID, clubID string, req models.AddMemberRequest) (*models.Membership, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	m := &models.Membership{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		ClubID:    clubID,
		Role:      req.Role,
		SubRoles:  models.SubRoles{models.SubRoleMember},
		CreatedAt: s.Now(),
	}
	err := s.Store.WithTx(ctx, func(q store.Querier) error {
		if _, err := NewResolver(q).RequireAdmin(ctx, userID, clubID); err != nil {
			return err
		}
		return q.CreateMembership(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ChangeRole never leaves a club without an admin.
func (s *Service) ChangeRole(ctx context.Context, userID, clubID, membershipID string, req models.ChangeRoleRequest) (*models.Membership, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	var target *models.Membership
	err := s.Store.WithTx(ctx, func(q store.Querier) error {
		if _, err := NewResolver(q).RequireAdmin(ctx, userID, clubID); err != nil {
			return err
		}
		m, err := getClubMembership(ctx, q, clubID, membershipID)
		if err != nil {
			return err
		}
		if m.Role == models.RoleAdmin && req.Role != models.RoleAdmin {
			if err := ensureAnotherAdmin(ctx, q, clubID); err != nil {
				return err
			}
		}
		m.Role = req.Role
		target = m
		return q.UpdateMembership(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	return target, nil
}

// RemoveMember lets admins remove anyone and members leave on their own.
func (s *Service) RemoveMember(ctx context.Context, userID, clubID, membershipID string) error {
	return s.Store.WithTx(ctx, func(q store.Querier) error {
		actor, err := NewResolver(q).RequireMember(ctx, userID, clubID)
		if err != nil {
			return err
		}
		m, err := getClubMembership(ctx, q, clubID, membershipID)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && actor.ID != m.ID {
			return apperr.Unauthorized("only admins can remove other members")
		}
		if m.IsAdmin() {
			if err := ensureAnotherAdmin(ctx, q, clubID); err != nil {
				return err
			}
		}
		return q.DeleteMembership(ctx, m.ID)
	})
}

func (s *Service) SetSubRoles(ctx context.Context, userID, clubID, membershipID string, req models.SetSubRolesRequest) (*models.Membership, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	var target *models.Membership
	err := s.Store.WithTx(ctx, func(q store.Querier) error {
		if _, err := NewResolver(q).RequireAdmin(ctx, userID, clubID); err != nil {
			return err
		}
		m, err := getClubMembership(ctx, q, clubID, membershipID)
		if err != nil {
			return err
		}
		m.SubRoles = models.SubRoles(req.SubRoles)
		target = m
		return q.UpdateMembership(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	return target, nil
}

// SetMemberTeam moves a membership onto a team of the same club, or off any
// team when TeamID is nil.
func (s *Service) SetMemberTeam(ctx context.Context, userID, clubID, membershipID string, req models.SetMemberTeamRequest) (*models.Membership, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	var target *models.Membership
	err := s.Store.WithTx(ctx, func(q store.Querier) error {
		if _, err := NewResolver(q).RequireAdmin(ctx, userID, clubID); err != nil {
			return err
		}
		m, err := getClubMembership(ctx, q, clubID, membershipID)
		if err != nil {
			return err
		}

		if req.TeamID != nil {
			team, err := q.GetTeam(ctx, *req.TeamID)
			if err != nil {
				return err
			}
			if team == nil {
				return apperr.NotFound("team")
			}
			if team.ClubID != clubID {
				return apperr.New(apperr.CodeClubMismatch, "team belongs to another club")
			}
			if err := s.ensureCapacity(ctx, q, team.ID, m.ID); err != nil {
				return err
			}
		}

		m.TeamID = req.TeamID
		target = m
		return q.UpdateMembership(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	return target, nil
}

func (s *Service) ensureCapacity(ctx context.Context, q store.Querier, teamID, membershipID string) error {
	roster, err := q.ListTeamRosterMemberIDs(ctx, teamID)
	if err != nil {
		return err
	}
	for _, id := range roster {
		if id == membershipID {
			return nil
		}
	}
	if len(roster) >= s.MaxTeamSize {
		return apperr.Newf(apperr.CodeTeamFull, "team already has %d members", len(roster))
	}
	return nil
}

func (s *Service) CreateTeam(ctx context.Context, userID, clubID string, req models.CreateTeamRequest) (*models.Team, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	team := &models.Team{
		ID:                 uuid.NewString(),
		ClubID:             clubID,
		Name:               req.Name,
		MaxEventsPerMember: req.MaxEventsPerMember,
		CreatedAt:          s.Now(),
	}
	err := s.Store.WithTx(ctx, func(q store.Querier) error {
		if _, err := NewResolver(q).RequireAdmin(ctx, userID, clubID); err != nil {
			return err
		}
		return q.CreateTeam(ctx, team)
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (s *Service) ListTeams(ctx context.Context, userID, clubID string) ([]models.Team, error) {
	if _, err := NewResolver(s.Store).RequireMember(ctx, userID, clubID); err != nil {
		return nil, err
	}
	return s.Store.ListTeams(ctx, clubID)
}

// DeleteUser removes every membership of userID. Clubs where the user is the
// only admin pass to their longest-standing other member; clubs left with no
// members are deleted.
func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	if userID == "" {
		return apperr.Unauthorized("authentication required")
	}

	return s.Store.WithTx(ctx, func(q store.Querier) error {
		memberships, err := q.ListUserMemberships(ctx, userID)
		if err != nil {
			return err
		}

		for _, m := range memberships {
			if !m.IsAdmin() {
				if err := q.DeleteMembership(ctx, m.ID); err != nil {
					return err
				}
				continue
			}

			admins, err := q.CountAdmins(ctx, m.ClubID)
			if err != nil {
				return err
			}
			if admins > 1 {
				if err := q.DeleteMembership(ctx, m.ID); err != nil {
					return err
				}
				continue
			}

			if err := transferOwnership(ctx, q, m); err != nil {
				return fmt.Errorf("failed to transfer club %s: %w", m.ClubID, err)
			}
		}
		return nil
	})
}

func transferOwnership(ctx context.Context, q store.Querier, sole models.Membership) error {
	members, err := q.ListMemberships(ctx, sole.ClubID)
	if err != nil {
		return err
	}

	// ListMemberships is ordered by created_at, oldest first.
	for i := range members {
		heir := &members[i]
		if heir.ID == sole.ID {
			continue
		}
		heir.Role = models.RoleAdmin
		if err := q.UpdateMembership(ctx, heir); err != nil {
			return err
		}
		logger.Info.Printf("Club %s transferred from %s to %s", sole.ClubID, sole.UserID, heir.UserID)
		return q.DeleteMembership(ctx, sole.ID)
	}

	logger.Info.Printf("Club %s deleted with its last member %s", sole.ClubID, sole.UserID)
	return q.DeleteClub(ctx, sole.ClubID)
}

func getClubMembership(ctx context.Context, q store.Querier, clubID, membershipID string) (*models.Membership, error) {
	m, err := q.GetMembershipByID(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if m == nil || m.ClubID != clubID {
		return nil, apperr.NotFound("membership")
	}
	return m, nil
}

func ensureAnotherAdmin(ctx context.Context, q store.Querier, clubID string) error {
	n, err := q.CountAdmins(ctx, clubID)
	if err != nil {
		return err
	}
	if n <= 1 {
		return apperr.New(apperr.CodeLastAdmin, "a club must keep at least one admin")
	}
	return nil
}
