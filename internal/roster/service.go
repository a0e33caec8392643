package roster

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/olympiad/internal/apperr"
	"github.com/shrimpsizemoose/olympiad/internal/membership"
	"github.com/shrimpsizemoose/olympiad/internal/metrics"
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

type TeamRoster struct {
	Team        *models.Team              `json:"team"`
	Members     []models.Membership       `json:"members"`
	Assignments []models.RosterAssignment `json:"assignments"`
}

// Check runs the validator against current state without writing anything.
func (s *Service) Check(ctx context.Context, userID string, req models.RosterAssignmentRequest) (Result, error) {
	if err := models.Validate(req); err != nil {
		return Result{}, err
	}
	state, err := s.loadState(ctx, s.Store, userID, req)
	if err != nil {
		return Result{}, err
	}
	return Validate(*state, req.EventID), nil
}

// Assign re-reads state and validates inside the transaction that inserts,
// leaving the unique constraints to catch anything that races past.
func (s *Service) Assign(ctx context.Context, userID string, req models.RosterAssignmentRequest) (*models.RosterAssignment, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	a := &models.RosterAssignment{
		ID:           uuid.NewString(),
		TeamID:       req.TeamID,
		MembershipID: req.MembershipID,
		EventID:      req.EventID,
		CreatedAt:    s.Now(),
	}

	err := s.Store.WithTx(ctx, func(q store.Querier) error {
		state, err := s.loadState(ctx, q, userID, req)
		if err != nil {
			return err
		}

		res := Validate(*state, req.EventID)
		if !res.Valid {
			metrics.RosterValidationsTotal.WithLabelValues(string(res.Code)).Inc()
			logger.Debug.Printf("Roster assignment rejected: %s %s", res.Code, res.Error)
			return res.Err()
		}
		metrics.RosterValidationsTotal.WithLabelValues(metrics.OK).Inc()

		if m := state.Membership; m.TeamID == nil {
			m.TeamID = &state.Team.ID
			if err := q.UpdateMembership(ctx, m); err != nil {
				return err
			}
		}
		return q.CreateRosterAssignment(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Unassign(ctx context.Context, userID, assignmentID string) error {
	if err := membership.RequireIdentity(userID); err != nil {
		return err
	}
	return s.Store.WithTx(ctx, func(q store.Querier) error {
		a, err := q.GetRosterAssignment(ctx, assignmentID)
		if err != nil {
			return err
		}
		if a == nil {
			return membership.Inaccessible("roster assignment")
		}
		team, err := q.GetTeam(ctx, a.TeamID)
		if err != nil {
			return err
		}
		if team == nil {
			return membership.Inaccessible("roster assignment")
		}
		if _, err := membership.NewResolver(q).RequireAdmin(ctx, userID, team.ClubID); err != nil {
			return membership.Hide("roster assignment", err)
		}
		return q.DeleteRosterAssignment(ctx, a.ID)
	})
}

func (s *Service) ListTeamRoster(ctx context.Context, userID, teamID string) (*TeamRoster, error) {
	if err := membership.RequireIdentity(userID); err != nil {
		return nil, err
	}
	team, err := s.Store.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, membership.Inaccessible("team")
	}
	if _, err := membership.NewResolver(s.Store).RequireMember(ctx, userID, team.ClubID); err != nil {
		return nil, membership.Hide("team", err)
	}

	ids, err := s.Store.ListTeamRosterMemberIDs(ctx, teamID)
	if err != nil {
		return nil, err
	}
	out := &TeamRoster{Team: team, Members: make([]models.Membership, 0, len(ids))}
	for _, id := range ids {
		m, err := s.Store.GetMembershipByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if m != nil {
			out.Members = append(out.Members, *m)
		}
	}

	out.Assignments, err = s.Store.ListTeamAssignments(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) loadState(ctx context.Context, q store.Querier, userID string, req models.RosterAssignmentRequest) (*State, error) {
	if err := membership.RequireIdentity(userID); err != nil {
		return nil, err
	}
	team, err := q.GetTeam(ctx, req.TeamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, membership.Inaccessible("team")
	}
	if _, err := membership.NewResolver(q).RequireAdmin(ctx, userID, team.ClubID); err != nil {
		return nil, membership.Hide("team", err)
	}

	m, err := q.GetMembershipByID(ctx, req.MembershipID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperr.NotFound("membership")
	}
	event, err := q.GetEvent(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, apperr.NotFound("event")
	}

	rosterIDs, err := q.ListTeamRosterMemberIDs(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	assignments, err := q.ListMembershipAssignments(ctx, m.ID)
	if err != nil {
		return nil, err
	}

	return &State{
		Membership:  m,
		Team:        team,
		RosterIDs:   rosterIDs,
		Assignments: assignments,
		MaxTeamSize: s.MaxTeamSize,
	}, nil
}
