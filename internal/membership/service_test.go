package membership

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/olympiad/internal/apperr"
	"github.com/shrimpsizemoose/olympiad/internal/models"
	"github.com/shrimpsizemoose/olympiad/internal/store/storetest"
)

func newTestService(t *testing.T) (*Service, *storetest.Fixture) {
	f := storetest.NewFixture(t)
	s := NewService(f.Store, 0)
	s.Now = func() time.Time {
		f.Now = f.Now.Add(time.Second)
		return f.Now
	}
	return s, f
}

func TestCreateClub(t *testing.T) {
	s, f := newTestService(t)
	ctx := context.Background()

	club, admin, err := s.CreateClub(ctx, "alice", models.CreateClubRequest{Name: "Riverside", Division: "C"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	got, err := f.Store.GetMembership(ctx, "alice", club.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsAdmin())

	t.Run("invalid input", func(t *testing.T) {
		_, _, err := s.CreateClub(ctx, "alice", models.CreateClubRequest{Name: "", Division: "Z"})
		e, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, apperr.CodeValidation, e.Code)
		assert.Len(t, e.Fields, 2)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, _, err := s.CreateClub(ctx, "", models.CreateClubRequest{Name: "X", Division: "C"})
		assert.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))
	})
}

func TestLastAdminInvariant(t *testing.T) {
	s, f := newTestService(t)
	ctx := context.Background()

	club := f.Club("Riverside")
	alice := f.Member("alice", club.ID, models.RoleAdmin, nil)
	bob := f.Member("bob", club.ID, models.RoleMember, nil)

	t.Run("demoting the sole admin fails", func(t *testing.T) {
		_, err := s.ChangeRole(ctx, "alice", club.ID, alice.ID, models.ChangeRoleRequest{Role: models.RoleMember})
		assert.True(t, apperr.IsCode(err, apperr.CodeLastAdmin))

		got, err := f.Store.GetMembershipByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, got.Role)
	})

	t.Run("sole admin cannot leave", func(t *testing.T) {
		err := s.RemoveMember(ctx, "alice", club.ID, alice.ID)
		assert.True(t, apperr.IsCode(err, apperr.CodeLastAdmin))
	})

	t.Run("members cannot promote", func(t *testing.T) {
		_, err := s.ChangeRole(ctx, "bob", club.ID, bob.ID, models.ChangeRoleRequest{Role: models.RoleAdmin})
		assert.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))
	})

	t.Run("demotion works once another admin exists", func(t *testing.T) {
		_, err := s.ChangeRole(ctx, "alice", club.ID, bob.ID, models.ChangeRoleRequest{Role: models.RoleAdmin})
		require.NoError(t, err)
		_, err = s.ChangeRole(ctx, "bob", club.ID, alice.ID, models.ChangeRoleRequest{Role: models.RoleMember})
		require.NoError(t, err)

		n, err := f.Store.CountAdmins(ctx, club.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("members may leave", func(t *testing.T) {
		require.NoError(t, s.RemoveMember(ctx, "alice", club.ID, alice.ID))
		got, err := f.Store.GetMembership(ctx, "alice", club.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("delete club removes the last admin", func(t *testing.T) {
		require.NoError(t, s.DeleteClub(ctx, "bob", club.ID))
		got, err := f.Store.GetClub(ctx, club.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestDeleteUser(t *testing.T) {
	s, f := newTestService(t)
	ctx := context.Background()

	owned := f.Club("Owned")
	f.Member("alice", owned.ID, models.RoleAdmin, nil)
	oldest := f.Member("bob", owned.ID, models.RoleMember, nil)
	f.Member("carol", owned.ID, models.RoleMember, nil)

	shared := f.Club("Shared")
	f.Member("alice", shared.ID, models.RoleAdmin, nil)
	f.Member("dave", shared.ID, models.RoleAdmin, nil)

	solo := f.Club("Solo")
	f.Member("alice", solo.ID, models.RoleAdmin, nil)

	joined := f.Club("Joined")
	f.Member("erin", joined.ID, models.RoleAdmin, nil)
	f.Member("alice", joined.ID, models.RoleMember, nil)

	require.NoError(t, s.DeleteUser(ctx, "alice"))

	left, err := f.Store.ListUserMemberships(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, left)

	heir, err := f.Store.GetMembershipByID(ctx, oldest.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, heir.Role, "longest-standing member inherits the club")

	for _, club := range []*models.Club{owned, shared, joined} {
		n, err := f.Store.CountAdmins(ctx, club.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, n, club.Name)
	}

	gone, err := f.Store.GetClub(ctx, solo.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestSetMemberTeam(t *testing.T) {
	s, f := newTestService(t)
	s.MaxTeamSize = 2
	ctx := context.Background()

	club := f.Club("Riverside")
	other := f.Club("Elsewhere")
	f.Member("alice", club.ID, models.RoleAdmin, nil)
	team := f.Team(club.ID, "Varsity")
	foreign := f.Team(other.ID, "Varsity")

	var members []*models.Membership
	for i := 0; i < 3; i++ {
		members = append(members, f.Member(fmt.Sprintf("u-%d", i), club.ID, models.RoleMember, nil))
	}

	for _, m := range members[:2] {
		_, err := s.SetMemberTeam(ctx, "alice", club.ID, m.ID, models.SetMemberTeamRequest{TeamID: &team.ID})
		require.NoError(t, err)
	}

	_, err := s.SetMemberTeam(ctx, "alice", club.ID, members[2].ID, models.SetMemberTeamRequest{TeamID: &team.ID})
	assert.True(t, apperr.IsCode(err, apperr.CodeTeamFull))

	_, err = s.SetMemberTeam(ctx, "alice", club.ID, members[0].ID, models.SetMemberTeamRequest{TeamID: &team.ID})
	assert.NoError(t, err, "a member already on the roster does not count twice")

	_, err = s.SetMemberTeam(ctx, "alice", club.ID, members[2].ID, models.SetMemberTeamRequest{TeamID: &foreign.ID})
	assert.True(t, apperr.IsCode(err, apperr.CodeClubMismatch))

	got, err := s.SetMemberTeam(ctx, "alice", club.ID, members[0].ID, models.SetMemberTeamRequest{})
	require.NoError(t, err)
	assert.Nil(t, got.TeamID)
}

func TestTeamsAndSubRoles(t *testing.T) {
	s, f := newTestService(t)
	ctx := context.Background()

	club := f.Club("Riverside")
	f.Member("alice", club.ID, models.RoleAdmin, nil)
	bob := f.Member("bob", club.ID, models.RoleMember, nil)

	maxEvents := 4
	team, err := s.CreateTeam(ctx, "alice", club.ID, models.CreateTeamRequest{Name: "Varsity", MaxEventsPerMember: &maxEvents})
	require.NoError(t, err)

	_, err = s.CreateTeam(ctx, "bob", club.ID, models.CreateTeamRequest{Name: "JV"})
	assert.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))

	teams, err := s.ListTeams(ctx, "bob", club.ID)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, team.ID, teams[0].ID)
	assert.Equal(t, 4, *teams[0].MaxEventsPerMember)

	m, err := s.SetSubRoles(ctx, "alice", club.ID, bob.ID, models.SetSubRolesRequest{
		SubRoles: []models.SubRole{models.SubRoleCaptain, models.SubRoleMember},
	})
	require.NoError(t, err)
	assert.Equal(t, models.SubRoles{models.SubRoleCaptain, models.SubRoleMember}, m.SubRoles)

	_, err = s.SetSubRoles(ctx, "alice", club.ID, bob.ID, models.SetSubRolesRequest{
		SubRoles: []models.SubRole{"PRESIDENT"},
	})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}
