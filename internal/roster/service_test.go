package roster

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

type testData struct {
	f       *storetest.Fixture
	s       *Service
	club    *models.Club
	teamA   *models.Team
	teamB   *models.Team
	anatomy *models.Event
	optics  *models.Event
	student *models.Membership
}

func setupTestData(t *testing.T) *testData {
	f := storetest.NewFixture(t)
	td := &testData{f: f, s: NewService(f.Store, 0)}
	td.s.Now = func() time.Time { return f.Now }

	td.club = f.Club("Riverside")
	f.Member("coach", td.club.ID, models.RoleAdmin, nil)
	td.teamA = f.Team(td.club.ID, "A")
	td.teamB = f.Team(td.club.ID, "B")
	td.anatomy = f.Event("Anatomy")
	td.optics = f.Event("Optics")
	td.student = f.Member("student", td.club.ID, models.RoleMember, nil)
	return td
}

func (td *testData) req(teamID, eventID string) models.RosterAssignmentRequest {
	return models.RosterAssignmentRequest{TeamID: teamID, MembershipID: td.student.ID, EventID: eventID}
}

func TestAssignDuplicateEventAcrossTeams(t *testing.T) {
	td := setupTestData(t)
	ctx := context.Background()

	a, err := td.s.Assign(ctx, "coach", td.req(td.teamA.ID, td.anatomy.ID))
	require.NoError(t, err)

	got, err := td.f.Store.GetMembershipByID(ctx, td.student.ID)
	require.NoError(t, err)
	require.NotNil(t, got.TeamID, "a member without a team joins the team")
	assert.Equal(t, td.teamA.ID, *got.TeamID)

	res, err := td.s.Check(ctx, "coach", td.req(td.teamB.ID, td.anatomy.ID))
	require.NoError(t, err)
	assert.Equal(t, Result{Code: apperr.CodeDuplicateEvent, Error: res.Error}, res)

	_, err = td.s.Assign(ctx, "coach", td.req(td.teamB.ID, td.anatomy.ID))
	assert.True(t, apperr.IsCode(err, apperr.CodeDuplicateEvent))

	_, err = td.s.Assign(ctx, "coach", td.req(td.teamA.ID, td.anatomy.ID))
	assert.True(t, apperr.IsCode(err, apperr.CodeAlreadyAssigned))

	_, err = td.s.Assign(ctx, "coach", td.req(td.teamB.ID, td.optics.ID))
	require.NoError(t, err, "different event on another team is fine")

	roster, err := td.s.ListTeamRoster(ctx, "student", td.teamB.ID)
	require.NoError(t, err)
	require.Len(t, roster.Members, 1)
	assert.Equal(t, td.student.ID, roster.Members[0].ID)

	require.NoError(t, td.s.Unassign(ctx, "coach", a.ID))
	_, err = td.s.Assign(ctx, "coach", td.req(td.teamB.ID, td.anatomy.ID))
	assert.NoError(t, err)
}

func TestAssignTeamCapacity(t *testing.T) {
	td := setupTestData(t)
	ctx := context.Background()

	for i := 0; i < models.MaxTeamSize; i++ {
		m := td.f.Member(fmt.Sprintf("u-%d", i), td.club.ID, models.RoleMember, &td.teamA.ID)
		require.NotNil(t, m)
	}

	_, err := td.s.Assign(ctx, "coach", td.req(td.teamA.ID, td.anatomy.ID))
	assert.True(t, apperr.IsCode(err, apperr.CodeTeamFull))

	assignments, err := td.f.Store.ListTeamAssignments(ctx, td.teamA.ID)
	require.NoError(t, err)
	assert.Empty(t, assignments, "rejected assignment is not stored")
}

func TestAssignRequiresAdmin(t *testing.T) {
	td := setupTestData(t)
	ctx := context.Background()

	_, err := td.s.Assign(ctx, "student", td.req(td.teamA.ID, td.anatomy.ID))
	assert.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))

	_, err = td.s.Assign(ctx, "", td.req(td.teamA.ID, td.anatomy.ID))
	assert.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))

	_, err = td.s.Assign(ctx, "coach", models.RosterAssignmentRequest{TeamID: td.teamA.ID})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

func TestAssignClubMismatch(t *testing.T) {
	td := setupTestData(t)
	ctx := context.Background()

	other := td.f.Club("Elsewhere")
	outsider := td.f.Member("outsider", other.ID, models.RoleMember, nil)

	_, err := td.s.Assign(ctx, "coach", models.RosterAssignmentRequest{
		TeamID: td.teamA.ID, MembershipID: outsider.ID, EventID: td.anatomy.ID,
	})
	assert.True(t, apperr.IsCode(err, apperr.CodeClubMismatch))
}
