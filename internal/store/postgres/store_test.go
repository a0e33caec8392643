package postgres

import (
	"context"
	"flag"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/shrimpsizemoose/olympiad/internal/models"
	"github.com/shrimpsizemoose/olympiad/internal/store"
)

// setupTestDB starts a throwaway Postgres container and applies migrations
func setupTestDB(t *testing.T) (*PostgresStore, func()) {
	ctx := context.Background()

	postgres, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		testcontainers.WithEnv(map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
		}),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	dsn, err := postgres.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := NewPostgresStore(dsn, "../../../migrations")
	require.NoError(t, err, "Failed to create store")

	cleanup := func() {
		s.Close()
		postgres.Terminate(ctx)
	}

	return s, cleanup
}

type testData struct {
	store *PostgresStore
	now   time.Time
	club  *models.Club
	team  *models.Team
	event *models.Event
	admin *models.Membership
}

func setupTestData(t *testing.T) (*testData, func()) {
	s, cleanup := setupTestDB(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	td := &testData{
		store: s,
		now:   now,
		club:  &models.Club{ID: "club-1", Name: "Riverside", Division: "B", CreatedAt: now},
		event: &models.Event{ID: "ev-1", Name: "Anatomy", Division: "B"},
	}
	td.team = &models.Team{ID: "team-1", ClubID: td.club.ID, Name: "Varsity", CreatedAt: now}
	td.admin = &models.Membership{
		ID: "m-admin", UserID: "u-admin", ClubID: td.club.ID, Role: models.RoleAdmin, CreatedAt: now,
	}

	require.NoError(t, s.CreateClub(ctx, td.club), "Failed to insert test data")
	require.NoError(t, s.CreateTeam(ctx, td.team))
	require.NoError(t, s.CreateEvent(ctx, td.event))
	require.NoError(t, s.CreateMembership(ctx, td.admin))

	return td, cleanup
}

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		log.Println("Skipping Postgres integration tests. Use -short=false to run them.")
		os.Exit(0)
	}
	log.Println("Starting Postgres store tests...")
	code := m.Run()
	log.Println("Finished Postgres store tests")
	os.Exit(code)
}

func TestMembershipRoundTrip(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()
	ctx := context.Background()

	member := &models.Membership{
		ID: "m-1", UserID: "u-1", ClubID: td.club.ID, TeamID: &td.team.ID, Role: models.RoleMember,
		SubRoles: models.SubRoles{models.SubRoleCaptain, models.SubRoleMember}, CreatedAt: td.now,
	}
	require.NoError(t, td.store.CreateMembership(ctx, member))

	got, err := td.store.GetMembershipByID(ctx, member.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, member.SubRoles, got.SubRoles)
	require.NotNil(t, got.TeamID)
	assert.Equal(t, td.team.ID, *got.TeamID)

	dup := *member
	dup.ID = "m-2"
	assert.ErrorIs(t, td.store.CreateMembership(ctx, &dup), store.ErrConflict)
}

func TestLedgerSums(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()
	ctx := context.Background()

	eventID := td.event.ID
	for i, amount := range []string{"19.99", "0.01", "80.00"} {
		var teamID *string
		if i < 2 {
			teamID = &td.team.ID
		}
		require.NoError(t, td.store.CreateExpense(ctx, &models.Expense{
			ID: "e-" + amount, ClubID: td.club.ID, EventID: &eventID, TeamID: teamID, Description: "kit",
			Amount: decimal.RequireFromString(amount), Date: td.now, AddedBy: td.admin.ID, CreatedAt: td.now,
		}))
	}

	all, err := td.store.SumExpenses(ctx, store.LedgerFilter{ClubID: td.club.ID, EventID: eventID})
	require.NoError(t, err)
	assert.Equal(t, "100", all.String())

	team, err := td.store.SumExpenses(ctx, store.LedgerFilter{ClubID: td.club.ID, EventID: eventID, TeamID: &td.team.ID})
	require.NoError(t, err)
	assert.Equal(t, "20", team.String())
}

// Two serializable transactions racing on the same roster slot: exactly one
// commits and the other surfaces as a conflict.
func TestConcurrentAssignmentConflict(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()
	ctx := context.Background()

	member := &models.Membership{
		ID: "m-1", UserID: "u-1", ClubID: td.club.ID, Role: models.RoleMember, CreatedAt: td.now,
	}
	require.NoError(t, td.store.CreateMembership(ctx, member))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = td.store.WithTx(ctx, func(q store.Querier) error {
				return q.CreateRosterAssignment(ctx, &models.RosterAssignment{
					ID: []string{"ra-1", "ra-2"}[i], TeamID: td.team.ID, MembershipID: member.ID,
					EventID: td.event.ID, CreatedAt: td.now,
				})
			})
		}(i)
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
			assert.ErrorIs(t, err, store.ErrConflict)
		}
	}
	assert.Equal(t, 1, failed)
}
