// Package storetest builds throwaway SQLite stores from the real migrations.
package storetest

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/olympiad/internal/models"
	"github.com/shrimpsizemoose/olympiad/internal/store"
	"github.com/shrimpsizemoose/olympiad/internal/store/sqlite"
)

// MigrationsDir resolves the repository migrations regardless of the
// package the test runs from.
func MigrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "migrations")
}

func NewSQLite(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", filepath.Join(t.TempDir(), "test.db"))
	s, err := sqlite.NewSQLiteStore(dsn, MigrationsDir())
	require.NoError(t, err, "Failed to create store")

	t.Cleanup(func() {
		require.NoError(t, s.Close(), "Failed to close database")
	})
	return s
}

// Fixture seeds rows with sensible defaults and returns them.
type Fixture struct {
	T     *testing.T
	Store store.Store
	Now   time.Time
}

func NewFixture(t *testing.T) *Fixture {
	return &Fixture{
		T:     t,
		Store: NewSQLite(t),
		Now:   time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
	}
}

func (f *Fixture) Club(name string) *models.Club {
	c := &models.Club{ID: uuid.NewString(), Name: name, Division: "C", CreatedAt: f.Now}
	require.NoError(f.T, f.Store.CreateClub(context.Background(), c))
	return c
}

func (f *Fixture) Team(clubID, name string) *models.Team {
	team := &models.Team{ID: uuid.NewString(), ClubID: clubID, Name: name, CreatedAt: f.Now}
	require.NoError(f.T, f.Store.CreateTeam(context.Background(), team))
	return team
}

// Member creates a membership; created_at advances so ordering is stable.
func (f *Fixture) Member(userID, clubID string, role models.Role, teamID *string) *models.Membership {
	f.Now = f.Now.Add(time.Minute)
	m := &models.Membership{
		ID:        uuid.NewString(),
		UserID:    userID,
		ClubID:    clubID,
		TeamID:    teamID,
		Role:      role,
		CreatedAt: f.Now,
	}
	require.NoError(f.T, f.Store.CreateMembership(context.Background(), m))
	return m
}

func (f *Fixture) Event(name string) *models.Event {
	e := &models.Event{ID: uuid.NewString(), Name: name, Division: "C"}
	require.NoError(f.T, f.Store.CreateEvent(context.Background(), e))
	return e
}

func (f *Fixture) Assign(teamID, membershipID, eventID string) *models.RosterAssignment {
	a := &models.RosterAssignment{
		ID:           uuid.NewString(),
		TeamID:       teamID,
		MembershipID: membershipID,
		EventID:      eventID,
		CreatedAt:    f.Now,
	}
	require.NoError(f.T, f.Store.CreateRosterAssignment(context.Background(), a))
	return a
}

func (f *Fixture) Budget(clubID, eventID string, teamID *string, max string) *models.EventBudget {
	b := &models.EventBudget{
		ID:        uuid.NewString(),
		ClubID:    clubID,
		EventID:   eventID,
		TeamID:    teamID,
		MaxBudget: decimal.RequireFromString(max),
		CreatedAt: f.Now,
		UpdatedAt: f.Now,
	}
	require.NoError(f.T, f.Store.CreateEventBudget(context.Background(), b))
	return b
}

func (f *Fixture) Expense(clubID, eventID string, teamID *string, amount, addedBy string) *models.Expense {
	e := &models.Expense{
		ID:          uuid.NewString(),
		ClubID:      clubID,
		EventID:     &eventID,
		TeamID:      teamID,
		Description: "supplies",
		Amount:      decimal.RequireFromString(amount),
		Date:        f.Now,
		AddedBy:     addedBy,
		CreatedAt:   f.Now,
	}
	require.NoError(f.T, f.Store.CreateExpense(context.Background(), e))
	return e
}

func Ptr[T any](v T) *T {
	return &v
}
