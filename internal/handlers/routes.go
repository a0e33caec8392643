package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/olympiad/internal/app"
	"github.com/shrimpsizemoose/olympiad/internal/models"
)

// NewRouter registers every API route on a fresh mux wrapped in request
// instrumentation.
func NewRouter(service *app.Service) http.Handler {
	mux := http.NewServeMux()
	a := func(fn authedFunc) http.HandlerFunc { return authed(service, fn) }

	clubs := NewClubHandler(service)
	mux.HandleFunc("GET /api/me/memberships", a(clubs.MyMemberships))
	mux.HandleFunc("DELETE /api/me", a(clubs.DeleteMe))
	mux.HandleFunc("POST /api/clubs", a(clubs.CreateClub))
	mux.HandleFunc("GET /api/clubs/{clubID}", a(clubs.GetClub))
	mux.HandleFunc("DELETE /api/clubs/{clubID}", a(clubs.DeleteClub))
	mux.HandleFunc("GET /api/clubs/{clubID}/members", a(clubs.ListMembers))
	mux.HandleFunc("POST /api/clubs/{clubID}/members", a(clubs.AddMember))
	mux.HandleFunc("DELETE /api/clubs/{clubID}/members/{membershipID}", a(clubs.RemoveMember))
	mux.HandleFunc("PATCH /api/clubs/{clubID}/members/{membershipID}/role", a(clubs.ChangeRole))
	mux.HandleFunc("PUT /api/clubs/{clubID}/members/{membershipID}/sub-roles", a(clubs.SetSubRoles))
	mux.HandleFunc("PUT /api/clubs/{clubID}/members/{membershipID}/team", a(clubs.SetMemberTeam))
	mux.HandleFunc("GET /api/clubs/{clubID}/teams", a(clubs.ListTeams))
	mux.HandleFunc("POST /api/clubs/{clubID}/teams", a(clubs.CreateTeam))

	roster := NewRosterHandler(service)
	mux.HandleFunc("POST /api/roster/assignments", a(roster.Assign))
	mux.HandleFunc("POST /api/roster/check", a(roster.Check))
	mux.HandleFunc("DELETE /api/roster/assignments/{assignmentID}", a(roster.Unassign))
	mux.HandleFunc("GET /api/teams/{teamID}/roster", a(roster.TeamRoster))

	budget := NewBudgetHandler(service)
	mux.HandleFunc("GET /api/clubs/{clubID}/budgets", a(budget.Summary))
	mux.HandleFunc("PUT /api/clubs/{clubID}/budgets", a(budget.SetBudget))
	mux.HandleFunc("GET /api/clubs/{clubID}/purchase-requests", a(budget.ListPurchaseRequests))
	mux.HandleFunc("POST /api/purchase-requests", a(budget.CreatePurchaseRequest))
	mux.HandleFunc("PATCH /api/purchase-requests/{requestID}", a(budget.ReviewPurchaseRequest))
	mux.HandleFunc("DELETE /api/purchase-requests/{requestID}", a(budget.DeletePurchaseRequest))
	mux.HandleFunc("GET /api/clubs/{clubID}/expenses", a(budget.ListExpenses))
	mux.HandleFunc("POST /api/expenses", a(budget.CreateExpense))
	mux.HandleFunc("DELETE /api/expenses/{expenseID}", a(budget.DeleteExpense))

	tests := NewTestHandler(service)
	mux.HandleFunc("POST /api/clubs/{clubID}/tests", a(tests.CreateTest))
	mux.HandleFunc("POST /api/clubs/{clubID}/es/tests", a(tests.CreateESTest))
	for prefix, kind := range map[string]models.TestKind{
		"/api/tests/":    models.KindClub,
		"/api/es/tests/": models.KindTournament,
	} {
		mux.HandleFunc("POST "+prefix+"{testID}/questions", a(tests.AddQuestion(kind)))
		mux.HandleFunc("POST "+prefix+"{testID}/attempts", a(tests.StartAttempt(kind)))
		mux.HandleFunc("PATCH "+prefix+"{testID}/attempts/{attemptID}/grade", a(tests.GradeAttempt(kind)))
		mux.HandleFunc("PUT "+prefix+"{testID}/release", a(tests.SetReleaseConfig(kind)))
		mux.HandleFunc("GET "+prefix+"{testID}/my-results", a(tests.MyResults(kind)))
	}
	mux.HandleFunc("PUT /api/attempts/{attemptID}/answers", a(tests.SaveAnswer))
	mux.HandleFunc("POST /api/attempts/{attemptID}/submit", a(tests.SubmitAttempt))
	mux.HandleFunc("GET /api/attempts/{attemptID}/results", a(tests.AttemptResults))

	mux.Handle("GET /metrics", promhttp.Handler())

	return Instrument(mux)
}
