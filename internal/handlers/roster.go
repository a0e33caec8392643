package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/olympiad/internal/app"
	"github.com/shrimpsizemoose/olympiad/internal/models"
)

type RosterHandler struct {
	service *app.Service
}

func NewRosterHandler(service *app.Service) *RosterHandler {
	return &RosterHandler{service: service}
}

func (h *RosterHandler) Assign(w http.ResponseWriter, r *http.Request, userID string) {
	var req models.RosterAssignmentRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	a, err := h.service.Roster.Assign(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// Check reports whether an assignment would be accepted without making it.
func (h *RosterHandler) Check(w http.ResponseWriter, r *http.Request, userID string) {
	var req models.RosterAssignmentRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.service.Roster.Check(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *RosterHandler) Unassign(w http.ResponseWriter, r *http.Request, userID string) {
	if err := h.service.Roster.Unassign(r.Context(), userID, r.PathValue("assignmentID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RosterHandler) TeamRoster(w http.ResponseWriter, r *http.Request, userID string) {
	roster, err := h.service.Roster.ListTeamRoster(r.Context(), userID, r.PathValue("teamID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}
