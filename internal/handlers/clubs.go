package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/olympiad/internal/app"
	"github.com/shrimpsizemoose/olympiad/internal/models"
)

type ClubHandler struct {
	service *app.Service
}

func NewClubHandler(service *app.Service) *ClubHandler {
	return &ClubHandler{service: service}
}

func (h *ClubHandler) CreateClub(w http.ResponseWriter, r *http.Request, userID string) {
	var req models.CreateClubRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	club, m, err := h.service.Members.CreateClub(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"club": club, "membership": m})
}

func (h *ClubHandler) GetClub(w http.ResponseWriter, r *http.Request, userID string) {
	club, err := h.service.Members.GetClub(r.Context(), userID, r.PathValue("clubID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, club)
}

func (h *ClubHandler) DeleteClub(w http.ResponseWriter, r *http.Request, userID string) {
	if err := h.service.Members.DeleteClub(r.Context(), userID, r.PathValue("clubID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ClubHandler) MyMemberships(w http.ResponseWriter, r *http.Request, userID string) {
	ms, err := h.service.Members.MyMemberships(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"memberships": ms})
}

func (h *ClubHandler) DeleteMe(w http.ResponseWriter, r *http.Request, userID string) {
	if err := h.service.Members.DeleteUser(r.Context(), userID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ClubHandler) ListMembers(w http.ResponseWriter, r *http.Request, userID string) {
	ms, err := h.service.Members.ListMembers(r.Context(), userID, r.PathValue("clubID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": ms})
}

func (h *ClubHandler) AddMember(w http.ResponseWriter, r *http.Request, userID string) {
	var req models.AddMemberRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	m, err := h.service.Members.AddMember(r.Context(), userID, r.PathValue("clubID"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *ClubHandler) ChangeRole(w http.ResponseWriter, r *http.Request, userID string) {
	var req models.ChangeRoleRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	m, err := h.service.Members.ChangeRole(r.Context(), userID, r.PathValue("clubID"), r.PathValue("membershipID"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *ClubHandler) RemoveMember(w http.ResponseWriter, r *http.Request, userID string) {
	err := h.service.Members.RemoveMember(r.Context(), userID, r.PathValue("clubID"), r.PathValue("membershipID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ClubHandler) SetSubRoles(w http.ResponseWriter, r *http.Request, userID string) {
	var req models.SetSubRolesRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	m, err := h.service.Members.SetSubRoles(r.Context(), userID, r.PathValue("clubID"), r.PathValue("membershipID"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *ClubHandler) SetMemberTeam(w http.ResponseWriter, r *http.Request, userID string) {
	var req models.SetMemberTeamRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	m, err := h.service.Members.SetMemberTeam(r.Context(), userID, r.PathValue("clubID"), r.PathValue("membershipID"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *ClubHandler) ListTeams(w http.ResponseWriter, r *http.Request, userID string) {
	teams, err := h.service.Members.ListTeams(r.Context(), userID, r.PathValue("clubID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"teams": teams})
}

func (h *ClubHandler) CreateTeam(w http.ResponseWriter, r *http.Request, userID string) {
	var req models.CreateTeamRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	team, err := h.service.Members.CreateTeam(r.Context(), userID, r.PathValue("clubID"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, team)
}
