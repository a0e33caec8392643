package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/olympiad/internal/app"
	"github.com/shrimpsizemoose/olympiad/internal/models"
)

// TestHandler serves club and tournament tests. Handlers that differ only
// by test kind are built per kind.
type TestHandler struct {
	service *app.Service
}

func NewTestHandler(service *app.Service) *TestHandler {
	return &TestHandler{service: service}
}

func (h *TestHandler) CreateTest(w http.ResponseWriter, r *http.Request, userID string) {
	var req models.CreateTestRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := h.service.Grading.CreateTest(r.Context(), userID, r.PathValue("clubID"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *TestHandler) CreateESTest(w http.ResponseWriter, r *http.Request, userID string) {
	var req models.CreateESTestRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := h.service.Grading.CreateESTest(r.Context(), userID, r.PathValue("clubID"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *TestHandler) AddQuestion(kind models.TestKind) authedFunc {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		var req models.CreateQuestionRequest
		if err := decode(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		q, err := h.service.Grading.AddQuestion(r.Context(), userID, kind, r.PathValue("testID"), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, q)
	}
}

func (h *TestHandler) StartAttempt(kind models.TestKind) authedFunc {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		var req models.StartAttemptRequest
		if r.ContentLength != 0 {
			if err := decode(w, r, &req); err != nil {
				writeError(w, r, err)
				return
			}
		}
		a, err := h.service.Grading.StartAttempt(r.Context(), userID, kind, r.PathValue("testID"), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

func (h *TestHandler) SaveAnswer(w http.ResponseWriter, r *http.Request, userID string) {
	var req models.SaveAnswerRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	a, err := h.service.Grading.SaveAnswer(r.Context(), userID, r.PathValue("attemptID"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *TestHandler) SubmitAttempt(w http.ResponseWriter, r *http.Request, userID string) {
	a, err := h.service.Grading.SubmitAttempt(r.Context(), userID, r.PathValue("attemptID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *TestHandler) GradeAttempt(kind models.TestKind) authedFunc {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		var req models.GradeAttemptRequest
		if err := decode(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		view, err := h.service.Grading.GradeTestAttempt(r.Context(), userID, kind, r.PathValue("testID"), r.PathValue("attemptID"), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func (h *TestHandler) SetReleaseConfig(kind models.TestKind) authedFunc {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		var req models.ReleaseConfigRequest
		if err := decode(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		p, err := h.service.Grading.SetReleaseConfig(r.Context(), userID, kind, r.PathValue("testID"), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"scoreReleaseMode": p.Mode,
			"releaseScoresAt":  p.ReleaseAt,
			"scoresReleased":   p.Manual,
		})
	}
}

func (h *TestHandler) MyResults(kind models.TestKind) authedFunc {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		view, err := h.service.Grading.MyResults(r.Context(), userID, kind, r.PathValue("testID"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func (h *TestHandler) AttemptResults(w http.ResponseWriter, r *http.Request, userID string) {
	view, err := h.service.Grading.AttemptResults(r.Context(), userID, r.PathValue("attemptID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
