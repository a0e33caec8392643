package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/shrimpsizemoose/olympiad/internal/app"
	"github.com/shrimpsizemoose/olympiad/internal/models"
)

type BudgetHandler struct {
	service *app.Service
}

func NewBudgetHandler(service *app.Service) *BudgetHandler {
	return &BudgetHandler{service: service}
}

type summaryRow struct {
	Budget    models.EventBudget `json:"budget"`
	Scope     string             `json:"scope"`
	Spent     decimal.Decimal    `json:"spent"`
	Pending   *decimal.Decimal   `json:"pending,omitempty"`
	Remaining decimal.Decimal    `json:"remaining"`
}

func (h *BudgetHandler) Summary(w http.ResponseWriter, r *http.Request, userID string) {
	rows, err := h.service.Budget.Summary(r.Context(), userID, r.PathValue("clubID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]summaryRow, 0, len(rows))
	for _, row := range rows {
		s := summaryRow{Budget: row.Budget, Scope: row.Scope, Spent: row.Spent, Remaining: row.Remaining}
		if h.service.Config.Budget.ShowPending {
			pending := row.Pending
			s.Pending = &pending
		}
		out = append(out, s)
	}
	writeJSON(w, http.StatusOK, map[string]any{"budgets": out})
}

func (h *BudgetHandler) SetBudget(w http.ResponseWriter, r *http.Request, userID string) {
	var req models.SetBudgetRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.service.Budget.SetBudget(r.Context(), userID, r.PathValue("clubID"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BudgetHandler) CreatePurchaseRequest(w http.ResponseWriter, r *http.Request, userID string) {
	var req models.CreatePurchaseRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	pr, err := h.service.Budget.CreatePurchaseRequest(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, pr)
}

func (h *BudgetHandler) ReviewPurchaseRequest(w http.ResponseWriter, r *http.Request, userID string) {
	var req models.ReviewPurchaseRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	pr, err := h.service.Budget.ReviewPurchaseRequest(r.Context(), userID, r.PathValue("requestID"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pr)
}

func (h *BudgetHandler) DeletePurchaseRequest(w http.ResponseWriter, r *http.Request, userID string) {
	if err := h.service.Budget.DeletePurchaseRequest(r.Context(), userID, r.PathValue("requestID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BudgetHandler) ListPurchaseRequests(w http.ResponseWriter, r *http.Request, userID string) {
	var status *models.RequestStatus
	if v := r.URL.Query().Get("status"); v != "" {
		s := models.RequestStatus(v)
		status = &s
	}
	prs, err := h.service.Budget.ListPurchaseRequests(r.Context(), userID, r.PathValue("clubID"), status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"purchaseRequests": prs})
}

func (h *BudgetHandler) CreateExpense(w http.ResponseWriter, r *http.Request, userID string) {
	var req models.CreateExpenseRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	e, err := h.service.Budget.CreateExpense(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *BudgetHandler) DeleteExpense(w http.ResponseWriter, r *http.Request, userID string) {
	if err := h.service.Budget.DeleteExpense(r.Context(), userID, r.PathValue("expenseID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BudgetHandler) ListExpenses(w http.ResponseWriter, r *http.Request, userID string) {
	es, err := h.service.Budget.ListExpenses(r.Context(), userID, r.PathValue("clubID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"expenses": es})
}
