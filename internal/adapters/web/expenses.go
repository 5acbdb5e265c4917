package web

import (
	"net/http"

	"resale-office/internal/app"
)

// listExpenses handles GET /api/expenses?from=...&to=...
func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListExpenses(r.Context(),
		r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result.Expenses)
}

// recordExpense handles POST /api/expenses.
// Body: { description, category, amount, expense_date?, allocations?: [{bucket, weight}] }
func (h *Handler) recordExpense(w http.ResponseWriter, r *http.Request) {
	var req app.RecordExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Description == "" {
		writeError(w, r, "description is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.RecordExpense(r.Context(), req)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Expense)
}
