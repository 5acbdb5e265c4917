package web

import (
	"net/http"
	"strconv"

	"resale-office/internal/app"

	"github.com/go-chi/chi/v5"
)

// listSales handles GET /api/sales?from=2026-01-01&to=2026-01-31.
func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListSales(r.Context(),
		r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result.Sales)
}

// getSale handles GET /api/sales/{id}.
func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "invalid sale id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.GetSale(r.Context(), id)
	if err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, result.Sale)
}

// recordSale handles POST /api/sales.
func (h *Handler) recordSale(w http.ResponseWriter, r *http.Request) {
	var req app.RecordSaleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ItemSKU == "" {
		writeError(w, r, "item_sku is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.RecordSale(r.Context(), req)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Sale)
}

// previewProfit handles POST /api/sales/preview — a what-if calculation that
// persists nothing.
func (h *Handler) previewProfit(w http.ResponseWriter, r *http.Request) {
	var req app.ProfitPreviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	breakdown, err := h.svc.PreviewProfit(r.Context(), req)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, breakdown)
}
