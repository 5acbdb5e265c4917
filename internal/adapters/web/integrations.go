package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// decodeOptionalJSON decodes the body into v, treating an empty body as an
// empty request rather than an error.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
	return false
}

// suggestListing handles POST /api/items/{sku}/suggest-listing.
// Body: { comparables?: "free-form text of recent sold prices" }
func (h *Handler) suggestListing(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Comparables string `json:"comparables"`
	}
	if !decodeOptionalJSON(w, r, &body) {
		return
	}

	result, err := h.svc.SuggestListing(r.Context(), chi.URLParam(r, "sku"), body.Comparables)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, result)
}

// publishListing handles POST /api/items/{sku}/publish.
func (h *Handler) publishListing(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.PublishListing(r.Context(), chi.URLParam(r, "sku"))
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, result)
}

// syncOrders handles POST /api/marketplace/sync-orders.
// Body: { since?: "2026-03-01" } — defaults to the last 30 days.
func (h *Handler) syncOrders(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Since string `json:"since"`
	}
	if !decodeOptionalJSON(w, r, &body) {
		return
	}

	result, err := h.svc.SyncMarketplaceOrders(r.Context(), body.Since)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, result)
}
