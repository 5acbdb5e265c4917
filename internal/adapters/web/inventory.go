package web

import (
	"net/http"

	"resale-office/internal/app"

	"github.com/go-chi/chi/v5"
)

// listItems handles GET /api/items?status=LISTED.
func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListItems(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result.Items)
}

// getItem handles GET /api/items/{sku}.
func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetItem(r.Context(), chi.URLParam(r, "sku"))
	if err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, result.Item)
}

// createItem handles POST /api/items.
func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var req app.ItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.SKU == "" {
		writeError(w, r, "sku is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.CreateItem(r.Context(), req)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Item)
}

// updateItem handles PUT /api/items/{sku}.
func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req app.ItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.UpdateItem(r.Context(), chi.URLParam(r, "sku"), req)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, result.Item)
}

// setItemStatus handles POST /api/items/{sku}/status.
// Body: { "status": "LISTED" }
func (h *Handler) setItemStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Status == "" {
		writeError(w, r, "status is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.SetItemStatus(r.Context(), chi.URLParam(r, "sku"), body.Status)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, result.Item)
}

// exportItemsCSV handles GET /api/items/export — streams the catalog as CSV.
func (h *Handler) exportItemsCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="items.csv"`)
	if err := h.svc.ExportItemsCSV(r.Context(), w); err != nil {
		// Headers are already out; the truncated body is the best we can do.
		return
	}
}

// importItemsCSV handles POST /api/items/import with a raw CSV body.
func (h *Handler) importItemsCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20) // 10 MB

	result, err := h.svc.ImportItemsCSV(r.Context(), r.Body)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, result)
}

// listLots handles GET /api/lots.
func (h *Handler) listLots(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListLots(r.Context())
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result.Lots)
}

// getLot handles GET /api/lots/{lotCode}.
func (h *Handler) getLot(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetLot(r.Context(), chi.URLParam(r, "lotCode"))
	if err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, result.Lot)
}

// createLot handles POST /api/lots.
// Body: { notes?, items: [{sku, quantity}] }
func (h *Handler) createLot(w http.ResponseWriter, r *http.Request) {
	var req app.CreateLotRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Items) == 0 {
		writeError(w, r, "at least one item is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.CreateLot(r.Context(), req)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Lot)
}
