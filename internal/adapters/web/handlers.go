package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"resale-office/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the JWT signing secret.
type Handler struct {
	svc       app.ApplicationService
	jwtSecret string
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins, jwtSecret string) http.Handler {
	h := &Handler{
		svc:       svc,
		jwtSecret: jwtSecret,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	// ── Health (public) ───────────────────────────────────────────────────────
	r.Get("/api/health", h.health)

	// ── Auth (public) ─────────────────────────────────────────────────────────
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	// ── Protected API routes (return 401 JSON if unauthenticated) ────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		// CSV import: body limit is managed inside the handler (up to 10 MB).
		r.Post("/api/items/import", h.importItemsCSV)

		// All other protected endpoints: 1 MB body limit to prevent unbounded request abuse.
		r.Group(func(r chi.Router) {
			r.Use(RequestBodyLimit(1 << 20)) // 1 MB

			// Auth
			r.Get("/api/auth/me", h.me)

			// ── Inventory ─────────────────────────────────────────────────────────
			r.Get("/api/items", h.listItems)
			r.Post("/api/items", h.createItem)
			r.Get("/api/items/export", h.exportItemsCSV)
			r.Get("/api/items/{sku}", h.getItem)
			r.Put("/api/items/{sku}", h.updateItem)
			r.Post("/api/items/{sku}/status", h.setItemStatus)

			// ── Lots ──────────────────────────────────────────────────────────────
			r.Get("/api/lots", h.listLots)
			r.Post("/api/lots", h.createLot)
			r.Get("/api/lots/{lotCode}", h.getLot)

			// ── Sales ─────────────────────────────────────────────────────────────
			r.Get("/api/sales", h.listSales)
			r.Post("/api/sales", h.recordSale)
			r.Get("/api/sales/{id}", h.getSale)
			r.Post("/api/sales/preview", h.previewProfit)

			// ── Expenses ──────────────────────────────────────────────────────────
			r.Get("/api/expenses", h.listExpenses)
			r.Post("/api/expenses", h.recordExpense)

			// ── Reports ───────────────────────────────────────────────────────────
			r.Get("/api/reports/monthly", h.monthlySummary)
			r.Get("/api/reports/federal-estimate", h.federalEstimate)
			r.Get("/api/reports/sales-tax", h.salesTaxReport)

			// ── AI & marketplace ──────────────────────────────────────────────────
			r.Post("/api/items/{sku}/suggest-listing", h.suggestListing)
			r.Post("/api/items/{sku}/publish", h.publishListing)
			r.Post("/api/marketplace/sync-orders", h.syncOrders)
		})
	})

	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
