package web

import (
	"net/http"
	"strconv"
	"time"
)

// monthlySummary handles GET /api/reports/monthly?year=2026&month=3.
// Year and month default to the current calendar month.
func (h *Handler) monthlySummary(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year, month := now.Year(), int(now.Month())

	if v := r.URL.Query().Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, r, "invalid year", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		year = parsed
	}
	if v := r.URL.Query().Get("month"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, r, "invalid month", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		month = parsed
	}

	summary, err := h.svc.GetMonthlySummary(r.Context(), year, month)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, summary)
}

// federalEstimate handles GET /api/reports/federal-estimate?year=2026.
func (h *Handler) federalEstimate(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if v := r.URL.Query().Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, r, "invalid year", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		year = parsed
	}

	estimate, err := h.svc.GetFederalEstimate(r.Context(), year)
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, estimate)
}

// salesTaxReport handles GET /api/reports/sales-tax?from=...&to=...
func (h *Handler) salesTaxReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.GetSalesTaxReport(r.Context(),
		r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, report)
}
