package handler

import (
	"net/http"

	"github.com/finledger/finledger/internal/auth"
)

// ReportSummary returns overall invoice and expense totals.
// GET /api/v1/reports/summary
func (h *Handler) ReportSummary(w http.ResponseWriter, r *http.Request) {
	user := auth.MustPrincipalFromContext(r.Context())

	summary, err := h.repo.ReportSummary(r.Context(), user.ID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// ReportMonthly returns per-month invoice and expense totals.
// GET /api/v1/reports/monthly
func (h *Handler) ReportMonthly(w http.ResponseWriter, r *http.Request) {
	user := auth.MustPrincipalFromContext(r.Context())

	report, err := h.repo.ReportMonthly(r.Context(), user.ID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
