package handler

import (
	"net/http"

	"github.com/finledger/finledger/internal/auth"
	"github.com/finledger/finledger/internal/model"
)

// CreateTaxConfig creates a named tax rate. The oldest config acts as the
// default rate during invoice creation.
// POST /api/v1/tax/configs
func (h *Handler) CreateTaxConfig(w http.ResponseWriter, r *http.Request) {
	user := auth.MustPrincipalFromContext(r.Context())

	var req model.TaxConfigCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "name is required")
		return
	}
	if !model.ValidPositiveDecimal(req.Rate) {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "rate must be a non-negative decimal")
		return
	}

	cfg, err := h.repo.CreateTaxConfig(r.Context(), user.ID, req)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, cfg)
}

// ListTaxConfigs returns the caller's tax configurations, oldest first.
// GET /api/v1/tax/configs
func (h *Handler) ListTaxConfigs(w http.ResponseWriter, r *http.Request) {
	user := auth.MustPrincipalFromContext(r.Context())

	configs, err := h.repo.ListTaxConfigs(r.Context(), user.ID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if configs == nil {
		configs = []*model.TaxConfig{}
	}

	writeJSON(w, http.StatusOK, configs)
}
