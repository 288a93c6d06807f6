package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/finledger/finledger/internal/auth"
	"github.com/finledger/finledger/internal/model"
	"github.com/finledger/finledger/internal/storage"
)

// GetCompanyProfile returns the caller's profile, creating it on first
// access.
// GET /api/v1/company/profile
func (h *Handler) GetCompanyProfile(w http.ResponseWriter, r *http.Request) {
	user := auth.MustPrincipalFromContext(r.Context())

	profile, err := h.repo.GetOrCreateCompanyProfile(r.Context(), user.ID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// UpdateCompanyProfile applies a partial update to the profile.
// PATCH /api/v1/company/profile
func (h *Handler) UpdateCompanyProfile(w http.ResponseWriter, r *http.Request) {
	user := auth.MustPrincipalFromContext(r.Context())

	var patch model.CompanyProfilePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body")
		return
	}

	profile, err := h.repo.UpdateCompanyProfile(r.Context(), user.ID, patch)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// UploadCompanyLogo stores a logo image and records it on the profile.
// POST /api/v1/company/logo
func (h *Handler) UploadCompanyLogo(w http.ResponseWriter, r *http.Request) {
	user := auth.MustPrincipalFromContext(r.Context())

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Missing file upload")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Only image uploads allowed")
		return
	}

	key := storage.ObjectKey(user.ID, "logos", filepath.Ext(header.Filename))
	location, err := h.store.Save(r.Context(), key, contentType, file)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	profile, err := h.repo.SetCompanyLogo(r.Context(), user.ID, location)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
