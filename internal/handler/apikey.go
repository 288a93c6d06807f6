package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/finledger/finledger/internal/auth"
	"github.com/finledger/finledger/internal/model"
	"github.com/finledger/finledger/internal/repository"
)

// CreateAPIKey mints a new API key. The plaintext is returned exactly
// once; only its digest is stored.
// POST /api/v1/auth/api-keys
func (h *Handler) CreateAPIKey(w http.ResponseWriter, r *http.Request) {
	user := auth.MustPrincipalFromContext(r.Context())

	var req model.APIKeyCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body")
		return
	}

	key, generated, err := h.buildAPIKey(user.ID, req)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	if err := h.repo.CreateAPIKey(r.Context(), key); err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.APIKeyCreateResponse{
		APIKeyResponse: key.ToResponse(),
		PlainKey:       generated.Plaintext,
	})
}

// ListAPIKeys returns the caller's key metadata. The digest and the
// plaintext are never included.
// GET /api/v1/auth/api-keys
func (h *Handler) ListAPIKeys(w http.ResponseWriter, r *http.Request) {
	user := auth.MustPrincipalFromContext(r.Context())

	keys, err := h.repo.ListAPIKeysByOwner(r.Context(), user.ID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	responses := make([]model.APIKeyResponse, 0, len(keys))
	for _, key := range keys {
		responses = append(responses, key.ToResponse())
	}

	writeJSON(w, http.StatusOK, responses)
}

// DeleteAPIKey revokes one of the caller's keys.
// DELETE /api/v1/auth/api-keys/{id}
func (h *Handler) DeleteAPIKey(w http.ResponseWriter, r *http.Request) {
	user := auth.MustPrincipalFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "API key not found")
		return
	}

	if err := h.repo.DeleteAPIKey(r.Context(), id, user.ID); err != nil {
		if errors.Is(err, repository.ErrAPIKeyNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "API key not found")
			return
		}
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}

// RotateAPIKey revokes a key and mints its replacement in one
// transaction. The old plaintext stops verifying immediately.
// POST /api/v1/auth/api-keys/{id}/rotate
func (h *Handler) RotateAPIKey(w http.ResponseWriter, r *http.Request) {
	user := auth.MustPrincipalFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "API key not found")
		return
	}

	var req model.APIKeyCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body")
		return
	}

	key, generated, err := h.buildAPIKey(user.ID, req)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	if err := h.repo.RotateAPIKey(r.Context(), id, user.ID, key); err != nil {
		if errors.Is(err, repository.ErrAPIKeyNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "API key not found")
			return
		}
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.APIKeyCreateResponse{
		APIKeyResponse: key.ToResponse(),
		PlainKey:       generated.Plaintext,
	})
}

// buildAPIKey generates fresh key material and assembles the row to store.
func (h *Handler) buildAPIKey(ownerID int64, req model.APIKeyCreateRequest) (*model.APIKey, *auth.GeneratedKey, error) {
	generated, err := auth.GenerateKey(ownerID)
	if err != nil {
		return nil, nil, err
	}

	key := &model.APIKey{
		Name:      req.Name,
		KeyDigest: generated.Digest,
		KeyPrefix: generated.Prefix,
		OwnerID:   ownerID,
	}
	if req.TTLDays != nil {
		expires := time.Now().Add(time.Duration(*req.TTLDays) * 24 * time.Hour)
		key.ExpiresAt = &expires
	}

	return key, generated, nil
}
