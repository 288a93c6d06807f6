package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/finledger/finledger/internal/auth"
	"github.com/finledger/finledger/internal/model"
	"github.com/finledger/finledger/internal/repository"
)

// Register creates a new account and returns a session token.
// POST /api/v1/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body")
		return
	}

	if !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid email address")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	user, err := h.repo.CreateUser(r.Context(), req.Email, hash)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Email already registered")
			return
		}
		h.internalError(w, r, err)
		return
	}

	token, err := auth.IssueToken(user.Email, h.secret, h.tokenTTL)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Login verifies a password and returns a session token.
// POST /api/v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body")
		return
	}

	user, err := h.repo.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Same response as a bad password so the endpoint cannot
			// confirm which accounts exist.
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid credentials")
			return
		}
		h.internalError(w, r, err)
		return
	}

	if !auth.VerifyPassword(req.Password, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid credentials")
		return
	}

	token, err := auth.IssueToken(user.Email, h.secret, h.tokenTTL)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.TokenResponse{AccessToken: token, TokenType: "bearer"})
}
