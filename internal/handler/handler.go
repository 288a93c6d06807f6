// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/finledger/finledger/internal/repository"
	"github.com/finledger/finledger/internal/storage"
)

// Handler wraps application dependencies for HTTP handlers.
type Handler struct {
	logger   *slog.Logger
	repo     *repository.Repository
	store    storage.Store
	secret   string
	tokenTTL time.Duration
}

// New creates a new Handler instance.
func New(logger *slog.Logger, repo *repository.Repository, store storage.Store, secret string, tokenTTL time.Duration) *Handler {
	return &Handler{
		logger:   logger,
		repo:     repo,
		store:    store,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
}

// errorResponse is the standard JSON error envelope.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes the standard error envelope.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

// decodeJSON decodes the request body into v. An empty body leaves v at
// its zero value, which suits requests where every field is optional.
func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// internalError logs the error and writes a generic 500 response.
func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	writeError(w, http.StatusInternalServerError, "INTERNAL", "Internal server error")
}
