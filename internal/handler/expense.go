package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/finledger/finledger/internal/auth"
	"github.com/finledger/finledger/internal/model"
	"github.com/finledger/finledger/internal/repository"
	"github.com/finledger/finledger/internal/storage"
)

// CreateExpense records an expense. Status starts at pending; an omitted
// date defaults to now.
// POST /api/v1/expenses
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	user := auth.MustPrincipalFromContext(r.Context())

	var req model.ExpenseCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body")
		return
	}

	if !model.ValidPositiveDecimal(req.Amount) {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "amount must be a non-negative decimal")
		return
	}
	if req.Currency == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "currency is required")
		return
	}
	if req.Category == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "category is required")
		return
	}

	expense, err := h.repo.CreateExpense(r.Context(), user.ID, req)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, expense)
}

// ListExpenses returns the caller's expenses, newest first.
// GET /api/v1/expenses
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	user := auth.MustPrincipalFromContext(r.Context())

	expenses, err := h.repo.ListExpenses(r.Context(), user.ID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if expenses == nil {
		expenses = []*model.Expense{}
	}

	writeJSON(w, http.StatusOK, expenses)
}

// GetExpense returns one expense, owner-scoped.
// GET /api/v1/expenses/{id}
func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	user := auth.MustPrincipalFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Expense not found")
		return
	}

	expense, err := h.repo.GetExpense(r.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrExpenseNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Expense not found")
			return
		}
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, expense)
}

// UpdateExpense applies a partial update to an expense.
// PATCH /api/v1/expenses/{id}
func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	user := auth.MustPrincipalFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Expense not found")
		return
	}

	var patch model.ExpensePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body")
		return
	}

	if patch.Status != nil && !model.ValidExpenseStatus(*patch.Status) {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid expense status")
		return
	}
	if patch.Amount != nil && !model.ValidPositiveDecimal(*patch.Amount) {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "amount must be a non-negative decimal")
		return
	}

	expense, err := h.repo.UpdateExpense(r.Context(), id, user.ID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrExpenseNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Expense not found")
			return
		}
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, expense)
}

// UploadReceipt stores a receipt file and links it to the expense.
// POST /api/v1/expenses/{id}/receipt
func (h *Handler) UploadReceipt(w http.ResponseWriter, r *http.Request) {
	user := auth.MustPrincipalFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Expense not found")
		return
	}

	// Confirm ownership before accepting the upload.
	if _, err := h.repo.GetExpense(r.Context(), id, user.ID); err != nil {
		if errors.Is(err, repository.ErrExpenseNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Expense not found")
			return
		}
		h.internalError(w, r, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Missing file upload")
		return
	}
	defer file.Close()

	key := storage.ObjectKey(user.ID, "receipts", filepath.Ext(header.Filename))
	location, err := h.store.Save(r.Context(), key, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	expense, err := h.repo.SetExpenseReceipt(r.Context(), id, user.ID, location)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, expense)
}
