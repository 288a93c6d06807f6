package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/finledger/finledger/internal/auth"
	"github.com/finledger/finledger/internal/model"
	"github.com/finledger/finledger/internal/repository"
)

// CreateInvoice issues a new invoice. Omitted tax_rate falls back to the
// owner's default tax config; omitted tax_label/tax_note fall back to the
// company profile.
// POST /api/v1/invoices
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	user := auth.MustPrincipalFromContext(r.Context())

	var req model.InvoiceCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body")
		return
	}

	if msg := validateInvoiceCreate(req); msg != "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", msg)
		return
	}

	invoice, err := h.issueInvoice(r.Context(), user.ID, req)
	if err != nil {
		if errors.Is(err, repository.ErrInvoiceNumberExists) {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invoice number already exists")
			return
		}
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, invoice)
}

// ListInvoices returns the caller's invoices with their items.
// GET /api/v1/invoices
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	user := auth.MustPrincipalFromContext(r.Context())

	invoices, err := h.repo.ListInvoices(r.Context(), user.ID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if invoices == nil {
		invoices = []*model.Invoice{}
	}

	writeJSON(w, http.StatusOK, invoices)
}

// GetInvoice returns one invoice, owner-scoped.
// GET /api/v1/invoices/{id}
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	user := auth.MustPrincipalFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Invoice not found")
		return
	}

	invoice, err := h.repo.GetInvoice(r.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrInvoiceNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Invoice not found")
			return
		}
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, invoice)
}

// UpdateInvoiceStatus transitions an invoice's status.
// PATCH /api/v1/invoices/{id}
func (h *Handler) UpdateInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	user := auth.MustPrincipalFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Invoice not found")
		return
	}

	var patch model.InvoiceStatusPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body")
		return
	}

	if patch.Status == nil || !model.ValidInvoiceStatus(*patch.Status) {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid invoice status")
		return
	}

	if err := h.repo.UpdateInvoiceStatus(r.Context(), id, user.ID, *patch.Status); err != nil {
		if errors.Is(err, repository.ErrInvoiceNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Invoice not found")
			return
		}
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// issueInvoice persists a validated invoice. Omitted tax fields fall back
// to the owner's default tax config and company profile. Both the REST
// handler and the tool dispatcher go through here.
func (h *Handler) issueInvoice(ctx context.Context, ownerID int64, req model.InvoiceCreateRequest) (*model.Invoice, error) {
	taxRate := req.TaxRate
	if taxRate == nil {
		rate, err := h.repo.GetDefaultTaxRate(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		taxRate = rate
	}

	if req.TaxLabel == nil || req.TaxNote == nil {
		profile, err := h.repo.GetOrCreateCompanyProfile(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		if req.TaxLabel == nil {
			req.TaxLabel = profile.TaxLabel
		}
		if req.TaxNote == nil {
			req.TaxNote = profile.TaxNote
		}
	}

	return h.repo.CreateInvoice(ctx, ownerID, req, taxRate)
}

// validateInvoiceCreate returns a message describing the first invalid
// field, or "" when the payload is acceptable.
func validateInvoiceCreate(req model.InvoiceCreateRequest) string {
	if req.InvoiceNumber == "" {
		return "invoice_number is required"
	}
	if req.ClientName == "" {
		return "client_name is required"
	}
	if req.Currency == "" {
		return "currency is required"
	}
	if req.DueDate.IsZero() {
		return "due_date is required"
	}
	if len(req.Items) == 0 {
		return "at least one item is required"
	}
	if req.TaxRate != nil && !model.ValidPositiveDecimal(*req.TaxRate) {
		return "tax_rate must be a non-negative decimal"
	}
	for _, item := range req.Items {
		if item.Description == "" {
			return "item description is required"
		}
		if !model.ValidPositiveDecimal(item.Quantity) {
			return "item quantity must be a non-negative decimal"
		}
		if !model.ValidPositiveDecimal(item.UnitPrice) {
			return "item unit_price must be a non-negative decimal"
		}
	}
	return ""
}
