package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/finledger/finledger/internal/auth"
	"github.com/finledger/finledger/internal/model"
	"github.com/finledger/finledger/internal/repository"
)

// toolInvokeRequest addresses one catalog operation by name. Arguments
// stay raw until the tool is known.
type toolInvokeRequest struct {
	Tool      string          `json:"tool"`
	Arguments json.RawMessage `json:"arguments"`
}

// toolInvokeResponse wraps a tool result so callers can correlate it with
// the invoked tool.
type toolInvokeResponse struct {
	Tool   string `json:"tool"`
	Result any    `json:"result"`
}

// InvokeTool executes a catalog operation addressed by name, for
// integrations that speak the tool protocol over the authenticated API
// channel instead of individual REST routes. File uploads stay REST-only
// because tool arguments are plain JSON.
// POST /api/v1/tools/invoke
func (h *Handler) InvokeTool(w http.ResponseWriter, r *http.Request) {
	user := auth.MustPrincipalFromContext(r.Context())

	var req toolInvokeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body")
		return
	}
	if req.Tool == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "tool is required")
		return
	}

	switch req.Tool {
	case "invoices.create":
		h.invokeInvoiceCreate(w, r, user.ID, req)
	case "invoices.list":
		h.invokeInvoiceList(w, r, user.ID, req)
	case "invoices.get":
		h.invokeInvoiceGet(w, r, user.ID, req)
	case "invoices.update-status":
		h.invokeInvoiceUpdateStatus(w, r, user.ID, req)
	case "expenses.create":
		h.invokeExpenseCreate(w, r, user.ID, req)
	case "expenses.list":
		h.invokeExpenseList(w, r, user.ID, req)
	case "expenses.get":
		h.invokeExpenseGet(w, r, user.ID, req)
	case "expenses.update":
		h.invokeExpenseUpdate(w, r, user.ID, req)
	case "tax.configs.create":
		h.invokeTaxConfigCreate(w, r, user.ID, req)
	case "tax.configs.list":
		h.invokeTaxConfigList(w, r, user.ID, req)
	case "company.profile.get":
		h.invokeCompanyProfileGet(w, r, user.ID, req)
	case "company.profile.update":
		h.invokeCompanyProfileUpdate(w, r, user.ID, req)
	case "reports.summary":
		h.invokeReportSummary(w, r, user.ID, req)
	case "reports.monthly":
		h.invokeReportMonthly(w, r, user.ID, req)
	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Unknown tool")
	}
}

// decodeToolArgs unmarshals tool arguments into v. Absent arguments leave
// v at its zero value for tools that take none.
func decodeToolArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func writeToolResult(w http.ResponseWriter, tool string, result any) {
	writeJSON(w, http.StatusOK, toolInvokeResponse{Tool: tool, Result: result})
}

func (h *Handler) invokeInvoiceCreate(w http.ResponseWriter, r *http.Request, ownerID int64, req toolInvokeRequest) {
	var args model.InvoiceCreateRequest
	if err := decodeToolArgs(req.Arguments, &args); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid tool arguments")
		return
	}
	if msg := validateInvoiceCreate(args); msg != "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", msg)
		return
	}

	invoice, err := h.issueInvoice(r.Context(), ownerID, args)
	if err != nil {
		if errors.Is(err, repository.ErrInvoiceNumberExists) {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invoice number already exists")
			return
		}
		h.internalError(w, r, err)
		return
	}
	writeToolResult(w, req.Tool, invoice)
}

func (h *Handler) invokeInvoiceList(w http.ResponseWriter, r *http.Request, ownerID int64, req toolInvokeRequest) {
	invoices, err := h.repo.ListInvoices(r.Context(), ownerID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if invoices == nil {
		invoices = []*model.Invoice{}
	}
	writeToolResult(w, req.Tool, invoices)
}

func (h *Handler) invokeInvoiceGet(w http.ResponseWriter, r *http.Request, ownerID int64, req toolInvokeRequest) {
	var args struct {
		InvoiceID int64 `json:"invoice_id"`
	}
	if err := decodeToolArgs(req.Arguments, &args); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid tool arguments")
		return
	}

	invoice, err := h.repo.GetInvoice(r.Context(), args.InvoiceID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrInvoiceNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Invoice not found")
			return
		}
		h.internalError(w, r, err)
		return
	}
	writeToolResult(w, req.Tool, invoice)
}

func (h *Handler) invokeInvoiceUpdateStatus(w http.ResponseWriter, r *http.Request, ownerID int64, req toolInvokeRequest) {
	var args struct {
		InvoiceID int64  `json:"invoice_id"`
		Status    string `json:"status"`
	}
	if err := decodeToolArgs(req.Arguments, &args); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid tool arguments")
		return
	}
	if !model.ValidInvoiceStatus(args.Status) {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid invoice status")
		return
	}

	if err := h.repo.UpdateInvoiceStatus(r.Context(), args.InvoiceID, ownerID, args.Status); err != nil {
		if errors.Is(err, repository.ErrInvoiceNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Invoice not found")
			return
		}
		h.internalError(w, r, err)
		return
	}
	writeToolResult(w, req.Tool, map[string]string{"status": "updated"})
}

func (h *Handler) invokeExpenseCreate(w http.ResponseWriter, r *http.Request, ownerID int64, req toolInvokeRequest) {
	var args model.ExpenseCreateRequest
	if err := decodeToolArgs(req.Arguments, &args); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid tool arguments")
		return
	}
	if !model.ValidPositiveDecimal(args.Amount) {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "amount must be a non-negative decimal")
		return
	}
	if args.Currency == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "currency is required")
		return
	}
	if args.Category == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "category is required")
		return
	}

	expense, err := h.repo.CreateExpense(r.Context(), ownerID, args)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeToolResult(w, req.Tool, expense)
}

func (h *Handler) invokeExpenseList(w http.ResponseWriter, r *http.Request, ownerID int64, req toolInvokeRequest) {
	expenses, err := h.repo.ListExpenses(r.Context(), ownerID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if expenses == nil {
		expenses = []*model.Expense{}
	}
	writeToolResult(w, req.Tool, expenses)
}

func (h *Handler) invokeExpenseGet(w http.ResponseWriter, r *http.Request, ownerID int64, req toolInvokeRequest) {
	var args struct {
		ExpenseID int64 `json:"expense_id"`
	}
	if err := decodeToolArgs(req.Arguments, &args); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid tool arguments")
		return
	}

	expense, err := h.repo.GetExpense(r.Context(), args.ExpenseID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrExpenseNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Expense not found")
			return
		}
		h.internalError(w, r, err)
		return
	}
	writeToolResult(w, req.Tool, expense)
}

func (h *Handler) invokeExpenseUpdate(w http.ResponseWriter, r *http.Request, ownerID int64, req toolInvokeRequest) {
	var args struct {
		ExpenseID int64              `json:"expense_id"`
		Update    model.ExpensePatch `json:"update"`
	}
	if err := decodeToolArgs(req.Arguments, &args); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid tool arguments")
		return
	}
	if args.Update.Status != nil && !model.ValidExpenseStatus(*args.Update.Status) {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid expense status")
		return
	}
	if args.Update.Amount != nil && !model.ValidPositiveDecimal(*args.Update.Amount) {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "amount must be a non-negative decimal")
		return
	}

	expense, err := h.repo.UpdateExpense(r.Context(), args.ExpenseID, ownerID, args.Update)
	if err != nil {
		if errors.Is(err, repository.ErrExpenseNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Expense not found")
			return
		}
		h.internalError(w, r, err)
		return
	}
	writeToolResult(w, req.Tool, expense)
}

func (h *Handler) invokeTaxConfigCreate(w http.ResponseWriter, r *http.Request, ownerID int64, req toolInvokeRequest) {
	var args model.TaxConfigCreateRequest
	if err := decodeToolArgs(req.Arguments, &args); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid tool arguments")
		return
	}
	if args.Name == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "name is required")
		return
	}
	if !model.ValidPositiveDecimal(args.Rate) {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "rate must be a non-negative decimal")
		return
	}

	cfg, err := h.repo.CreateTaxConfig(r.Context(), ownerID, args)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeToolResult(w, req.Tool, cfg)
}

func (h *Handler) invokeTaxConfigList(w http.ResponseWriter, r *http.Request, ownerID int64, req toolInvokeRequest) {
	configs, err := h.repo.ListTaxConfigs(r.Context(), ownerID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if configs == nil {
		configs = []*model.TaxConfig{}
	}
	writeToolResult(w, req.Tool, configs)
}

func (h *Handler) invokeCompanyProfileGet(w http.ResponseWriter, r *http.Request, ownerID int64, req toolInvokeRequest) {
	profile, err := h.repo.GetOrCreateCompanyProfile(r.Context(), ownerID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeToolResult(w, req.Tool, profile)
}

func (h *Handler) invokeCompanyProfileUpdate(w http.ResponseWriter, r *http.Request, ownerID int64, req toolInvokeRequest) {
	var args model.CompanyProfilePatch
	if err := decodeToolArgs(req.Arguments, &args); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid tool arguments")
		return
	}

	profile, err := h.repo.UpdateCompanyProfile(r.Context(), ownerID, args)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeToolResult(w, req.Tool, profile)
}

func (h *Handler) invokeReportSummary(w http.ResponseWriter, r *http.Request, ownerID int64, req toolInvokeRequest) {
	summary, err := h.repo.ReportSummary(r.Context(), ownerID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeToolResult(w, req.Tool, summary)
}

func (h *Handler) invokeReportMonthly(w http.ResponseWriter, r *http.Request, ownerID int64, req toolInvokeRequest) {
	report, err := h.repo.ReportMonthly(r.Context(), ownerID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeToolResult(w, req.Tool, report)
}
