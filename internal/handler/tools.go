package handler

import "net/http"

// toolDescriptor documents one operation in the integration catalog.
type toolDescriptor struct {
	Name   string `json:"name"`
	Method string `json:"method"`
	Path   string `json:"path"`
	Input  any    `json:"input"`
	Output any    `json:"output"`
}

// toolCatalog is the static list of operations exposed by the API. It lets
// integrators discover capabilities without reading code.
var toolCatalog = []toolDescriptor{
	{
		Name: "auth.register", Method: http.MethodPost, Path: "/api/v1/auth/register",
		Input:  map[string]string{"email": "string", "password": "string"},
		Output: map[string]string{"access_token": "string", "token_type": "string"},
	},
	{
		Name: "auth.login", Method: http.MethodPost, Path: "/api/v1/auth/login",
		Input:  map[string]string{"email": "string", "password": "string"},
		Output: map[string]string{"access_token": "string", "token_type": "string"},
	},
	{
		Name: "auth.api-keys.create", Method: http.MethodPost, Path: "/api/v1/auth/api-keys",
		Input:  map[string]string{"name": "string|null", "ttl_days": "int|null"},
		Output: map[string]string{"id": "int", "name": "string|null", "key_prefix": "string", "created_at": "datetime", "plain_key": "string"},
	},
	{
		Name: "auth.api-keys.list", Method: http.MethodGet, Path: "/api/v1/auth/api-keys",
		Input:  map[string]string{},
		Output: []map[string]string{{"id": "int", "name": "string|null", "key_prefix": "string", "created_at": "datetime"}},
	},
	{
		Name: "auth.api-keys.delete", Method: http.MethodDelete, Path: "/api/v1/auth/api-keys/{id}",
		Input:  map[string]string{},
		Output: map[string]string{"status": "revoked"},
	},
	{
		Name: "auth.api-keys.rotate", Method: http.MethodPost, Path: "/api/v1/auth/api-keys/{id}/rotate",
		Input:  map[string]string{"name": "string|null", "ttl_days": "int|null"},
		Output: map[string]string{"id": "int", "name": "string|null", "key_prefix": "string", "created_at": "datetime", "plain_key": "string"},
	},
	{
		Name: "invoices.create", Method: http.MethodPost, Path: "/api/v1/invoices",
		Input: map[string]any{
			"invoice_number": "string",
			"due_date":       "datetime",
			"client_name":    "string",
			"client_email":   "string|null",
			"currency":       "string",
			"tax_rate":       "decimal|null",
			"tax_label":      "string|null",
			"tax_note":       "string|null",
			"items":          []map[string]string{{"description": "string", "quantity": "decimal", "unit_price": "decimal"}},
		},
		Output: "Invoice",
	},
	{
		Name: "invoices.list", Method: http.MethodGet, Path: "/api/v1/invoices",
		Input:  map[string]string{},
		Output: []string{"Invoice"},
	},
	{
		Name: "invoices.get", Method: http.MethodGet, Path: "/api/v1/invoices/{id}",
		Input:  map[string]string{},
		Output: "Invoice",
	},
	{
		Name: "invoices.update-status", Method: http.MethodPatch, Path: "/api/v1/invoices/{id}",
		Input:  map[string]string{"status": "draft|sent|paid|cancelled"},
		Output: map[string]string{"status": "updated"},
	},
	{
		Name: "expenses.create", Method: http.MethodPost, Path: "/api/v1/expenses",
		Input: map[string]string{
			"date":        "datetime|null",
			"amount":      "decimal",
			"currency":    "string",
			"category":    "string",
			"description": "string|null",
		},
		Output: "Expense",
	},
	{
		Name: "expenses.list", Method: http.MethodGet, Path: "/api/v1/expenses",
		Input:  map[string]string{},
		Output: []string{"Expense"},
	},
	{
		Name: "expenses.get", Method: http.MethodGet, Path: "/api/v1/expenses/{id}",
		Input:  map[string]string{},
		Output: "Expense",
	},
	{
		Name: "expenses.update", Method: http.MethodPatch, Path: "/api/v1/expenses/{id}",
		Input:  map[string]string{"status": "pending|approved|reimbursed|null", "amount": "decimal|null"},
		Output: "Expense",
	},
	{
		Name: "expenses.upload-receipt", Method: http.MethodPost, Path: "/api/v1/expenses/{id}/receipt",
		Input:  map[string]string{"file": "multipart"},
		Output: "Expense",
	},
	{
		Name: "reports.summary", Method: http.MethodGet, Path: "/api/v1/reports/summary",
		Input:  map[string]string{},
		Output: map[string]any{"invoices": map[string]string{"count": "int", "total": "decimal"}, "expenses": map[string]string{"count": "int", "total": "decimal"}},
	},
	{
		Name: "reports.monthly", Method: http.MethodGet, Path: "/api/v1/reports/monthly",
		Input:  map[string]string{},
		Output: map[string]any{"invoices": []map[string]string{{"month": "YYYY-MM", "total": "decimal"}}, "expenses": []map[string]string{{"month": "YYYY-MM", "total": "decimal"}}},
	},
	{
		Name: "tax.configs.create", Method: http.MethodPost, Path: "/api/v1/tax/configs",
		Input:  map[string]string{"name": "string", "country": "string|null", "rate": "decimal", "label": "string|null", "note": "string|null"},
		Output: "TaxConfig",
	},
	{
		Name: "tax.configs.list", Method: http.MethodGet, Path: "/api/v1/tax/configs",
		Input:  map[string]string{},
		Output: []string{"TaxConfig"},
	},
	{
		Name: "company.profile.get", Method: http.MethodGet, Path: "/api/v1/company/profile",
		Input:  map[string]string{},
		Output: "CompanyProfile",
	},
	{
		Name: "company.profile.update", Method: http.MethodPatch, Path: "/api/v1/company/profile",
		Input:  map[string]string{"header_text": "string|null", "tax_label": "string|null", "tax_note": "string|null"},
		Output: "CompanyProfile",
	},
	{
		Name: "company.logo.upload", Method: http.MethodPost, Path: "/api/v1/company/logo",
		Input:  map[string]string{"file": "multipart image"},
		Output: "CompanyProfile",
	},
	{
		Name: "tools.invoke", Method: http.MethodPost, Path: "/api/v1/tools/invoke",
		Input:  map[string]string{"tool": "string", "arguments": "object"},
		Output: map[string]string{"tool": "string", "result": "object"},
	},
}

// ListTools returns the static operation catalog.
// GET /api/v1/tools
func (h *Handler) ListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"modules": toolCatalog})
}
