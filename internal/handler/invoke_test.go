package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/finledger/finledger/internal/auth"
	"github.com/finledger/finledger/internal/model"
)

func invokeRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/invoke", strings.NewReader(body))
	ctx := auth.ContextWithPrincipal(req.Context(), &model.User{ID: 1, Email: "owner@example.com"})
	return req.WithContext(ctx)
}

func TestInvokeToolRejectsBadRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "invalid json body",
			body:       `{"tool":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "Invalid JSON body",
		},
		{
			name:       "missing tool name",
			body:       `{"arguments":{}}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "tool is required",
		},
		{
			name:       "unknown tool",
			body:       `{"tool":"invoices.delete"}`,
			wantStatus: http.StatusNotFound,
			wantBody:   "Unknown tool",
		},
		{
			name:       "mistyped arguments",
			body:       `{"tool":"invoices.create","arguments":{"invoice_number":5}}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "Invalid tool arguments",
		},
		{
			name:       "invoice validation applies",
			body:       `{"tool":"invoices.create","arguments":{}}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "invoice_number is required",
		},
		{
			name:       "invoice status validated",
			body:       `{"tool":"invoices.update-status","arguments":{"invoice_id":1,"status":"archived"}}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "Invalid invoice status",
		},
		{
			name:       "expense validation applies",
			body:       `{"tool":"expenses.create","arguments":{"amount":"10.00","currency":"","category":"travel"}}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "currency is required",
		},
		{
			name:       "expense update validated",
			body:       `{"tool":"expenses.update","arguments":{"expense_id":1,"update":{"status":"rejected"}}}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "Invalid expense status",
		},
		{
			name:       "tax config validation applies",
			body:       `{"tool":"tax.configs.create","arguments":{"rate":"20.00"}}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "name is required",
		},
	}

	h := &Handler{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			h.InvokeTool(rec, invokeRequest(tt.body))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want substring %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestInvokeToolDispatchesCatalogNames(t *testing.T) {
	t.Parallel()

	// Each tool must reach its dispatch arm rather than the unknown-tool
	// branch. Mistyped arguments stop execution before any storage access
	// while still proving the name is routed.
	argTools := []string{
		"invoices.create",
		"invoices.get",
		"invoices.update-status",
		"expenses.create",
		"expenses.get",
		"expenses.update",
		"tax.configs.create",
		"company.profile.update",
	}

	h := &Handler{}
	for _, tool := range argTools {
		t.Run(tool, func(t *testing.T) {
			t.Parallel()

			body := `{"tool":"` + tool + `","arguments":[1]}`

			rec := httptest.NewRecorder()
			h.InvokeTool(rec, invokeRequest(body))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), "Invalid tool arguments") {
				t.Errorf("body = %q, want argument rejection", rec.Body.String())
			}
		})
	}
}
