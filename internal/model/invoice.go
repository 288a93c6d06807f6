package model

import (
	"slices"
	"time"
)

// Invoice status values.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
)

// ValidInvoiceStatuses contains all valid invoice status values.
var ValidInvoiceStatuses = []string{
	InvoiceStatusDraft,
	InvoiceStatusSent,
	InvoiceStatusPaid,
	InvoiceStatusCancelled,
}

// ValidInvoiceStatus reports whether s is a known invoice status.
func ValidInvoiceStatus(s string) bool {
	return slices.Contains(ValidInvoiceStatuses, s)
}

// Invoice represents an issued invoice with its computed totals.
// Subtotal, TaxAmount and Total are exact decimal strings computed by the
// database at creation time.
type Invoice struct {
	ID            int64         `json:"id"`
	InvoiceNumber string        `json:"invoice_number"`
	IssueDate     time.Time     `json:"issue_date"`
	DueDate       time.Time     `json:"due_date"`
	ClientName    string        `json:"client_name"`
	ClientEmail   *string       `json:"client_email,omitempty"`
	Subtotal      string        `json:"subtotal"`
	TaxAmount     string        `json:"tax_amount"`
	Total         string        `json:"total"`
	Currency      string        `json:"currency"`
	Status        string        `json:"status"`
	TaxLabel      *string       `json:"tax_label,omitempty"`
	TaxNote       *string       `json:"tax_note,omitempty"`
	Items         []InvoiceItem `json:"items"`
	CreatedAt     time.Time     `json:"created_at"`
	OwnerID       int64         `json:"-"`
}

// InvoiceItem is a single line on an invoice.
type InvoiceItem struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	LineTotal   string `json:"line_total"`
}

// InvoiceItemInput is a line item in an invoice creation payload.
type InvoiceItemInput struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
}

// InvoiceCreateRequest is the payload for creating an invoice. TaxRate is a
// percentage; when absent the owner's default tax config rate applies.
// TaxLabel and TaxNote fall back to the company profile defaults.
type InvoiceCreateRequest struct {
	InvoiceNumber string             `json:"invoice_number"`
	DueDate       time.Time          `json:"due_date"`
	ClientName    string             `json:"client_name"`
	ClientEmail   *string            `json:"client_email"`
	Currency      string             `json:"currency"`
	TaxRate       *string            `json:"tax_rate"`
	TaxLabel      *string            `json:"tax_label"`
	TaxNote       *string            `json:"tax_note"`
	Items         []InvoiceItemInput `json:"items"`
}

// InvoiceStatusPatch updates an invoice's status. Only the provided field
// is applied.
type InvoiceStatusPatch struct {
	Status *string `json:"status"`
}
