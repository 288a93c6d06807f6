package model

import (
	"slices"
	"time"
)

// Expense status values.
const (
	ExpenseStatusPending    = "pending"
	ExpenseStatusApproved   = "approved"
	ExpenseStatusReimbursed = "reimbursed"
)

// ValidExpenseStatuses contains all valid expense status values.
var ValidExpenseStatuses = []string{
	ExpenseStatusPending,
	ExpenseStatusApproved,
	ExpenseStatusReimbursed,
}

// ValidExpenseStatus reports whether s is a known expense status.
func ValidExpenseStatus(s string) bool {
	return slices.Contains(ValidExpenseStatuses, s)
}

// Expense represents a recorded business expense.
type Expense struct {
	ID          int64     `json:"id"`
	Date        time.Time `json:"date"`
	Amount      string    `json:"amount"`
	Currency    string    `json:"currency"`
	Category    string    `json:"category"`
	Description *string   `json:"description"`
	ReceiptURL  *string   `json:"receipt_url,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	OwnerID     int64     `json:"-"`
}

// ExpenseCreateRequest is the payload for recording an expense.
// Date defaults to now when omitted.
type ExpenseCreateRequest struct {
	Date        *time.Time `json:"date"`
	Amount      string     `json:"amount"`
	Currency    string     `json:"currency"`
	Category    string     `json:"category"`
	Description *string    `json:"description"`
}

// ExpensePatch is a partial update; only non-nil fields are applied.
type ExpensePatch struct {
	Status *string `json:"status"`
	Amount *string `json:"amount"`
}
