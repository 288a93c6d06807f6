package model

import "time"

// TaxConfig is a named tax rate owned by a user, e.g. "Standard VAT".
// Rate is a percentage carried as an exact decimal string. The owner's
// oldest config acts as the default rate for invoice creation.
type TaxConfig struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Country   *string   `json:"country"`
	Rate      string    `json:"rate"`
	Label     *string   `json:"label,omitempty"`
	Note      *string   `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	OwnerID   int64     `json:"-"`
}

// TaxConfigCreateRequest is the payload for creating a tax configuration.
type TaxConfigCreateRequest struct {
	Name    string  `json:"name"`
	Country *string `json:"country"`
	Rate    string  `json:"rate"`
	Label   *string `json:"label"`
	Note    *string `json:"note"`
}
