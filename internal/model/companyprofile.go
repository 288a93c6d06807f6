package model

// CompanyProfile holds per-owner invoice branding defaults. Exactly one row
// per user, created lazily on first access.
type CompanyProfile struct {
	ID         int64   `json:"id"`
	LogoPath   *string `json:"logo_path"`
	HeaderText *string `json:"header_text"`
	TaxLabel   *string `json:"tax_label"`
	TaxNote    *string `json:"tax_note"`
	OwnerID    int64   `json:"-"`
}

// CompanyProfilePatch is a partial update; only non-nil fields are applied.
type CompanyProfilePatch struct {
	HeaderText *string `json:"header_text"`
	TaxLabel   *string `json:"tax_label"`
	TaxNote    *string `json:"tax_note"`
}
