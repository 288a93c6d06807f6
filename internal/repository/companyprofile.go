package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/finledger/finledger/internal/model"
)

const companyProfileColumns = `id, owner_id, logo_path, header_text, tax_label, tax_note`

// GetOrCreateCompanyProfile returns the owner's profile, creating the
// singleton row on first access.
func (r *Repository) GetOrCreateCompanyProfile(ctx context.Context, ownerID int64) (*model.CompanyProfile, error) {
	// Insert-if-absent keeps the get-or-create race-free across requests.
	_, err := r.pool.Exec(ctx, `
		INSERT INTO company_profiles (owner_id)
		VALUES ($1)
		ON CONFLICT (owner_id) DO NOTHING
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure company profile: %w", err)
	}

	query := `SELECT ` + companyProfileColumns + ` FROM company_profiles WHERE owner_id = $1`
	profile, err := scanCompanyProfile(r.pool.QueryRow(ctx, query, ownerID))
	if err != nil {
		return nil, fmt.Errorf("failed to get company profile: %w", err)
	}

	return profile, nil
}

// UpdateCompanyProfile applies a partial update; each patch field is
// applied only when present. Returns the updated row.
func (r *Repository) UpdateCompanyProfile(ctx context.Context, ownerID int64, patch model.CompanyProfilePatch) (*model.CompanyProfile, error) {
	if _, err := r.GetOrCreateCompanyProfile(ctx, ownerID); err != nil {
		return nil, err
	}

	query := `
		UPDATE company_profiles
		SET header_text = COALESCE($2, header_text),
		    tax_label   = COALESCE($3, tax_label),
		    tax_note    = COALESCE($4, tax_note)
		WHERE owner_id = $1
		RETURNING ` + companyProfileColumns

	profile, err := scanCompanyProfile(r.pool.QueryRow(ctx, query, ownerID, patch.HeaderText, patch.TaxLabel, patch.TaxNote))
	if err != nil {
		return nil, fmt.Errorf("failed to update company profile: %w", err)
	}

	return profile, nil
}

// SetCompanyLogo records the stored logo object key on the profile.
func (r *Repository) SetCompanyLogo(ctx context.Context, ownerID int64, logoPath string) (*model.CompanyProfile, error) {
	if _, err := r.GetOrCreateCompanyProfile(ctx, ownerID); err != nil {
		return nil, err
	}

	query := `
		UPDATE company_profiles
		SET logo_path = $2
		WHERE owner_id = $1
		RETURNING ` + companyProfileColumns

	profile, err := scanCompanyProfile(r.pool.QueryRow(ctx, query, ownerID, logoPath))
	if err != nil {
		return nil, fmt.Errorf("failed to set company logo: %w", err)
	}

	return profile, nil
}

// scanCompanyProfile scans one company profile row.
func scanCompanyProfile(row pgx.Row) (*model.CompanyProfile, error) {
	var profile model.CompanyProfile
	err := row.Scan(
		&profile.ID,
		&profile.OwnerID,
		&profile.LogoPath,
		&profile.HeaderText,
		&profile.TaxLabel,
		&profile.TaxNote,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
