package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/finledger/finledger/internal/model"
)

const taxConfigColumns = `id, name, country, rate::text, label, note, created_at, owner_id`

// CreateTaxConfig inserts a tax configuration and returns the stored row.
func (r *Repository) CreateTaxConfig(ctx context.Context, ownerID int64, req model.TaxConfigCreateRequest) (*model.TaxConfig, error) {
	query := `
		INSERT INTO tax_configs (name, country, rate, label, note, owner_id)
		VALUES ($1, $2, $3::numeric, $4, $5, $6)
		RETURNING ` + taxConfigColumns

	cfg, err := scanTaxConfig(r.pool.QueryRow(ctx, query,
		req.Name,
		req.Country,
		req.Rate,
		req.Label,
		req.Note,
		ownerID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create tax config: %w", err)
	}

	return cfg, nil
}

// ListTaxConfigs retrieves all tax configurations for an owner, oldest first.
func (r *Repository) ListTaxConfigs(ctx context.Context, ownerID int64) ([]*model.TaxConfig, error) {
	query := `SELECT ` + taxConfigColumns + ` FROM tax_configs WHERE owner_id = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax configs: %w", err)
	}
	defer rows.Close()

	var configs []*model.TaxConfig
	for rows.Next() {
		cfg, err := scanTaxConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tax config: %w", err)
		}
		configs = append(configs, cfg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tax configs: %w", err)
	}

	return configs, nil
}

// GetDefaultTaxRate returns the rate of the owner's oldest tax config, or
// nil when none exists.
func (r *Repository) GetDefaultTaxRate(ctx context.Context, ownerID int64) (*string, error) {
	query := `SELECT rate::text FROM tax_configs WHERE owner_id = $1 ORDER BY id LIMIT 1`

	var rate string
	err := r.pool.QueryRow(ctx, query, ownerID).Scan(&rate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get default tax rate: %w", err)
	}

	return &rate, nil
}

// scanTaxConfig scans one tax config row.
func scanTaxConfig(row pgx.Row) (*model.TaxConfig, error) {
	var cfg model.TaxConfig
	err := row.Scan(
		&cfg.ID,
		&cfg.Name,
		&cfg.Country,
		&cfg.Rate,
		&cfg.Label,
		&cfg.Note,
		&cfg.CreatedAt,
		&cfg.OwnerID,
	)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
