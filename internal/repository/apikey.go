package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finledger/finledger/internal/model"
)

// ErrAPIKeyNotFound indicates no key row matched the caller's id + owner.
var ErrAPIKeyNotFound = errors.New("API key not found")

const apiKeyColumns = `id, name, key_digest, key_prefix, expires_at, last_used_at, created_at, owner_id`

// CreateAPIKey inserts a new API key and fills in its generated id and
// creation timestamp.
func (r *Repository) CreateAPIKey(ctx context.Context, key *model.APIKey) error {
	query := `
		INSERT INTO api_keys (name, key_digest, key_prefix, expires_at, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		key.Name,
		key.KeyDigest,
		key.KeyPrefix,
		key.ExpiresAt,
		key.OwnerID,
	).Scan(&key.ID, &key.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create API key: %w", err)
	}

	return nil
}

// ListAPIKeysByOwner retrieves all API keys owned by a user, newest first.
// Expired keys are included; they simply fail verification.
func (r *Repository) ListAPIKeysByOwner(ctx context.Context, ownerID int64) ([]*model.APIKey, error) {
	query := `
		SELECT ` + apiKeyColumns + `
		FROM api_keys
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list API keys: %w", err)
	}
	defer rows.Close()

	var keys []*model.APIKey
	for rows.Next() {
		var key model.APIKey
		err := rows.Scan(
			&key.ID,
			&key.Name,
			&key.KeyDigest,
			&key.KeyPrefix,
			&key.ExpiresAt,
			&key.LastUsedAt,
			&key.CreatedAt,
			&key.OwnerID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan API key: %w", err)
		}
		keys = append(keys, &key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating API keys: %w", err)
	}

	return keys, nil
}

// TouchAPIKey stamps last_used_at after a successful verification.
func (r *Repository) TouchAPIKey(ctx context.Context, id int64, usedAt time.Time) error {
	query := `
		UPDATE api_keys
		SET last_used_at = $2
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query, id, usedAt)
	if err != nil {
		return fmt.Errorf("failed to update API key last used: %w", err)
	}

	return nil
}

// DeleteAPIKey removes a key if the caller owns it.
func (r *Repository) DeleteAPIKey(ctx context.Context, id, ownerID int64) error {
	query := `
		DELETE FROM api_keys
		WHERE id = $1 AND owner_id = $2
	`

	result, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete API key: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrAPIKeyNotFound
	}

	return nil
}

// RotateAPIKey destroys the old key row and inserts the replacement in one
// transaction. The old plaintext is invalid the moment the transaction
// commits, and the old row's id is never reused. Fails with
// ErrAPIKeyNotFound if the original does not exist or is not owned by the
// caller, in which case nothing is written.
func (r *Repository) RotateAPIKey(ctx context.Context, oldID, ownerID int64, newKey *model.APIKey) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin rotation: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `DELETE FROM api_keys WHERE id = $1 AND owner_id = $2`, oldID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete old API key: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrAPIKeyNotFound
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO api_keys (name, key_digest, key_prefix, expires_at, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`,
		newKey.Name,
		newKey.KeyDigest,
		newKey.KeyPrefix,
		newKey.ExpiresAt,
		newKey.OwnerID,
	).Scan(&newKey.ID, &newKey.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create rotated API key: %w", err)
	}

	return tx.Commit(ctx)
}
