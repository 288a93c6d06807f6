// Package storage persists uploaded files (receipts, logos) behind a
// backend-agnostic interface. The local backend writes to disk; the S3
// backend targets any S3-compatible endpoint.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/oklog/ulid/v2"
)

// Store saves uploaded objects and reports where they live.
type Store interface {
	// Save writes the object under key and returns its stored location.
	Save(ctx context.Context, key, contentType string, r io.Reader) (string, error)
}

// ObjectKey builds a per-owner object key with a sortable unique suffix.
// The original filename only contributes its extension.
func ObjectKey(ownerID int64, kind, ext string) string {
	return fmt.Sprintf("users/%d/%s/%s%s", ownerID, kind, ulid.Make().String(), ext)
}
