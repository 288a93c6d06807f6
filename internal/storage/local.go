package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local stores objects as files under a base directory.
type Local struct {
	baseDir string
}

// NewLocal creates a disk-backed store rooted at baseDir.
func NewLocal(baseDir string) (*Local, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &Local{baseDir: baseDir}, nil
}

// Save writes the object to disk and returns its path relative to the
// base directory (the object key itself).
func (l *Local) Save(_ context.Context, key, _ string, r io.Reader) (string, error) {
	path := filepath.Join(l.baseDir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create object dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create object file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write object: %w", err)
	}

	return key, nil
}
