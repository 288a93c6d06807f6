package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalSave(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewLocal(dir)
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}

	key := "users/1/receipts/test.png"
	location, err := store.Save(context.Background(), key, "image/png", bytes.NewReader([]byte("receipt-bytes")))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if location != key {
		t.Errorf("location = %q, want %q", location, key)
	}

	data, err := os.ReadFile(filepath.Join(dir, "users", "1", "receipts", "test.png"))
	if err != nil {
		t.Fatalf("read stored object: %v", err)
	}
	if string(data) != "receipt-bytes" {
		t.Errorf("stored content = %q, want receipt-bytes", data)
	}
}

func TestLocalSaveOverwrites(t *testing.T) {
	t.Parallel()

	store, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}

	ctx := context.Background()
	if _, err := store.Save(ctx, "a/b.txt", "text/plain", strings.NewReader("first")); err != nil {
		t.Fatalf("first Save() error = %v", err)
	}
	if _, err := store.Save(ctx, "a/b.txt", "text/plain", strings.NewReader("second")); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
}

func TestObjectKey(t *testing.T) {
	t.Parallel()

	key := ObjectKey(7, "receipts", ".pdf")
	if !strings.HasPrefix(key, "users/7/receipts/") {
		t.Errorf("key = %q, want users/7/receipts/ prefix", key)
	}
	if !strings.HasSuffix(key, ".pdf") {
		t.Errorf("key = %q, want .pdf suffix", key)
	}

	if ObjectKey(7, "receipts", ".pdf") == key {
		t.Error("two generated keys collide")
	}
}
