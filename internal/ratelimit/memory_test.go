package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCheckLimits(t *testing.T) {
	t.Parallel()

	m := NewMemory(2, time.Minute)
	ctx := context.Background()

	if err := m.Check(ctx, "client-a"); err != nil {
		t.Fatalf("first request: error = %v", err)
	}
	if err := m.Check(ctx, "client-a"); err != nil {
		t.Fatalf("second request: error = %v", err)
	}
	if err := m.Check(ctx, "client-a"); !errors.Is(err, ErrLimited) {
		t.Fatalf("third request: error = %v, want ErrLimited", err)
	}
}

func TestMemoryKeysAreIndependent(t *testing.T) {
	t.Parallel()

	m := NewMemory(1, time.Minute)
	ctx := context.Background()

	if err := m.Check(ctx, "client-a"); err != nil {
		t.Fatalf("client-a: error = %v", err)
	}
	if err := m.Check(ctx, "client-a"); !errors.Is(err, ErrLimited) {
		t.Fatalf("client-a second request: error = %v, want ErrLimited", err)
	}
	if err := m.Check(ctx, "client-b"); err != nil {
		t.Errorf("client-b should have its own bucket: error = %v", err)
	}
}

func TestMemoryWindowReset(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory(2, time.Minute)
	m.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := m.Check(ctx, "client-a"); err != nil {
			t.Fatalf("request %d: error = %v", i+1, err)
		}
	}
	if err := m.Check(ctx, "client-a"); !errors.Is(err, ErrLimited) {
		t.Fatalf("over budget: error = %v, want ErrLimited", err)
	}

	// Advancing past the window wipes the counter and admits again.
	now = now.Add(61 * time.Second)

	if err := m.Check(ctx, "client-a"); err != nil {
		t.Fatalf("after window elapsed: error = %v", err)
	}
	if err := m.Check(ctx, "client-a"); err != nil {
		t.Fatalf("second request of new window: error = %v", err)
	}
	if err := m.Check(ctx, "client-a"); !errors.Is(err, ErrLimited) {
		t.Fatalf("third request of new window: error = %v, want ErrLimited", err)
	}
}

func TestMemoryReset(t *testing.T) {
	t.Parallel()

	m := NewMemory(1, time.Minute)
	ctx := context.Background()

	if err := m.Check(ctx, "client-a"); err != nil {
		t.Fatalf("first request: error = %v", err)
	}
	if err := m.Reset(ctx); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if err := m.Check(ctx, "client-a"); err != nil {
		t.Errorf("after reset: error = %v", err)
	}
}
