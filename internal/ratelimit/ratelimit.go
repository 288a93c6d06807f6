// Package ratelimit implements per-key sliding-window (fixed-bucket)
// request budgets. Two interchangeable backends exist: an in-process map
// for single-process deployments and a shared Redis counter store for
// multi-process ones. The backend is chosen once at startup.
package ratelimit

import (
	"context"
	"errors"
)

// ErrLimited indicates the budget for the current window is exhausted.
var ErrLimited = errors.New("rate limit exceeded")

// Limiter is a per-key request budget.
type Limiter interface {
	// Check records one request against key's budget. Returns ErrLimited
	// when the budget for the current window is exceeded.
	Check(ctx context.Context, key string) error
	// Reset clears all counters. Intended for tests.
	Reset(ctx context.Context) error
}
