package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count int
	start time.Time
}

// Memory is an in-process limiter: a mutex-guarded map of admission key to
// (count, window start). Counters reset wholesale when the window elapses
// and are lost on restart. Not suitable for multi-process deployments.
type Memory struct {
	mu          sync.Mutex
	maxRequests int
	window      time.Duration
	entries     map[string]window
	now         func() time.Time
}

// NewMemory creates an in-process limiter allowing maxRequests per window.
func NewMemory(maxRequests int, windowSize time.Duration) *Memory {
	return &Memory{
		maxRequests: maxRequests,
		window:      windowSize,
		entries:     make(map[string]window),
		now:         time.Now,
	}
}

// Check implements Limiter. The check-then-update runs under one mutex, so
// concurrent callers in this process cannot admit over budget.
func (m *Memory) Check(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	w, ok := m.entries[key]
	if !ok {
		w = window{count: 0, start: now}
	}

	if now.Sub(w.start) > m.window {
		m.entries[key] = window{count: 1, start: now}
		return nil
	}

	if w.count+1 > m.maxRequests {
		return ErrLimited
	}

	m.entries[key] = window{count: w.count + 1, start: w.start}
	return nil
}

// Reset implements Limiter.
func (m *Memory) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]window)
	return nil
}
