package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"
)

func newTestServer() *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(http.NewServeMux(), 0, time.Second, time.Second, time.Second, logger)
}

func TestGracefulShutdownRunsComponentsInReverseOrder(t *testing.T) {
	t.Parallel()

	s := newTestServer()

	var order []string
	s.OnShutdown("database", func(context.Context) error {
		order = append(order, "database")
		return nil
	})
	s.OnShutdown("redis", func(context.Context) error {
		order = append(order, "redis")
		return nil
	})

	if err := s.gracefulShutdown(); err != nil {
		t.Fatalf("gracefulShutdown() error = %v", err)
	}

	if len(order) != 2 || order[0] != "redis" || order[1] != "database" {
		t.Errorf("shutdown order = %v, want [redis database]", order)
	}
}

func TestGracefulShutdownPropagatesComponentError(t *testing.T) {
	t.Parallel()

	s := newTestServer()

	closeErr := errors.New("close failed")
	ran := false
	s.OnShutdown("broken", func(context.Context) error {
		return closeErr
	})
	s.OnShutdown("healthy", func(context.Context) error {
		ran = true
		return nil
	})

	if err := s.gracefulShutdown(); !errors.Is(err, closeErr) {
		t.Errorf("gracefulShutdown() error = %v, want %v", err, closeErr)
	}
	if !ran {
		t.Error("remaining components skipped after a failure")
	}
}
