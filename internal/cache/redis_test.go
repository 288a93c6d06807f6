package cache

import (
	"context"
	"testing"
)

func TestNewRejectsBadURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
	}{
		{name: "empty", url: ""},
		{name: "missing scheme", url: "localhost:6379"},
		{name: "wrong scheme", url: "postgres://localhost:5432"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := New(context.Background(), Options{URL: tt.url}); err == nil {
				t.Error("New() error = nil, want parse error")
			}
		})
	}
}
