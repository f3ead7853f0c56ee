package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/sk-py/maildraft/internal/store"
)

// NewTestStore creates a MailStore backed by an in-memory SQLite
// database. It automatically closes the backend when the test completes.
func NewTestStore(t *testing.T) *store.MailStore {
	t.Helper()

	backend, err := store.NewSQLiteBackend(":memory:")
	if err != nil {
		t.Fatalf("creating test backend: %v", err)
	}

	t.Cleanup(func() {
		if err := backend.Close(); err != nil {
			t.Errorf("closing test backend: %v", err)
		}
	})

	return store.New(backend, DiscardLogger())
}

// DiscardLogger returns a logger that drops all output.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
