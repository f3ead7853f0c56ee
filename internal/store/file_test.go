package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sk-py/maildraft/internal/model"
)

func TestFileBackendMissingFileYieldsEmpty(t *testing.T) {
	b, err := NewFileBackend(filepath.Join(t.TempDir(), "emails.json"))
	require.NoError(t, err)

	records, err := b.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFileBackendRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emails.json")
	ctx := context.Background()

	b, err := NewFileBackend(path)
	require.NoError(t, err)

	in := []model.MailRecord{draft("1", "a"), draft("2", "b")}
	require.NoError(t, b.Save(ctx, in))

	// A fresh backend over the same file sees the same collection.
	b2, err := NewFileBackend(path)
	require.NoError(t, err)

	out, err := b2.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
