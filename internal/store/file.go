package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sk-py/maildraft/internal/model"
)

// FileBackend implements Backend as a single JSON file holding the
// record collection. It is the lighter alternative to SQLiteBackend,
// selectable via the storage config.
type FileBackend struct {
	path string
}

// NewFileBackend creates a FileBackend at the given path, creating the
// parent directory if needed.
func NewFileBackend(path string) (*FileBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &FileBackend{path: path}, nil
}

// Load reads the JSON array from the file. A missing file yields an
// empty collection.
func (b *FileBackend) Load(ctx context.Context) ([]model.MailRecord, error) {
	data, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", b.path, err)
	}

	var records []model.MailRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", b.path, err)
	}
	return records, nil
}

// Save rewrites the whole file with the given records.
func (b *FileBackend) Save(ctx context.Context, records []model.MailRecord) error {
	if records == nil {
		records = []model.MailRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}

	// Write-then-rename so a crash mid-write never truncates the
	// collection.
	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		return fmt.Errorf("replacing %s: %w", b.path, err)
	}
	return nil
}

// Close is a no-op for the file backend.
func (b *FileBackend) Close() error { return nil }
