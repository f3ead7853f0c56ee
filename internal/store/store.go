package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sk-py/maildraft/internal/model"
)

// Backend is the durable key-value layer the MailStore is rehydrated
// from and flushed to. The whole collection is stored as one value
// under a fixed key; there are no partial writes.
type Backend interface {
	// Load reads the full record collection. A missing key yields an
	// empty collection, not an error.
	Load(ctx context.Context) ([]model.MailRecord, error)

	// Save replaces the stored collection wholesale.
	Save(ctx context.Context, records []model.MailRecord) error

	Close() error
}

// MailStore holds the ordered collection of mail records. It is an
// explicit state container: the app constructs one and passes it by
// reference to the views that need it.
//
// Every mutation flushes the full collection to the backend. A flush
// failure is logged and otherwise swallowed; the in-memory state stays
// authoritative for the rest of the session.
type MailStore struct {
	backend Backend
	logger  *slog.Logger

	mu      sync.Mutex
	records []model.MailRecord
	index   map[string]int
}

// New creates a MailStore over the given backend. The store starts
// empty; call Rehydrate before rendering.
func New(backend Backend, logger *slog.Logger) *MailStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &MailStore{
		backend: backend,
		logger:  logger,
		index:   make(map[string]int),
	}
}

// Rehydrate loads the persisted collection into memory. It runs once at
// startup before the list renders.
func (s *MailStore) Rehydrate(ctx context.Context) error {
	records, err := s.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("rehydrating mail store: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceLocked(records)
	return nil
}

// SetAll replaces the entire collection and flushes.
func (s *MailStore) SetAll(ctx context.Context, records []model.MailRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceLocked(records)
	s.flushLocked(ctx)
}

// Add appends one new record and flushes. A duplicate ID is a
// precondition violation and is rejected.
func (s *MailStore) Add(ctx context.Context, rec model.MailRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[rec.ID]; exists {
		return fmt.Errorf("record %s already exists", rec.ID)
	}

	s.index[rec.ID] = len(s.records)
	s.records = append(s.records, rec)
	s.flushLocked(ctx)
	return nil
}

// Update replaces the record with a matching ID in place and flushes.
// If no record has that ID the store is left unchanged and Update
// returns false; it never appends.
func (s *MailStore) Update(ctx context.Context, rec model.MailRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, exists := s.index[rec.ID]
	if !exists {
		return false
	}

	s.records[i] = rec
	s.flushLocked(ctx)
	return true
}

// Clear empties the collection and flushes. Used on logout reset.
func (s *MailStore) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceLocked(nil)
	s.flushLocked(ctx)
}

// All returns a copy of the full collection in insertion order.
func (s *MailStore) All() []model.MailRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.MailRecord, len(s.records))
	copy(out, s.records)
	return out
}

// GetByID returns the record with the given ID, if present.
func (s *MailStore) GetByID(id string) (model.MailRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return model.MailRecord{}, false
	}
	return s.records[i], true
}

// ByStatus returns the records with the given status, preserving store
// order.
func (s *MailStore) ByStatus(status string) []model.MailRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.MailRecord
	for _, r := range s.records {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of records in the collection.
func (s *MailStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// replaceLocked swaps in a new collection and rebuilds the ID index.
// Caller holds s.mu.
func (s *MailStore) replaceLocked(records []model.MailRecord) {
	s.records = make([]model.MailRecord, len(records))
	copy(s.records, records)

	s.index = make(map[string]int, len(records))
	for i, r := range s.records {
		s.index[r.ID] = i
	}
}

// flushLocked writes the full collection to the backend. Storage
// failures are logged only; the user is not interrupted over them.
// Caller holds s.mu.
func (s *MailStore) flushLocked(ctx context.Context) {
	snapshot := make([]model.MailRecord, len(s.records))
	copy(snapshot, s.records)

	if err := s.backend.Save(ctx, snapshot); err != nil {
		s.logger.Error("flushing mail store", "err", err, "records", len(snapshot))
	}
}
