package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"mrzgate/internal/evidence/document/models"
	id "mrzgate/pkg/domain"
)

// ErrNotFound is returned when a record does not exist or is past retention.
var ErrNotFound = errors.New("not found")

// InMemoryStore keeps decoded records in memory until their retention ends.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.DocumentID]models.DocumentRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.DocumentID]models.DocumentRecord)}
}

// Save stores a copy of record. A nil record is a no-op.
func (s *InMemoryStore) Save(_ context.Context, record *models.DocumentRecord) error {
	if record == nil {
		return nil
	}
	docID, err := id.ParseDocumentID(record.ID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[docID] = *record
	return nil
}

// FindByID returns the record if it is still retained at now.
func (s *InMemoryStore) FindByID(_ context.Context, docID id.DocumentID, now time.Time) (*models.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[docID]
	if !ok || !rec.IsRetained(now) {
		return nil, ErrNotFound
	}
	return &rec, nil
}

// DeleteExpired removes records whose retention ended at or before now.
func (s *InMemoryStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for docID, rec := range s.records {
		if !rec.IsRetained(now) {
			delete(s.records, docID)
			n++
		}
	}
	return n, nil
}

// Ping always succeeds; it lets the store take part in readiness checks.
func (s *InMemoryStore) Ping(context.Context) error {
	return nil
}
