package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"mrzgate/internal/evidence/document/models"
	id "mrzgate/pkg/domain"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
	now   time.Time
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
	s.now = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
}

func (s *InMemoryStoreSuite) record(retainFor time.Duration) (*models.DocumentRecord, id.DocumentID) {
	docID := id.NewDocumentID()
	return &models.DocumentRecord{
		ID:          docID.String(),
		Format:      "TD3",
		Surname:     "ERIKSSON",
		CheckedAt:   s.now,
		RetainUntil: s.now.Add(retainFor),
	}, docID
}

func (s *InMemoryStoreSuite) TestSaveAndFind() {
	rec, docID := s.record(15 * time.Minute)
	s.Require().NoError(s.store.Save(s.ctx, rec))

	found, err := s.store.FindByID(s.ctx, docID, s.now.Add(time.Minute))
	s.Require().NoError(err)
	s.Equal(*rec, *found)

	found.Surname = "CHANGED"
	again, err := s.store.FindByID(s.ctx, docID, s.now)
	s.Require().NoError(err)
	s.Equal("ERIKSSON", again.Surname, "callers must not mutate stored state")
}

func (s *InMemoryStoreSuite) TestFindMissing() {
	_, err := s.store.FindByID(s.ctx, id.DocumentID(uuid.New()), s.now)
	s.ErrorIs(err, ErrNotFound)
}

func (s *InMemoryStoreSuite) TestFindPastRetention() {
	rec, docID := s.record(15 * time.Minute)
	s.Require().NoError(s.store.Save(s.ctx, rec))

	_, err := s.store.FindByID(s.ctx, docID, s.now.Add(15*time.Minute))
	s.ErrorIs(err, ErrNotFound)
}

func (s *InMemoryStoreSuite) TestDeleteExpired() {
	old, oldID := s.record(time.Minute)
	fresh, freshID := s.record(time.Hour)
	s.Require().NoError(s.store.Save(s.ctx, old))
	s.Require().NoError(s.store.Save(s.ctx, fresh))

	n, err := s.store.DeleteExpired(s.ctx, s.now.Add(10*time.Minute))
	s.Require().NoError(err)
	s.Equal(1, n)

	_, err = s.store.FindByID(s.ctx, oldID, s.now)
	s.ErrorIs(err, ErrNotFound)
	_, err = s.store.FindByID(s.ctx, freshID, s.now)
	s.NoError(err)
}

func (s *InMemoryStoreSuite) TestSaveRejectsBadID() {
	s.Error(s.store.Save(s.ctx, &models.DocumentRecord{ID: "not-a-uuid"}))
	s.NoError(s.store.Save(s.ctx, nil))
	s.NoError(s.store.Ping(s.ctx))
}
