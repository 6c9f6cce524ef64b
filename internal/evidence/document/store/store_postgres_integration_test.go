//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"mrzgate/internal/evidence/document/models"
	"mrzgate/internal/evidence/document/store"
	id "mrzgate/pkg/domain"
	"mrzgate/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	now      time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgresStore(s.postgres.DB)
	s.now = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(context.Background()))
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	docID := id.NewDocumentID()
	clientID := id.ClientID(uuid.New())
	rec := &models.DocumentRecord{
		ID:             docID.String(),
		Format:         "TD3",
		DocumentType:   "P",
		IssuingState:   "UTO",
		DocumentNumber: "L898902C3",
		OptionalData1:  "ZE184226B",
		BirthDate:      "1974-08-12",
		Gender:         "F",
		ExpirationDate: "2012-04-15",
		Nationality:    "UTO",
		Surname:        "ERIKSSON",
		GivenNames:     "ANNA MARIA",
		IsAdult:        true,
		Expired:        true,
		CheckedAt:      s.now,
		ClientID:       clientID,
		RetainUntil:    s.now.Add(15 * time.Minute),
	}
	s.Require().NoError(s.store.Save(ctx, rec))

	found, err := s.store.FindByID(ctx, docID, s.now)
	s.Require().NoError(err)
	s.Equal(*rec, *found)
}

func (s *PostgresStoreSuite) TestNoExpiryAndMinimized() {
	ctx := context.Background()
	docID := id.NewDocumentID()
	rec := &models.DocumentRecord{
		ID:          docID.String(),
		Format:      "IDFRA",
		IsAdult:     true,
		Minimized:   true,
		CheckedAt:   s.now,
		RetainUntil: s.now.Add(time.Minute),
	}
	s.Require().NoError(s.store.Save(ctx, rec))

	found, err := s.store.FindByID(ctx, docID, s.now)
	s.Require().NoError(err)
	s.Empty(found.BirthDate)
	s.Empty(found.ExpirationDate)
	s.True(found.ClientID.IsNil())
	s.True(found.Minimized)
}

func (s *PostgresStoreSuite) TestRetention() {
	ctx := context.Background()
	docID := id.NewDocumentID()
	s.Require().NoError(s.store.Save(ctx, &models.DocumentRecord{
		ID:          docID.String(),
		Format:      "TD1",
		CheckedAt:   s.now,
		RetainUntil: s.now.Add(time.Minute),
	}))

	_, err := s.store.FindByID(ctx, docID, s.now.Add(time.Minute))
	s.ErrorIs(err, store.ErrNotFound)

	n, err := s.store.DeleteExpired(ctx, s.now.Add(time.Minute))
	s.Require().NoError(err)
	s.Equal(1, n)

	_, err = s.store.FindByID(ctx, id.NewDocumentID(), s.now)
	s.ErrorIs(err, store.ErrNotFound)
	s.NoError(s.store.Ping(ctx))
}
