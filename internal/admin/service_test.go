package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "mrzgate/pkg/domain"
	dErrors "mrzgate/pkg/domain-errors"
	"mrzgate/pkg/platform/audit"
	auditmemory "mrzgate/pkg/platform/audit/store/memory"
)

type failingReader struct{}

func (failingReader) ListByClient(context.Context, id.ClientID) ([]audit.Event, error) {
	return nil, errors.New("db down")
}

func (failingReader) ListRecent(context.Context, int) ([]audit.Event, error) {
	return nil, errors.New("db down")
}

type AdminServiceSuite struct {
	suite.Suite
	store   *auditmemory.InMemoryStore
	service *Service
	client  id.ClientID
	start   time.Time
}

func TestAdminServiceSuite(t *testing.T) {
	suite.Run(t, new(AdminServiceSuite))
}

func (s *AdminServiceSuite) SetupTest() {
	s.store = auditmemory.NewInMemoryStore()
	s.service = NewService(s.store)
	s.client = id.ClientID(uuid.New())
	s.start = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

	ctx := context.Background()
	events := []audit.Event{
		{Action: string(audit.EventDocumentDecoded), Category: audit.CategoryCompliance, ClientID: s.client},
		{Action: string(audit.EventDocumentRejected), Category: audit.CategorySecurity, Reason: "checksum_mismatch", ClientID: s.client},
		{Action: string(audit.EventDocumentRejected), Category: audit.CategorySecurity, Reason: "unrecognized_format"},
		{Action: string(audit.EventAuthFailed), Category: audit.CategorySecurity, Reason: "invalid_token"},
	}
	for i, e := range events {
		e.Timestamp = s.start.Add(time.Duration(i) * time.Minute)
		s.Require().NoError(s.store.Append(ctx, e))
	}
}

func (s *AdminServiceSuite) TestClampLimit() {
	s.Equal(DefaultLimit, ClampLimit(0))
	s.Equal(DefaultLimit, ClampLimit(-3))
	s.Equal(7, ClampLimit(7))
	s.Equal(MaxLimit, ClampLimit(MaxLimit+1))
}

func (s *AdminServiceSuite) TestGetRecentAuditEvents() {
	events, err := s.service.GetRecentAuditEvents(context.Background(), 2)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(string(audit.EventAuthFailed), events[0].Action)
	s.Equal("unrecognized_format", events[1].Reason)
}

func (s *AdminServiceSuite) TestGetClientAuditEvents() {
	events, err := s.service.GetClientAuditEvents(context.Background(), s.client)
	s.Require().NoError(err)
	s.Len(events, 2)

	none, err := s.service.GetClientAuditEvents(context.Background(), id.ClientID(uuid.New()))
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *AdminServiceSuite) TestGetStats() {
	stats, err := s.service.GetStats(context.Background())
	s.Require().NoError(err)

	s.Equal(4, stats.Window)
	s.Equal(2, stats.ByAction[string(audit.EventDocumentRejected)])
	s.Equal(3, stats.ByCategory[string(audit.CategorySecurity)])
	s.Equal(1, stats.ByCategory[string(audit.CategoryCompliance)])
	s.Equal(map[string]int{"checksum_mismatch": 1, "unrecognized_format": 1}, stats.Rejections)
	s.Equal(s.start, stats.Since)
}

func (s *AdminServiceSuite) TestStoreFailure() {
	svc := NewService(failingReader{})

	_, err := svc.GetRecentAuditEvents(context.Background(), 10)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))

	_, err = svc.GetClientAuditEvents(context.Background(), s.client)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))

	_, err = svc.GetStats(context.Background())
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}
