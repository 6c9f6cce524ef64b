package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "mrzgate/pkg/domain"
	"mrzgate/pkg/requestcontext"
)

// mockEmitter is a test double for the Emitter interface.
type mockEmitter struct {
	events    []Event
	shouldErr bool
}

func (m *mockEmitter) Emit(_ context.Context, event Event) error {
	if m.shouldErr {
		return errors.New("emit failed")
	}
	m.events = append(m.events, event)
	return nil
}

type LoggerSuite struct {
	suite.Suite
	emitter *mockEmitter
	buf     *bytes.Buffer
	logger  *Logger
}

func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerSuite))
}

func (s *LoggerSuite) SetupTest() {
	s.emitter = &mockEmitter{}
	s.buf = &bytes.Buffer{}
	s.logger = NewLogger(slog.New(slog.NewJSONHandler(s.buf, nil)), s.emitter)
}

func (s *LoggerSuite) requestContext() context.Context {
	ctx := requestcontext.WithRequestID(context.Background(), "req-12345")
	ctx = requestcontext.WithClientID(ctx, id.ClientID(uuid.MustParse("550e8400-e29b-41d4-a716-446655440003")))
	ctx = requestcontext.WithClientMetadata(ctx, "203.0.113.77",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")
	return requestcontext.WithTime(ctx, time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC))
}

func (s *LoggerSuite) TestLogEnrichesFromRequestContext() {
	s.logger.Log(s.requestContext(), EventDocumentDecoded, Event{DocumentID: "doc-1", Format: "TD3"})

	s.Require().Len(s.emitter.events, 1)
	e := s.emitter.events[0]
	s.Equal("document_decoded", e.Action)
	s.Equal(CategoryCompliance, e.Category)
	s.Equal("req-12345", e.RequestID)
	s.Equal("550e8400-e29b-41d4-a716-446655440003", e.ClientID.String())
	s.Equal("203.0.113.0", e.ClientIP)
	s.Equal(PlatformMobile, e.Platform)
	s.Equal(time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC), e.Timestamp)
}

func (s *LoggerSuite) TestLogKeepsCallerFields() {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.logger.Log(s.requestContext(), EventDocumentRejected, Event{Timestamp: ts, RequestID: "explicit", Reason: "checksum_mismatch"})

	s.Require().Len(s.emitter.events, 1)
	e := s.emitter.events[0]
	s.Equal(ts, e.Timestamp)
	s.Equal("explicit", e.RequestID)
	s.Equal(CategorySecurity, e.Category)
	s.Equal("checksum_mismatch", e.Reason)
}

func (s *LoggerSuite) TestLogWritesAuditLine() {
	s.logger.Log(s.requestContext(), EventDocumentRejected, Event{Format: "TD1", Reason: "checksum_mismatch"})

	var line map[string]any
	s.Require().NoError(json.Unmarshal(s.buf.Bytes(), &line))
	s.Equal("document_rejected", line["msg"])
	s.Equal("audit", line["log_type"])
	s.Equal("security", line["category"])
	s.Equal("TD1", line["format"])
	s.Equal("checksum_mismatch", line["reason"])
	s.NotContains(line, "document_id")
}

func (s *LoggerSuite) TestLogHandlesEmitError() {
	s.emitter.shouldErr = true

	s.NotPanics(func() {
		s.logger.Log(context.Background(), EventDocumentDecoded, Event{})
	})
	s.Empty(s.emitter.events)
	s.Contains(s.buf.String(), "failed to emit audit event")
}

func (s *LoggerSuite) TestLogWithoutRequestContext() {
	s.logger.Log(context.Background(), EventDocumentViewed, Event{DocumentID: "doc-1"})

	s.Require().Len(s.emitter.events, 1)
	e := s.emitter.events[0]
	s.Empty(e.RequestID)
	s.True(e.ClientID.IsNil())
	s.Equal("unknown", e.ClientIP)
	s.Equal(PlatformUnknown, e.Platform)
	s.False(e.Timestamp.IsZero())
}

func (s *LoggerSuite) TestNilCollaborators() {
	emitter := &mockEmitter{}
	s.NotPanics(func() {
		NewLogger(nil, emitter).Log(context.Background(), EventDocumentDecoded, Event{})
		NewLogger(slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)), nil).Log(context.Background(), EventDocumentDecoded, Event{})
		var nilLogger *Logger
		nilLogger.Log(context.Background(), EventDocumentDecoded, Event{})
	})
	s.Len(emitter.events, 1)
}
