package admin

import (
	"context"
	"time"

	id "mrzgate/pkg/domain"
	dErrors "mrzgate/pkg/domain-errors"
	"mrzgate/pkg/platform/audit"
	"mrzgate/pkg/requestcontext"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
	// StatsWindow is how many recent events GetStats aggregates.
	StatsWindow = 1000
)

// AuditReader is the read side of the audit store.
type AuditReader interface {
	ListByClient(ctx context.Context, clientID id.ClientID) ([]audit.Event, error)
	ListRecent(ctx context.Context, limit int) ([]audit.Event, error)
}

// Service exposes the audit trail to operators.
type Service struct {
	audit AuditReader
}

func NewService(reader AuditReader) *Service {
	return &Service{audit: reader}
}

// Stats aggregates a window of recent audit events.
type Stats struct {
	Window     int
	ByAction   map[string]int
	ByCategory map[string]int
	Rejections map[string]int
	Since      time.Time
	Timestamp  time.Time
}

// ClampLimit maps a requested page size into [1, MaxLimit]; zero or negative
// selects DefaultLimit.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// GetRecentAuditEvents returns the most recent events, newest first.
func (s *Service) GetRecentAuditEvents(ctx context.Context, limit int) ([]audit.Event, error) {
	events, err := s.audit.ListRecent(ctx, ClampLimit(limit))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events")
	}
	return events, nil
}

// GetClientAuditEvents returns every event recorded for one API client.
func (s *Service) GetClientAuditEvents(ctx context.Context, clientID id.ClientID) ([]audit.Event, error) {
	events, err := s.audit.ListByClient(ctx, clientID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list client audit events")
	}
	return events, nil
}

// GetStats counts the last StatsWindow events by action and category, and
// rejected documents by reason.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	events, err := s.audit.ListRecent(ctx, StatsWindow)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events")
	}

	stats := &Stats{
		Window:     len(events),
		ByAction:   make(map[string]int),
		ByCategory: make(map[string]int),
		Rejections: make(map[string]int),
		Timestamp:  requestcontext.Now(ctx),
	}
	for _, e := range events {
		stats.ByAction[e.Action]++
		stats.ByCategory[string(e.Category)]++
		if e.Action == string(audit.EventDocumentRejected) {
			stats.Rejections[e.Reason]++
		}
		if stats.Since.IsZero() || e.Timestamp.Before(stats.Since) {
			stats.Since = e.Timestamp
		}
	}
	return stats, nil
}
