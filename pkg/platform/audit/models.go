package audit

import (
	"context"
	"time"

	id "mrzgate/pkg/domain"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out. It never carries
// document content: DocumentRef is a keyed hash of the document number.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	Action    string
	ClientID  id.ClientID

	DocumentID  string
	DocumentRef string
	Format      string
	Reason      string

	// Enrichment from the request context
	RequestID string
	ClientIP  string
	Platform  string
}

// Store persists audit events. Implementations must be append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByClient(ctx context.Context, clientID id.ClientID) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}

type AuditEvent string

const (
	EventDocumentDecoded  AuditEvent = "document_decoded"
	EventDocumentRejected AuditEvent = "document_rejected"
	EventDocumentViewed   AuditEvent = "document_viewed"
	EventAuthFailed       AuditEvent = "auth_failed"
)

// EventCategory groups events by retention and alerting policy.
type EventCategory string

const (
	CategoryCompliance EventCategory = "compliance"
	CategorySecurity   EventCategory = "security"
	CategoryOperations EventCategory = "operations"
)

// Category maps an event to its category. Unknown events fall back to
// operations.
func (e AuditEvent) Category() EventCategory {
	switch e {
	case EventDocumentDecoded, EventDocumentViewed:
		return CategoryCompliance
	case EventDocumentRejected, EventAuthFailed:
		return CategorySecurity
	default:
		return CategoryOperations
	}
}
