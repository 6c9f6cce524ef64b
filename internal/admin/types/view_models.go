package types

import (
	"time"

	"mrzgate/pkg/platform/audit"
)

// AuditEventResponse is the wire form of an audit event. It carries the
// keyed document reference only, never document content.
type AuditEventResponse struct {
	Action      string    `json:"action"`
	Category    string    `json:"category"`
	Timestamp   time.Time `json:"timestamp"`
	ClientID    string    `json:"client_id,omitempty"`
	DocumentID  string    `json:"document_id,omitempty"`
	DocumentRef string    `json:"document_ref,omitempty"`
	Format      string    `json:"format,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
	ClientIP    string    `json:"client_ip,omitempty"`
	Platform    string    `json:"platform,omitempty"`
}

type AuditEventsResponse struct {
	Events []AuditEventResponse `json:"events"`
	Total  int                  `json:"total"`
}

// StatsResponse summarizes the most recent audit window.
type StatsResponse struct {
	Window     int            `json:"window"`
	ByAction   map[string]int `json:"by_action"`
	ByCategory map[string]int `json:"by_category"`
	Rejections map[string]int `json:"rejections_by_reason"`
	Since      *time.Time     `json:"since,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

func ToAuditEventResponse(e audit.Event) AuditEventResponse {
	resp := AuditEventResponse{
		Action:      e.Action,
		Category:    string(e.Category),
		Timestamp:   e.Timestamp,
		DocumentID:  e.DocumentID,
		DocumentRef: e.DocumentRef,
		Format:      e.Format,
		Reason:      e.Reason,
		RequestID:   e.RequestID,
		ClientIP:    e.ClientIP,
		Platform:    e.Platform,
	}
	if !e.ClientID.IsNil() {
		resp.ClientID = e.ClientID.String()
	}
	return resp
}

func ToAuditEventsResponse(events []audit.Event) *AuditEventsResponse {
	out := make([]AuditEventResponse, len(events))
	for i, e := range events {
		out[i] = ToAuditEventResponse(e)
	}
	return &AuditEventsResponse{Events: out, Total: len(out)}
}
