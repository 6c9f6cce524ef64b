package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/google/uuid"

	id "mrzgate/pkg/domain"
	audit "mrzgate/pkg/platform/audit"
)

// Store implements audit.Store using PostgreSQL.
type Store struct {
	db *sql.DB
}

// New creates a new PostgreSQL audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectColumns = `
	SELECT category, timestamp, action, client_id,
		   document_id, document_ref, format, reason,
		   request_id, client_ip, platform
	FROM audit_events
`

// Append inserts an audit event into the audit_events table.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	query := `
		INSERT INTO audit_events (
			id, category, timestamp, action, client_id,
			document_id, document_ref, format, reason,
			request_id, client_ip, platform
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	var clientID *uuid.UUID
	if !event.ClientID.IsNil() {
		cid := uuid.UUID(event.ClientID)
		clientID = &cid
	}

	_, err := s.db.ExecContext(ctx, query,
		uuid.New(),
		string(event.Category),
		event.Timestamp,
		event.Action,
		clientID,
		event.DocumentID,
		event.DocumentRef,
		event.Format,
		event.Reason,
		event.RequestID,
		event.ClientIP,
		event.Platform,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByClient returns events for a specific API client, most recent first.
func (s *Store) ListByClient(ctx context.Context, clientID id.ClientID) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+`
		WHERE client_id = $1
		ORDER BY timestamp DESC
	`, uuid.UUID(clientID))
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListRecent returns the N most recent events.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+`
		ORDER BY timestamp DESC
		LIMIT $1
	`, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// clampLimit keeps the LIMIT parameter within int32 range; a non-positive
// limit means "all".
func clampLimit(limit int) int32 {
	if limit <= 0 || limit > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(limit)
}

func scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event

	for rows.Next() {
		var (
			category string
			event    audit.Event
			clientID *uuid.UUID
		)

		err := rows.Scan(
			&category,
			&event.Timestamp,
			&event.Action,
			&clientID,
			&event.DocumentID,
			&event.DocumentRef,
			&event.Format,
			&event.Reason,
			&event.RequestID,
			&event.ClientIP,
			&event.Platform,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}

		event.Category = audit.EventCategory(category)
		if clientID != nil {
			event.ClientID = id.ClientID(*clientID)
		}

		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}

	return events, nil
}
