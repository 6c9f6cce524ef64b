// Package domain provides type-safe identifiers and small value helpers shared
// across the document evidence service.
package domain

import (
	"github.com/google/uuid"

	dErrors "mrzgate/pkg/domain-errors"
)

// Distinct ID types - the compiler prevents passing a ClientID where a
// DocumentID is expected.
type (
	DocumentID uuid.UUID
	ClientID   uuid.UUID
)

// NewDocumentID mints a random identifier for a decoded document.
func NewDocumentID() DocumentID { return DocumentID(uuid.New()) }

// Parse functions - use at trust boundaries (handlers, token claims).

func ParseDocumentID(s string) (DocumentID, error) {
	id, err := parseUUID(s, "document ID")
	return DocumentID(id), err
}

func ParseClientID(s string) (ClientID, error) {
	id, err := parseUUID(s, "client ID")
	return ClientID(id), err
}

func (id DocumentID) String() string { return uuid.UUID(id).String() }
func (id ClientID) String() string   { return uuid.UUID(id).String() }

func (id DocumentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ClientID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }

// parseUUID is the shared validation logic. The nil UUID is rejected: no
// document or client is ever issued that identifier.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	if id == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return id, nil
}
