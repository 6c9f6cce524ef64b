package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mrzgate/internal/evidence/document/models"
	id "mrzgate/pkg/domain"
)

// PostgresStore persists decoded records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, record *models.DocumentRecord) error {
	if record == nil {
		return fmt.Errorf("document record is required")
	}
	docID, err := id.ParseDocumentID(record.ID)
	if err != nil {
		return err
	}
	var clientID *uuid.UUID
	if !record.ClientID.IsNil() {
		cid := uuid.UUID(record.ClientID)
		clientID = &cid
	}

	query := `
		INSERT INTO documents (
			id, format, document_type, issuing_state, document_number,
			optional_data_1, optional_data_2, birth_date, gender, expiration_date,
			nationality, surname, given_names, is_adult, expired, minimized,
			client_id, checked_at, retain_until
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.UUID(docID),
		record.Format,
		record.DocumentType,
		record.IssuingState,
		record.DocumentNumber,
		record.OptionalData1,
		record.OptionalData2,
		nullDate(record.BirthDate),
		record.Gender,
		nullDate(record.ExpirationDate),
		record.Nationality,
		record.Surname,
		record.GivenNames,
		record.IsAdult,
		record.Expired,
		record.Minimized,
		clientID,
		record.CheckedAt,
		record.RetainUntil,
	)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, docID id.DocumentID, now time.Time) (*models.DocumentRecord, error) {
	query := `
		SELECT id, format, document_type, issuing_state, document_number,
			   optional_data_1, optional_data_2, birth_date, gender, expiration_date,
			   nationality, surname, given_names, is_adult, expired, minimized,
			   client_id, checked_at, retain_until
		FROM documents
		WHERE id = $1 AND retain_until > $2
	`
	record, err := scanRecord(s.db.QueryRowContext(ctx, query, uuid.UUID(docID), now))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find document: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE retain_until <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired documents: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired documents: %w", err)
	}
	return int(n), nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func scanRecord(row *sql.Row) (*models.DocumentRecord, error) {
	var (
		rec       models.DocumentRecord
		docID     uuid.UUID
		birth     sql.NullTime
		expiry    sql.NullTime
		clientID  *uuid.UUID
		checkedAt time.Time
		retain    time.Time
	)
	err := row.Scan(
		&docID,
		&rec.Format,
		&rec.DocumentType,
		&rec.IssuingState,
		&rec.DocumentNumber,
		&rec.OptionalData1,
		&rec.OptionalData2,
		&birth,
		&rec.Gender,
		&expiry,
		&rec.Nationality,
		&rec.Surname,
		&rec.GivenNames,
		&rec.IsAdult,
		&rec.Expired,
		&rec.Minimized,
		&clientID,
		&checkedAt,
		&retain,
	)
	if err != nil {
		return nil, err
	}
	rec.ID = docID.String()
	rec.BirthDate = dateString(birth)
	rec.ExpirationDate = dateString(expiry)
	if clientID != nil {
		rec.ClientID = id.ClientID(*clientID)
	}
	rec.CheckedAt = checkedAt.UTC()
	rec.RetainUntil = retain.UTC()
	return &rec, nil
}

// nullDate converts a YYYY-MM-DD record date to a DATE parameter.
func nullDate(s string) sql.NullTime {
	if s == "" {
		return sql.NullTime{}
	}
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func dateString(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format(models.DateLayout)
}
