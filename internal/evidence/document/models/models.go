package models

import (
	"time"

	"mrzgate/internal/evidence/document/domain"
	id "mrzgate/pkg/domain"
	"mrzgate/pkg/platform/validation"
	s "mrzgate/pkg/string"
	pkgvalidation "mrzgate/pkg/validation"
)

// DateLayout renders calendar dates in records.
const DateLayout = "2006-01-02"

// DocumentRecord is the stored and transported form of a Verification.
// Personal fields are empty when Minimized is set.
type DocumentRecord struct {
	ID             string    `json:"id"`
	Format         string    `json:"format"`
	DocumentType   string    `json:"document_type"`
	IssuingState   string    `json:"issuing_state"`
	DocumentNumber string    `json:"document_number,omitempty"`
	OptionalData1  string    `json:"optional_data_1,omitempty"`
	OptionalData2  string    `json:"optional_data_2,omitempty"`
	BirthDate      string    `json:"birth_date,omitempty"`
	Gender         string    `json:"gender,omitempty"`
	ExpirationDate string    `json:"expiration_date,omitempty"`
	Nationality    string    `json:"nationality,omitempty"`
	Surname        string    `json:"surname,omitempty"`
	GivenNames     string    `json:"given_names,omitempty"`
	IsAdult        bool      `json:"is_adult"`
	Expired        bool      `json:"expired"`
	Minimized      bool      `json:"minimized"`
	CheckedAt      time.Time `json:"checked_at"`

	ClientID    id.ClientID `json:"-"`
	RetainUntil time.Time   `json:"-"`
}

// NewDocumentRecord flattens a Verification. retainUntil bounds how long the
// record can be read back.
func NewDocumentRecord(v domain.Verification, retainUntil time.Time) *DocumentRecord {
	h := v.Holder()
	rec := &DocumentRecord{
		ID:             v.ID().String(),
		Format:         v.Format().String(),
		DocumentType:   v.DocumentType(),
		IssuingState:   v.IssuingState(),
		DocumentNumber: h.DocumentNumber,
		OptionalData1:  h.OptionalData1,
		OptionalData2:  h.OptionalData2,
		BirthDate:      formatDate(h.BirthDate),
		Gender:         string(v.Gender()),
		Nationality:    v.Nationality(),
		Surname:        h.Surname,
		GivenNames:     h.GivenNames,
		IsAdult:        v.IsAdult(),
		Expired:        v.IsExpired(),
		Minimized:      v.IsMinimized(),
		CheckedAt:      v.CheckedAt(),
		ClientID:       v.ClientID(),
		RetainUntil:    retainUntil,
	}
	if expiry, ok := v.ExpirationDate(); ok {
		rec.ExpirationDate = formatDate(expiry)
	}
	return rec
}

// IsRetained reports whether the record may still be served at now.
func (r *DocumentRecord) IsRetained(now time.Time) bool {
	return now.Before(r.RetainUntil)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// DecodeRequest is the body of POST /documents/mrz.
type DecodeRequest struct {
	MRZ string `json:"mrz" validate:"required,notblank"`
}

// Validate checks presence and size. Layout problems are the decoder's job
// and surface as document rejections, not validation errors.
func (r *DecodeRequest) Validate() error {
	if err := validation.CheckStringLength("mrz", r.MRZ, validation.MaxMRZLength); err != nil {
		return err
	}
	return pkgvalidation.Validate(r)
}

// BatchRequest is the body of POST /documents/mrz/batch.
type BatchRequest struct {
	Items []string `json:"items" validate:"required,min=1,dive,notblank"`
}

// Sanitize drops surrounding whitespace so blank items are caught by validation.
func (r *BatchRequest) Sanitize() {
	s.TrimSlice(r.Items)
}

func (r *BatchRequest) Validate() error {
	if err := validation.CheckSliceCount("items", len(r.Items), validation.MaxBatchItems); err != nil {
		return err
	}
	if err := validation.CheckEachStringLength("items", r.Items, validation.MaxMRZLength); err != nil {
		return err
	}
	return pkgvalidation.Validate(r)
}

// BatchResult is the outcome of one batch item, in request order. Exactly
// one of Record and Err is set.
type BatchResult struct {
	Record *DocumentRecord
	Err    error
}

// FormatInfo describes one supported layout.
type FormatInfo struct {
	Name       string `json:"name"`
	Lines      int    `json:"lines"`
	LineWidths []int  `json:"line_widths"`
}
