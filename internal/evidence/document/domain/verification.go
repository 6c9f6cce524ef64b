// Package domain holds the Verification aggregate: one decoded MRZ together
// with the facts derived from it at a reference date.
//
// Domain Purity: no I/O, no context.Context and no time.Now(). Every instant
// is passed in by the caller.
package domain

import (
	"errors"
	"time"

	id "mrzgate/pkg/domain"
	"mrzgate/pkg/mrz"
)

// Validation errors for the aggregate.
var (
	ErrMissingDocument      = errors.New("decoded document is required")
	ErrMissingID            = errors.New("document id is required")
	ErrMissingCheckedAt     = errors.New("checked_at is required")
	ErrMissingReferenceDate = errors.New("reference date is required")
)

// Holder is the personal data read from the zone. Minimization clears it.
type Holder struct {
	Surname        string
	GivenNames     string
	DocumentNumber string
	OptionalData1  string
	OptionalData2  string
	BirthDate      time.Time
}

// IsEmpty reports whether every personal field is cleared.
func (h Holder) IsEmpty() bool {
	return h == Holder{}
}

// Verification is the aggregate root.
//
// Invariants:
//   - id, checkedAt and referenceDate are always set
//   - isAdult and expired are derived once, at construction, from the
//     reference date, and survive minimization
//   - a minimized Verification has an empty Holder
type Verification struct {
	id            id.DocumentID
	clientID      id.ClientID
	format        mrz.Format
	documentType  string
	issuingState  string
	nationality   string
	gender        mrz.Gender
	expiry        time.Time
	hasExpiry     bool
	holder        Holder
	isAdult       bool
	expired       bool
	checkedAt     time.Time
	referenceDate time.Time
	minimized     bool
}

// NewVerification builds the aggregate from a decoded document.
// referenceDate is the date two-digit years were resolved against; age and
// expiry are judged at that same date.
func NewVerification(
	docID id.DocumentID,
	clientID id.ClientID,
	doc *mrz.Document,
	referenceDate time.Time,
	checkedAt time.Time,
) (Verification, error) {
	switch {
	case doc == nil:
		return Verification{}, ErrMissingDocument
	case docID.IsNil():
		return Verification{}, ErrMissingID
	case checkedAt.IsZero():
		return Verification{}, ErrMissingCheckedAt
	case referenceDate.IsZero():
		return Verification{}, ErrMissingReferenceDate
	}

	expiry, hasExpiry := doc.ExpirationDate()
	return Verification{
		id:           docID,
		clientID:     clientID,
		format:       doc.Format(),
		documentType: doc.DocumentType(),
		issuingState: doc.IssuingState(),
		nationality:  doc.Nationality(),
		gender:       doc.Gender(),
		expiry:       expiry,
		hasExpiry:    hasExpiry,
		holder: Holder{
			Surname:        doc.Surname(),
			GivenNames:     doc.GivenNames(),
			DocumentNumber: doc.DocumentNumber(),
			OptionalData1:  doc.OptionalData1(),
			OptionalData2:  doc.OptionalData2(),
			BirthDate:      doc.BirthDate(),
		},
		isAdult:       id.IsOver18(doc.BirthDate(), referenceDate),
		expired:       hasExpiry && id.IsExpired(expiry, referenceDate),
		checkedAt:     checkedAt,
		referenceDate: referenceDate,
	}, nil
}

func (v Verification) ID() id.DocumentID          { return v.id }
func (v Verification) ClientID() id.ClientID      { return v.clientID }
func (v Verification) Format() mrz.Format         { return v.format }
func (v Verification) DocumentType() string       { return v.documentType }
func (v Verification) IssuingState() string       { return v.issuingState }
func (v Verification) Nationality() string        { return v.nationality }
func (v Verification) Gender() mrz.Gender         { return v.gender }
func (v Verification) Holder() Holder             { return v.holder }
func (v Verification) IsAdult() bool              { return v.isAdult }
func (v Verification) IsExpired() bool            { return v.expired }
func (v Verification) CheckedAt() time.Time       { return v.checkedAt }
func (v Verification) ReferenceDate() time.Time   { return v.referenceDate }
func (v Verification) IsMinimized() bool          { return v.minimized }

// ExpirationDate returns the expiry and whether the document carries one.
func (v Verification) ExpirationDate() (time.Time, bool) {
	return v.expiry, v.hasExpiry
}

// Minimized returns a copy with the Holder cleared. Document-level facts and
// the derived flags are kept.
func (v Verification) Minimized() Verification {
	m := v
	m.holder = Holder{}
	m.minimized = true
	return m
}
