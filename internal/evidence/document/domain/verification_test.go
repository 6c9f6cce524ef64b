package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "mrzgate/pkg/domain"
	"mrzgate/pkg/mrz"
)

const (
	td3Passport = "P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<\n" +
		"L898902C36UTO7408122F1204159ZE184226B<<<<<10"
	td1NoExpiry = "I<UTOD231458907<<<<<<<<<<<<<<<\n" +
		"7408122F<<<<<<0UTO<<<<<<<<<<<6\n" +
		"ERIKSSON<<ANNA<MARIA<<<<<<<<<<"
)

type VerificationSuite struct {
	suite.Suite
	refDate   time.Time
	checkedAt time.Time
	docID     id.DocumentID
	clientID  id.ClientID
}

func TestVerificationSuite(t *testing.T) {
	suite.Run(t, new(VerificationSuite))
}

func (s *VerificationSuite) SetupTest() {
	s.refDate = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	s.checkedAt = time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)
	s.docID = id.DocumentID(uuid.MustParse("6f1c2a9e-8a7b-4d5e-9f00-123456789abc"))
	s.clientID = id.ClientID(uuid.MustParse("550e8400-e29b-41d4-a716-446655440003"))
}

func (s *VerificationSuite) parse(text string, ref time.Time) *mrz.Document {
	doc, err := mrz.Parse(text, ref)
	s.Require().NoError(err)
	return doc
}

func (s *VerificationSuite) TestNewVerification() {
	v, err := NewVerification(s.docID, s.clientID, s.parse(td3Passport, s.refDate), s.refDate, s.checkedAt)
	s.Require().NoError(err)

	s.Equal(s.docID, v.ID())
	s.Equal(s.clientID, v.ClientID())
	s.Equal(mrz.FormatTD3, v.Format())
	s.Equal("P", v.DocumentType())
	s.Equal("UTO", v.IssuingState())
	s.Equal("UTO", v.Nationality())
	s.Equal(mrz.GenderFemale, v.Gender())
	s.Equal(Holder{
		Surname:        "ERIKSSON",
		GivenNames:     "ANNA MARIA",
		DocumentNumber: "L898902C3",
		OptionalData1:  "ZE184226B",
		BirthDate:      time.Date(1974, 8, 12, 0, 0, 0, 0, time.UTC),
	}, v.Holder())
	s.True(v.IsAdult())
	s.True(v.IsExpired())
	expiry, ok := v.ExpirationDate()
	s.True(ok)
	s.Equal(time.Date(2012, 4, 15, 0, 0, 0, 0, time.UTC), expiry)
	s.Equal(s.checkedAt, v.CheckedAt())
	s.Equal(s.refDate, v.ReferenceDate())
	s.False(v.IsMinimized())
}

func (s *VerificationSuite) TestDerivedFlagsFollowReferenceDate() {
	ref := time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)
	v, err := NewVerification(s.docID, s.clientID, s.parse(td3Passport, ref), ref, s.checkedAt)
	s.Require().NoError(err)

	s.True(v.IsAdult())
	s.False(v.IsExpired())
}

func (s *VerificationSuite) TestNoExpiryIsNeverExpired() {
	v, err := NewVerification(s.docID, s.clientID, s.parse(td1NoExpiry, s.refDate), s.refDate, s.checkedAt)
	s.Require().NoError(err)

	_, ok := v.ExpirationDate()
	s.False(ok)
	s.False(v.IsExpired())
}

func (s *VerificationSuite) TestMinimized() {
	v, err := NewVerification(s.docID, s.clientID, s.parse(td3Passport, s.refDate), s.refDate, s.checkedAt)
	s.Require().NoError(err)

	m := v.Minimized()

	s.True(m.IsMinimized())
	s.True(m.Holder().IsEmpty())
	s.Equal(v.ID(), m.ID())
	s.Equal(v.Format(), m.Format())
	s.Equal(v.IssuingState(), m.IssuingState())
	s.Equal(v.IsAdult(), m.IsAdult())
	s.Equal(v.IsExpired(), m.IsExpired())

	s.False(v.IsMinimized(), "original must be left untouched")
	s.Equal("ERIKSSON", v.Holder().Surname)
}

func (s *VerificationSuite) TestInvariants() {
	doc := s.parse(td3Passport, s.refDate)

	_, err := NewVerification(s.docID, s.clientID, nil, s.refDate, s.checkedAt)
	s.ErrorIs(err, ErrMissingDocument)

	_, err = NewVerification(id.DocumentID{}, s.clientID, doc, s.refDate, s.checkedAt)
	s.ErrorIs(err, ErrMissingID)

	_, err = NewVerification(s.docID, s.clientID, doc, s.refDate, time.Time{})
	s.ErrorIs(err, ErrMissingCheckedAt)

	_, err = NewVerification(s.docID, s.clientID, doc, time.Time{}, s.checkedAt)
	s.ErrorIs(err, ErrMissingReferenceDate)
}
