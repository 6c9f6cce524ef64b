// Package mrz decodes the Machine Readable Zone of travel and identity
// documents (ICAO 9303 TD1, TD2, TD3, MRV-A, MRV-B) and of two national
// variants: the pre-2021 French identity card and the Swiss driving licence.
//
// Decoding is strictly linear: normalize, detect the format, extract every
// field through the format's layout table, resolve dates, verify check digits
// and assemble the record. The first failure aborts decoding; there is no
// partial record.
//
// The package holds no mutable state and is safe for concurrent use.
package mrz

import (
	"strings"
	"time"
)

// Gender as printed on the document. GenderUnspecified covers the filler and
// layouts that do not carry the field.
type Gender string

const (
	GenderMale        Gender = "M"
	GenderFemale      Gender = "F"
	GenderNonSpecific Gender = "X"
	GenderUnspecified Gender = ""
)

// Document is a decoded and validated MRZ. It is immutable; every textual
// value is stripped of trailing fillers.
type Document struct {
	format         Format
	documentType   string
	issuingState   string
	documentNumber string
	optionalData1  string
	optionalData2  string
	birthDate      time.Time
	gender         Gender
	expirationDate time.Time
	hasExpiration  bool
	nationality    string
	surname        string
	givenNames     string
}

func (d *Document) Format() Format         { return d.format }
func (d *Document) DocumentType() string   { return d.documentType }
func (d *Document) IssuingState() string   { return d.issuingState }
func (d *Document) DocumentNumber() string { return d.documentNumber }
func (d *Document) OptionalData1() string  { return d.optionalData1 }
func (d *Document) OptionalData2() string  { return d.optionalData2 }
func (d *Document) BirthDate() time.Time   { return d.birthDate }
func (d *Document) Gender() Gender         { return d.gender }
func (d *Document) Nationality() string    { return d.nationality }
func (d *Document) Surname() string        { return d.surname }
func (d *Document) GivenNames() string     { return d.givenNames }

// ExpirationDate returns the expiry and whether the document carries one.
func (d *Document) ExpirationDate() (time.Time, bool) {
	return d.expirationDate, d.hasExpiration
}

// Parse decodes text into a Document. now anchors the century of two-digit
// years; pass a fixed date for reproducible results.
func Parse(text string, now time.Time) (*Document, error) {
	text = normalize(text)

	format, err := detect(text)
	if err != nil {
		return nil, err
	}
	l := layouts[format]

	x, err := extract(text, format)
	if err != nil {
		return nil, err
	}

	birth, ok := ResolveDate(x.values[fieldBirthDate], now)
	if !ok {
		return nil, &Error{Kind: ErrMissingBirthDate, Format: format, Field: string(fieldBirthDate)}
	}

	expiry, hasExpiry, err := resolveExpiry(x, format, now)
	if err != nil {
		return nil, err
	}
	if hasExpiry {
		expiry = correctExpiry(expiry, birth)
	}

	if err := verify(x, l, format); err != nil {
		return nil, err
	}

	d := assemble(format, x)
	d.birthDate = birth
	d.expirationDate, d.hasExpiration = expiry, hasExpiry
	if l.post != nil {
		l.post(d, x)
	}
	return d, nil
}

// resolveExpiry treats an absent or all-filler expiry as "no expiration date";
// any other value must be a valid date.
func resolveExpiry(x *extraction, format Format, now time.Time) (time.Time, bool, error) {
	v, present := x.values[fieldExpirationDate]
	if !present || isBlank(v) {
		return time.Time{}, false, nil
	}
	t, ok := ResolveDate(v, now)
	if !ok {
		return time.Time{}, false, &Error{Kind: ErrInvalidFormat, Format: format, Field: string(fieldExpirationDate)}
	}
	return t, true, nil
}

// verify checks every field-level digit in layout order, then the overall one.
func verify(x *extraction, l layout, format Format) error {
	for _, ln := range l.lines {
		for _, f := range ln {
			if f.check == 0 {
				continue
			}
			if !fieldCheckPasses(x, f) {
				return &Error{Kind: ErrCheckDigit, Format: format, Field: string(f.name)}
			}
		}
	}
	if len(l.overall) == 0 {
		return nil
	}
	if !digitMatches(x.values[fieldOverall][0], overallSum(x, l.overall)) {
		return &Error{Kind: ErrCheckDigit, Format: format, Field: string(fieldOverall)}
	}
	return nil
}

func fieldCheckPasses(x *extraction, f field) bool {
	v, digit := x.values[f.name], x.checks[f.name]
	if isBlank(v) {
		return true
	}
	if digit == Filler && f.overflow != "" {
		return longValueCheckPasses(v, x.values[f.overflow])
	}
	return digitMatches(digit, weightedSum(v, 0))
}

// longValueCheckPasses validates a value too long for its column. The rest
// of the value sits at the start of the overflow field, followed by its check
// digit; the digit covers everything from the value start up to itself.
func longValueCheckPasses(head, overflow string) bool {
	rest := overflow
	if i := strings.IndexByte(overflow, Filler); i >= 0 {
		rest = overflow[:i]
	}
	if rest == "" {
		return false
	}
	span := head + string(Filler) + rest[:len(rest)-1]
	return digitMatches(rest[len(rest)-1], weightedSum(span, 0))
}

func assemble(format Format, x *extraction) *Document {
	d := &Document{
		format:         format,
		documentType:   trimFiller(x.values[fieldDocumentType]),
		issuingState:   trimFiller(x.values[fieldIssuingState]),
		documentNumber: trimFiller(x.values[fieldDocumentNumber]),
		optionalData1:  trimFiller(x.values[fieldOptionalData1]),
		optionalData2:  trimFiller(x.values[fieldOptionalData2]),
		nationality:    trimFiller(x.values[fieldNationality]),
	}
	switch x.values[fieldSex] {
	case "M":
		d.gender = GenderMale
	case "F":
		d.gender = GenderFemale
	case "X":
		d.gender = GenderNonSpecific
	}
	if v, ok := x.values[fieldNames]; ok {
		d.surname, d.givenNames = splitNames(v)
	} else {
		d.surname = fillerToSpace(trimFiller(x.values[fieldSurname]))
		d.givenNames = fillerToSpace(trimFiller(x.values[fieldGivenNames]))
	}
	return d
}

// joinGivenNames renders French ID given names in the "GIVEN1, GIVEN2" form.
// The card has no reliable separator convention, so a double space is taken
// as the boundary between two given names. This is a heuristic.
func joinGivenNames(d *Document, _ *extraction) {
	d.givenNames = strings.ReplaceAll(d.givenNames, "  ", ", ")
}

// licenceNumber exposes the first line of a Swiss driving licence (issuing
// authority, serial and language code) as optional data.
func licenceNumber(d *Document, x *extraction) {
	d.optionalData1 = x.values[fieldAuthority] + x.values[fieldSerial] + x.values[fieldLanguage]
}
