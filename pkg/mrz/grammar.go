package mrz

// charClass restricts the characters a field may hold.
type charClass uint8

const (
	classDigit charClass = iota + 1
	classDigitFiller
	classAlpha
	classAlphaFiller
	classAlnumFiller
	classFiller
	classSex
)

func (c charClass) allows(b byte) bool {
	isDigit := b >= '0' && b <= '9'
	isLetter := b >= 'A' && b <= 'Z'
	switch c {
	case classDigit:
		return isDigit
	case classDigitFiller:
		return isDigit || b == Filler
	case classAlpha:
		return isLetter
	case classAlphaFiller:
		return isLetter || b == Filler
	case classAlnumFiller:
		return isDigit || isLetter || b == Filler
	case classFiller:
		return b == Filler
	case classSex:
		return b == 'M' || b == 'F' || b == 'X' || b == Filler
	}
	return false
}

type fieldName string

const (
	fieldDocumentType   fieldName = "document type"
	fieldIssuingState   fieldName = "issuing state"
	fieldDocumentNumber fieldName = "document number"
	fieldOptionalData1  fieldName = "optional data 1"
	fieldOptionalData2  fieldName = "optional data 2"
	fieldBirthDate      fieldName = "birth date"
	fieldSex            fieldName = "sex"
	fieldExpirationDate fieldName = "expiration date"
	fieldNationality    fieldName = "nationality"
	fieldNames          fieldName = "names"
	fieldSurname        fieldName = "surname"
	fieldGivenNames     fieldName = "given names"
	fieldOverall        fieldName = "overall"
	fieldAuthority      fieldName = "issuing authority"
	fieldSerial         fieldName = "serial number"
	fieldLanguage       fieldName = "language"
	fieldPadding        fieldName = "padding"
)

// field is one fixed-width entry of a layout.
type field struct {
	name  fieldName
	width int
	class charClass

	// lead restricts the first character; literal pins the whole value.
	lead    string
	literal string

	// names marks a combined "SURNAME<<GIVEN<NAMES" span.
	names bool

	// check is the class of the adjacent check digit, zero when there is none.
	check charClass
	// overflow names the field a long value continues into when its check
	// digit column holds the filler.
	overflow fieldName
}

type line []field

func (l line) width() int {
	w := 0
	for _, f := range l {
		w += f.width
		if f.check != 0 {
			w++
		}
	}
	return w
}

// layout is the complete grammar of a format.
type layout struct {
	lines   []line
	overall []contribution
	post    func(d *Document, x *extraction)
}

const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func documentType(lead string) field {
	return field{name: fieldDocumentType, width: 2, class: classAlnumFiller, lead: lead}
}

func names(width int) field {
	return field{name: fieldNames, width: width, class: classAlphaFiller, lead: letters, names: true}
}

var (
	issuingState = field{name: fieldIssuingState, width: 3, class: classAlphaFiller}
	nationality  = field{name: fieldNationality, width: 3, class: classAlphaFiller}
	number       = field{name: fieldDocumentNumber, width: 9, class: classAlnumFiller, check: classDigit}
	birthDate    = field{name: fieldBirthDate, width: 6, class: classDigit, check: classDigit}
	sex          = field{name: fieldSex, width: 1, class: classSex}
	expiryDate   = field{name: fieldExpirationDate, width: 6, class: classDigitFiller, check: classDigit}
	overall      = field{name: fieldOverall, width: 1, class: classDigit}
)

func optional(name fieldName, width int) field {
	return field{name: name, width: width, class: classAlnumFiller}
}

func padding(width int) field {
	return field{name: fieldPadding, width: width, class: classFiller}
}

// layouts is the read-only grammar table, keyed by format.
var layouts = map[Format]layout{
	FormatTD1: {
		lines: []line{
			{
				documentType("ACI"),
				issuingState,
				{name: fieldDocumentNumber, width: 9, class: classAlnumFiller, check: classDigitFiller, overflow: fieldOptionalData1},
				optional(fieldOptionalData1, 15),
			},
			{birthDate, sex, expiryDate, nationality, optional(fieldOptionalData2, 11), overall},
			{names(30)},
		},
		overall: []contribution{
			{fieldDocumentNumber, true},
			{fieldOptionalData1, false},
			{fieldBirthDate, true},
			{fieldExpirationDate, true},
			{fieldOptionalData2, false},
		},
	},
	FormatTD2: {
		lines: []line{
			{documentType("ACI"), issuingState, names(31)},
			{number, nationality, birthDate, sex, expiryDate, optional(fieldOptionalData1, 7), overall},
		},
		overall: []contribution{
			{fieldDocumentNumber, true},
			{fieldBirthDate, true},
			{fieldExpirationDate, true},
			{fieldOptionalData1, false},
		},
	},
	FormatTD3: {
		lines: []line{
			{documentType("P"), issuingState, names(39)},
			{
				number, nationality, birthDate, sex, expiryDate,
				{name: fieldOptionalData1, width: 14, class: classAlnumFiller, check: classDigitFiller},
				overall,
			},
		},
		overall: []contribution{
			{fieldDocumentNumber, true},
			{fieldBirthDate, true},
			{fieldExpirationDate, true},
			{fieldOptionalData1, true},
		},
	},
	FormatMRVA: {
		lines: []line{
			{documentType("V"), issuingState, names(39)},
			{number, nationality, birthDate, sex, expiryDate, optional(fieldOptionalData1, 16)},
		},
	},
	FormatMRVB: {
		lines: []line{
			{documentType("V"), issuingState, names(31)},
			{number, nationality, birthDate, sex, expiryDate, optional(fieldOptionalData1, 8)},
		},
	},
	FormatIDFRA: {
		lines: []line{
			{
				{name: fieldDocumentType, width: 2, literal: "ID"},
				{name: fieldIssuingState, width: 3, literal: "FRA"},
				{name: fieldSurname, width: 25, class: classAlphaFiller, lead: letters},
				optional(fieldOptionalData1, 6),
			},
			{
				{name: fieldDocumentNumber, width: 12, class: classAlnumFiller, check: classDigit},
				{name: fieldGivenNames, width: 14, class: classAlphaFiller},
				birthDate, sex, overall,
			},
		},
		overall: []contribution{
			{fieldDocumentType, false},
			{fieldIssuingState, false},
			{fieldSurname, false},
			{fieldOptionalData1, false},
			{fieldDocumentNumber, true},
			{fieldGivenNames, false},
			{fieldBirthDate, true},
			{fieldSex, false},
		},
		post: joinGivenNames,
	},
	FormatSDL: {
		lines: []line{
			{
				{name: fieldAuthority, width: 3, class: classAlpha},
				{name: fieldSerial, width: 3, class: classDigit},
				{name: fieldLanguage, width: 1, class: classAlpha},
				padding(2),
			},
			{
				{name: fieldDocumentType, width: 2, literal: "FA"},
				{name: fieldIssuingState, width: 3, literal: "CHE"},
				{name: fieldDocumentNumber, width: 12, class: classDigit},
				padding(2),
				{name: fieldBirthDate, width: 6, class: classDigit},
				padding(5),
			},
			{names(30)},
		},
		post: licenceNumber,
	},
}
