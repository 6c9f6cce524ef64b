package mrz

import (
	"strings"
	"unicode"
)

// Format identifies one of the supported MRZ layouts.
type Format int

const (
	FormatUnknown Format = iota
	FormatTD1
	FormatTD2
	FormatTD3
	FormatMRVA
	FormatMRVB
	FormatIDFRA
	FormatSDL
)

// String returns the conventional name of the format ("TD1", "MRVA", ...).
func (f Format) String() string {
	switch f {
	case FormatTD1:
		return "TD1"
	case FormatTD2:
		return "TD2"
	case FormatTD3:
		return "TD3"
	case FormatMRVA:
		return "MRVA"
	case FormatMRVB:
		return "MRVB"
	case FormatIDFRA:
		return "IDFRA"
	case FormatSDL:
		return "SDL"
	default:
		return "Unknown"
	}
}

// MarshalText renders the format by name so JSON payloads stay readable.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// LineWidths returns the width of each physical line, or nil for FormatUnknown.
func (f Format) LineWidths() []int {
	l, ok := layouts[f]
	if !ok {
		return nil
	}
	widths := make([]int, len(l.lines))
	for i, line := range l.lines {
		widths[i] = line.width()
	}
	return widths
}

// Lines returns the number of physical lines of the format.
func (f Format) Lines() int {
	return len(f.LineWidths())
}

// Formats lists every supported format in a stable order.
func Formats() []Format {
	return []Format{FormatTD1, FormatTD2, FormatTD3, FormatMRVA, FormatMRVB, FormatIDFRA, FormatSDL}
}

// Significant character counts used by the detector.
const (
	lengthTD1  = 3 * 30
	lengthTD2  = 2 * 36
	lengthTD3  = 2 * 44
	lengthSDL  = 9 + 30 + 30
	prefixFRA  = "IDFRA"
	prefixVisa = 'V'
	prefixTD3  = 'P'
)

// normalize trims surrounding whitespace, drops carriage returns and
// upper-cases the text. Line feeds are kept for the extractor.
func normalize(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "\r", "")
	return strings.ToUpper(text)
}

// significantLength counts the non-control characters of text.
func significantLength(text string) int {
	n := 0
	for _, r := range text {
		if !unicode.IsControl(r) {
			n++
		}
	}
	return n
}

// Detect classifies text into one of the supported formats.
func Detect(text string) (Format, error) {
	return detect(normalize(text))
}

// detect expects normalized text. Length narrows the candidates first; the
// leading characters only break ties between same-sized layouts.
func detect(text string) (Format, error) {
	switch significantLength(text) {
	case lengthTD1:
		return FormatTD1, nil
	case lengthTD2:
		switch {
		case text[0] == prefixVisa:
			return FormatMRVB, nil
		case strings.HasPrefix(text, prefixFRA):
			return FormatIDFRA, nil
		default:
			return FormatTD2, nil
		}
	case lengthTD3:
		switch text[0] {
		case prefixVisa:
			return FormatMRVA, nil
		case prefixTD3:
			return FormatTD3, nil
		}
	case lengthSDL:
		return FormatSDL, nil
	}
	return FormatUnknown, &Error{Kind: ErrUnknownFormat}
}
