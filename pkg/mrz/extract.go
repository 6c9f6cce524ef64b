package mrz

import "strings"

// extraction holds the raw, untrimmed field values of a matched document.
type extraction struct {
	values map[fieldName]string
	checks map[fieldName]byte
}

// accepts reports whether v satisfies the width, class and structural
// constraints of the field.
func (f field) accepts(v string) bool {
	if len(v) != f.width {
		return false
	}
	if f.literal != "" {
		return v == f.literal
	}
	if f.lead != "" && strings.IndexByte(f.lead, v[0]) < 0 {
		return false
	}
	for i := 0; i < len(v); i++ {
		if !f.class.allows(v[i]) {
			return false
		}
	}
	if f.names && !strings.Contains(v, "<<") {
		return false
	}
	return true
}

// extract walks the layout of format over text. The whole text must be
// consumed; line feeds are only accepted at a physical line boundary, where
// any run of them (blank lines included) is skipped.
func extract(text string, format Format) (*extraction, error) {
	x := &extraction{
		values: make(map[fieldName]string),
		checks: make(map[fieldName]byte),
	}
	mismatch := func(name fieldName) error {
		return &Error{Kind: ErrInvalidFormat, Format: format, Field: string(name)}
	}

	pos := 0
	for i, ln := range layouts[format].lines {
		for i > 0 && pos < len(text) && text[pos] == '\n' {
			pos++
		}
		for _, f := range ln {
			if pos+f.width > len(text) || !f.accepts(text[pos:pos+f.width]) {
				return nil, mismatch(f.name)
			}
			x.values[f.name] = text[pos : pos+f.width]
			pos += f.width

			if f.check == 0 {
				continue
			}
			if pos >= len(text) || !f.check.allows(text[pos]) {
				return nil, mismatch(f.name + " check digit")
			}
			x.checks[f.name] = text[pos]
			pos++
		}
	}
	if pos != len(text) {
		return nil, mismatch("")
	}
	return x, nil
}

// isBlank reports whether v holds nothing but fillers.
func isBlank(v string) bool {
	return strings.Trim(v, string(Filler)) == ""
}

func trimFiller(v string) string {
	return strings.TrimRight(v, string(Filler))
}

func fillerToSpace(v string) string {
	return strings.ReplaceAll(v, string(Filler), " ")
}

// splitNames cuts a combined name span at the first double filler.
func splitNames(v string) (surname, given string) {
	i := strings.Index(v, "<<")
	if i < 0 {
		return fillerToSpace(trimFiller(v)), ""
	}
	surname = fillerToSpace(v[:i])
	given = fillerToSpace(strings.Trim(v[i+2:], string(Filler)))
	return surname, given
}
