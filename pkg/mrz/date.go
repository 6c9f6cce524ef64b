package mrz

import "time"

// ResolveDate turns a YYMMDD field into a calendar date. MRZ years carry two
// digits only: a year up to the current two-digit year belongs to the current
// century, anything later to the previous one. The result therefore depends
// on now, which callers pin for reproducible output.
func ResolveDate(yymmdd string, now time.Time) (time.Time, bool) {
	if len(yymmdd) != 6 {
		return time.Time{}, false
	}
	var parts [3]int
	for i := 0; i < 6; i++ {
		c := yymmdd[i]
		if c < '0' || c > '9' {
			return time.Time{}, false
		}
		parts[i/2] = parts[i/2]*10 + int(c-'0')
	}
	yy, mm, dd := parts[0], parts[1], parts[2]

	current := now.Year()
	decade := current % 100
	year := current - decade + yy
	if yy > decade {
		year -= 100
	}

	t := time.Date(year, time.Month(mm), dd, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != mm || t.Day() != dd {
		return time.Time{}, false
	}
	return t, true
}

// correctExpiry moves an expiry that resolved before the birth date into the
// next century.
func correctExpiry(expiry, birth time.Time) time.Time {
	if expiry.Before(birth) {
		return expiry.AddDate(100, 0, 0)
	}
	return expiry
}
