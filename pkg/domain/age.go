package domain

import "time"

// AdultAge is the age of majority used for the is_adult flag.
const AdultAge = 18

// IsOver18 returns true if the person with the given birth date is 18 years old or older
// at the specified reference time. Uses calendar arithmetic (AddDate) for accurate
// birthday-boundary handling.
func IsOver18(birthDate, now time.Time) bool {
	adultAt := birthDate.UTC().AddDate(AdultAge, 0, 0)
	return !now.UTC().Before(adultAt)
}

// AgeAt returns the number of completed years between birthDate and now.
// A birth date after now yields 0.
func AgeAt(birthDate, now time.Time) int {
	b, n := birthDate.UTC(), now.UTC()
	if n.Before(b) {
		return 0
	}
	age := n.Year() - b.Year()
	if n.Before(b.AddDate(age, 0, 0)) {
		age--
	}
	return age
}

// IsExpired reports whether a document expiring at the end of expiry's day is
// no longer valid at now.
func IsExpired(expiry, now time.Time) bool {
	return !now.UTC().Before(expiry.UTC().AddDate(0, 0, 1))
}
