package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

// AgeSuite covers the date arithmetic behind the derived is_adult and expired
// flags of a decoded document.
type AgeSuite struct {
	suite.Suite
}

func TestAgeSuite(t *testing.T) {
	suite.Run(t, new(AgeSuite))
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *AgeSuite) TestIsOver18() {
	birth := day(2000, 1, 15)

	s.Run("exactly 18th birthday", func() {
		s.True(IsOver18(birth, day(2018, 1, 15)))
	})

	s.Run("last second before 18th birthday", func() {
		s.False(IsOver18(birth, time.Date(2018, 1, 14, 23, 59, 59, 0, time.UTC)))
	})

	s.Run("leap day birth becomes adult on March 1st of a common year", func() {
		leap := day(2000, 2, 29)
		s.False(IsOver18(leap, day(2018, 2, 28)))
		s.True(IsOver18(leap, day(2018, 3, 1)))
	})

	s.Run("timezones are normalized to UTC", func() {
		pst := time.FixedZone("PST", -8*60*60)
		s.True(IsOver18(time.Date(2000, 1, 15, 0, 0, 0, 0, pst), time.Date(2018, 1, 15, 8, 0, 0, 0, time.UTC)))
	})
}

func (s *AgeSuite) TestAgeAt() {
	tests := []struct {
		name  string
		birth time.Time
		now   time.Time
		want  int
	}{
		{"day before birthday", day(1974, 8, 12), day(2025, 8, 11), 50},
		{"on birthday", day(1974, 8, 12), day(2025, 8, 12), 51},
		{"born later in the same year", day(2025, 12, 1), day(2025, 6, 15), 0},
		{"birth in the future", day(2030, 1, 1), day(2025, 6, 15), 0},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.Equal(tt.want, AgeAt(tt.birth, tt.now))
		})
	}
}

func (s *AgeSuite) TestIsExpired() {
	expiry := day(2012, 4, 15)

	s.Run("valid through the expiry day", func() {
		s.False(IsExpired(expiry, time.Date(2012, 4, 15, 23, 59, 0, 0, time.UTC)))
	})

	s.Run("expired the day after", func() {
		s.True(IsExpired(expiry, day(2012, 4, 16)))
	})

	s.Run("future expiry", func() {
		s.False(IsExpired(day(2070, 6, 1), day(2025, 6, 15)))
	})
}
