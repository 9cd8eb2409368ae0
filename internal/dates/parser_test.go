package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/puzzleboard/internal/dependencies/mocks"
	"github.com/mcoot/puzzleboard/internal/model"
)

type ParserSuite struct {
	suite.Suite
	clock  *mocks.MockClock
	parser *Parser
}

func TestParserSuite(t *testing.T) {
	suite.Run(t, new(ParserSuite))
}

func (s *ParserSuite) SetupTest() {
	// Wednesday
	s.clock = mocks.NewMockClock(time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC))
	s.parser = NewParser(s.clock)
}

func (s *ParserSuite) TestStrictDay() {
	day, err := s.parser.ParseDay("2025-02-28")
	s.Require().NoError(err)
	s.Equal(model.Day("2025-02-28"), day)
}

func (s *ParserSuite) TestRelativeDays() {
	cases := map[string]model.Day{
		"today":     "2025-03-12",
		"Today":     "2025-03-12",
		"yesterday": "2025-03-11",
		"tomorrow":  "2025-03-13",
	}
	for in, want := range cases {
		day, err := s.parser.ParseDay(in)
		s.Require().NoError(err, in)
		s.Equal(want, day, in)
	}
}

func (s *ParserSuite) TestRelativeDaysWithCounts() {
	cases := map[string]model.Day{
		"2 days ago":  "2025-03-10",
		"10 days ago": "2025-03-02",
		"1 week ago":  "2025-03-05",
	}
	for in, want := range cases {
		day, err := s.parser.ParseDay(in)
		s.Require().NoError(err, in)
		s.Equal(want, day, in)
	}
}

func (s *ParserSuite) TestInvalidDays() {
	for _, in := range []string{"2025-13-01", "2025-02-30", "12/03/2025", "20250312", "not a day", "today-ish"} {
		_, err := s.parser.ParseDay(in)
		s.ErrorIs(err, model.ErrInvalidDay, in)
	}
}

func (s *ParserSuite) TestParseScope() {
	scope, err := s.parser.Parse("")
	s.Require().NoError(err)
	s.True(scope.IsAllTime())

	scope, err = s.parser.Parse("ALL")
	s.Require().NoError(err)
	s.True(scope.IsAllTime())

	scope, err = s.parser.Parse(" 2025-03-01 ")
	s.Require().NoError(err)
	s.Equal(model.Scope{Day: "2025-03-01"}, scope)

	_, err = s.parser.Parse("2025-3-1")
	s.ErrorIs(err, model.ErrInvalidDay)
}

func (s *ParserSuite) TestTodayFollowsClock() {
	s.Equal(model.Day("2025-03-12"), s.parser.Today())

	s.clock.Advance(12 * time.Hour)
	s.Equal(model.Day("2025-03-13"), s.parser.Today())
}
