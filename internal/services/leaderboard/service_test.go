package leaderboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/puzzleboard/internal/dates"
	"github.com/mcoot/puzzleboard/internal/dependencies/mocks"
	"github.com/mcoot/puzzleboard/internal/games"
	"github.com/mcoot/puzzleboard/internal/model"
	"github.com/mcoot/puzzleboard/internal/services/ranking"
	"github.com/mcoot/puzzleboard/internal/storage/memory"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	catalogue := games.Default()
	clock := mocks.NewMockClock(time.Date(2025, 3, 13, 12, 0, 0, 0, time.UTC))
	s.storage = memory.New()
	s.service = New(s.storage, ranking.New(catalogue, ranking.TieSplit), catalogue, dates.NewParser(clock))
	s.ctx = context.Background()

	base := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	_, err := s.storage.SaveRecords(s.ctx, []model.ScoreRecord{
		{Day: "2025-03-12", Player: "Alice", Game: "Zip", Value: 20, Metric: model.MetricTime, PostedAt: base},
		{Day: "2025-03-12", Player: "Bob", Game: "Zip", Value: 30, Metric: model.MetricTime, PostedAt: base.Add(time.Minute)},
		{Day: "2025-03-13", Player: "Bob", Game: "Tango", Value: 50, Metric: model.MetricTime, PostedAt: base.Add(24 * time.Hour)},
	})
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestReportAllTime() {
	report, err := s.service.Report(s.ctx, model.AllTime)
	s.Require().NoError(err)

	s.Require().Len(report.Leaderboard, 2)
	s.Equal(model.PlayerName("Bob"), report.Leaderboard[0].Player)
	s.Equal(model.Points(8), report.Leaderboard[0].Points)
}

func (s *ServiceSuite) TestReportForRelativeDay() {
	scope, err := s.service.ResolveScope("yesterday")
	s.Require().NoError(err)
	s.Equal(model.Day("2025-03-12"), scope.Day)

	report, err := s.service.Report(s.ctx, scope)
	s.Require().NoError(err)
	s.Require().Len(report.Leaderboard, 2)
	s.Equal(model.PlayerName("Alice"), report.Leaderboard[0].Player)
}

func (s *ServiceSuite) TestDays() {
	days, err := s.service.Days(s.ctx)
	s.Require().NoError(err)
	s.Equal([]model.Day{"2025-03-13", "2025-03-12"}, days)
}

func (s *ServiceSuite) TestRecords() {
	records, err := s.service.Records(s.ctx, "", "zip")
	s.Require().NoError(err)
	s.Len(records, 2)

	records, err = s.service.Records(s.ctx, "today", "")
	s.Require().NoError(err)
	s.Len(records, 1)

	_, err = s.service.Records(s.ctx, "", "Wordle")
	s.ErrorIs(err, model.ErrUnknownGame)

	_, err = s.service.Records(s.ctx, "13/03/2025", "")
	s.ErrorIs(err, model.ErrInvalidDay)
}
