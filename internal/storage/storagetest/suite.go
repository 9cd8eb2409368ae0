// Package storagetest holds the behaviour every storage implementation shares.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/puzzleboard/internal/model"
	"github.com/mcoot/puzzleboard/internal/storage"
)

// Suite runs the storage contract against a fresh store per test
type Suite struct {
	suite.Suite
	NewStorage func(t *testing.T) storage.Storage

	store storage.Storage
	ctx   context.Context
	base  time.Time
}

func (s *Suite) SetupTest() {
	s.store = s.NewStorage(s.T())
	s.ctx = context.Background()
	s.base = time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC)
}

func (s *Suite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

func (s *Suite) record(day model.Day, player model.PlayerName, game model.GameName, value int, minute int) model.ScoreRecord {
	return model.ScoreRecord{
		Day:        day,
		Player:     player,
		Game:       game,
		GameNumber: 100,
		Value:      value,
		Metric:     model.MetricTime,
		PostedAt:   day.Time().Add(8*time.Hour + time.Duration(minute)*time.Minute),
	}
}

func (s *Suite) TestSaveAndListRecords() {
	ceo := 7
	withCEO := s.record("2025-03-12", "Alice", "Zip", 30, 1)
	withCEO.CEOPercent = &ceo
	records := []model.ScoreRecord{
		withCEO,
		s.record("2025-03-12", "Bob", "Zip", 40, 2),
		s.record("2025-03-13", "Alice", "Tango", 60, 3),
	}

	stored, err := s.store.SaveRecords(s.ctx, records)
	s.Require().NoError(err)
	s.Equal(3, stored)

	listed, err := s.store.ListRecords(s.ctx, model.RecordFilter{})
	s.Require().NoError(err)
	s.Equal(records, listed)
}

func (s *Suite) TestSaveRecordsKeepsFirstResult() {
	first := s.record("2025-03-12", "Alice", "Zip", 30, 1)
	later := s.record("2025-03-12", "Alice", "Zip", 10, 5)

	stored, err := s.store.SaveRecords(s.ctx, []model.ScoreRecord{later, first})
	s.Require().NoError(err)
	s.Equal(1, stored)

	stored, err = s.store.SaveRecords(s.ctx, []model.ScoreRecord{first, later})
	s.Require().NoError(err)
	s.Equal(0, stored)

	listed, err := s.store.ListRecords(s.ctx, model.RecordFilter{})
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Equal(30, listed[0].Value)
}

func (s *Suite) TestSaveRecordsReplacesLaterPostedResult() {
	first := s.record("2025-03-12", "Alice", "Zip", 30, 1)
	later := s.record("2025-03-12", "Alice", "Zip", 10, 5)

	stored, err := s.store.SaveRecords(s.ctx, []model.ScoreRecord{later})
	s.Require().NoError(err)
	s.Equal(1, stored)

	stored, err = s.store.SaveRecords(s.ctx, []model.ScoreRecord{first})
	s.Require().NoError(err)
	s.Equal(1, stored)

	listed, err := s.store.ListRecords(s.ctx, model.RecordFilter{})
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Equal(30, listed[0].Value)
	s.True(first.PostedAt.Equal(listed[0].PostedAt))

	days, err := s.store.ListDays(s.ctx)
	s.Require().NoError(err)
	s.Equal([]model.Day{"2025-03-12"}, days)
}

func (s *Suite) TestListRecordsFilters() {
	_, err := s.store.SaveRecords(s.ctx, []model.ScoreRecord{
		s.record("2025-03-12", "Alice", "Zip", 30, 1),
		s.record("2025-03-12", "Alice", "Tango", 50, 2),
		s.record("2025-03-13", "Bob", "Zip", 40, 3),
	})
	s.Require().NoError(err)

	byDay, err := s.store.ListRecords(s.ctx, model.RecordFilter{Day: "2025-03-12"})
	s.Require().NoError(err)
	s.Len(byDay, 2)

	byGame, err := s.store.ListRecords(s.ctx, model.RecordFilter{Game: "Zip"})
	s.Require().NoError(err)
	s.Len(byGame, 2)

	both, err := s.store.ListRecords(s.ctx, model.RecordFilter{Day: "2025-03-13", Game: "Zip"})
	s.Require().NoError(err)
	s.Require().Len(both, 1)
	s.Equal(model.PlayerName("Bob"), both[0].Player)

	none, err := s.store.ListRecords(s.ctx, model.RecordFilter{Day: "2024-01-01"})
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *Suite) TestListDays() {
	days, err := s.store.ListDays(s.ctx)
	s.Require().NoError(err)
	s.Empty(days)

	_, err = s.store.SaveRecords(s.ctx, []model.ScoreRecord{
		s.record("2025-03-12", "Alice", "Zip", 30, 1),
		s.record("2025-03-14", "Alice", "Zip", 30, 2),
		s.record("2025-03-13", "Bob", "Zip", 40, 3),
		s.record("2025-03-13", "Alice", "Zip", 40, 4),
	})
	s.Require().NoError(err)

	days, err = s.store.ListDays(s.ctx)
	s.Require().NoError(err)
	s.Equal([]model.Day{"2025-03-14", "2025-03-13", "2025-03-12"}, days)
}

func (s *Suite) TestImports() {
	older := &model.Import{ID: "imp-1", Source: "chat.txt", LinesScanned: 10, RecordsExtracted: 4, RecordsStored: 3, CreatedAt: s.base}
	newer := &model.Import{ID: "imp-2", Source: "upload", LinesScanned: 5, RecordsExtracted: 1, RecordsStored: 0, CreatedAt: s.base.Add(time.Hour)}
	s.Require().NoError(s.store.SaveImport(s.ctx, older))
	s.Require().NoError(s.store.SaveImport(s.ctx, newer))

	got, err := s.store.GetImport(s.ctx, "imp-1")
	s.Require().NoError(err)
	s.Equal(older, got)

	all, err := s.store.ListImports(s.ctx, 0)
	s.Require().NoError(err)
	s.Equal([]*model.Import{newer, older}, all)

	limited, err := s.store.ListImports(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal([]*model.Import{newer}, limited)
}

func (s *Suite) TestGetImportNotFound() {
	_, err := s.store.GetImport(s.ctx, "missing")
	s.ErrorIs(err, model.ErrImportNotFound)
}

func (s *Suite) TestPing() {
	s.NoError(s.store.Ping(s.ctx))
}
