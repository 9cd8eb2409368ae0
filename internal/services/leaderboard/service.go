// Package leaderboard answers report queries over stored records.
package leaderboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/mcoot/puzzleboard/internal/dates"
	"github.com/mcoot/puzzleboard/internal/games"
	"github.com/mcoot/puzzleboard/internal/model"
	"github.com/mcoot/puzzleboard/internal/services/ranking"
	"github.com/mcoot/puzzleboard/internal/storage"
)

// ServiceInterface defines the leaderboard queries
type ServiceInterface interface {
	ResolveScope(input string) (model.Scope, error)
	Report(ctx context.Context, scope model.Scope) (*model.Report, error)
	Days(ctx context.Context) ([]model.Day, error)
	Records(ctx context.Context, day, game string) ([]model.ScoreRecord, error)
}

// Service ranks the records held in storage
type Service struct {
	storage   storage.Storage
	ranking   *ranking.Service
	catalogue *games.Catalogue
	dates     *dates.Parser
}

var _ ServiceInterface = (*Service)(nil)

// New creates a new leaderboard service
func New(storage storage.Storage, ranking *ranking.Service, catalogue *games.Catalogue, dates *dates.Parser) *Service {
	return &Service{
		storage:   storage,
		ranking:   ranking,
		catalogue: catalogue,
		dates:     dates,
	}
}

// ResolveScope parses a day query: empty or "all" for whole history, a
// YYYY-MM-DD date, or a relative day such as "yesterday"
func (s *Service) ResolveScope(input string) (model.Scope, error) {
	return s.dates.Parse(input)
}

// Report ranks every stored record within the scope
func (s *Service) Report(ctx context.Context, scope model.Scope) (*model.Report, error) {
	records, err := s.storage.ListRecords(ctx, model.RecordFilter{Day: scope.Day})
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return s.ranking.Report(records, scope), nil
}

// Days lists the days holding records, newest first
func (s *Service) Days(ctx context.Context) ([]model.Day, error) {
	return s.storage.ListDays(ctx)
}

// Records lists stored records, optionally narrowed to a day and a game
func (s *Service) Records(ctx context.Context, day, game string) ([]model.ScoreRecord, error) {
	scope, err := s.ResolveScope(day)
	if err != nil {
		return nil, err
	}
	filter := model.RecordFilter{Day: scope.Day}
	if g := strings.TrimSpace(game); g != "" {
		tmpl, ok := s.catalogue.Lookup(model.GameName(g))
		if !ok {
			return nil, fmt.Errorf("%w: %q", model.ErrUnknownGame, g)
		}
		filter.Game = tmpl.Game
	}
	return s.storage.ListRecords(ctx, filter)
}
