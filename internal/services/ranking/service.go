// Package ranking awards points to score records and builds leaderboards.
package ranking

import (
	"cmp"
	"slices"
	"strings"

	"github.com/mcoot/puzzleboard/internal/games"
	"github.com/mcoot/puzzleboard/internal/model"
)

// ServiceInterface defines the ranking operations
type ServiceInterface interface {
	Placements(records []model.ScoreRecord, scope model.Scope) []model.Placement
	Leaderboard(records []model.ScoreRecord, scope model.Scope) []model.LeaderboardEntry
	Report(records []model.ScoreRecord, scope model.Scope) *model.Report
}

// Service ranks players from their score records
type Service struct {
	catalogue *games.Catalogue
	policy    TiePolicy
}

var _ ServiceInterface = (*Service)(nil)

// New creates a new ranking service
func New(catalogue *games.Catalogue, policy TiePolicy) *Service {
	if policy == "" {
		policy = TieSplit
	}
	return &Service{
		catalogue: catalogue,
		policy:    policy,
	}
}

type groupKey struct {
	day  model.Day
	game model.GameName
}

// inScope keeps the first posted record per (day, game, player) for known
// games within the scope. Input order breaks PostedAt ties.
func (s *Service) inScope(records []model.ScoreRecord, scope model.Scope) []model.ScoreRecord {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b model.ScoreRecord) int {
		return a.PostedAt.Compare(b.PostedAt)
	})

	seen := make(map[model.RecordKey]struct{}, len(sorted))
	result := make([]model.ScoreRecord, 0, len(sorted))
	for _, r := range sorted {
		if !scope.IsAllTime() && r.Day != scope.Day {
			continue
		}
		tmpl, ok := s.catalogue.Lookup(r.Game)
		if !ok {
			continue
		}
		r.Game = tmpl.Game
		if _, dup := seen[r.Key()]; dup {
			continue
		}
		seen[r.Key()] = struct{}{}
		result = append(result, r)
	}
	return result
}

// Placements awards points within every (game, day) group of the scope.
// Results are ordered by day, catalogue game order and position.
func (s *Service) Placements(records []model.ScoreRecord, scope model.Scope) []model.Placement {
	return s.placements(s.inScope(records, scope))
}

func (s *Service) placements(records []model.ScoreRecord) []model.Placement {
	groups := make(map[groupKey][]model.ScoreRecord)
	var keys []groupKey
	for _, r := range records {
		k := groupKey{day: r.Day, game: r.Game}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], r)
	}

	order := s.gameOrder()
	slices.SortFunc(keys, func(a, b groupKey) int {
		if c := strings.Compare(string(a.day), string(b.day)); c != 0 {
			return c
		}
		return cmp.Compare(order[a.game], order[b.game])
	})

	var result []model.Placement
	for _, k := range keys {
		tmpl, _ := s.catalogue.Lookup(k.game)
		result = append(result, placeGroup(groups[k], tmpl, s.policy)...)
	}
	return result
}

// Leaderboard sums points per player. Players without points still appear.
func (s *Service) Leaderboard(records []model.ScoreRecord, scope model.Scope) []model.LeaderboardEntry {
	scoped := s.inScope(records, scope)
	return leaderboard(scoped, s.placements(scoped))
}

func leaderboard(records []model.ScoreRecord, placements []model.Placement) []model.LeaderboardEntry {
	byPlayer := make(map[model.PlayerName]*model.LeaderboardEntry)
	entry := func(p model.PlayerName) *model.LeaderboardEntry {
		e, ok := byPlayer[p]
		if !ok {
			e = &model.LeaderboardEntry{Player: p}
			byPlayer[p] = e
		}
		return e
	}

	for _, r := range records {
		entry(r.Player).GamesPlayed++
	}
	for _, p := range placements {
		e := entry(p.Player)
		e.Points += p.Points
		if p.Position == 1 {
			e.Wins++
		}
	}

	result := make([]model.LeaderboardEntry, 0, len(byPlayer))
	for _, e := range byPlayer {
		result = append(result, *e)
	}
	slices.SortFunc(result, func(a, b model.LeaderboardEntry) int {
		if !samePoints(a.Points, b.Points) {
			return cmp.Compare(b.Points, a.Points)
		}
		return strings.Compare(string(a.Player), string(b.Player))
	})

	for i := range result {
		if i > 0 && samePoints(result[i].Points, result[i-1].Points) {
			result[i].Rank = result[i-1].Rank
		} else {
			result[i].Rank = i + 1
		}
	}
	return result
}

// Report builds every table for the scope
func (s *Service) Report(records []model.ScoreRecord, scope model.Scope) *model.Report {
	scoped := s.inScope(records, scope)
	placements := s.placements(scoped)
	if placements == nil {
		placements = []model.Placement{}
	}

	return &model.Report{
		Scope:       scope,
		Leaderboard: leaderboard(scoped, placements),
		Games:       s.gameReports(scoped, placements, scope),
		Wins:        wins(scoped, placements),
		TimeSummary: timeSummary(scoped),
		Placements:  placements,
	}
}

// Days lists the days with records, newest first
func Days(records []model.ScoreRecord) []model.Day {
	seen := make(map[model.Day]struct{})
	days := []model.Day{}
	for _, r := range records {
		if _, ok := seen[r.Day]; ok {
			continue
		}
		seen[r.Day] = struct{}{}
		days = append(days, r.Day)
	}
	slices.SortFunc(days, func(a, b model.Day) int {
		return strings.Compare(string(b), string(a))
	})
	return days
}

func (s *Service) gameOrder() map[model.GameName]int {
	templates := s.catalogue.Templates()
	order := make(map[model.GameName]int, len(templates))
	for i, t := range templates {
		order[t.Game] = i
	}
	return order
}
