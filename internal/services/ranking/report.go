package ranking

import (
	"cmp"
	"slices"
	"strings"

	"github.com/mcoot/puzzleboard/internal/games"
	"github.com/mcoot/puzzleboard/internal/model"
)

type standingAcc struct {
	standing model.GameStanding
	total    int
	ceoTotal int
	ceoCount int
}

// gameReports builds one standings table per game played in the scope, in
// catalogue order. Whole-history tables rank by wins, single days by the
// average result.
func (s *Service) gameReports(records []model.ScoreRecord, placements []model.Placement, scope model.Scope) []model.GameReport {
	reports := []model.GameReport{}
	for _, tmpl := range s.catalogue.Templates() {
		accs := make(map[model.PlayerName]*standingAcc)
		for _, r := range records {
			if r.Game != tmpl.Game {
				continue
			}
			acc, ok := accs[r.Player]
			if !ok {
				acc = &standingAcc{standing: model.GameStanding{Player: r.Player, BestValue: r.Value}}
				accs[r.Player] = acc
			}
			acc.standing.Plays++
			acc.total += r.Value
			acc.standing.BestValue = tmpl.Better(acc.standing.BestValue, r.Value)
			if r.CEOPercent != nil {
				acc.ceoTotal += *r.CEOPercent
				acc.ceoCount++
			}
		}
		if len(accs) == 0 {
			continue
		}

		for _, p := range placements {
			if p.Game != tmpl.Game {
				continue
			}
			acc := accs[p.Player]
			acc.standing.Points += p.Points
			if p.Position == 1 {
				acc.standing.Wins++
			}
		}

		standings := make([]model.GameStanding, 0, len(accs))
		for _, acc := range accs {
			st := acc.standing
			st.AverageValue = float64(acc.total) / float64(st.Plays)
			if acc.ceoCount > 0 {
				avg := float64(acc.ceoTotal) / float64(acc.ceoCount)
				st.AverageCEO = &avg
			}
			standings = append(standings, st)
		}
		sortStandings(standings, tmpl, scope)

		reports = append(reports, model.GameReport{
			Game:      tmpl.Game,
			Metric:    tmpl.Metric,
			Standings: standings,
		})
	}
	return reports
}

func sortStandings(standings []model.GameStanding, tmpl games.Template, scope model.Scope) {
	byAverage := func(a, b model.GameStanding) int {
		if tmpl.Direction == games.HigherIsBetter {
			return cmp.Compare(b.AverageValue, a.AverageValue)
		}
		return cmp.Compare(a.AverageValue, b.AverageValue)
	}
	slices.SortFunc(standings, func(a, b model.GameStanding) int {
		if scope.IsAllTime() {
			if c := cmp.Compare(b.Wins, a.Wins); c != 0 {
				return c
			}
		}
		if c := byAverage(a, b); c != 0 {
			return c
		}
		return strings.Compare(string(a.Player), string(b.Player))
	})
}

// wins counts first places per player across all games
func wins(records []model.ScoreRecord, placements []model.Placement) []model.WinsEntry {
	counts := make(map[model.PlayerName]int)
	for _, r := range records {
		if _, ok := counts[r.Player]; !ok {
			counts[r.Player] = 0
		}
	}
	for _, p := range placements {
		if p.Position == 1 {
			counts[p.Player]++
		}
	}

	result := make([]model.WinsEntry, 0, len(counts))
	for player, n := range counts {
		result = append(result, model.WinsEntry{Player: player, Wins: n})
	}
	slices.SortFunc(result, func(a, b model.WinsEntry) int {
		if c := cmp.Compare(b.Wins, a.Wins); c != 0 {
			return c
		}
		return strings.Compare(string(a.Player), string(b.Player))
	})
	return result
}

// timeSummary totals time-metric results per player, fastest average first
func timeSummary(records []model.ScoreRecord) []model.TimeSummaryEntry {
	byPlayer := make(map[model.PlayerName]*model.TimeSummaryEntry)
	for _, r := range records {
		if r.Metric != model.MetricTime {
			continue
		}
		e, ok := byPlayer[r.Player]
		if !ok {
			e = &model.TimeSummaryEntry{Player: r.Player}
			byPlayer[r.Player] = e
		}
		e.TotalSeconds += r.Value
		e.GamesPlayed++
	}

	result := make([]model.TimeSummaryEntry, 0, len(byPlayer))
	for _, e := range byPlayer {
		e.AverageSeconds = float64(e.TotalSeconds) / float64(e.GamesPlayed)
		result = append(result, *e)
	}
	slices.SortFunc(result, func(a, b model.TimeSummaryEntry) int {
		if c := cmp.Compare(a.AverageSeconds, b.AverageSeconds); c != 0 {
			return c
		}
		return strings.Compare(string(a.Player), string(b.Player))
	})
	return result
}
