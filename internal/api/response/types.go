package response

import (
	"time"

	"github.com/mcoot/puzzleboard/internal/games"
	"github.com/mcoot/puzzleboard/internal/model"
	"github.com/mcoot/puzzleboard/internal/services/extractor"
)

// Health is the health check body
type Health struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

// LeaderboardEntry is one leaderboard row
type LeaderboardEntry struct {
	Rank        int     `json:"rank"`
	Player      string  `json:"player"`
	Points      float64 `json:"points"`
	Wins        int     `json:"wins"`
	GamesPlayed int     `json:"games_played"`
}

// GameStanding is one player's row in a game table
type GameStanding struct {
	Player       string   `json:"player"`
	Points       float64  `json:"points"`
	Plays        int      `json:"plays"`
	AverageValue float64  `json:"average_value"`
	Average      string   `json:"average"`
	BestValue    int      `json:"best_value"`
	Best         string   `json:"best"`
	AverageCEO   *float64 `json:"average_ceo,omitempty"`
	Wins         int      `json:"wins"`
}

// GameReport is the standings table for one game
type GameReport struct {
	Game      string         `json:"game"`
	Metric    string         `json:"metric"`
	Standings []GameStanding `json:"standings"`
}

// WinsEntry counts first places
type WinsEntry struct {
	Player string `json:"player"`
	Wins   int    `json:"wins"`
}

// TimeSummaryEntry aggregates play time
type TimeSummaryEntry struct {
	Player         string  `json:"player"`
	TotalSeconds   int     `json:"total_seconds"`
	Total          string  `json:"total"`
	GamesPlayed    int     `json:"games_played"`
	AverageSeconds float64 `json:"average_seconds"`
}

// Placement is a position within one (game, day) group
type Placement struct {
	Day      string  `json:"day"`
	Game     string  `json:"game"`
	Player   string  `json:"player"`
	Position int     `json:"position"`
	Value    int     `json:"value"`
	Points   float64 `json:"points"`
}

// Report is the leaderboard response
type Report struct {
	Scope       string             `json:"scope"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	Games       []GameReport       `json:"games"`
	Wins        []WinsEntry        `json:"wins"`
	TimeSummary []TimeSummaryEntry `json:"time_summary"`
	Placements  []Placement        `json:"placements,omitempty"`
}

// ReportFromModel converts a model.Report. Placements are only included when
// withPlacements is set.
func ReportFromModel(r *model.Report, withPlacements bool) Report {
	resp := Report{
		Scope:       r.Scope.String(),
		Leaderboard: make([]LeaderboardEntry, len(r.Leaderboard)),
		Games:       make([]GameReport, len(r.Games)),
		Wins:        make([]WinsEntry, len(r.Wins)),
		TimeSummary: make([]TimeSummaryEntry, len(r.TimeSummary)),
	}
	for i, e := range r.Leaderboard {
		resp.Leaderboard[i] = LeaderboardEntry{
			Rank:        e.Rank,
			Player:      string(e.Player),
			Points:      float64(e.Points),
			Wins:        e.Wins,
			GamesPlayed: e.GamesPlayed,
		}
	}
	for i, g := range r.Games {
		resp.Games[i] = GameReportFromModel(g)
	}
	for i, w := range r.Wins {
		resp.Wins[i] = WinsEntry{Player: string(w.Player), Wins: w.Wins}
	}
	for i, t := range r.TimeSummary {
		resp.TimeSummary[i] = TimeSummaryEntry{
			Player:         string(t.Player),
			TotalSeconds:   t.TotalSeconds,
			Total:          games.FormatDuration(t.TotalSeconds),
			GamesPlayed:    t.GamesPlayed,
			AverageSeconds: t.AverageSeconds,
		}
	}
	if withPlacements {
		resp.Placements = make([]Placement, len(r.Placements))
		for i, p := range r.Placements {
			resp.Placements[i] = Placement{
				Day:      string(p.Day),
				Game:     string(p.Game),
				Player:   string(p.Player),
				Position: p.Position,
				Value:    p.Value,
				Points:   float64(p.Points),
			}
		}
	}
	return resp
}

// GameReportFromModel converts a model.GameReport
func GameReportFromModel(g model.GameReport) GameReport {
	resp := GameReport{
		Game:      string(g.Game),
		Metric:    string(g.Metric),
		Standings: make([]GameStanding, len(g.Standings)),
	}
	for i, s := range g.Standings {
		resp.Standings[i] = GameStanding{
			Player:       string(s.Player),
			Points:       float64(s.Points),
			Plays:        s.Plays,
			AverageValue: s.AverageValue,
			Average:      games.FormatAverage(g.Metric, s.AverageValue),
			BestValue:    s.BestValue,
			Best:         games.FormatValue(g.Metric, s.BestValue),
			AverageCEO:   s.AverageCEO,
			Wins:         s.Wins,
		}
	}
	return resp
}

// Record is one extracted result
type Record struct {
	Day        string    `json:"day"`
	Player     string    `json:"player"`
	Game       string    `json:"game"`
	GameNumber int       `json:"game_number"`
	Value      int       `json:"value"`
	Display    string    `json:"display"`
	Metric     string    `json:"metric"`
	CEOPercent *int      `json:"ceo_percent,omitempty"`
	PostedAt   time.Time `json:"posted_at"`
}

// RecordFromModel converts a model.ScoreRecord
func RecordFromModel(r model.ScoreRecord) Record {
	return Record{
		Day:        string(r.Day),
		Player:     string(r.Player),
		Game:       string(r.Game),
		GameNumber: r.GameNumber,
		Value:      r.Value,
		Display:    games.FormatValue(r.Metric, r.Value),
		Metric:     string(r.Metric),
		CEOPercent: r.CEOPercent,
		PostedAt:   r.PostedAt,
	}
}

// RecordsFromModel converts a slice of records
func RecordsFromModel(records []model.ScoreRecord) []Record {
	resp := make([]Record, len(records))
	for i, r := range records {
		resp[i] = RecordFromModel(r)
	}
	return resp
}

// Days lists the days holding records, newest first
type Days struct {
	Days []string `json:"days"`
}

// DaysFromModel converts a day list
func DaysFromModel(days []model.Day) Days {
	resp := Days{Days: make([]string, len(days))}
	for i, d := range days {
		resp.Days[i] = string(d)
	}
	return resp
}

// Game describes a catalogue entry
type Game struct {
	Name          string `json:"name"`
	Metric        string `json:"metric"`
	LowerIsBetter bool   `json:"lower_is_better"`
}

// GamesFromCatalogue lists the catalogue in order
func GamesFromCatalogue(c *games.Catalogue) []Game {
	templates := c.Templates()
	resp := make([]Game, len(templates))
	for i, t := range templates {
		resp[i] = Game{
			Name:          string(t.Game),
			Metric:        string(t.Metric),
			LowerIsBetter: t.Direction == games.LowerIsBetter,
		}
	}
	return resp
}

// Import summarises one ingested chat export
type Import struct {
	ID               string    `json:"id"`
	Source           string    `json:"source"`
	LinesScanned     int       `json:"lines_scanned"`
	RecordsExtracted int       `json:"records_extracted"`
	RecordsStored    int       `json:"records_stored"`
	CreatedAt        time.Time `json:"created_at"`
}

// ImportFromModel converts a model.Import
func ImportFromModel(imp *model.Import) Import {
	return Import{
		ID:               string(imp.ID),
		Source:           imp.Source,
		LinesScanned:     imp.LinesScanned,
		RecordsExtracted: imp.RecordsExtracted,
		RecordsStored:    imp.RecordsStored,
		CreatedAt:        imp.CreatedAt,
	}
}

// ImportResult is the response to an upload
type ImportResult struct {
	Import Import          `json:"import"`
	Stats  extractor.Stats `json:"stats"`
}
