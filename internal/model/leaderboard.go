package model

// Points is a leaderboard score. Split ties can produce fractions.
type Points float64

// Scope selects whole history or a single day
type Scope struct {
	Day Day // Empty for whole history
}

// AllTime is the whole-history scope
var AllTime = Scope{}

// IsAllTime reports whether the scope covers the whole history
func (s Scope) IsAllTime() bool {
	return s.Day == ""
}

// String returns "all" or the day
func (s Scope) String() string {
	if s.IsAllTime() {
		return "all"
	}
	return string(s.Day)
}

// LeaderboardEntry is one row of a leaderboard
type LeaderboardEntry struct {
	Rank        int // Equal points share a rank
	Player      PlayerName
	Points      Points
	Wins        int // Number of (game, day) groups placed first
	GamesPlayed int
}

// Placement is a player's position within one (game, day) group
type Placement struct {
	Day      Day
	Game     GameName
	Player   PlayerName
	Position int // 1-based; tied players share the better position
	Value    int
	Points   Points
}

// GameStanding summarises one player's results in one game over a scope
type GameStanding struct {
	Player       PlayerName
	Points       Points
	Plays        int
	AverageValue float64
	BestValue    int
	AverageCEO   *float64 // nil when the player never shared a percentile
	Wins         int
}

// GameReport is the standings table for one game
type GameReport struct {
	Game      GameName
	Metric    Metric
	Standings []GameStanding
}

// TimeSummaryEntry aggregates play time over all timed games
type TimeSummaryEntry struct {
	Player         PlayerName
	TotalSeconds   int
	GamesPlayed    int
	AverageSeconds float64
}

// WinsEntry counts first places across every game
type WinsEntry struct {
	Player PlayerName
	Wins   int
}

// Report is the complete ranking output for a scope
type Report struct {
	Scope       Scope
	Leaderboard []LeaderboardEntry
	Games       []GameReport
	Wins        []WinsEntry
	TimeSummary []TimeSummaryEntry
	Placements  []Placement
}
