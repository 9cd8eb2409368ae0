package model

import (
	"fmt"
	"time"
)

// DayLayout is the canonical textual form of a Day
const DayLayout = "2006-01-02"

// Day is a calendar day in YYYY-MM-DD form.
// Lexical order matches chronological order.
type Day string

// DayOf returns the calendar day of t in t's location
func DayOf(t time.Time) Day {
	return Day(t.Format(DayLayout))
}

// ParseDay parses a strict YYYY-MM-DD string
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDay, s)
	}
	return DayOf(t), nil
}

// Time returns midnight UTC of the day
func (d Day) Time() time.Time {
	t, _ := time.Parse(DayLayout, string(d))
	return t
}

// IsZero reports whether the day is unset
func (d Day) IsZero() bool {
	return d == ""
}

// PlayerName identifies a player by their chat display name
type PlayerName string

// GameName is the canonical name of a game in the catalogue
type GameName string

// Metric describes what a game result measures
type Metric string

const (
	MetricTime    Metric = "time"    // Seconds taken
	MetricGuesses Metric = "guesses" // Number of guesses
)

// ChatLine is a single message header parsed from a chat export.
// Continuation lines are folded into Body.
type ChatLine struct {
	Timestamp time.Time
	Sender    PlayerName
	Body      string
}

// ScoreRecord is one player's result for one game on one day
type ScoreRecord struct {
	Day        Day
	Player     PlayerName
	Game       GameName
	GameNumber int
	Value      int // Seconds for MetricTime, guesses for MetricGuesses
	Metric     Metric
	CEOPercent *int // "Top N% of CEOs", when shared
	PostedAt   time.Time
}

// RecordKey identifies the single result a player may hold per game and day
type RecordKey struct {
	Day    Day
	Game   GameName
	Player PlayerName
}

// Key returns the dedupe key for the record
func (r ScoreRecord) Key() RecordKey {
	return RecordKey{Day: r.Day, Game: r.Game, Player: r.Player}
}

// RecordFilter narrows a record listing. Zero fields match everything.
type RecordFilter struct {
	Day  Day
	Game GameName
}

// Matches reports whether the record passes the filter
func (f RecordFilter) Matches(r ScoreRecord) bool {
	if f.Day != "" && r.Day != f.Day {
		return false
	}
	if f.Game != "" && r.Game != f.Game {
		return false
	}
	return true
}

// ImportID uniquely identifies an import of a chat export
type ImportID string

// Import records the outcome of ingesting one chat export
type Import struct {
	ID               ImportID
	Source           string // File name or "upload"
	LinesScanned     int
	RecordsExtracted int
	RecordsStored    int // New records; duplicates of stored results are not counted
	CreatedAt        time.Time
}
