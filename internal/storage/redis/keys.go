package redis

import (
	"fmt"

	"github.com/mcoot/puzzleboard/internal/model"
)

// Key prefix for all leaderboard data
const keyPrefix = "puzzleboard"

// recordKey returns the Redis key for the single result of a player on a day
func recordKey(k model.RecordKey) string {
	return fmt.Sprintf("%s:record:%s:%s:%s", keyPrefix, k.Day, k.Game, k.Player)
}

// recordsIndexKey returns the Redis key for the SET of all record keys
func recordsIndexKey() string {
	return fmt.Sprintf("%s:idx:records", keyPrefix)
}

// dayIndexKey returns the Redis key for the SET of record keys on a day
func dayIndexKey(day model.Day) string {
	return fmt.Sprintf("%s:idx:day:%s", keyPrefix, day)
}

// daysKey returns the Redis key for the SET of days holding records
func daysKey() string {
	return fmt.Sprintf("%s:idx:days", keyPrefix)
}

// importKey returns the Redis key for an Import
func importKey(id model.ImportID) string {
	return fmt.Sprintf("%s:import:%s", keyPrefix, id)
}

// importsIndexKey returns the Redis key for the ZSET of imports by creation time
func importsIndexKey() string {
	return fmt.Sprintf("%s:idx:imports", keyPrefix)
}
