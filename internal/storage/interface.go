package storage

import (
	"context"
	"slices"
	"strings"

	"github.com/mcoot/puzzleboard/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Record operations

	// SaveRecords stores records, keeping the earliest posted result for
	// each (day, game, player). It returns how many records were new or
	// replaced a later posted result.
	SaveRecords(ctx context.Context, records []model.ScoreRecord) (int, error)
	// ListRecords returns the matching records in chronological order
	ListRecords(ctx context.Context, filter model.RecordFilter) ([]model.ScoreRecord, error)
	// ListDays returns the days holding records, newest first
	ListDays(ctx context.Context) ([]model.Day, error)

	// Import operations
	SaveImport(ctx context.Context, imp *model.Import) error
	GetImport(ctx context.Context, id model.ImportID) (*model.Import, error)
	// ListImports returns up to limit imports, newest first. A limit of
	// zero or less returns all of them.
	ListImports(ctx context.Context, limit int) ([]*model.Import, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}

// Chronological returns a copy of records ordered by posting time. Records
// posted at the same moment keep their relative order.
func Chronological(records []model.ScoreRecord) []model.ScoreRecord {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b model.ScoreRecord) int {
		return a.PostedAt.Compare(b.PostedAt)
	})
	return sorted
}

// Earliest returns records in posting order with only the first posted
// result for each (day, game, player).
func Earliest(records []model.ScoreRecord) []model.ScoreRecord {
	seen := make(map[model.RecordKey]struct{}, len(records))
	result := make([]model.ScoreRecord, 0, len(records))
	for _, r := range Chronological(records) {
		if _, ok := seen[r.Key()]; ok {
			continue
		}
		seen[r.Key()] = struct{}{}
		result = append(result, r)
	}
	return result
}

// SortRecords orders records by posting time, then day, game and player
func SortRecords(records []model.ScoreRecord) {
	slices.SortFunc(records, func(a, b model.ScoreRecord) int {
		if c := a.PostedAt.Compare(b.PostedAt); c != 0 {
			return c
		}
		if c := strings.Compare(string(a.Day), string(b.Day)); c != 0 {
			return c
		}
		if c := strings.Compare(string(a.Game), string(b.Game)); c != 0 {
			return c
		}
		return strings.Compare(string(a.Player), string(b.Player))
	})
}

// SortImports orders imports newest first
func SortImports(imports []*model.Import) {
	slices.SortFunc(imports, func(a, b *model.Import) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(string(a.ID), string(b.ID))
	})
}

// SortDays orders days newest first
func SortDays(days []model.Day) {
	slices.SortFunc(days, func(a, b model.Day) int {
		return strings.Compare(string(b), string(a))
	})
}
