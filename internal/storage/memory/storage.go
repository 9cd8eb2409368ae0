package memory

import (
	"context"
	"sync"

	"github.com/mcoot/puzzleboard/internal/model"
	"github.com/mcoot/puzzleboard/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	records map[model.RecordKey]model.ScoreRecord
	days    map[model.Day]int
	imports map[model.ImportID]*model.Import
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		records: make(map[model.RecordKey]model.ScoreRecord),
		days:    make(map[model.Day]int),
		imports: make(map[model.ImportID]*model.Import),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Record operations

func (s *Storage) SaveRecords(ctx context.Context, records []model.ScoreRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := 0
	for _, r := range storage.Earliest(records) {
		key := r.Key()
		if existing, ok := s.records[key]; ok {
			if !r.PostedAt.Before(existing.PostedAt) {
				continue
			}
		} else {
			s.days[r.Day]++
		}
		s.records[key] = r
		stored++
	}
	return stored, nil
}

func (s *Storage) ListRecords(ctx context.Context, filter model.RecordFilter) ([]model.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []model.ScoreRecord{}
	for _, r := range s.records {
		if filter.Matches(r) {
			result = append(result, r)
		}
	}
	storage.SortRecords(result)
	return result, nil
}

func (s *Storage) ListDays(ctx context.Context) ([]model.Day, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	days := make([]model.Day, 0, len(s.days))
	for day := range s.days {
		days = append(days, day)
	}
	storage.SortDays(days)
	return days, nil
}

// Import operations

func (s *Storage) SaveImport(ctx context.Context, imp *model.Import) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *imp
	s.imports[imp.ID] = &cp
	return nil
}

func (s *Storage) GetImport(ctx context.Context, id model.ImportID) (*model.Import, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	imp, ok := s.imports[id]
	if !ok {
		return nil, model.ErrImportNotFound
	}
	cp := *imp
	return &cp, nil
}

func (s *Storage) ListImports(ctx context.Context, limit int) ([]*model.Import, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Import, 0, len(s.imports))
	for _, imp := range s.imports {
		cp := *imp
		result = append(result, &cp)
	}
	storage.SortImports(result)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Lifecycle

func (s *Storage) Ping(ctx context.Context) error {
	return nil
}

func (s *Storage) Close() error {
	return nil
}
